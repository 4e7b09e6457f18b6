// Package doctree loads a pfostream file into an immutable tree of named nodes.
//
// The reader in package stream only needs four things from a document: a
// node's name, its first child, its next sibling and the text of a named
// field. Everything else about the on-disk syntax stays in this package.
package doctree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrEmptyDocument is returned when a document has no top-level elements
var ErrEmptyDocument = errors.New("document has no top-level elements")

// Node is a named element of the document
type Node struct {
	name     string
	text     string
	attrs    map[string]string
	children []*Node
	parent   *Node
	index    int
}

// Name returns the element name
func (n *Node) Name() string {
	return n.name
}

// Text returns the trimmed character data directly inside the element
func (n *Node) Text() string {
	return n.text
}

// FirstChild returns the first child element, or nil
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// NextSibling returns the following element under the same parent, or nil
func (n *Node) NextSibling() *Node {
	if n == nil || n.parent == nil {
		return nil
	}
	next := n.index + 1
	if next >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[next]
}

// Index returns the position of the node among its siblings
func (n *Node) Index() int {
	return n.index
}

// Children returns the child elements in document order
func (n *Node) Children() []*Node {
	return n.children
}

// Attr returns the value of an attribute
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Field returns the content of the named field. A field is either a child
// element, whose text is the value, or an attribute of the node. Child
// elements win when both exist.
func (n *Node) Field(name string) (string, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c.text, true
		}
	}
	return n.Attr(name)
}

// Document is a parsed stream. Its top-level elements are the children of an
// unnamed root.
type Document struct {
	root *Node
}

// Root returns the unnamed node holding the top-level elements
func (d *Document) Root() *Node {
	return d.root
}

// Len returns the number of top-level elements
func (d *Document) Len() int {
	return len(d.root.children)
}

// Parse builds a document from r
func Parse(r io.Reader) (*Document, error) {
	root := &Node{}
	current := root
	var text strings.Builder
	texts := []*strings.Builder{&text}

	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				name:   t.Name.Local,
				parent: current,
				index:  len(current.children),
			}
			if len(t.Attr) > 0 {
				node.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.attrs[a.Name.Local] = a.Value
				}
			}
			current.children = append(current.children, node)
			current = node
			texts = append(texts, &strings.Builder{})
		case xml.EndElement:
			top := texts[len(texts)-1]
			current.text = strings.TrimSpace(top.String())
			texts = texts[:len(texts)-1]
			current = current.parent
		case xml.CharData:
			texts[len(texts)-1].Write(t)
		}
	}

	if current != root {
		return nil, fmt.Errorf("failed to parse document: unclosed element %q", current.name)
	}
	if len(root.children) == 0 {
		return nil, ErrEmptyDocument
	}
	return &Document{root: root}, nil
}

// Load reads and parses the file at path. Files ending in .zst are
// decompressed first.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	return Parse(r)
}
