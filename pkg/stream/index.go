package stream

import (
	"github.com/ssargent/pfostream/pkg/doctree"
)

// ContainerIndex records the position of every container of each kind. It is
// built with one scan of the document and never changes afterwards.
type ContainerIndex struct {
	positions map[ContainerKind][]int
	total     int
}

// BuildContainerIndex scans the top-level elements of doc
func BuildContainerIndex(doc *doctree.Document) *ContainerIndex {
	idx := &ContainerIndex{
		positions: make(map[ContainerKind][]int),
	}

	for node := doc.Root().FirstChild(); node != nil; node = node.NextSibling() {
		kind := containerKindOf(node.Name())
		idx.positions[kind] = append(idx.positions[kind], node.Index())
		idx.total++
	}

	return idx
}

// Position returns the document position of the n-th container of kind
func (idx *ContainerIndex) Position(kind ContainerKind, n int) (int, bool) {
	positions := idx.positions[kind]
	if n < 0 || n >= len(positions) {
		return 0, false
	}
	return positions[n], true
}

// Count returns the number of containers of kind
func (idx *ContainerIndex) Count(kind ContainerKind) int {
	return len(idx.positions[kind])
}

// Total returns the number of containers of any kind
func (idx *ContainerIndex) Total() int {
	return idx.total
}
