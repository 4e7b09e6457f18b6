package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// EnumTable maps the symbolic names of an enumeration to their codes. Streams
// may carry either form.
type EnumTable struct {
	kind  string
	names []string
	codes map[string]uint32
}

// NewEnumTable builds a table whose codes are the positions of names
func NewEnumTable(kind string, names ...string) *EnumTable {
	t := &EnumTable{
		kind:  kind,
		names: names,
		codes: make(map[string]uint32, len(names)),
	}
	for i, n := range names {
		t.codes[n] = uint32(i)
	}
	return t
}

// Parse resolves a numeric code or a symbolic name. Numeric codes outside the
// table are accepted; the consumer decides what an unknown code means.
func (t *EnumTable) Parse(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(v), nil
	}
	if v, ok := t.codes[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidValue, t.kind, s)
}

// Name returns the symbolic name for code, or the code itself when it has none
func (t *EnumTable) Name(code uint32) string {
	if int(code) < len(t.names) {
		return t.names[code]
	}
	return strconv.FormatUint(uint64(code), 10)
}

// Valid reports whether code has a symbolic name
func (t *EnumTable) Valid(code uint32) bool {
	return int(code) < len(t.names)
}
