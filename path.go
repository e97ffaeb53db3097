package skema

import (
	"strconv"
	"strings"
)

// JoinPath nests child under parent using dotted attribute syntax. Index
// children ("[2]" or "[2].id") attach without a dot.
func JoinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case child[0] == '[':
		return parent + child
	}
	return parent + "." + child
}

// IndexPath returns "<parent>[<i>]".
func IndexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Segment is one step of an attribute path: a property name or a list index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// SplitPath parses a dotted attribute path. "items[2].id" yields the segments
// items, 2, id. Text that is not a well-formed index stays part of the name.
func SplitPath(p string) []Segment {
	if p == "" {
		return nil
	}
	var out []Segment
	for _, part := range strings.Split(p, ".") {
		name := part
		var idx []int
		for strings.HasSuffix(name, "]") {
			open := strings.LastIndexByte(name, '[')
			if open < 0 {
				break
			}
			n, err := strconv.Atoi(name[open+1 : len(name)-1])
			if err != nil || n < 0 {
				break
			}
			idx = append(idx, n)
			name = name[:open]
		}
		if name != "" || len(idx) == 0 {
			out = append(out, Segment{Name: name})
		}
		for i := len(idx) - 1; i >= 0; i-- {
			out = append(out, Segment{Index: idx[i], IsIndex: true})
		}
	}
	return out
}

// Token returns the RFC 6901 reference token of the segment.
func (s Segment) Token() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	return strings.ReplaceAll(strings.ReplaceAll(s.Name, "~", "~0"), "/", "~1")
}

// ErrorAt creates an Error at the given attribute with the provided type tag,
// message and params map.
func ErrorAt(attr, typ, msg string, params map[string]any) Error {
	return Error{Attribute: attr, Type: typ, Message: msg, Params: params}
}
