package jsondoc

import (
	"sort"
	"strconv"
	"strings"

	"mapdex/internal/model"
)

// Join appends a key segment to a dotted path. An empty prefix yields
// the bare segment.
func Join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Index appends an array index segment to a dotted path.
func Index(prefix string, i int) string {
	return Join(prefix, strconv.Itoa(i))
}

// ValueAt returns the value addressed by a dotted path, or nil when the
// path does not resolve (missing key, index out of range, traversal
// into a leaf). The empty path addresses the root.
func (d *Document) ValueAt(path string) *Node {
	n := d.root
	if path != "" {
		for _, seg := range strings.Split(path, ".") {
			n = stepInto(n, seg)
			if n == nil {
				return nil
			}
		}
	}
	if n == nil || n.Kind == Invalid {
		return nil
	}
	return n
}

func stepInto(n *Node, seg string) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Object:
		return n.Member(seg)
	case Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n.Items) {
			return nil
		}
		return n.Items[i]
	}
	return nil
}

// Locate returns the source range of the value addressed by path,
// trimmed to the semantic token: string content without quotes, object
// and array bodies without their delimiters. ok is false when the path
// does not resolve.
func (d *Document) Locate(path string) (model.Range, bool) {
	n := d.ValueAt(path)
	if n == nil {
		return model.Range{}, false
	}
	return d.RangeOf(n), true
}

// RangeOf converts a node's token span to a line/column range.
func (d *Document) RangeOf(n *Node) model.Range {
	return model.Range{
		Start: d.PositionFor(n.TokenStart),
		End:   d.PositionFor(n.TokenEnd),
	}
}

// PositionFor converts a byte offset to a zero-based line/column
// position. Offsets past the end of the source clamp to the last line.
func (d *Document) PositionFor(offset int) model.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > d.size {
		offset = d.size
	}
	line := sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i] > offset
	}) - 1
	return model.Position{Line: line, Col: offset - d.lines[line]}
}

// OffsetFor converts a zero-based position back to a byte offset,
// clamping past-the-end lines and columns.
func (d *Document) OffsetFor(pos model.Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(d.lines) {
		return d.size
	}
	off := d.lines[pos.Line] + pos.Col
	lineEnd := d.size
	if pos.Line+1 < len(d.lines) {
		lineEnd = d.lines[pos.Line+1]
	}
	if off > lineEnd {
		off = lineEnd
	}
	return off
}

// PathAt inverts a cursor position into the dotted path of the value
// containing it. A cursor on an object key, or after its colon while
// the value is still missing, maps to that member's path, so the key
// being typed resolves even on a not-yet-valid document. Returns the
// path of the tightest enclosing container when the cursor sits between
// entries, and "" at the document root.
func (d *Document) PathAt(pos model.Position) string {
	if d.root == nil {
		return ""
	}
	return pathIn(d.root, d.OffsetFor(pos), "")
}

func pathIn(n *Node, off int, prefix string) string {
	switch n.Kind {
	case Object:
		for i := range n.Members {
			m := &n.Members[i]
			if off >= m.KeyStart && off <= m.KeyEnd {
				return Join(prefix, m.Key)
			}
			v := m.Value
			if v != nil && v.Start != v.End && off >= v.Start && off <= v.End {
				return pathIn(v, off, Join(prefix, m.Key))
			}
		}
	case Array:
		for i, item := range n.Items {
			if off >= item.Start && off <= item.End {
				return pathIn(item, off, Index(prefix, i))
			}
		}
	}
	return prefix
}
