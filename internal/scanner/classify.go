package scanner

import "mapdex/internal/jsondoc"

// entryClass is the shape of one element of a layers, tagRenderings, or
// filter array. The shape decides entirely how the element is scanned,
// so it is computed once per entry.
type entryClass uint8

const (
	// entryReference is a plain string naming an existing definition.
	entryReference entryClass = iota

	// entryBuiltinSingle is an object whose "builtin" is one id string.
	entryBuiltinSingle

	// entryBuiltinMany is an object whose "builtin" is an array of ids.
	entryBuiltinMany

	// entryInline is a plain object defining the entry in place.
	entryInline

	// entryMalformed is anything else (number, bool, null, or a
	// "builtin" of the wrong type).
	entryMalformed
)

// classifyEntry determines the shape of one array entry.
func classifyEntry(n *jsondoc.Node) entryClass {
	if n == nil {
		return entryMalformed
	}
	switch n.Kind {
	case jsondoc.String:
		return entryReference
	case jsondoc.Object:
		builtin := n.Member("builtin")
		if builtin == nil {
			return entryInline
		}
		switch builtin.Kind {
		case jsondoc.String:
			return entryBuiltinSingle
		case jsondoc.Array:
			return entryBuiltinMany
		}
	}
	return entryMalformed
}
