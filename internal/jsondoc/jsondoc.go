// Package jsondoc provides tolerant JSON parsing with position mapping.
//
// Documents are parsed with tree-sitter, whose error recovery keeps the
// usable parts of a file that is mid-edit (trailing commas, unterminated
// strings, a key with no value yet). The tree-sitter tree is converted
// into an owned node tree and released before Parse returns, so parsed
// documents are plain Go values that can be cached and shared freely.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"strconv"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_json "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// ValueKind identifies the JSON type of a node.
type ValueKind uint8

const (
	// Invalid marks a position where a value was expected but none
	// could be recovered. Invalid nodes are internal to path lookup
	// and are never returned by ValueAt.
	Invalid ValueKind = iota
	Object
	Array
	String
	Number
	Bool
	Null
)

// Node is one value in a parsed document. Spans are byte offsets into
// the original text; Start/End cover the full value and TokenStart/
// TokenEnd the semantic token (string content without quotes, object
// body without braces).
type Node struct {
	Kind       ValueKind
	Start      int
	End        int
	TokenStart int
	TokenEnd   int

	Str     string   // decoded value for String nodes
	Num     float64  // value for Number nodes
	Bool    bool     // value for Bool nodes
	Members []Member // object members, in document order
	Items   []*Node  // array elements, in document order
}

// Member is one key/value entry of an object node. KeyStart/KeyEnd span
// the key token without its quotes.
type Member struct {
	Key      string
	KeyStart int
	KeyEnd   int
	Value    *Node
}

// Member returns the value of the first member with the given key, or
// nil if the node is not an object or has no such member.
func (n *Node) Member(key string) *Node {
	if n == nil || n.Kind != Object {
		return nil
	}
	for i := range n.Members {
		if n.Members[i].Key == key {
			return n.Members[i].Value
		}
	}
	return nil
}

// StringVal returns the node's string value. ok is false when the node
// is nil or not a string.
func (n *Node) StringVal() (string, bool) {
	if n == nil || n.Kind != String {
		return "", false
	}
	return n.Str, true
}

// Document is a parsed JSON document with its line table. The raw text
// is not retained.
type Document struct {
	root  *Node
	lines []int // byte offset of each line start
	size  int   // total byte length of the source
	err   bool
}

// Root returns the document's top-level value, or nil if none could be
// recovered.
func (d *Document) Root() *Node { return d.root }

// HasErrors reports whether the source was not strictly valid JSON.
// Path and position lookups still work on the recovered tree; scanning
// requires a clean parse.
func (d *Document) HasErrors() bool { return d.err }

// Parse parses JSON text. It always returns a document: syntax errors
// set HasErrors and the tree holds whatever could be recovered.
func Parse(content []byte) *Document {
	d := &Document{
		lines: computeLineStarts(content),
		size:  len(content),
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(jsonLanguage()); err != nil {
		d.err = true
		return d
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		d.err = true
		return d
	}
	defer tree.Close()

	root := tree.RootNode()
	d.err = root.HasError()

	// The grammar allows multiple top-level values; strict JSON does not.
	var values []*Node
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		switch child.Kind() {
		case "comment":
		case "ERROR":
			// Recovery may wrap the main value in an error node when
			// stray text precedes it.
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "object" || sub.Kind() == "array" {
					if v := convertValue(sub, content); v != nil {
						values = append(values, v)
					}
				}
			}
		default:
			if v := convertValue(child, content); v != nil {
				values = append(values, v)
			}
		}
	}
	switch len(values) {
	case 0:
		d.err = true
	case 1:
		d.root = values[0]
	default:
		d.root = values[0]
		d.err = true
	}
	return d
}

var jsonLang *tree_sitter.Language

func jsonLanguage() *tree_sitter.Language {
	if jsonLang == nil {
		jsonLang = tree_sitter.NewLanguage(tree_sitter_json.Language())
	}
	return jsonLang
}

// convertValue converts a tree-sitter value node into an owned node.
// Returns nil for nodes that are not values (punctuation, comments).
func convertValue(n *tree_sitter.Node, content []byte) *Node {
	start, end := int(n.StartByte()), int(n.EndByte())
	if n.IsMissing() {
		return &Node{Kind: Invalid, Start: start, End: end, TokenStart: start, TokenEnd: end}
	}

	switch n.Kind() {
	case "object":
		out := &Node{Kind: Object, Start: start, End: end}
		out.TokenStart, out.TokenEnd = trimDelims(content, start, end, '{', '}')
		for i := uint(0); i < n.ChildCount(); i++ {
			convertObjectChild(n.Child(i), content, out)
		}
		return out

	case "array":
		out := &Node{Kind: Array, Start: start, End: end}
		out.TokenStart, out.TokenEnd = trimDelims(content, start, end, '[', ']')
		for i := uint(0); i < n.ChildCount(); i++ {
			convertArrayChild(n.Child(i), content, out)
		}
		return out

	case "string":
		ts, te := trimDelims(content, start, end, '"', '"')
		return &Node{
			Kind:       String,
			Start:      start,
			End:        end,
			TokenStart: ts,
			TokenEnd:   te,
			Str:        decodeString(content[start:end]),
		}

	case "number":
		num, _ := strconv.ParseFloat(string(content[start:end]), 64)
		return &Node{Kind: Number, Start: start, End: end, TokenStart: start, TokenEnd: end, Num: num}

	case "true":
		return &Node{Kind: Bool, Start: start, End: end, TokenStart: start, TokenEnd: end, Bool: true}

	case "false":
		return &Node{Kind: Bool, Start: start, End: end, TokenStart: start, TokenEnd: end}

	case "null":
		return &Node{Kind: Null, Start: start, End: end, TokenStart: start, TokenEnd: end}
	}
	return nil
}

// convertObjectChild folds one child of an object node into out,
// harvesting members from ERROR subtrees so that partially typed
// entries still resolve by path.
func convertObjectChild(n *tree_sitter.Node, content []byte, out *Node) {
	switch n.Kind() {
	case "pair":
		if m, ok := convertPair(n, content); ok {
			out.Members = append(out.Members, m)
		}
	case "ERROR":
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			switch child.Kind() {
			case "pair":
				if m, ok := convertPair(child, content); ok {
					out.Members = append(out.Members, m)
				}
			case "string":
				// A bare string inside an object is a key being typed.
				key := convertValue(child, content)
				out.Members = append(out.Members, Member{
					Key:      key.Str,
					KeyStart: key.TokenStart,
					KeyEnd:   key.TokenEnd,
					Value:    &Node{Kind: Invalid, Start: key.End, End: key.End, TokenStart: key.End, TokenEnd: key.End},
				})
			case "ERROR":
				convertObjectChild(child, content, out)
			}
		}
	}
}

// convertArrayChild folds one child of an array node into out.
func convertArrayChild(n *tree_sitter.Node, content []byte, out *Node) {
	switch n.Kind() {
	case "ERROR":
		for i := uint(0); i < n.ChildCount(); i++ {
			convertArrayChild(n.Child(i), content, out)
		}
	default:
		if v := convertValue(n, content); v != nil && v.Kind != Invalid {
			out.Items = append(out.Items, v)
		}
	}
}

// convertPair converts a key/value pair. A pair whose value is missing
// gets an Invalid placeholder spanning from the key to the pair's end,
// so a cursor after the colon still maps to the member's path.
func convertPair(n *tree_sitter.Node, content []byte) (Member, bool) {
	keyNode := n.ChildByFieldName("key")
	if keyNode == nil || keyNode.IsMissing() {
		return Member{}, false
	}
	key := convertValue(keyNode, content)
	if key == nil {
		return Member{}, false
	}
	keyStr := key.Str
	if key.Kind != String {
		keyStr = string(content[key.Start:key.End])
	}

	m := Member{Key: keyStr, KeyStart: key.TokenStart, KeyEnd: key.TokenEnd}
	valNode := n.ChildByFieldName("value")
	if valNode == nil || valNode.IsMissing() {
		pairEnd := int(n.EndByte())
		m.Value = &Node{Kind: Invalid, Start: key.End, End: pairEnd, TokenStart: pairEnd, TokenEnd: pairEnd}
		return m, true
	}
	m.Value = convertValue(valNode, content)
	if m.Value == nil {
		m.Value = &Node{Kind: Invalid, Start: key.End, End: key.End, TokenStart: key.End, TokenEnd: key.End}
	}
	return m, true
}

// trimDelims returns the token span inside a delimited value, or the
// full span when recovery left the delimiters incomplete.
func trimDelims(content []byte, start, end int, open, closing byte) (int, int) {
	if end-start >= 2 && content[start] == open && content[end-1] == closing {
		return start + 1, end - 1
	}
	return start, end
}

// decodeString decodes a raw JSON string token, tolerating a missing
// closing quote on in-progress edits.
func decodeString(raw []byte) string {
	if len(raw) == 0 || raw[0] != '"' {
		return string(raw)
	}
	if len(raw) >= 2 && raw[len(raw)-1] == '"' {
		if !bytes.ContainsRune(raw, '\\') {
			return string(raw[1 : len(raw)-1])
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(bytes.TrimSuffix(raw[1:], []byte{'"'}))
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content []byte) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}
