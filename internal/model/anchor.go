// Package model defines canonical types for core mapdex concepts.
// These types are the single source of truth used across all layers:
// scanner, index store, query engine, and CLI output.
package model

// Position is a zero-based line/column location in a document.
// Columns count bytes, matching what editors exchange over the wire.
// Display layers convert to 1-indexed form themselves.
type Position struct {
	// Line is the zero-based line number.
	Line int `json:"line"`

	// Col is the zero-based byte column within the line.
	Col int `json:"col"`
}

// Range is a half-open span of source text, from Start up to but not
// including End.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Anchor locates one endpoint of a definition or reference in source text.
type Anchor struct {
	// File is the document path, relative to the workspace root.
	File string `json:"file"`

	// Path is the dotted JSON path within the document,
	// e.g. "layers.0.builtin.1". Empty for the document root.
	Path string `json:"path"`

	// Range is the source range of the addressed value, trimmed to the
	// semantic token (string quotes excluded).
	Range Range `json:"range"`
}
