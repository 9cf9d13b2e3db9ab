package model

// Reference represents a directed edge from a use site to a definition
// site: a theme naming a layer, or a layer reusing a tagRendering or
// filter by id. One textual occurrence may fan out into several
// references (builtin arrays, wildcard matches) or none (a wildcard
// matching nothing).
type Reference struct {
	// FromID is the qualified id of the containing document or entity,
	// e.g. "themes.cyclofix" or "themes.cyclofix.layers.2" for a use
	// inside an inline layer.
	FromID string `json:"from_id"`

	// From anchors the use site: the referencing document, the JSON path
	// of the referencing token, and its source range. For inline layers
	// the path and range are in the theme's coordinate space.
	From Anchor `json:"from"`

	// ToID is the qualified id of the target. For an unresolved
	// reference it holds the address the token would resolve to if the
	// definition existed.
	ToID string `json:"to_id"`

	// To anchors the matched definition. Nil when unresolved.
	To *Anchor `json:"to,omitempty"`

	// Kind is the reference kind: layer, tagRendering, or filter.
	Kind Kind `json:"kind"`

	// Resolved reports whether a matching definition was found at scan
	// time. Unresolved references are retained for diagnostics.
	Resolved bool `json:"resolved"`

	// Builtin reports whether the token appeared under a "builtin" key.
	// Carried for provenance only.
	Builtin bool `json:"builtin,omitempty"`
}
