package model

// Entity represents a concrete, reusable definition living inside a
// corpus document: a layer file, or a tagRendering/filter entry declared
// by a layer. Inline layers embedded in themes never produce entities,
// only references.
type Entity struct {
	// QualifiedID is the dotted address of the definition, e.g.
	// "layers.bench" or "layers.questions.tagRenderings.name".
	// Qualified ids are not globally unique: two layers may each define
	// a "name" tagRendering. Lookups return sets.
	QualifiedID string `json:"qualified_id"`

	// Kind is the entity kind: layer, tagRendering, or filter.
	Kind Kind `json:"kind"`

	// Anchor locates the definition in its owning document. For a layer
	// entity the path is empty (the whole file is the definition); for
	// members it addresses the array element, e.g. "tagRenderings.3".
	Anchor Anchor `json:"anchor"`
}
