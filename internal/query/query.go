// Package query answers definition and usage queries over an index
// store. The engine reads only the in-memory store; mapping cursor
// positions to addresses reads documents through the shared cache.
package query

import (
	"mapdex/internal/corpus"
	"mapdex/internal/index"
	"mapdex/internal/jsondoc"
	"mapdex/internal/model"
)

// Engine is the read side of the index.
type Engine struct {
	store      *index.Store
	layout     corpus.Layout
	cache      *jsondoc.Cache
	tagPool    string
	filterPool string
}

// New creates an engine over store. tagPool and filterPool name the
// shared-pool layers used for annotation.
func New(store *index.Store, layout corpus.Layout, cache *jsondoc.Cache, tagPool, filterPool string) *Engine {
	return &Engine{store: store, layout: layout, cache: cache, tagPool: tagPool, filterPool: filterPool}
}

// Entity is an entity annotated with whether its qualified id belongs
// to the shared pool for its kind. Consumers conventionally rank pool
// entries first.
type Entity struct {
	model.Entity
	SharedPool bool `json:"shared_pool,omitempty"`
}

// EntitiesOf returns all concrete entities of a kind. Inline-layer
// members never appear here; they are not registered as entities.
func (e *Engine) EntitiesOf(kind model.Kind) []Entity {
	ents := e.store.EntitiesOfKind(kind)
	out := make([]Entity, len(ents))
	for i, ent := range ents {
		out[i] = Entity{Entity: ent, SharedPool: e.sharedPool(ent)}
	}
	return out
}

func (e *Engine) sharedPool(ent model.Entity) bool {
	layer := model.LayerOf(ent.QualifiedID)
	switch ent.Kind {
	case model.KindTagRendering:
		return layer == e.tagPool
	case model.KindFilter:
		return layer == e.filterPool
	case model.KindLayer:
		return layer == e.tagPool || layer == e.filterPool
	}
	return false
}

// Definition is a resolved reference target.
type Definition struct {
	QualifiedID string       `json:"qualified_id"`
	Location    model.Anchor `json:"location"`
}

// ResolveAt returns the resolved target locations for the reference
// recorded at a use-site address. An address with no recorded
// reference, or whose reference is unresolved, yields an empty result.
func (e *Engine) ResolveAt(file, path string) []Definition {
	var out []Definition
	for _, ref := range e.store.ReferencesFrom(file) {
		if ref.From.Path != path || !ref.Resolved || ref.To == nil {
			continue
		}
		out = append(out, Definition{QualifiedID: ref.ToID, Location: *ref.To})
	}
	return out
}

// DefinitionAt maps a cursor position in file to a use-site address and
// resolves it. The address comes from the document's current text; the
// reference records come from the store.
func (e *Engine) DefinitionAt(file string, pos model.Position) ([]Definition, error) {
	doc, err := e.cache.Load(e.layout.Abs(file))
	if err != nil {
		return nil, err
	}
	return e.ResolveAt(file, doc.PathAt(pos)), nil
}

// ReferencesTo returns every reference whose target id equals qid,
// including unresolved references and references originating in inline
// layers.
func (e *Engine) ReferencesTo(qid string) []model.Reference {
	var out []model.Reference
	for _, ref := range e.store.References() {
		if ref.ToID == qid {
			out = append(out, ref)
		}
	}
	return out
}

// EntitiesByID returns every entity registered under qid. Ids are not
// globally unique, so this can return more than one record.
func (e *Engine) EntitiesByID(qid string) []model.Entity {
	var out []model.Entity
	for _, ent := range e.store.Entities() {
		if ent.QualifiedID == qid {
			out = append(out, ent)
		}
	}
	return out
}

// Unresolved returns every reference whose target could not be found.
func (e *Engine) Unresolved() []model.Reference {
	var out []model.Reference
	for _, ref := range e.store.References() {
		if !ref.Resolved {
			out = append(out, ref)
		}
	}
	return out
}
