// Package resolver computes candidate targets for reference tokens.
package resolver

import (
	"regexp"
	"strings"

	"mapdex/internal/corpus"
	"mapdex/internal/jsondoc"
	"mapdex/internal/model"
)

// Resolver resolves raw reference tokens (bare, dotted, or wildcarded
// ids) to candidate definition sites. Candidates are read from the
// target documents on disk, so resolution reflects the corpus as it is,
// not as it was last indexed.
type Resolver struct {
	layout corpus.Layout
	docs   *jsondoc.Cache
	pools  map[model.Kind]string // kind -> shared-pool layer id
}

// New creates a resolver. tagPool and filterPool name the layers whose
// entries are addressable by bare id from any document.
func New(layout corpus.Layout, docs *jsondoc.Cache, tagPool, filterPool string) *Resolver {
	return &Resolver{
		layout: layout,
		docs:   docs,
		pools: map[model.Kind]string{
			model.KindTagRendering: tagPool,
			model.KindFilter:       filterPool,
		},
	}
}

// Target is one candidate resolution of a reference token.
type Target struct {
	// QualifiedID is the address the token names. Set even when the
	// definition was not found, so unresolved references keep a
	// speculative target address.
	QualifiedID string

	// File is the candidate document, relative to the workspace root.
	File string

	// Path is the JSON path of the definition within the candidate
	// document. Empty when the whole file is the target or when
	// unresolved.
	Path string

	// Range is the source range of the matched definition.
	Range model.Range

	// Resolved reports whether a matching definition was found.
	Resolved bool
}

// Resolve computes the candidate targets for a token of the given kind.
//
// Layer tokens name a layer file directly. TagRendering and filter
// tokens resolve bare ids against the kind's shared pool, dotted ids
// ("layerId.localId") against the named layer, and wildcard ids against
// every entry whose id matches the pattern, plus every tagRendering
// with a matching label.
//
// A non-wildcard token always yields exactly one target, unresolved
// when the definition is missing. A wildcard yields one target per
// match, so an unmatched wildcard yields none.
func (r *Resolver) Resolve(kind model.Kind, token string) []Target {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	if kind == model.KindLayer {
		return []Target{r.resolveLayer(token)}
	}

	layerID, local := r.pools[kind], token
	if i := strings.Index(token, "."); i >= 0 {
		layerID, local = token[:i], token[i+1:]
	}

	if strings.Contains(local, "*") {
		return r.resolveWildcard(kind, layerID, local)
	}
	return []Target{r.resolveMember(kind, layerID, local)}
}

// resolveLayer resolves a token naming a whole layer file.
func (r *Resolver) resolveLayer(token string) Target {
	target := Target{
		QualifiedID: model.LayerID(token),
		File:        corpus.LayerPath(token),
	}
	doc, err := r.docs.Load(r.layout.Abs(target.File))
	if err != nil {
		return target
	}
	target.Resolved = true
	if rng, ok := doc.Locate(""); ok {
		target.Range = rng
	}
	return target
}

// resolveMember resolves a non-wildcard tagRendering/filter id against
// the entry list of the candidate layer.
func (r *Resolver) resolveMember(kind model.Kind, layerID, local string) Target {
	target := Target{
		QualifiedID: model.MemberID(layerID, kind, local),
		File:        corpus.LayerPath(layerID),
	}
	doc, err := r.docs.Load(r.layout.Abs(target.File))
	if err != nil {
		return target
	}
	entries := doc.ValueAt(kind.MemberKey())
	if entries == nil || entries.Kind != jsondoc.Array {
		return target
	}
	for i, entry := range entries.Items {
		if id, ok := entry.Member("id").StringVal(); ok && id == local {
			target.Path = jsondoc.Index(kind.MemberKey(), i)
			target.Range = doc.RangeOf(entry)
			target.Resolved = true
			return target
		}
	}
	return target
}

// resolveWildcard expands a wildcard id against the candidate layer.
// The pattern is matched against entry ids for both kinds, and against
// label lists for tagRenderings. An entry matching both ways yields two
// targets; the double registration is kept rather than deduplicated so
// provenance stays visible.
func (r *Resolver) resolveWildcard(kind model.Kind, layerID, local string) []Target {
	doc, err := r.docs.Load(r.layout.Abs(corpus.LayerPath(layerID)))
	if err != nil {
		return nil
	}
	entries := doc.ValueAt(kind.MemberKey())
	if entries == nil || entries.Kind != jsondoc.Array {
		return nil
	}

	pattern := wildcardPattern(local)
	file := corpus.LayerPath(layerID)

	var targets []Target
	for i, entry := range entries.Items {
		id, hasID := entry.Member("id").StringVal()
		if !hasID {
			continue
		}
		match := Target{
			QualifiedID: model.MemberID(layerID, kind, id),
			File:        file,
			Path:        jsondoc.Index(kind.MemberKey(), i),
			Range:       doc.RangeOf(entry),
			Resolved:    true,
		}
		if pattern.MatchString(id) {
			targets = append(targets, match)
		}
		if kind != model.KindTagRendering {
			continue
		}
		if labels := entry.Member("labels"); labels != nil {
			for _, label := range labels.Items {
				if s, ok := label.StringVal(); ok && pattern.MatchString(s) {
					targets = append(targets, match)
					break
				}
			}
		}
	}
	return targets
}

// wildcardPattern compiles a wildcard id into an anchored regexp, with
// "*" matching any run of characters and everything else literal.
func wildcardPattern(local string) *regexp.Regexp {
	parts := strings.Split(local, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
