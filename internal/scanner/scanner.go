// Package scanner walks corpus documents and extracts definitions and
// references.
package scanner

import (
	"errors"
	"fmt"
	"strings"

	"mapdex/internal/corpus"
	"mapdex/internal/jsondoc"
	"mapdex/internal/model"
	"mapdex/internal/resolver"
)

// ErrParse is returned when a document's text is not valid JSON. The
// caller keeps whatever records it had for the file; clearing a working
// index on a transient invalid edit would lose information.
var ErrParse = errors.New("document has parse errors")

// Diagnostic records a malformed entry that was skipped. Scanning
// continues past diagnostics.
type Diagnostic struct {
	File    string `json:"file"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.File + ": " + d.Message
	}
	return d.File + ": " + d.Path + ": " + d.Message
}

// Result holds everything extracted from one document.
type Result struct {
	Entities    []model.Entity
	References  []model.Reference
	Diagnostics []Diagnostic
}

// Scanner extracts entity and reference records from parsed documents.
// Address computation is delegated to the resolver, position
// computation to the document itself.
type Scanner struct {
	resolver *resolver.Resolver
}

// New creates a scanner that resolves reference targets through res.
func New(res *resolver.Resolver) *Scanner {
	return &Scanner{resolver: res}
}

// Scan walks one document in its corpus role and returns the extracted
// records. file is the document's workspace-relative path and id its
// corpus id (the file stem). Returns ErrParse when the document did not
// parse cleanly.
func (s *Scanner) Scan(file string, role corpus.Role, id string, doc *jsondoc.Document) (*Result, error) {
	if doc.HasErrors() {
		return nil, fmt.Errorf("%s: %w", file, ErrParse)
	}

	out := &Result{}
	ctx := &scanContext{doc: doc, file: file, out: out}

	switch role {
	case corpus.RoleTheme:
		s.scanTheme(ctx, id)
	case corpus.RoleLayer:
		s.scanLayer(ctx, id)
	default:
		return nil, fmt.Errorf("unknown corpus role %q for %s", role, file)
	}
	return out, nil
}

// scanContext carries the coordinate space of the document being
// walked. Inline layers are scanned with the theme's context, so their
// paths and ranges stay meaningful in the file actually on disk.
type scanContext struct {
	doc  *jsondoc.Document
	file string
	out  *Result

	// prefix is the JSON path prefix of the node being scanned,
	// relative to the document root.
	prefix string

	// fromID is the qualified id of the containing document or entity.
	fromID string

	// layerID is the owning layer id used in member entity addresses.
	layerID string

	// refsOnly suppresses entity extraction: inline layers and layers
	// with special or computed sources cannot supply reusable
	// definitions.
	refsOnly bool
}

func (c *scanContext) at(prefix, fromID, layerID string, refsOnly bool) *scanContext {
	return &scanContext{
		doc:      c.doc,
		file:     c.file,
		out:      c.out,
		prefix:   prefix,
		fromID:   fromID,
		layerID:  layerID,
		refsOnly: refsOnly,
	}
}

func (c *scanContext) diag(path, message string) {
	c.out.Diagnostics = append(c.out.Diagnostics, Diagnostic{File: c.file, Path: path, Message: message})
}

// scanTheme emits one layer reference per layers entry and recurses
// into inline layers. Theme documents never define reusable entities.
func (s *Scanner) scanTheme(ctx *scanContext, themeID string) {
	themeCtx := ctx.at("", model.ThemeID(themeID), "", true)

	layers := ctx.doc.ValueAt("layers")
	if layers != nil && layers.Kind != jsondoc.Array {
		ctx.diag("layers", "expected an array of layer entries")
		layers = nil
	}
	if layers != nil {
		for i, entry := range layers.Items {
			entryPath := jsondoc.Index("layers", i)
			switch classifyEntry(entry) {
			case entryReference:
				s.emitReference(themeCtx, model.KindLayer, entry, entryPath, false)

			case entryBuiltinSingle:
				s.emitReference(themeCtx, model.KindLayer, entry.Member("builtin"), jsondoc.Join(entryPath, "builtin"), true)
				s.scanOverride(themeCtx.at(jsondoc.Join(entryPath, "override"), themeCtx.fromID, "", true), entry.Member("override"))

			case entryBuiltinMany:
				for j, token := range entry.Member("builtin").Items {
					tokenPath := jsondoc.Index(jsondoc.Join(entryPath, "builtin"), j)
					if token.Kind != jsondoc.String {
						ctx.diag(tokenPath, "builtin entries must be id strings")
						continue
					}
					s.emitReference(themeCtx, model.KindLayer, token, tokenPath, true)
				}
				s.scanOverride(themeCtx.at(jsondoc.Join(entryPath, "override"), themeCtx.fromID, "", true), entry.Member("override"))

			case entryInline:
				inline := ctx.at(entryPath, model.InlineLayerID(themeID, i), "", true)
				s.scanLayerObject(inline, entry)

			default:
				ctx.diag(entryPath, "unexpected layer entry shape")
			}
		}
	}

	// overrideAll patches every layer of the theme; its tagRenderings
	// and filter arrays reference definitions but never create them.
	s.scanOverride(themeCtx.at("overrideAll", themeCtx.fromID, "", true), ctx.doc.ValueAt("overrideAll"))
}

// scanLayer emits the layer's own entity and walks its members.
func (s *Scanner) scanLayer(ctx *scanContext, layerID string) {
	root := ctx.doc.Root()
	if root == nil || root.Kind != jsondoc.Object {
		ctx.diag("", "expected a layer object")
		return
	}

	rootRange, _ := ctx.doc.Locate("")
	ctx.out.Entities = append(ctx.out.Entities, model.Entity{
		QualifiedID: model.LayerID(layerID),
		Kind:        model.KindLayer,
		Anchor:      model.Anchor{File: ctx.file, Path: "", Range: rootRange},
	})

	s.scanLayerObject(ctx.at("", model.LayerID(layerID), layerID, false), root)
}

// scanLayerObject walks the tagRenderings and filter arrays of a layer
// object, which may be a layer document's root or an inline layer
// inside a theme. The context decides the coordinate space and whether
// entities may be emitted.
func (s *Scanner) scanLayerObject(ctx *scanContext, layer *jsondoc.Node) {
	if layer == nil || layer.Kind != jsondoc.Object {
		return
	}
	if !ctx.refsOnly && sourceForcesReferencesOnly(layer) {
		ctx = ctx.at(ctx.prefix, ctx.fromID, ctx.layerID, true)
	}
	for _, kind := range []model.Kind{model.KindTagRendering, model.KindFilter} {
		key := kind.MemberKey()
		entries := layer.Member(key)
		if entries == nil {
			continue
		}
		arrayPath := jsondoc.Join(ctx.prefix, key)
		if entries.Kind != jsondoc.Array {
			ctx.diag(arrayPath, "expected an array of "+key+" entries")
			continue
		}
		for i, entry := range entries.Items {
			s.scanMemberEntry(ctx, kind, entry, jsondoc.Index(arrayPath, i))
		}
	}
}

// scanMemberEntry handles one tagRenderings/filter array element.
func (s *Scanner) scanMemberEntry(ctx *scanContext, kind model.Kind, entry *jsondoc.Node, entryPath string) {
	switch classifyEntry(entry) {
	case entryReference:
		s.emitReference(ctx, kind, entry, entryPath, false)

	case entryBuiltinSingle:
		s.emitReference(ctx, kind, entry.Member("builtin"), jsondoc.Join(entryPath, "builtin"), true)

	case entryBuiltinMany:
		for j, token := range entry.Member("builtin").Items {
			tokenPath := jsondoc.Index(jsondoc.Join(entryPath, "builtin"), j)
			if token.Kind != jsondoc.String {
				ctx.diag(tokenPath, "builtin entries must be id strings")
				continue
			}
			s.emitReference(ctx, kind, token, tokenPath, true)
		}

	case entryInline:
		if ctx.refsOnly {
			return
		}
		id, ok := entry.Member("id").StringVal()
		if !ok || id == "" {
			ctx.diag(entryPath, "definition has no id")
			return
		}
		ctx.out.Entities = append(ctx.out.Entities, model.Entity{
			QualifiedID: model.MemberID(ctx.layerID, kind, id),
			Kind:        kind,
			Anchor:      model.Anchor{File: ctx.file, Path: entryPath, Range: ctx.doc.RangeOf(entry)},
		})

	default:
		ctx.diag(entryPath, "unexpected "+string(kind)+" entry shape")
	}
}

// scanOverride walks an override or overrideAll object. Override
// blocks merge fields into referenced layers; their tagRenderings and
// filter arrays (including the "+"-suffixed append forms) contribute
// reference edges only.
func (s *Scanner) scanOverride(ctx *scanContext, override *jsondoc.Node) {
	if override == nil || override.Kind != jsondoc.Object {
		return
	}
	for _, kind := range []model.Kind{model.KindTagRendering, model.KindFilter} {
		for _, key := range []string{kind.MemberKey(), kind.MemberKey() + "+"} {
			entries := override.Member(key)
			if entries == nil || entries.Kind != jsondoc.Array {
				continue
			}
			for i, entry := range entries.Items {
				entryPath := jsondoc.Index(jsondoc.Join(ctx.prefix, key), i)
				switch classifyEntry(entry) {
				case entryReference:
					s.emitReference(ctx, kind, entry, entryPath, false)
				case entryBuiltinSingle:
					s.emitReference(ctx, kind, entry.Member("builtin"), jsondoc.Join(entryPath, "builtin"), true)
				case entryBuiltinMany:
					for j, token := range entry.Member("builtin").Items {
						if token.Kind != jsondoc.String {
							continue
						}
						s.emitReference(ctx, kind, token, jsondoc.Index(jsondoc.Join(entryPath, "builtin"), j), true)
					}
				}
				// Inline objects in overrides are merge patches, not
				// definitions or references.
			}
		}
	}
}

// emitReference resolves one token node and records a reference per
// candidate target. Non-string tokens are skipped with a diagnostic.
func (s *Scanner) emitReference(ctx *scanContext, kind model.Kind, token *jsondoc.Node, path string, builtin bool) {
	text, ok := token.StringVal()
	if !ok {
		ctx.diag(path, "expected an id string")
		return
	}
	from := model.Anchor{File: ctx.file, Path: path, Range: ctx.doc.RangeOf(token)}
	for _, target := range s.resolver.Resolve(kind, text) {
		ref := model.Reference{
			FromID:   ctx.fromID,
			From:     from,
			ToID:     target.QualifiedID,
			Kind:     kind,
			Resolved: target.Resolved,
			Builtin:  builtin,
		}
		if target.Resolved {
			ref.To = &model.Anchor{File: target.File, Path: target.Path, Range: target.Range}
		}
		ctx.out.References = append(ctx.out.References, ref)
	}
}

// sourceForcesReferencesOnly reports whether a layer's source marks it
// as special (no geometry) or computed (geoJson). Entries of such
// layers are not independently addressable, so they never register as
// reusable definitions.
func sourceForcesReferencesOnly(layer *jsondoc.Node) bool {
	source := layer.Member("source")
	if source == nil {
		return false
	}
	if s, ok := source.StringVal(); ok {
		return s == "special" || strings.HasPrefix(s, "special:")
	}
	return source.Kind == jsondoc.Object && source.Member("geoJson") != nil
}
