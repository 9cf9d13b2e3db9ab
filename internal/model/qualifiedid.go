package model

import (
	"strconv"
	"strings"
)

// Kind classifies the definitions and references the index tracks.
type Kind string

const (
	// KindLayer is a layer definition (a layer file) or a reference to one.
	KindLayer Kind = "layer"

	// KindTagRendering is a reusable tagRendering entry inside a layer.
	KindTagRendering Kind = "tagRendering"

	// KindFilter is a reusable filter entry inside a layer.
	KindFilter Kind = "filter"
)

// MemberKey returns the JSON key under which entries of this kind live
// in a layer document. The same key is used as the member segment of
// qualified ids, so the id mirrors the document structure.
func (k Kind) MemberKey() string {
	switch k {
	case KindTagRendering:
		return "tagRenderings"
	case KindFilter:
		return "filter"
	}
	return ""
}

// ThemeID returns the qualified id of a theme document, e.g. "themes.cyclofix".
func ThemeID(theme string) string {
	return "themes." + theme
}

// LayerID returns the qualified id of a layer document, e.g. "layers.bench".
func LayerID(layer string) string {
	return "layers." + layer
}

// MemberID returns the qualified id of a tagRendering or filter owned by
// a layer, e.g. "layers.questions.tagRenderings.name" or
// "layers.bench.filter.has_backrest".
func MemberID(layer string, kind Kind, local string) string {
	return LayerID(layer) + "." + kind.MemberKey() + "." + local
}

// InlineLayerID returns the qualified id of a layer defined inline at
// index n of a theme's layers array, e.g. "themes.cyclofix.layers.2".
// Inline layers are not reusable; the id names them only as reference
// sources.
func InlineLayerID(theme string, n int) string {
	return ThemeID(theme) + ".layers." + strconv.Itoa(n)
}

// LayerOf extracts the layer id from a qualified id that names a layer
// or one of its members. Returns "" if the id does not start with the
// layers prefix.
func LayerOf(qualifiedID string) string {
	rest, ok := strings.CutPrefix(qualifiedID, "layers.")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		return rest[:i]
	}
	return rest
}
