// internal/compose/palette.go
//
// Palette resolution and style-block injection.
//
// Context
// -------
// Template markup styles itself against generic utility color roles
// (primary/secondary/accent).  Composition maps those roles onto one
// concrete palette by injecting a single marker-delimited <style> block.
// The block is removed before each re-insert, so composing an
// already-composed page never accumulates stale overrides and palette
// application stays idempotent.
package compose

import (
	"sort"
	"strings"

	"github.com/keystoneweb/keystone/internal/template"
)

// Marker comments delimit the injected block.  They are the fixed contract
// between injection and removal; renaming them orphans blocks in any page
// cached by a CDN, so they do not change.
const (
	paletteMarkerStart = "<!-- keystone:palette -->"
	paletteMarkerEnd   = "<!-- /keystone:palette -->"
)

// coreSlots are emitted first, in this order, so output bytes are stable.
var coreSlots = []string{"primary", "secondary", "accent"}

// resolvePalette overlays supplied slot values onto the template's declared
// default palette.  Unknown extra slots from the caller are kept — they
// only ever add CSS variables.
func resolvePalette(defaults, supplied template.Palette) template.Palette {
	out := make(template.Palette, len(defaults)+len(supplied))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range supplied {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// stripPaletteBlocks removes every previously injected palette block.
func stripPaletteBlocks(markup string) string {
	for {
		start := strings.Index(markup, paletteMarkerStart)
		if start < 0 {
			return markup
		}
		end := strings.Index(markup[start:], paletteMarkerEnd)
		if end < 0 {
			// Unterminated block: drop everything from the marker on the
			// grounds that a fresh block follows anyway.
			return markup[:start]
		}
		markup = markup[:start] + markup[start+end+len(paletteMarkerEnd):]
	}
}

// paletteBlock renders the style block for a resolved palette.  Core slots
// come first, remaining slots in sorted order, so identical palettes always
// produce identical bytes.
func paletteBlock(p template.Palette, mode Mode) string {
	var b strings.Builder
	b.WriteString(paletteMarkerStart)
	b.WriteString("<style>\n:root {\n")

	emitted := make(map[string]bool, len(p))
	for _, slot := range coreSlots {
		if v, ok := p[slot]; ok {
			b.WriteString("  --color-" + slot + ": " + v + ";\n")
			emitted[slot] = true
		}
	}
	extra := make([]string, 0, len(p))
	for slot := range p {
		if !emitted[slot] {
			extra = append(extra, slot)
		}
	}
	sort.Strings(extra)
	for _, slot := range extra {
		b.WriteString("  --color-" + slot + ": " + p[slot] + ";\n")
	}
	b.WriteString("}\n")

	if mode == ModeEdit {
		// Visual affordance for editable regions; only the editor sees it.
		b.WriteString("[data-edit-key] { outline: 2px dashed rgba(59,130,246,.3); outline-offset: 2px; }\n")
		b.WriteString("[data-edit-key]:hover { outline-color: rgba(59,130,246,.8); }\n")
	}

	b.WriteString("</style>")
	b.WriteString(paletteMarkerEnd)
	return b.String()
}

// insertBlock places the style block at the first workable insertion point:
// immediately before </head>, else immediately after the body-open tag,
// else prepended to the document.  ok is false only when the markup is
// malformed beyond all three strategies (an unterminated <body tag).
func insertBlock(markup, block string) (string, bool) {
	if i := strings.Index(markup, "</head>"); i >= 0 {
		return markup[:i] + block + markup[i:], true
	}
	if i := strings.Index(markup, "<body"); i >= 0 {
		end := strings.IndexByte(markup[i:], '>')
		if end < 0 {
			return "", false
		}
		at := i + end + 1
		return markup[:at] + block + markup[at:], true
	}
	return block + markup, true
}
