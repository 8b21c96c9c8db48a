// internal/compose/compose.go
//
// The Template Compositor.
//
// Context
// -------
// compose(templateId, paletteColors, contentOverrides, mode) → markup.
// Output is a pure function of its inputs: the same template bytes,
// resolved palette, content map, and mode always produce byte-identical
// markup.  Only the template fetch can suspend; palette and content work
// is in-memory string transformation.
//
// Failure semantics: a missing template or asset is NotFound; markup so
// malformed that no style-block insertion point exists is Internal.
// Everything else degrades to defaults — unknown tokens are left alone,
// unsupplied palette slots fall back to the template's declared default
// palette.
package compose

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/keystoneweb/keystone/internal/errs"
	"github.com/keystoneweb/keystone/internal/metrics"
	"github.com/keystoneweb/keystone/internal/template"
)

// Result is one composed page.  EditTargets is populated only in edit mode
// and travels alongside the markup, never inside it.
type Result struct {
	Markup      string       `json:"markup"`
	EditTargets []EditTarget `json:"editTargets,omitempty"`
}

// Compositor turns templates plus per-site customization into pages.
// Stateless; safe for concurrent use.
type Compositor struct {
	catalog *template.Catalog
}

// New binds a Compositor to the template catalog.
func New(catalog *template.Catalog) *Compositor {
	return &Compositor{catalog: catalog}
}

// Compose fetches the template and applies palette, content, and mode.
func (c *Compositor) Compose(ctx context.Context, templateID string, palette template.Palette, overrides map[string]string, mode Mode) (*Result, error) {
	raw, err := c.catalog.Markup(ctx, templateID)
	if err != nil {
		return nil, err
	}
	meta, err := c.catalog.Meta(ctx, templateID)
	if err != nil {
		return nil, err
	}

	res, err := apply(string(raw), meta, palette, overrides, mode)
	if err != nil {
		metrics.ComposeErrorsTotal.Inc()
		zap.L().Error("composition failed",
			zap.String("template", templateID),
			zap.Error(err))
		return nil, err
	}
	metrics.ComposeTotal.Inc()
	return res, nil
}

// apply is the pure core: no I/O, fully deterministic.
func apply(markup string, meta *template.Meta, palette template.Palette, overrides map[string]string, mode Mode) (*Result, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, fmt.Errorf("%w: template %s has empty markup", errs.ErrInternal, meta.TemplateID)
	}

	// Strip any stale palette block before re-inserting, so repeated
	// composition with different palettes leaves exactly one block.
	markup = stripPaletteBlocks(markup)

	markup, targets := substituteContent(markup, meta.ContentKeys, overrides, mode)

	resolved := resolvePalette(meta.DefaultPalette(), palette)
	injected, ok := insertBlock(markup, paletteBlock(resolved, mode))
	if !ok {
		return nil, fmt.Errorf("%w: template %s: no style insertion point", errs.ErrInternal, meta.TemplateID)
	}

	return &Result{Markup: injected, EditTargets: targets}, nil
}

// PaletteFromDesign extracts the effective palette request from a site's
// design data: a named palette selection under "palette", overlaid by any
// explicit per-slot values under "colors".  Unrecognized palette names and
// non-string values are ignored — composition falls back to the declared
// default rather than failing the render.
func PaletteFromDesign(meta *template.Meta, design map[string]any) template.Palette {
	out := template.Palette{}

	if name, ok := design["palette"].(string); ok {
		if p, ok := meta.Palettes[name]; ok {
			for slot, v := range p {
				out[slot] = v
			}
		}
	}

	if colors, ok := design["colors"].(map[string]any); ok {
		for slot, v := range colors {
			if s, ok := v.(string); ok && s != "" {
				out[slot] = s
			}
		}
	}
	return out
}

// ContentFromDesign extracts string-valued overrides for the template's
// declared content keys from design data.  Keys the template does not
// declare are skipped here and their tokens left untouched downstream.
func ContentFromDesign(meta *template.Meta, design map[string]any) map[string]string {
	out := make(map[string]string)
	for key, v := range design {
		s, ok := v.(string)
		if !ok || !meta.Declares(key) {
			continue
		}
		out[key] = s
	}
	return out
}
