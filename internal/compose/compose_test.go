// internal/compose/compose_test.go
//
// Unit-tests for the compositor core.
//
// Composition must be a pure function of its inputs: identical arguments
// produce byte-identical markup, recomposition leaves exactly one palette
// block, declared defaults fill missing content, and edit markers appear
// only in edit mode.

package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystoneweb/keystone/internal/errs"
	"github.com/keystoneweb/keystone/internal/template"
)

func plumberMeta() *template.Meta {
	return &template.Meta{
		TemplateID: "classic-pro-plumber",
		Name:       "Classic Pro",
		Palettes: template.PaletteSet{
			"default": {"primary": "#1f2937", "secondary": "#dc2626", "accent": "#f3f4f6"},
			"ocean":   {"primary": "#0c4a6e", "secondary": "#0284c7", "accent": "#e0f2fe"},
		},
		ContentKeys: template.ContentKeys{
			{Key: "heroTitle", Label: "Hero title", Default: "Expert Plumbing Services"},
			{Key: "heroSubtitle", Label: "Hero subtitle", Default: "Fast, Reliable, Professional"},
		},
	}
}

const baseMarkup = `<html><head><title>t</title></head><body><h1>{{heroTitle}}</h1><p>{{heroSubtitle}}</p></body></html>`

func TestApply_PublishUsesDefaults(t *testing.T) {
	res, err := apply(baseMarkup, plumberMeta(), nil, nil, ModePublish)
	require.NoError(t, err)

	require.Contains(t, res.Markup, "Expert Plumbing Services")
	require.NotContains(t, res.Markup, "{{heroTitle}}", "declared tokens must be substituted")
	require.NotContains(t, res.Markup, "data-edit-key", "publish mode emits no edit markers")
	require.Empty(t, res.EditTargets)
}

func TestApply_EditWrapsOverrides(t *testing.T) {
	res, err := apply(baseMarkup, plumberMeta(),
		nil, map[string]string{"heroTitle": "We Fix Pipes"}, ModeEdit)
	require.NoError(t, err)

	require.Contains(t, res.Markup, `<span data-edit-key="heroTitle">We Fix Pipes</span>`)
	require.Len(t, res.EditTargets, 2)
	require.Equal(t, "heroTitle", res.EditTargets[0].Key)
	require.Equal(t, `[data-edit-key="heroTitle"]`, res.EditTargets[0].Selector)
}

func TestApply_EditSkipsAbsentTokens(t *testing.T) {
	markup := `<html><head></head><body><h1>{{heroTitle}}</h1></body></html>`

	res, err := apply(markup, plumberMeta(), nil, nil, ModeEdit)
	require.NoError(t, err)

	require.Len(t, res.EditTargets, 1, "only keys whose token occurs get a target")
	require.Equal(t, "heroTitle", res.EditTargets[0].Key)
	require.NotContains(t, res.Markup, `data-edit-key="heroSubtitle"`)
}

func TestApply_Deterministic(t *testing.T) {
	palette := template.Palette{"primary": "#111111", "extra": "#222222"}
	content := map[string]string{"heroTitle": "Acme"}

	a, err := apply(baseMarkup, plumberMeta(), palette, content, ModePublish)
	require.NoError(t, err)
	b, err := apply(baseMarkup, plumberMeta(), palette, content, ModePublish)
	require.NoError(t, err)

	require.Equal(t, a.Markup, b.Markup, "identical inputs must give identical bytes")
}

func TestApply_RecomposeLeavesOnePaletteBlock(t *testing.T) {
	first, err := apply(baseMarkup, plumberMeta(),
		template.Palette{"primary": "#111111"}, nil, ModePublish)
	require.NoError(t, err)

	second, err := apply(first.Markup, plumberMeta(),
		template.Palette{"primary": "#999999"}, nil, ModePublish)
	require.NoError(t, err)

	require.Equal(t, 1, strings.Count(second.Markup, paletteMarkerStart),
		"recomposition must not stack palette blocks")
	require.Contains(t, second.Markup, "#999999")
	require.NotContains(t, second.Markup, "#111111")
}

func TestApply_PaletteFallsBackToDefaults(t *testing.T) {
	res, err := apply(baseMarkup, plumberMeta(),
		template.Palette{"primary": "#000000"}, nil, ModePublish)
	require.NoError(t, err)

	// Supplied slot wins; unsupplied slots come from the default palette.
	require.Contains(t, res.Markup, "--color-primary: #000000;")
	require.Contains(t, res.Markup, "--color-secondary: #dc2626;")
}

func TestApply_InsertionFallbacks(t *testing.T) {
	meta := plumberMeta()

	// No </head>: block lands right after the body-open tag.
	res, err := apply(`<body class="x"><h1>{{heroTitle}}</h1></body>`, meta, nil, nil, ModePublish)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Markup, `<body class="x">`+paletteMarkerStart))

	// Neither head nor body: block is prepended.
	res, err = apply(`<h1>{{heroTitle}}</h1>`, meta, nil, nil, ModePublish)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Markup, paletteMarkerStart))

	// Unterminated body tag is unrecoverable.
	_, err = apply(`<body class="x`, meta, nil, nil, ModePublish)
	require.True(t, errors.Is(err, errs.ErrInternal), "got %v", err)

	// Empty markup is unrecoverable.
	_, err = apply("   ", meta, nil, nil, ModePublish)
	require.True(t, errors.Is(err, errs.ErrInternal))
}

func TestApply_UnknownTokensUntouched(t *testing.T) {
	res, err := apply(`<p>{{heroTitle}} {{mysteryKey}}</p>`, plumberMeta(), nil, nil, ModePublish)
	require.NoError(t, err)
	require.Contains(t, res.Markup, "{{mysteryKey}}", "undeclared tokens are left alone")
}

func TestApply_OverridesAreLiteralText(t *testing.T) {
	res, err := apply(baseMarkup, plumberMeta(),
		nil, map[string]string{"heroTitle": `<script>alert(1)</script>`}, ModePublish)
	require.NoError(t, err)
	require.NotContains(t, res.Markup, "<script>alert(1)</script>")
	require.Contains(t, res.Markup, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestPaletteFromDesign(t *testing.T) {
	meta := plumberMeta()

	// Named palette selection.
	p := PaletteFromDesign(meta, map[string]any{"palette": "ocean"})
	require.Equal(t, "#0c4a6e", p["primary"])

	// Explicit colors overlay the named selection.
	p = PaletteFromDesign(meta, map[string]any{
		"palette": "ocean",
		"colors":  map[string]any{"primary": "#123456"},
	})
	require.Equal(t, "#123456", p["primary"])
	require.Equal(t, "#0284c7", p["secondary"])

	// Unknown palette names degrade to empty (defaults apply later).
	p = PaletteFromDesign(meta, map[string]any{"palette": "nope"})
	require.Empty(t, p)
}

func TestContentFromDesign(t *testing.T) {
	meta := plumberMeta()
	c := ContentFromDesign(meta, map[string]any{
		"heroTitle": "We Fix Pipes",
		"palette":   "ocean", // not a content key
		"count":     3,       // not a string
	})
	require.Equal(t, map[string]string{"heroTitle": "We Fix Pipes"}, c)
}

func TestParseMode(t *testing.T) {
	require.Equal(t, ModeEdit, ParseMode("edit"))
	require.Equal(t, ModePreview, ParseMode("preview"))
	require.Equal(t, ModePublish, ParseMode("publish"))
	require.Equal(t, ModePublish, ParseMode("bogus"))
}
