// internal/compose/content.go
//
// Placeholder substitution.
//
// Template markup carries tokens of the form {{contentKey}}.  Every key
// the template declares is substituted — from the override map when
// present, from the declared default otherwise.  Override values are
// literal text: they are HTML-escaped, never re-interpreted as markup.
// Tokens for keys the template does not declare are left untouched, so an
// unknown token can never break a render.
package compose

import (
	"html"
	"strings"

	"github.com/keystoneweb/keystone/internal/template"
)

// EditTarget names one substituted region the editor can address.  The
// selector is stable per key across renders.
type EditTarget struct {
	Key      string `json:"key"`
	Selector string `json:"selector"`
}

// token renders the placeholder form for a content key.
func token(key string) string { return "{{" + key + "}}" }

// substituteContent replaces declared tokens and, in edit mode, wraps each
// substituted value so the editor chrome can target it.  Keys whose token
// never occurs in the markup are skipped entirely, so every returned
// target's selector matches a real region.  Targets follow the template's
// declaration order, which keeps output and metadata deterministic.
func substituteContent(markup string, keys template.ContentKeys, overrides map[string]string, mode Mode) (string, []EditTarget) {
	var targets []EditTarget

	for _, ck := range keys {
		tok := token(ck.Key)
		if !strings.Contains(markup, tok) {
			continue
		}

		value, ok := overrides[ck.Key]
		if !ok {
			value = ck.Default
		}
		literal := html.EscapeString(value)

		replacement := literal
		if mode == ModeEdit {
			replacement = `<span data-edit-key="` + ck.Key + `">` + literal + `</span>`
			targets = append(targets, EditTarget{
				Key:      ck.Key,
				Selector: `[data-edit-key="` + ck.Key + `"]`,
			})
		}
		markup = strings.ReplaceAll(markup, tok, replacement)
	}
	return markup, targets
}
