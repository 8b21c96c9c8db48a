// internal/httpapi/serve.go
//
// Tenant page serving.
//
// Context
//   The host middleware rewrites tenant requests to /site/{host}{path}, so
//   by the time this handler runs the original hostname is a path segment.
//   The handler resolves the domain to a published site record, derives the
//   palette and content overrides from the record's design data, and streams
//   the composed page.  A ?mode=preview|edit query switches the compositor
//   mode for the builder UI; publish is the default and the only mode real
//   visitors hit.

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keystoneweb/keystone/internal/compose"
	"github.com/keystoneweb/keystone/internal/routing"
)

func (h *Handler) serveSite(w http.ResponseWriter, r *http.Request) {
	host := routing.Normalize(chi.URLParam(r, "host"))
	if host == "" {
		http.NotFound(w, r)
		return
	}

	rec, err := h.Sites.ByDomain(r.Context(), host)
	if err != nil {
		writeError(w, err)
		return
	}

	meta, err := h.Templates.Meta(r.Context(), rec.TemplateID)
	if err != nil {
		writeError(w, err)
		return
	}

	mode := compose.ParseMode(r.URL.Query().Get("mode"))
	palette := compose.PaletteFromDesign(meta, rec.DesignData)
	content := compose.ContentFromDesign(meta, rec.DesignData)

	res, err := h.Compositor.Compose(r.Context(), rec.TemplateID, palette, content, mode)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(res.Markup))
}
