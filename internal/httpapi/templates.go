// internal/httpapi/templates.go
//
// Template catalog endpoints.
//
//   GET /api/templates/metadata       – paged metadata listing with optional
//                                       category / businessType filters
//   GET /api/templates/metadata/{id}  – one template's metadata
//   GET /api/templates/{id}           – the raw HTML markup asset

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/keystoneweb/keystone/internal/template"
)

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := template.Filter{
		Category:     q.Get("category"),
		BusinessType: q.Get("businessType"),
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	p, err := h.Templates.List(r.Context(), f, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) templateMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.Templates.Meta(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (h *Handler) templateMarkup(w http.ResponseWriter, r *http.Request) {
	markup, err := h.Templates.Markup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(markup)
}
