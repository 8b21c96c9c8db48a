// internal/httpapi/sites.go
//
// Site record endpoints.
//
//   POST  /api/sites        – create a draft record (guest or signed-in)
//   GET   /api/sites/{id}   – fetch a record by id
//   PATCH /api/sites/{id}   – merge design data; first authorised save claims
//                             an unowned record for the caller
//
// The requester id comes from the verified token the identity middleware put
// in the context.  Creation works anonymously; saving never does.

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keystoneweb/keystone/internal/errs"
	"github.com/keystoneweb/keystone/internal/identity"
	"github.com/keystoneweb/keystone/internal/site"
)

// createSiteRequest mirrors the client payload for POST /api/sites.
type createSiteRequest struct {
	TemplateID   string `json:"selectedTemplateId"`
	BusinessType string `json:"businessType"`
	Category     string `json:"category"`
}

func (h *Handler) createSite(w http.ResponseWriter, r *http.Request) {
	var req createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", errs.ErrValidation))
		return
	}

	requester, _ := identity.UserID(r.Context())

	rec, err := h.Sites.Create(r.Context(), req.TemplateID, req.BusinessType, req.Category, requester)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) getSite(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Sites.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// saveSiteRequest carries a shallow design-data patch.
type saveSiteRequest struct {
	DesignData site.DesignData `json:"designData"`
}

func (h *Handler) saveSite(w http.ResponseWriter, r *http.Request) {
	var req saveSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", errs.ErrValidation))
		return
	}

	requester, _ := identity.UserID(r.Context())

	rec, err := h.Sites.Save(r.Context(), chi.URLParam(r, "id"), req.DesignData, requester)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
