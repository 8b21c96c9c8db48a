// internal/httpapi/user.go
//
// Signed-in user endpoints.
//
//   GET /api/user/sites        – {sites, count}: all records owned by the
//                                caller, most recently edited first
//   GET /api/user/latest-site  – {site}: the single most recent record; an
//                                owner with no sites gets a distinct 404
//                                body so the client can branch to onboarding

package httpapi

import (
	"errors"
	"net/http"

	"github.com/keystoneweb/keystone/internal/errs"
	"github.com/keystoneweb/keystone/internal/identity"
	"github.com/keystoneweb/keystone/internal/site"
)

// userSitesResponse is the listing envelope the builder UI branches on.
type userSitesResponse struct {
	Sites []site.Record `json:"sites"`
	Count int           `json:"count"`
}

// latestSiteResponse wraps the single most recent record.
type latestSiteResponse struct {
	Site *site.Record `json:"site"`
}

func (h *Handler) listUserSites(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.UserID(r.Context())

	recs, err := h.Sites.ListByOwner(r.Context(), requester)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userSitesResponse{Sites: recs, Count: len(recs)})
}

func (h *Handler) latestUserSite(w http.ResponseWriter, r *http.Request) {
	requester, _ := identity.UserID(r.Context())

	rec, err := h.Sites.LatestByOwner(r.Context(), requester)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "No sites found"})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, latestSiteResponse{Site: rec})
}
