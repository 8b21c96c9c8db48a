// internal/httpapi/router.go
//
// Route table for the platform API and the tenant serving path.
//
// Context
//   The host middleware (internal/routing) rewrites tenant requests to
//   /site/{host}{path} before the mux sees them, so a single chi router
//   covers both surfaces: platform hosts hit /api/*, tenant hosts land on
//   the /site/ subtree.

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keystoneweb/keystone/internal/compose"
	"github.com/keystoneweb/keystone/internal/site"
	"github.com/keystoneweb/keystone/internal/template"
)

// Handler bundles the services the routes need.
type Handler struct {
	Sites      *site.Manager
	Templates  *template.Catalog
	Compositor *compose.Compositor
}

// Router builds the chi mux for h.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/sites", h.createSite)
		r.Get("/sites/{id}", h.getSite)
		r.Patch("/sites/{id}", h.saveSite)

		r.Get("/user/sites", h.listUserSites)
		r.Get("/user/latest-site", h.latestUserSite)

		r.Get("/templates/metadata", h.listTemplates)
		r.Get("/templates/metadata/{id}", h.templateMeta)
		r.Get("/templates/{id}", h.templateMarkup)
	})

	// Rewritten tenant traffic.
	r.Get("/site/{host}", h.serveSite)
	r.Get("/site/{host}/*", h.serveSite)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
