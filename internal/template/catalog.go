// internal/template/catalog.go
//
// Template catalog: the explicit registry mapping templateId → (markup
// asset, metadata).
//
// Context
// -------
// Templates are immutable once published, which makes their bytes the one
// thing in the serving path that is safe to cache in-process.  Markup is
// held in a small LRU; concurrent cold lookups for the same id are
// collapsed through singleflight so a popular template is fetched once,
// not once per in-flight request.  Metadata is small and read per request
// without caching — site records must never be cached, and keeping
// metadata reads honest costs one indexed point query.
package template

import (
	"context"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/keystoneweb/keystone/internal/cache"
	"github.com/keystoneweb/keystone/internal/metrics"
)

// markupCacheSize bounds the in-process markup LRU.  Assets are a few KB
// each, so this stays well under a megabyte of steady-state memory.
const markupCacheSize = 256

// Catalog looks up template metadata and markup.  Safe for concurrent use.
type Catalog struct {
	db     *sqlx.DB
	markup *cache.LRU
	sfg    singleflight.Group
}

// NewCatalog binds a Catalog to the content-store pool.
func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{
		db:     db,
		markup: cache.New(markupCacheSize),
	}
}

// Meta fetches the metadata record for templateID.
func (c *Catalog) Meta(ctx context.Context, templateID string) (*Meta, error) {
	return metaByID(ctx, c.db, templateID)
}

// Markup returns the immutable base markup for templateID, from cache when
// warm.  Errors are not cached; a missing template stays a cheap miss.
func (c *Catalog) Markup(ctx context.Context, templateID string) ([]byte, error) {
	if v, ok := c.markup.Get(templateID); ok {
		metrics.TemplateCacheHitsTotal.Inc()
		return v.([]byte), nil
	}
	metrics.TemplateCacheMissesTotal.Inc()

	v, err, _ := c.sfg.Do(templateID, func() (any, error) {
		if v, ok := c.markup.Get(templateID); ok {
			return v, nil
		}
		b, err := markupByID(ctx, c.db, templateID)
		if err != nil {
			return nil, err
		}
		c.markup.Add(templateID, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Page is one slice of the catalog listing.
type Page struct {
	Items   []Meta `json:"templates"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	HasMore bool   `json:"hasMore"`
}

// listing page bounds.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// List returns one page of catalog metadata filtered by classification
// tags.  page is 1-based; out-of-range inputs are clamped, never errors.
func (c *Catalog) List(ctx context.Context, f Filter, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := listMeta(ctx, c.db, f, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:   items,
		Total:   total,
		Page:    page,
		HasMore: page*limit < total,
	}, nil
}
