package template

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/keystoneweb/keystone/internal/errs"
)

func newCatalog(t *testing.T) (*Catalog, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalog(sqlx.NewDb(db, "sqlmock")), mock
}

func metaRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"template_id", "name", "description", "category",
		"business_type", "palettes", "content_keys", "thumbnail_url", "created_at", "updated_at"}).
		AddRow("classic-pro-plumber", "Classic Pro", "Professional plumber layout",
			"plumber", "services",
			[]byte(`{"default":{"primary":"#1f2937","secondary":"#dc2626","accent":"#f3f4f6"},"ocean":{"primary":"#0c4a6e","secondary":"#0284c7","accent":"#e0f2fe"}}`),
			[]byte(`[{"key":"heroTitle","label":"Hero title","default":"Expert Plumbing Services"}]`),
			"/thumbs/classic-pro.png", time.Now(), time.Now())
}

func TestMeta_DeclaresAndDefaults(t *testing.T) {
	c, mock := newCatalog(t)

	mock.ExpectQuery(`FROM template_meta WHERE template_id`).
		WithArgs("classic-pro-plumber").
		WillReturnRows(metaRow())

	m, err := c.Meta(context.Background(), "classic-pro-plumber")
	require.NoError(t, err)
	require.True(t, m.Declares("heroTitle"))
	require.False(t, m.Declares("unknownKey"))
	require.Equal(t, "#dc2626", m.DefaultPalette()["secondary"])
	require.Contains(t, m.Palettes, "ocean")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeta_NotFound(t *testing.T) {
	c, mock := newCatalog(t)

	mock.ExpectQuery(`FROM template_meta WHERE template_id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"template_id"}))

	_, err := c.Meta(context.Background(), "missing")
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestMarkup_CachedAfterFirstFetch(t *testing.T) {
	c, mock := newCatalog(t)

	// One DB round-trip only; the second call must be served from cache.
	mock.ExpectQuery(`FROM template_asset WHERE template_id`).
		WithArgs("classic-pro-plumber").
		WillReturnRows(sqlmock.NewRows([]string{"markup"}).
			AddRow([]byte(`<html><head></head><body><h1>{{heroTitle}}</h1></body></html>`)))

	first, err := c.Markup(context.Background(), "classic-pro-plumber")
	require.NoError(t, err)

	second, err := c.Markup(context.Background(), "classic-pro-plumber")
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkup_NotFoundIsNotCached(t *testing.T) {
	c, mock := newCatalog(t)

	mock.ExpectQuery(`FROM template_asset WHERE template_id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"markup"}))

	_, err := c.Markup(context.Background(), "missing")
	require.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestList_Pagination(t *testing.T) {
	c, mock := newCatalog(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM template_meta`).
		WithArgs("plumber").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM template_meta WHERE 1=1 AND category`).
		WithArgs("plumber", 2, 0).
		WillReturnRows(metaRow())

	page, err := c.List(context.Background(), Filter{Category: "plumber"}, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 1, page.Page)
	require.True(t, page.HasMore)

	require.NoError(t, mock.ExpectationsWereMet())
}
