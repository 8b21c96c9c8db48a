// internal/template/repository.go
//
// sqlx query helpers over `template_meta` and `template_asset`.
package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/keystoneweb/keystone/internal/errs"
)

const metaColumns = `template_id, name, description, category, business_type,
               palettes, content_keys, thumbnail_url, created_at, updated_at`

// metaByID fetches one metadata row.
func metaByID(ctx context.Context, db *sqlx.DB, templateID string) (*Meta, error) {
	const q = `SELECT ` + metaColumns + ` FROM template_meta WHERE template_id = ? LIMIT 1`
	var m Meta
	if err := db.GetContext(ctx, &m, q, templateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: template meta: %v", errs.ErrInternal, err)
	}
	return &m, nil
}

// Filter narrows catalog listings by classification tags.  Zero values
// match everything.
type Filter struct {
	Category     string
	BusinessType string
}

// listMeta returns one page of catalog metadata plus the unpaged total.
// offset/limit are pre-validated by the catalog.
func listMeta(ctx context.Context, db *sqlx.DB, f Filter, offset, limit int) ([]Meta, int, error) {
	where := ` WHERE 1=1`
	args := make([]any, 0, 4)
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.BusinessType != "" {
		where += ` AND business_type = ?`
		args = append(args, f.BusinessType)
	}

	var total int
	if err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM template_meta`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: template count: %v", errs.ErrInternal, err)
	}

	q := `SELECT ` + metaColumns + ` FROM template_meta` + where +
		` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows := make([]Meta, 0, limit)
	if err := db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: template list: %v", errs.ErrInternal, err)
	}
	return rows, total, nil
}

// markupByID fetches the raw template markup.
func markupByID(ctx context.Context, db *sqlx.DB, templateID string) ([]byte, error) {
	const q = `SELECT markup FROM template_asset WHERE template_id = ? LIMIT 1`
	var markup []byte
	if err := db.GetContext(ctx, &markup, q, templateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: template asset: %v", errs.ErrInternal, err)
	}
	return markup, nil
}
