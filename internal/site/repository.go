// internal/site/repository.go
//
// sqlx query helpers over the `site` table.  These are thin; ownership and
// merge logic live in the Manager so every storage call stays a single,
// obvious statement.
package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/keystoneweb/keystone/internal/errs"
)

const columns = `id, owner_id, template_id, business_type, category,
               domain, design_data, published_at, created_at, updated_at`

// insert writes a freshly created record.
func insert(ctx context.Context, db sqlx.ExtContext, rec *Record) error {
	const q = `
        INSERT INTO site (id, owner_id, template_id, business_type, category,
                          domain, design_data, published_at, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		rec.ID, rec.OwnerID, rec.TemplateID, rec.BusinessType, rec.Category,
		rec.Domain, rec.DesignData, rec.PublishedAt, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert site: %v", errs.ErrInternal, err)
	}
	return nil
}

// byID fetches a single record.
func byID(ctx context.Context, db *sqlx.DB, id string) (*Record, error) {
	const q = `SELECT ` + columns + ` FROM site WHERE id = ? LIMIT 1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: site by id: %v", errs.ErrInternal, err)
	}
	return &rec, nil
}

// byIDForUpdate fetches a record under a row lock.  Used by Save so the
// ownership check and the write commit or roll back as one unit.
func byIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*Record, error) {
	const q = `SELECT ` + columns + ` FROM site WHERE id = ? LIMIT 1 FOR UPDATE`
	var rec Record
	if err := tx.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: site lock: %v", errs.ErrInternal, err)
	}
	return &rec, nil
}

// ByDomain fetches the published site serving a tenant hostname.
func ByDomain(ctx context.Context, db *sqlx.DB, domain string) (*Record, error) {
	const q = `
        SELECT ` + columns + `
        FROM   site
        WHERE  domain = ?
          AND  published_at IS NOT NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, domain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%w: site by domain: %v", errs.ErrInternal, err)
	}
	return &rec, nil
}

// byOwner returns every site claimed by ownerID, most recently updated
// first.  An owner with no sites gets an empty slice, not an error.
func byOwner(ctx context.Context, db *sqlx.DB, ownerID string) ([]Record, error) {
	const q = `
        SELECT ` + columns + `
        FROM   site
        WHERE  owner_id = ?
        ORDER  BY updated_at DESC`
	rows := make([]Record, 0, 4)
	if err := db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, fmt.Errorf("%w: sites by owner: %v", errs.ErrInternal, err)
	}
	return rows, nil
}
