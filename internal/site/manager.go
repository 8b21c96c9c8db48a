// internal/site/manager.go
//
// Site Record Manager: create, get, save, and owner listings.
//
// Context
// -------
// Save is the security- and consistency-critical path.  The rules:
//
//   • The caller must be a verified identity (the handler layer only puts
//     verified ids in play; an empty requester is Unauthorized here too).
//   • A claimed record owned by someone else is Forbidden — never silently
//     reassigned.
//   • The design-data patch is a shallow overwrite-by-key merge, so
//     replaying a patch is a no-op.
//   • OwnerID is set to the requester unconditionally, which is how an
//     unclaimed record becomes claimed on first authenticated save.
//
// The whole save runs inside one transaction with the row locked, so a
// cancelled request commits nothing.  There is no version token; two
// concurrent saves resolve by last-write-wins, which callers rely on.
package site

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/keystoneweb/keystone/internal/errs"
	"github.com/keystoneweb/keystone/internal/metrics"
)

// Manager owns all reads and writes of site records.  Stateless apart from
// the pool handle; safe for concurrent use.
type Manager struct {
	db *sqlx.DB
}

// NewManager binds a Manager to the content-store pool.
func NewManager(db *sqlx.DB) *Manager {
	return &Manager{db: db}
}

// Create allocates a new unclaimed (or pre-claimed) site record.  All three
// classification fields are required.  requesterID may be empty for guest
// onboarding; an authenticated requester pre-seeds OwnerID so claim-on-save
// is a single code path, not two.
func (m *Manager) Create(ctx context.Context, templateID, businessType, category, requesterID string) (*Record, error) {
	if templateID == "" || businessType == "" || category == "" {
		return nil, fmt.Errorf("%w: templateId, businessType, and category are required", errs.ErrValidation)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("%w: id generation: %v", errs.ErrInternal, err)
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:           id.String(),
		TemplateID:   templateID,
		BusinessType: businessType,
		Category:     category,
		DesignData:   DesignData{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if requesterID != "" {
		rec.OwnerID = &requesterID
	}

	if err := insert(ctx, m.db, rec); err != nil {
		return nil, err
	}

	zap.L().Info("site created",
		zap.String("site", rec.ID),
		zap.String("template", templateID),
		zap.Bool("claimed", rec.Claimed()))
	return rec, nil
}

// Get fetches one record by id.
func (m *Manager) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: site id is required", errs.ErrValidation)
	}
	return byID(ctx, m.db, id)
}

// ByDomain resolves a tenant hostname to its published site.
func (m *Manager) ByDomain(ctx context.Context, domain string) (*Record, error) {
	if domain == "" {
		return nil, errs.ErrNotFound
	}
	return ByDomain(ctx, m.db, domain)
}

// Save merges a design-data patch into the record, claiming ownership for
// the requester when the record is unclaimed.  Either the merged data, the
// owner, and the timestamp all commit, or nothing does.
func (m *Manager) Save(ctx context.Context, id string, patch DesignData, requesterID string) (rec *Record, err error) {
	if requesterID == "" {
		return nil, errs.ErrUnauthorized
	}
	if id == "" {
		return nil, fmt.Errorf("%w: site id is required", errs.ErrValidation)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin save: %v", errs.ErrInternal, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err = byIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if rec.Claimed() && !rec.OwnedBy(requesterID) {
		metrics.SiteSaveDeniedTotal.Inc()
		zap.L().Warn("save rejected: record owned by another identity",
			zap.String("site", id))
		return nil, errs.ErrForbidden
	}

	merged := rec.DesignData.Merge(patch)
	now := time.Now().UTC()

	const q = `
        UPDATE site
        SET    design_data = ?, owner_id = ?, updated_at = ?
        WHERE  id = ?`
	if _, err = tx.ExecContext(ctx, q, merged, requesterID, now, id); err != nil {
		return nil, fmt.Errorf("%w: save site: %v", errs.ErrInternal, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit save: %v", errs.ErrInternal, err)
	}

	rec.DesignData = merged
	rec.OwnerID = &requesterID
	rec.UpdatedAt = now
	metrics.SiteSaveTotal.Inc()
	return rec, nil
}

// ListByOwner returns all of the requester's sites, most recent first.
func (m *Manager) ListByOwner(ctx context.Context, requesterID string) ([]Record, error) {
	if requesterID == "" {
		return nil, errs.ErrUnauthorized
	}
	return byOwner(ctx, m.db, requesterID)
}

// LatestByOwner returns the requester's most recently updated site.  An
// owner with zero sites gets NotFound — "create your first site", not an
// access problem.
func (m *Manager) LatestByOwner(ctx context.Context, requesterID string) (*Record, error) {
	all, err := m.ListByOwner(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errs.ErrNotFound
	}
	return &all[0], nil
}
