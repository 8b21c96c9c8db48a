// internal/site/manager_test.go
//
// Unit-tests for the Site Record Manager using sqlmock.
//
// Context
// -------
// The manager's save path carries the platform's only real authorization
// invariant: ownership is claimed on first authenticated save and is never
// reassigned.  These tests pin down:
//
//   • create validation and owner pre-seeding
//   • claim-on-save for unclaimed records
//   • Forbidden for a different verified identity, with rollback
//   • shallow, idempotent design-data merge
//   • NotFound vs Unauthorized vs Forbidden separation

package site

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

func newMock(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewManager(sqlx.NewDb(db, "sqlmock")), mock
}

func siteColumns() []string {
	return []string{"id", "owner_id", "template_id", "business_type", "category",
		"domain", "design_data", "published_at", "created_at", "updated_at"}
}

func TestCreate_RequiresClassification(t *testing.T) {
	m, _ := newMock(t)

	for _, args := range [][3]string{
		{"", "services", "plumber"},
		{"T1", "", "plumber"},
		{"T1", "services", ""},
	} {
		_, err := m.Create(context.Background(), args[0], args[1], args[2], "")
		require.True(t, errors.Is(err, errs.ErrValidation), "args %v: got %v", args, err)
	}
}

func TestCreate_GuestThenUniqueIDs(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO site`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO site`).WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := m.Create(context.Background(), "T1", "services", "plumber", "")
	require.NoError(t, err)
	require.Nil(t, first.OwnerID, "guest create must be unclaimed")
	require.Empty(t, first.DesignData)

	second, err := m.Create(context.Background(), "T1", "services", "plumber", "")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID, "ids must be fresh per create")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_PreSeedsOwner(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO site`).WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := m.Create(context.Background(), "T1", "services", "plumber", "U1")
	require.NoError(t, err)
	require.True(t, rec.OwnedBy("U1"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_ClaimOnFirstAuthenticatedSave(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("S1").
		WillReturnRows(sqlmock.NewRows(siteColumns()).
			AddRow("S1", nil, "T1", "services", "plumber",
				nil, []byte(`{}`), nil, time.Now(), time.Now()))
	mock.ExpectExec(`UPDATE site`).
		WithArgs([]byte(`{"title":"Acme"}`), "U1", sqlmock.AnyArg(), "S1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := m.Save(context.Background(), "S1", DesignData{"title": "Acme"}, "U1")
	require.NoError(t, err)
	require.True(t, rec.OwnedBy("U1"), "unclaimed record must be claimed by first save")
	require.Equal(t, "Acme", rec.DesignData["title"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_MergePreservesOtherKeys(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("S1").
		WillReturnRows(sqlmock.NewRows(siteColumns()).
			AddRow("S1", "U1", "T1", "services", "plumber",
				nil, []byte(`{"tagline":"Fast"}`), nil, time.Now(), time.Now()))
	// JSON object keys marshal in sorted order, so the merged payload is stable.
	mock.ExpectExec(`UPDATE site`).
		WithArgs([]byte(`{"tagline":"Fast","title":"Acme"}`), "U1", sqlmock.AnyArg(), "S1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := m.Save(context.Background(), "S1", DesignData{"title": "Acme"}, "U1")
	require.NoError(t, err)
	require.Equal(t, "Fast", rec.DesignData["tagline"], "absent keys must be preserved")
	require.Equal(t, "Acme", rec.DesignData["title"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_ForbiddenForOtherIdentity(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("S1").
		WillReturnRows(sqlmock.NewRows(siteColumns()).
			AddRow("S1", "U1", "T1", "services", "plumber",
				nil, []byte(`{"title":"Acme"}`), nil, time.Now(), time.Now()))
	mock.ExpectRollback()

	_, err := m.Save(context.Background(), "S1", DesignData{"tagline": "Fast"}, "U2")
	require.True(t, errors.Is(err, errs.ErrForbidden), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Unauthorized(t *testing.T) {
	m, _ := newMock(t)

	_, err := m.Save(context.Background(), "S1", DesignData{"title": "Acme"}, "")
	require.True(t, errors.Is(err, errs.ErrUnauthorized))
}

func TestSave_NotFound(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(siteColumns()))
	mock.ExpectRollback()

	_, err := m.Save(context.Background(), "missing", DesignData{}, "U1")
	require.True(t, errors.Is(err, errs.ErrNotFound), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_Idempotent(t *testing.T) {
	base := DesignData{"title": "Old", "tagline": "Keep"}
	patch := DesignData{"title": "New"}

	once := base.Merge(patch)
	twice := once.Merge(patch)

	require.Equal(t, once, twice)
	require.Equal(t, "New", once["title"])
	require.Equal(t, "Keep", once["tagline"])
	// The receiver is never mutated.
	require.Equal(t, "Old", base["title"])
}

func TestListByOwner_EmptyIsNotAnError(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery(`ORDER\s+BY updated_at DESC`).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows(siteColumns()))

	got, err := m.ListByOwner(context.Background(), "U1")
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestByOwner(t *testing.T) {
	m, mock := newMock(t)

	newer := time.Now()
	older := newer.Add(-time.Hour)
	mock.ExpectQuery(`ORDER\s+BY updated_at DESC`).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows(siteColumns()).
			AddRow("S2", "U1", "T1", "services", "plumber",
				nil, []byte(`{}`), nil, older, newer).
			AddRow("S1", "U1", "T1", "services", "plumber",
				nil, []byte(`{}`), nil, older, older))

	rec, err := m.LatestByOwner(context.Background(), "U1")
	require.NoError(t, err)
	require.Equal(t, "S2", rec.ID)

	// Zero sites is NotFound, distinct from an access failure.
	mock.ExpectQuery(`ORDER\s+BY updated_at DESC`).
		WithArgs("U2").
		WillReturnRows(sqlmock.NewRows(siteColumns()))

	_, err = m.LatestByOwner(context.Background(), "U2")
	require.True(t, errors.Is(err, errs.ErrNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}
