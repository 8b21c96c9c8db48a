// internal/site/model.go
//
// Site record and design-data types.
//
// Context
// -------
// One row per customer website.  Ownership is monotonic: OwnerID starts
// NULL for guest-created sites and is set exactly once, by the first
// authenticated save ("claim on save").  The design data is an open JSON
// map with no fixed schema — keys are additive and the merge on save is a
// shallow overwrite-by-key.
package site

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Record mirrors one row in the persistent `site` table.
type Record struct {
	ID           string     `db:"id"            json:"id"`
	OwnerID      *string    `db:"owner_id"      json:"userId"`
	TemplateID   string     `db:"template_id"   json:"selectedTemplateId"`
	BusinessType string     `db:"business_type" json:"businessType"`
	Category     string     `db:"category"      json:"category"`
	Domain       *string    `db:"domain"        json:"domain,omitempty"`
	DesignData   DesignData `db:"design_data"   json:"designData"`
	PublishedAt  *time.Time `db:"published_at"  json:"publishedAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updatedAt"`
}

// OwnedBy reports whether the record is claimed by userID.
func (r *Record) OwnedBy(userID string) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}

// Claimed reports whether any owner has been set.
func (r *Record) Claimed() bool { return r.OwnerID != nil }

// DesignData is the open per-site customization map (title, tagline,
// palette selection, per-field editable text, and so on).  Stored as one
// JSON column.
type DesignData map[string]any

// Merge returns a new map with every key from patch overwriting the
// receiver and all other keys preserved.  Applying the same patch twice
// yields the same result as applying it once.
func (d DesignData) Merge(patch DesignData) DesignData {
	out := make(DesignData, len(d)+len(patch))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer so sqlx can write the JSON column.
func (d DesignData) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.  NULL scans as the empty map.
func (d *DesignData) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = DesignData{}
		return nil
	case []byte:
		if len(v) == 0 {
			*d = DesignData{}
			return nil
		}
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("site: cannot scan %T into DesignData", src)
	}
}
