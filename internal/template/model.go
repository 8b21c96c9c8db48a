// internal/template/model.go
//
// Template catalog types.
//
// Context
// -------
// Templates are immutable, shared, read-only artifacts: raw markup bytes in
// `template_asset` plus one metadata row in `template_meta`.  Metadata
// declares the named palettes (color-slot → hex) and the recognized content
// keys with their human labels and default text.  Tenant activity never
// mutates a template; the compositor only looks them up.
package template

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Palette is one named set of color-slot → color-value assignments.
// Conventional slots are "primary", "secondary", and "accent".
type Palette map[string]string

// PaletteSet maps palette name → Palette.  The "default" entry supplies
// fallback values for unsupplied slots at composition time.
type PaletteSet map[string]Palette

// DefaultPaletteName is the reserved palette key used for fallbacks.
const DefaultPaletteName = "default"

// ContentKey declares one user-editable text slot in a template.
type ContentKey struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default string `json:"default"`
}

// ContentKeys is the ordered list a template declares.
type ContentKeys []ContentKey

// Meta mirrors one row in `template_meta`.
type Meta struct {
	TemplateID   string      `db:"template_id"   json:"templateId"`
	Name         string      `db:"name"          json:"name"`
	Description  string      `db:"description"   json:"description"`
	Category     string      `db:"category"      json:"category"`
	BusinessType string      `db:"business_type" json:"businessType"`
	Palettes     PaletteSet  `db:"palettes"      json:"palettes"`
	ContentKeys  ContentKeys `db:"content_keys"  json:"contentKeys"`
	ThumbnailURL string      `db:"thumbnail_url" json:"thumbnailUrl"`
	CreatedAt    time.Time   `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at"    json:"updatedAt"`
}

// DefaultPalette returns the declared default palette, or an empty one when
// the template declares none.
func (m *Meta) DefaultPalette() Palette {
	if p, ok := m.Palettes[DefaultPaletteName]; ok {
		return p
	}
	return Palette{}
}

// Declares reports whether key is a recognized content key.
func (m *Meta) Declares(key string) bool {
	for _, ck := range m.ContentKeys {
		if ck.Key == key {
			return true
		}
	}
	return false
}

//
// JSON column plumbing
//

func (p PaletteSet) Value() (driver.Value, error)  { return jsonValue(p) }
func (p *PaletteSet) Scan(src any) error           { return jsonScan(src, p) }
func (c ContentKeys) Value() (driver.Value, error) { return jsonValue(c) }
func (c *ContentKeys) Scan(src any) error          { return jsonScan(src, c) }

func jsonValue(v any) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("template: cannot scan %T", src)
	}
}
