// internal/compose/mode.go
//
// Presentation mode for composed pages.  Mode is an explicit parameter
// threaded through composition — never ambient state — so the same inputs
// always yield the same bytes.
package compose

import "fmt"

// Mode selects how substituted regions are presented.
type Mode int

const (
	// ModePublish emits final literal content only.  Used for tenant
	// serving.
	ModePublish Mode = iota

	// ModePreview matches publish output; it exists so the editor can ask
	// for a clean render without implying the site is live.
	ModePreview

	// ModeEdit wraps substituted regions with stable edit-target markers
	// so the editor chrome can find and target them inline.
	ModeEdit
)

var modeNames = map[Mode]string{
	ModePublish: "publish",
	ModePreview: "preview",
	ModeEdit:    "edit",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a query value to a Mode; unknown values fall back to
// publish, the safest rendering.
func ParseMode(s string) Mode {
	switch s {
	case "edit":
		return ModeEdit
	case "preview":
		return ModePreview
	default:
		return ModePublish
	}
}
