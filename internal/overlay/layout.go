// Package overlay renders the conversion result as a styled panel
// positioned over the captured image.
package overlay

// Layout holds the placement parameters for the result panel relative
// to the captured image.
type Layout struct {
	Anchor     string
	OffsetX    int
	OffsetY    int
	PanelWidth int
}

// Anchor positions.
const (
	AnchorTopLeft     = "top-left"
	AnchorTopRight    = "top-right"
	AnchorBottomLeft  = "bottom-left"
	AnchorBottomRight = "bottom-right"
	AnchorCenter      = "center"
)

// layouts keys document kinds to hand-tuned placements. Receipts are
// tall and narrow, so the panel sits beside them; menus get a wider
// panel for line items.
var layouts = map[string]Layout{
	"default": {Anchor: AnchorBottomRight, OffsetX: 2, OffsetY: 1, PanelWidth: 36},
	"tag":     {Anchor: AnchorBottomRight, OffsetX: 2, OffsetY: 1, PanelWidth: 36},
	"receipt": {Anchor: AnchorTopRight, OffsetX: 4, OffsetY: 0, PanelWidth: 44},
	"menu":    {Anchor: AnchorCenter, OffsetX: 0, OffsetY: 2, PanelWidth: 52},
}

// LayoutFor returns the placement for a layout key, falling back to
// the default placement for unknown keys.
func LayoutFor(key string) Layout {
	if l, ok := layouts[key]; ok {
		return l
	}
	return layouts["default"]
}
