package service

import (
	"github.com/paulmach/orb"

	"homepedia-map/internal/domain/model"
)

// PolygonStyle is the stroke/fill styling of one rendered zone.
type PolygonStyle struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	Opacity     float64 `json:"opacity"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// DefaultZoneStyle is the neutral style used when no reputation color is
// available.
var DefaultZoneStyle = PolygonStyle{
	Color:       "#000000",
	FillColor:   "#ffffff",
	Opacity:     0.5,
	Weight:      2,
	FillOpacity: 0.5,
}

// Interaction overlays, applied on top of the base style. Precedence is
// highlighted > selected > hovered > custom color > default.
var (
	hoverStyle = PolygonStyle{
		Weight:      3,
		FillOpacity: 0.3,
		Opacity:     1,
	}
	selectedStyle = PolygonStyle{
		Color:       "#0066ff",
		Weight:      3,
		FillOpacity: 0.5,
	}
	highlightedStyle = PolygonStyle{
		Color:   "red",
		Weight:  5,
		Opacity: 1,
	}
)

// ZoneRenderInput gathers everything needed to render one zone.
type ZoneRenderInput struct {
	Shape           model.Shape
	Visible         bool
	Style           *PolygonStyle
	SelectedCode    string
	HighlightedCode string
	HoveredCode     string
	Display         ZoneDisplay
}

// Tooltip is the hover payload of a rendered zone.
type Tooltip struct {
	Libelle string                  `json:"libelle"`
	Code    string                  `json:"code"`
	Stats   *model.ReputationRecord `json:"stats,omitempty"`
	Color   string                  `json:"color,omitempty"`
}

// RenderedZone is the draw plan for one administrative polygon: decimated
// rings, resolved style and tooltip payload.
type RenderedZone struct {
	Code        string        `json:"code"`
	Libelle     string        `json:"libelle"`
	Selected    bool          `json:"selected"`
	Highlighted bool          `json:"highlighted"`
	Rings       [][]orb.Point `json:"rings"`
	Style       PolygonStyle  `json:"style"`
	Tooltip     Tooltip       `json:"tooltip"`
}

// RenderZone builds the draw plan for one zone, or nil when the zone is not
// visible.
func RenderZone(in ZoneRenderInput) *RenderedZone {
	if !in.Visible {
		return nil
	}
	code := in.Shape.Code
	selected := code != "" && code == in.SelectedCode
	highlighted := code != "" && code == in.HighlightedCode
	hovered := code != "" && code == in.HoveredCode

	return &RenderedZone{
		Code:        code,
		Libelle:     in.Shape.Libelle,
		Selected:    selected,
		Highlighted: highlighted,
		Rings:       DecimateBoundary(in.Shape.Boundary),
		Style:       resolveStyle(in.Style, in.Display.Color, hovered, selected, highlighted),
		Tooltip: Tooltip{
			Libelle: in.Shape.Libelle,
			Code:    code,
			Stats:   in.Display.Stats,
			Color:   in.Display.Color,
		},
	}
}

// resolveStyle applies the custom reputation color, then the single
// highest-priority interaction overlay.
func resolveStyle(base *PolygonStyle, customColor string, hovered, selected, highlighted bool) PolygonStyle {
	st := DefaultZoneStyle
	if base != nil {
		st = *base
	}
	if customColor != "" {
		st.FillColor = customColor
		st.FillOpacity = 1
	}
	switch {
	case highlighted:
		st.Color = highlightedStyle.Color
		st.Weight = highlightedStyle.Weight
		st.Opacity = highlightedStyle.Opacity
	case selected:
		st.Color = selectedStyle.Color
		st.Weight = selectedStyle.Weight
		st.FillOpacity = selectedStyle.FillOpacity
	case hovered:
		st.Weight = hoverStyle.Weight
		st.FillOpacity = hoverStyle.FillOpacity
		st.Opacity = hoverStyle.Opacity
	}
	return st
}

// Equal reports whether two draw plans are interchangeable: same shape
// identity, flags, resolved style and tooltip stats, compared by value. The
// rings are derived from the shape identity and are not walked.
func (z *RenderedZone) Equal(o *RenderedZone) bool {
	if z == nil || o == nil {
		return z == o
	}
	if z.Code != o.Code || z.Libelle != o.Libelle ||
		z.Selected != o.Selected || z.Highlighted != o.Highlighted ||
		z.Style != o.Style || z.Tooltip.Color != o.Tooltip.Color {
		return false
	}
	zs, os := z.Tooltip.Stats, o.Tooltip.Stats
	if (zs == nil) != (os == nil) {
		return false
	}
	return zs == nil || zs.Equal(*os)
}

// NeedsRedraw reports whether next differs from prev in any way that affects
// the drawn output.
func NeedsRedraw(prev, next *RenderedZone) bool {
	return !prev.Equal(next)
}

// DecimateBoundary extracts the rings of a polygon or multi-polygon boundary,
// down-sampling the dense ones to bound rendering cost: rings longer than 200
// points keep every third point, rings of 101-200 points keep every second,
// smaller rings pass through untouched.
func DecimateBoundary(g orb.Geometry) [][]orb.Point {
	var rings [][]orb.Point
	switch geom := g.(type) {
	case orb.Polygon:
		for _, r := range geom {
			rings = append(rings, decimateRing(r))
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			for _, r := range poly {
				rings = append(rings, decimateRing(r))
			}
		}
	case orb.Ring:
		rings = append(rings, decimateRing(geom))
	}
	return rings
}

func decimateRing(r orb.Ring) []orb.Point {
	n := len(r)
	var step int
	switch {
	case n > 200:
		step = 3
	case n > 100:
		step = 2
	default:
		out := make([]orb.Point, n)
		copy(out, r)
		return out
	}
	out := make([]orb.Point, 0, n/step+1)
	for i := 0; i < n; i += step {
		out = append(out, r[i])
	}
	return out
}
