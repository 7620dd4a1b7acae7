package maillage

import (
	json "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"homepedia-map/internal/domain/model"
)

// shapePayload is the wire representation of one maille. The breadcrumb
// endpoint serves the same rows without geometry, so shape and centre are
// optional.
type shapePayload struct {
	Code    string          `json:"code"`
	Libelle string          `json:"libelle"`
	Shape   json.RawMessage `json:"shape"`
	Centre  json.RawMessage `json:"centre"`
	Niveau  string          `json:"niveau,omitempty"`
}

func decodeShapes(payload []shapePayload) []model.Shape {
	shapes := make([]model.Shape, 0, len(payload))
	for _, p := range payload {
		s := model.Shape{Code: p.Code, Libelle: p.Libelle}
		if lvl, ok := model.ParseAdminLevel(p.Niveau); ok {
			s.Niveau = lvl
		}
		s.Boundary = decodeBoundary(p.Shape)
		s.Centre = decodeCentre(p.Centre)
		shapes = append(shapes, s)
	}
	return shapes
}

func decodeBoundary(raw json.RawMessage) orb.Geometry {
	if len(raw) == 0 {
		return nil
	}
	var g geojson.Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil
	}
	switch geom := g.Geometry().(type) {
	case orb.Polygon, orb.MultiPolygon:
		return geom
	default:
		return nil
	}
}

// decodeCentre accepts both a plain GeoJSON Point and the service's variant
// where the point coordinates arrive wrapped in one extra array level.
func decodeCentre(raw json.RawMessage) *orb.Point {
	if len(raw) == 0 {
		return nil
	}
	var g geojson.Geometry
	if err := json.Unmarshal(raw, &g); err == nil {
		if pt, ok := g.Geometry().(orb.Point); ok {
			return &pt
		}
	}
	var nested struct {
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil &&
		len(nested.Coordinates) > 0 && len(nested.Coordinates[0]) == 2 {
		pt := orb.Point{nested.Coordinates[0][0], nested.Coordinates[0][1]}
		return &pt
	}
	return nil
}
