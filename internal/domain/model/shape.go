package model

import (
	"github.com/paulmach/orb"
)

// Shape is one administrative unit as served by the maillage service:
// an identifying code, a display label and GeoJSON geometry. Boundary and
// Centre share the same coordinate system (longitude/latitude). Shapes are
// immutable once decoded; a new fetch replaces the whole collection.
type Shape struct {
	Code     string       `json:"code"`
	Libelle  string       `json:"libelle"`
	Boundary orb.Geometry `json:"-"`
	Centre   *orb.Point   `json:"-"`
	Niveau   AdminLevel   `json:"niveau,omitempty"`
}

// BreadcrumbEntry is one node of the root-to-shape hierarchy path
// (fil d'Ariane) returned by the maillage service.
type BreadcrumbEntry struct {
	Code    string     `json:"code"`
	Libelle string     `json:"libelle"`
	Niveau  AdminLevel `json:"niveau,omitempty"`
}

// LevelStat is one row of the maillage /stats summary.
type LevelStat struct {
	Niveau string `json:"niveau"`
	Total  int    `json:"total"`
}

// ShapeCodes returns the non-empty codes of shapes, in order.
func ShapeCodes(shapes []Shape) []string {
	codes := make([]string, 0, len(shapes))
	for _, s := range shapes {
		if s.Code != "" {
			codes = append(codes, s.Code)
		}
	}
	return codes
}
