package usecase

import (
	"context"
	"log/slog"
	"sort"

	"github.com/paulmach/orb"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/domain/service"
	"homepedia-map/internal/logger"
)

// GeometryProvider is the slice of the maillage client the map view needs.
type GeometryProvider interface {
	FetchShapes(ctx context.Context, level model.AdminLevel, code string) ([]model.Shape, error)
	FetchChildShapes(ctx context.Context, parentLevel model.AdminLevel, parentCode string) ([]model.Shape, error)
	FetchBreadcrumb(ctx context.Context, level model.AdminLevel, code string) ([]model.BreadcrumbEntry, error)
}

// ReputationProvider is the slice of the data client the map view needs.
type ReputationProvider interface {
	FetchReputationBatch(ctx context.Context, codes []string, niveau model.AdminLevel) (map[string]model.ReputationRecord, error)
}

// defaultParentCode is the region queried for children before any selection
// exists, matching the backend's historical default.
const defaultParentCode = "84"

// FetchState is the tri-state of one asynchronous data source. A failed
// fetch leaves an error message here and an empty payload in the frame; it
// never aborts the frame.
type FetchState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// FlyTo is a viewport animation instruction: recenter on Center at Zoom.
type FlyTo struct {
	Center orb.Point `json:"center"`
	Zoom   int       `json:"zoom"`
}

// MapFrame is everything a client needs to draw the map for one navigation
// state: the canonical query string, the rendered zones, the viewport
// instruction and the per-source fetch states.
type MapFrame struct {
	Nav             model.NavigationState   `json:"nav"`
	Query           string                  `json:"query"`
	FlyTo           *FlyTo                  `json:"flyTo,omitempty"`
	Breadcrumb      []model.BreadcrumbEntry `json:"breadcrumb,omitempty"`
	Zones           []*service.RenderedZone `json:"zones"`
	VisibleCodes    []string                `json:"visibleCodes"`
	ReputationCodes []string                `json:"reputationCodes"`
	Shapes          FetchState              `json:"shapes"`
	Children        FetchState              `json:"children"`
	Reputations     FetchState              `json:"reputations"`
	Breadcrumbs     FetchState              `json:"breadcrumbs"`
}

// MapViewUseCase builds map frames: it decides which geometry to request for
// a navigation state, which codes need statistics, and how the result is
// rendered.
type MapViewUseCase struct {
	geo   GeometryProvider
	stats ReputationProvider
	log   *slog.Logger
}

// NewMapViewUseCase wires the map view against its providers.
func NewMapViewUseCase(geo GeometryProvider, stats ReputationProvider) *MapViewUseCase {
	return &MapViewUseCase{geo: geo, stats: stats, log: logger.L()}
}

// loadResult is one fully fetched navigation state, before rendering.
type loadResult struct {
	shapes      []model.Shape
	children    []model.Shape
	reputations map[string]model.ReputationRecord
	repCodes    []string
	breadcrumb  []model.BreadcrumbEntry
	shapesState FetchState
	childState  FetchState
	repState    FetchState
	crumbState  FetchState
}

// load fetches everything the navigation state requires. Failures are folded
// into the per-source states; NotFound counts as a valid empty result.
func (u *MapViewUseCase) load(ctx context.Context, nav model.NavigationState) *loadResult {
	res := &loadResult{reputations: map[string]model.ReputationRecord{}}

	niveau := nav.Niveau
	if niveau == "" {
		niveau = model.LevelRegion
	}

	shapes, err := u.geo.FetchShapes(ctx, niveau, nav.Code)
	if err != nil && !model.IsNotFound(err) {
		u.log.Warn("chargement des mailles échoué", "niveau", niveau, "code", nav.Code, "err", err)
		res.shapesState.Error = err.Error()
	}
	res.shapes = shapes

	if niveau.HasChildren() {
		parentCode := nav.Code
		if parentCode == "" {
			parentCode = defaultParentCode
		}
		children, err := u.geo.FetchChildShapes(ctx, niveau, parentCode)
		if err != nil && !model.IsNotFound(err) {
			u.log.Warn("chargement des mailles enfants échoué", "niveau", niveau, "code", parentCode, "err", err)
			res.childState.Error = err.Error()
		}
		res.children = children
	}

	res.repCodes = service.ReputationCodeSet(res.shapes, res.children)
	if nav.TypeDataDisplay == model.DisplayReputation && len(res.repCodes) > 0 {
		reputations, err := u.stats.FetchReputationBatch(ctx, res.repCodes, nav.NiveauLower)
		if err != nil {
			u.log.Warn("chargement des réputations échoué", "codes", len(res.repCodes), "err", err)
			res.repState.Error = err.Error()
		} else {
			res.reputations = reputations
		}
	}

	if nav.Code != "" {
		breadcrumb, err := u.geo.FetchBreadcrumb(ctx, niveau, nav.Code)
		if err != nil {
			if !model.IsNotFound(err) {
				u.log.Debug("fil d'ariane indisponible", "code", nav.Code, "err", err)
				res.crumbState.Error = err.Error()
			}
		} else {
			res.breadcrumb = breadcrumb
		}
	}
	return res
}

// BuildFrame loads and renders one navigation state. bound limits the
// rendered zones to the given viewport; nil means no culling (everything
// visible). lastFly suppresses a redundant fly-to when the target viewport
// already matches; pass nil on first render.
func (u *MapViewUseCase) BuildFrame(ctx context.Context, nav model.NavigationState, bound *orb.Bound, lastFly *FlyTo) *MapFrame {
	res := u.load(ctx, nav)
	return u.render(nav, res, bound, lastFly)
}

// render assembles the frame from already loaded data.
func (u *MapViewUseCase) render(nav model.NavigationState, res *loadResult, bound *orb.Bound, lastFly *FlyTo) *MapFrame {
	frame := &MapFrame{
		Nav:             nav,
		Query:           nav.Encode(),
		Breadcrumb:      res.breadcrumb,
		ReputationCodes: res.repCodes,
		Shapes:          res.shapesState,
		Children:        res.childState,
		Reputations:     res.repState,
		Breadcrumbs:     res.crumbState,
	}

	// Viewport: center on the primary shape at the level's zoom, but only
	// when that differs from the last applied pair.
	if fly := flyTarget(res.shapes, nav.Niveau); fly != nil {
		if lastFly == nil || *lastFly != *fly {
			frame.FlyTo = fly
		}
	}

	idx := service.BuildReputationIndex(flattenRecords(res.reputations))

	// At region and departement level only the child zones are drawn; the
	// current-level shape itself is drawn at commune level.
	var drawable []model.Shape
	drawable = append(drawable, res.children...)
	if !nav.Niveau.HasChildren() {
		drawable = append(drawable, res.shapes...)
	}

	visible := visibleSet(drawable, bound)
	frame.VisibleCodes = sortedCodes(visible)

	for _, shape := range drawable {
		_, isVisible := visible[shape.Code]
		zone := service.RenderZone(service.ZoneRenderInput{
			Shape:           shape,
			Visible:         isVisible,
			SelectedCode:    nav.CodeSelecting,
			HighlightedCode: nav.Code,
			Display:         service.ResolveZoneDisplay(shape.Code, idx),
		})
		if zone != nil {
			frame.Zones = append(frame.Zones, zone)
		}
	}
	return frame
}

// flyTarget derives the (center, zoom) pair for the primary shape, or nil
// when it has no centroid.
func flyTarget(shapes []model.Shape, niveau model.AdminLevel) *FlyTo {
	if len(shapes) == 0 || shapes[0].Centre == nil {
		return nil
	}
	return &FlyTo{Center: *shapes[0].Centre, Zoom: niveau.Zoom()}
}

func visibleSet(shapes []model.Shape, bound *orb.Bound) map[string]struct{} {
	if bound == nil {
		all := make(map[string]struct{}, len(shapes))
		for _, s := range shapes {
			all[s.Code] = struct{}{}
		}
		return all
	}
	return service.VisibleCodes(shapes, *bound)
}

func flattenRecords(m map[string]model.ReputationRecord) []model.ReputationRecord {
	out := make([]model.ReputationRecord, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

func sortedCodes(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
