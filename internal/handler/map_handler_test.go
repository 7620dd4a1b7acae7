package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeGateway implements GeometryGateway for handler tests.
type fakeGateway struct {
	mu          sync.Mutex
	shapes      []model.Shape
	children    []model.Shape
	breadcrumb  []model.BreadcrumbEntry
	searchRes   []model.Shape
	searchErr   error
	stats       []model.LevelStat
	searchCalls int
}

func (f *fakeGateway) FetchShapes(context.Context, model.AdminLevel, string) ([]model.Shape, error) {
	return f.shapes, nil
}

func (f *fakeGateway) FetchChildShapes(context.Context, model.AdminLevel, string) ([]model.Shape, error) {
	return f.children, nil
}

func (f *fakeGateway) FetchBreadcrumb(context.Context, model.AdminLevel, string) ([]model.BreadcrumbEntry, error) {
	return f.breadcrumb, nil
}

func (f *fakeGateway) Search(context.Context, string, model.AdminLevel, int) ([]model.Shape, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.searchRes, f.searchErr
}

func (f *fakeGateway) LevelStats(context.Context) ([]model.LevelStat, error) {
	return f.stats, nil
}

type emptyStats struct{}

func (emptyStats) FetchReputationBatch(context.Context, []string, model.AdminLevel) (map[string]model.ReputationRecord, error) {
	return map[string]model.ReputationRecord{}, nil
}

func newMapRouter(geo *fakeGateway) *gin.Engine {
	uc := usecase.NewMapViewUseCase(geo, emptyStats{})
	h := NewMapHandler(uc, geo)
	r := gin.New()
	r.GET("/api/map/frame", h.GetFrame)
	r.GET("/api/map/search", h.SearchMailles)
	r.GET("/api/map/breadcrumb", h.GetBreadcrumb)
	r.GET("/api/map/stats", h.GetLevelStats)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetFrame(t *testing.T) {
	centre := orb.Point{4.85, 45.76}
	geo := &fakeGateway{shapes: []model.Shape{{
		Code:     "69123",
		Libelle:  "Lyon",
		Niveau:   model.LevelCommune,
		Centre:   &centre,
		Boundary: orb.Polygon{orb.Ring{{4, 45}, {5, 45}, {5, 46}, {4, 45}}},
	}}}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/frame?niveau=commune&code=69123")
	require.Equal(t, http.StatusOK, w.Code)

	var frame usecase.MapFrame
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frame))
	assert.Equal(t, model.LevelCommune, frame.Nav.Niveau)
	require.Len(t, frame.Zones, 1)
	assert.Equal(t, "69123", frame.Zones[0].Code)
	require.NotNil(t, frame.FlyTo)
	assert.Equal(t, 13, frame.FlyTo.Zoom)
}

func TestGetFrameInvalidBBox(t *testing.T) {
	r := newMapRouter(&fakeGateway{})

	for _, bbox := range []string{"1,2,3", "a,b,c,d"} {
		w := doRequest(t, r, http.MethodGet, "/api/map/frame?bbox="+bbox)
		assert.Equal(t, http.StatusBadRequest, w.Code, "bbox=%s", bbox)
	}
}

func TestGetFrameWithBBoxCulls(t *testing.T) {
	inside, outside := orb.Point{4.8, 45.7}, orb.Point{-61.5, 16.25}
	geo := &fakeGateway{shapes: []model.Shape{
		{Code: "69123", Niveau: model.LevelCommune, Centre: &inside, Boundary: orb.Polygon{orb.Ring{{4, 45}, {5, 45}, {5, 46}, {4, 45}}}},
		{Code: "97101", Niveau: model.LevelCommune, Centre: &outside, Boundary: orb.Polygon{orb.Ring{{-62, 16}, {-61, 16}, {-61, 17}, {-62, 16}}}},
	}}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/frame?niveau=commune&code=69123&bbox=-5,41,10,52")
	require.Equal(t, http.StatusOK, w.Code)

	var frame usecase.MapFrame
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frame))
	assert.Equal(t, []string{"69123"}, frame.VisibleCodes)
	require.Len(t, frame.Zones, 1)
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	geo := &fakeGateway{}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/search?q=L")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	assert.Zero(t, geo.searchCalls)
}

func TestSearch(t *testing.T) {
	geo := &fakeGateway{searchRes: []model.Shape{{Code: "69123", Libelle: "Lyon"}}}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/search?q=Lyon")
	require.Equal(t, http.StatusOK, w.Code)

	var res []model.Shape
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res, 1)
	assert.Equal(t, "Lyon", res[0].Libelle)
}

func TestSearchUnknownLevel(t *testing.T) {
	r := newMapRouter(&fakeGateway{})

	w := doRequest(t, r, http.MethodGet, "/api/map/search?q=Lyon&niveau=galaxie")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchNotFoundIsEmpty(t *testing.T) {
	geo := &fakeGateway{searchErr: &model.NotFoundError{Resource: "recherche"}}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/search?q=Zzzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetBreadcrumbRequiresParams(t *testing.T) {
	r := newMapRouter(&fakeGateway{})

	w := doRequest(t, r, http.MethodGet, "/api/map/breadcrumb?niveau=commune")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/map/breadcrumb?code=69123")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBreadcrumb(t *testing.T) {
	geo := &fakeGateway{breadcrumb: []model.BreadcrumbEntry{
		{Code: "84", Libelle: "Auvergne-Rhône-Alpes", Niveau: model.LevelRegion},
		{Code: "69", Libelle: "Rhône", Niveau: model.LevelDepartement},
	}}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/breadcrumb?niveau=departement&code=69")
	require.Equal(t, http.StatusOK, w.Code)

	var crumbs []model.BreadcrumbEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &crumbs))
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Rhône", crumbs[1].Libelle)
}

func TestGetLevelStats(t *testing.T) {
	geo := &fakeGateway{stats: []model.LevelStat{{Niveau: "region", Total: 13}}}
	r := newMapRouter(geo)

	w := doRequest(t, r, http.MethodGet, "/api/map/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats []model.LevelStat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 13, stats[0].Total)
}
