package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNavigationDefaults(t *testing.T) {
	nav := ParseNavigation(url.Values{})

	assert.Equal(t, LevelRegion, nav.Niveau)
	assert.Equal(t, LevelRegion, nav.NiveauLower)
	assert.Equal(t, DisplayReputation, nav.TypeDataDisplay)
	assert.Equal(t, DefaultTransactionType, nav.TransactionType)
	assert.Equal(t, DefaultPropertyType, nav.PropertyType)
	assert.Empty(t, nav.Code)
	assert.Empty(t, nav.CodeSelecting)
}

func TestParseNavigationNiveauLowerFallsBackToNiveau(t *testing.T) {
	q := url.Values{}
	q.Set(ParamNiveau, "departement")

	nav := ParseNavigation(q)

	assert.Equal(t, LevelDepartement, nav.Niveau)
	assert.Equal(t, LevelDepartement, nav.NiveauLower)
}

func TestApplyQueryPartialOverwrite(t *testing.T) {
	nav := DefaultNavigationState()
	nav.Code = "84"
	nav.Location = "Lyon"

	q := url.Values{}
	q.Set(ParamCodeSelecting, "69")
	nav.ApplyQuery(q)

	// Parameters absent from the query leave their fields untouched.
	assert.Equal(t, "84", nav.Code)
	assert.Equal(t, "Lyon", nav.Location)
	assert.Equal(t, "69", nav.CodeSelecting)
}

func TestApplyQueryKeepsNiveauLowerOnPartialUpdate(t *testing.T) {
	// Post-drill state: viewing a departement with commune-level data.
	nav := DefaultNavigationState()
	nav.Niveau = LevelDepartement
	nav.Code = "69"
	nav.NiveauLower = LevelCommune

	q := url.Values{}
	q.Set(ParamTypeDataDisplay, DisplayFoncier)
	nav.ApplyQuery(q)

	assert.Equal(t, DisplayFoncier, nav.TypeDataDisplay)
	assert.Equal(t, LevelCommune, nav.NiveauLower,
		"a query that names neither niveau nor niveau_lower must leave the pair alone")
	assert.Equal(t, LevelDepartement, nav.Niveau)
}

func TestApplyQueryNiveauRederivesNiveauLower(t *testing.T) {
	nav := DefaultNavigationState()
	nav.Niveau = LevelDepartement
	nav.NiveauLower = LevelCommune

	q := url.Values{}
	q.Set(ParamNiveau, "region")
	nav.ApplyQuery(q)

	// Naming niveau without niveau_lower re-derives the pair.
	assert.Equal(t, LevelRegion, nav.Niveau)
	assert.Equal(t, LevelRegion, nav.NiveauLower)
}

func TestApplyQueryIgnoresUnknownLevel(t *testing.T) {
	nav := DefaultNavigationState()
	q := url.Values{}
	q.Set(ParamNiveau, "galaxie")
	nav.ApplyQuery(q)

	assert.Equal(t, LevelRegion, nav.Niveau)
}

func TestQueryRoundTripMinimal(t *testing.T) {
	nav := DefaultNavigationState()

	encoded := nav.Encode()
	assert.Empty(t, encoded, "default state should serialize to an empty query")

	parsed := ParseNavigation(url.Values{})
	assert.Equal(t, nav, parsed)
}

func TestQueryRoundTripFull(t *testing.T) {
	nav := NavigationState{
		Niveau:          LevelDepartement,
		Code:            "69",
		CodeSelecting:   "69123",
		NiveauLower:     LevelCommune,
		TypeDataDisplay: DisplayFoncier,
		Location:        "Lyon",
		LocationCode:    "69123",
		LocationLibelle: "Lyon-3e",
		TransactionType: "acheter",
		PropertyType:    "maison",
		MinPrice:        "100000",
		MaxPrice:        "450000",
	}

	q, err := url.ParseQuery(nav.Encode())
	require.NoError(t, err)
	parsed := ParseNavigation(q)

	assert.Equal(t, nav, parsed)
}

func TestEncodeIntoPreservesUnownedParams(t *testing.T) {
	q := url.Values{}
	q.Set("utm_source", "newsletter")
	q.Set(ParamCode, "to-be-replaced")

	nav := DefaultNavigationState()
	nav.Code = "84"
	nav.EncodeInto(q)

	assert.Equal(t, "newsletter", q.Get("utm_source"))
	assert.Equal(t, "84", q.Get(ParamCode))
}

func TestDrillFromDepartementToCommune(t *testing.T) {
	nav := DefaultNavigationState()
	nav.Niveau = LevelDepartement
	nav.NiveauLower = LevelCommune
	nav.CodeSelecting = "75"

	next := nav.Drill()

	assert.Equal(t, LevelCommune, next.Niveau)
	assert.Equal(t, "75", next.Code)
	assert.Equal(t, LevelCommune, next.NiveauLower)
	assert.Empty(t, next.CodeSelecting)
}

func TestDrillFromRegion(t *testing.T) {
	nav := DefaultNavigationState()
	nav.CodeSelecting = "84"

	next := nav.Drill()

	assert.Equal(t, LevelDepartement, next.Niveau)
	assert.Equal(t, "84", next.Code)
	assert.Equal(t, LevelCommune, next.NiveauLower)
}

func TestDrillIsNoOpAtCommune(t *testing.T) {
	nav := DefaultNavigationState()
	nav.Niveau = LevelCommune
	nav.NiveauLower = LevelCommune
	nav.Code = "69123"
	nav.CodeSelecting = "75056"

	assert.Equal(t, nav, nav.Drill())
}

func TestDrillWithoutTargetIsNoOp(t *testing.T) {
	nav := DefaultNavigationState()
	assert.Equal(t, nav, nav.Drill())
}

func TestToggleSelection(t *testing.T) {
	nav := DefaultNavigationState()

	nav = nav.ToggleSelection("84")
	assert.Equal(t, "84", nav.CodeSelecting)

	// A second click on the same zone deselects it.
	nav = nav.ToggleSelection("84")
	assert.Empty(t, nav.CodeSelecting)

	nav = nav.ToggleSelection("84")
	nav = nav.ToggleSelection("11")
	assert.Equal(t, "11", nav.CodeSelecting)
}

func TestAdminLevelHierarchy(t *testing.T) {
	child, ok := LevelRegion.Child()
	require.True(t, ok)
	assert.Equal(t, LevelDepartement, child)

	child, ok = LevelDepartement.Child()
	require.True(t, ok)
	assert.Equal(t, LevelCommune, child)

	_, ok = LevelCommune.Child()
	assert.False(t, ok)
}

func TestAdminLevelZoom(t *testing.T) {
	assert.Equal(t, 13, LevelCommune.Zoom())
	assert.Equal(t, 10, LevelDepartement.Zoom())
	assert.Equal(t, 8, LevelRegion.Zoom())
	assert.Equal(t, DefaultZoom, AdminLevel("").Zoom())
}
