package model

import (
	"net/url"
	"strings"
)

// Query parameter names owned by the navigation core. Anything else found in
// a query string is preserved untouched by EncodeInto.
const (
	ParamNiveau          = "niveau"
	ParamCode            = "code"
	ParamCodeSelecting   = "code_selecting"
	ParamNiveauLower     = "niveau_lower"
	ParamTypeDataDisplay = "typeDataDisplay"
	ParamLocation        = "location"
	ParamLocationCode    = "locationCode"
	ParamLocationLibelle = "locationLibelle"
	ParamTransactionType = "transactionType"
	ParamPropertyType    = "propertyType"
	ParamMinPrice        = "minPrice"
	ParamMaxPrice        = "maxPrice"
)

// Search-form defaults.
const (
	DefaultTransactionType = "louer"
	DefaultPropertyType    = "tous"
)

var ownedParams = []string{
	ParamNiveau, ParamCode, ParamCodeSelecting, ParamNiveauLower,
	ParamTypeDataDisplay, ParamLocation, ParamLocationCode,
	ParamLocationLibelle, ParamTransactionType, ParamPropertyType,
	ParamMinPrice, ParamMaxPrice,
}

// NavigationState is the single source of truth for where the user is in the
// region > departement > commune hierarchy, what they have provisionally
// selected for drilling, and the active search-form filters. The URL query
// string is the canonical representation: ApplyQuery goes URL to state,
// EncodeInto goes state to URL, and the two flows are never combined in one
// pass.
type NavigationState struct {
	Niveau          AdminLevel `json:"niveau"`
	Code            string     `json:"code,omitempty"`
	CodeSelecting   string     `json:"code_selecting,omitempty"`
	NiveauLower     AdminLevel `json:"niveau_lower"`
	TypeDataDisplay string     `json:"typeDataDisplay"`

	Location        string `json:"location,omitempty"`
	LocationCode    string `json:"locationCode,omitempty"`
	LocationLibelle string `json:"locationLibelle,omitempty"`
	TransactionType string `json:"transactionType"`
	PropertyType    string `json:"propertyType"`
	MinPrice        string `json:"minPrice,omitempty"`
	MaxPrice        string `json:"maxPrice,omitempty"`
}

// DefaultNavigationState is the state of a fresh session with an empty query
// string: France-wide region view, reputation overlay, rental search.
func DefaultNavigationState() NavigationState {
	return NavigationState{
		Niveau:          LevelRegion,
		NiveauLower:     LevelRegion,
		TypeDataDisplay: DisplayReputation,
		TransactionType: DefaultTransactionType,
		PropertyType:    DefaultPropertyType,
	}
}

// ParseNavigation builds a state from a query string, starting from defaults.
func ParseNavigation(q url.Values) NavigationState {
	n := DefaultNavigationState()
	n.ApplyQuery(q)
	return n
}

// ApplyQuery overwrites the fields whose parameters are present in q.
// Absent or unrecognized parameters leave the state untouched, so external
// navigation only replaces what it names.
func (n *NavigationState) ApplyQuery(q url.Values) {
	if q.Has(ParamNiveau) {
		if lvl, ok := ParseAdminLevel(q.Get(ParamNiveau)); ok {
			n.Niveau = lvl
		}
	}
	if q.Has(ParamCode) {
		n.Code = q.Get(ParamCode)
	}
	if q.Has(ParamCodeSelecting) {
		n.CodeSelecting = q.Get(ParamCodeSelecting)
	}
	if q.Has(ParamNiveauLower) {
		if lvl, ok := ParseAdminLevel(q.Get(ParamNiveauLower)); ok {
			n.NiveauLower = lvl
		}
	} else if q.Has(ParamNiveau) || n.NiveauLower == "" {
		// niveau_lower falls back to niveau, then to region, but only
		// when niveau itself is named: a query that touches neither
		// leaves the pair alone.
		n.NiveauLower = n.Niveau
		if n.NiveauLower == "" {
			n.NiveauLower = LevelRegion
		}
	}
	if q.Has(ParamTypeDataDisplay) {
		if v := q.Get(ParamTypeDataDisplay); v != "" {
			n.TypeDataDisplay = v
		}
	}
	if q.Has(ParamLocation) {
		n.Location = q.Get(ParamLocation)
	}
	if q.Has(ParamLocationCode) {
		n.LocationCode = q.Get(ParamLocationCode)
	}
	if q.Has(ParamLocationLibelle) {
		n.LocationLibelle = q.Get(ParamLocationLibelle)
	}
	if q.Has(ParamTransactionType) {
		if v := q.Get(ParamTransactionType); v != "" {
			n.TransactionType = v
		}
	}
	if q.Has(ParamPropertyType) {
		if v := q.Get(ParamPropertyType); v != "" {
			n.PropertyType = v
		}
	}
	if q.Has(ParamMinPrice) {
		n.MinPrice = q.Get(ParamMinPrice)
	}
	if q.Has(ParamMaxPrice) {
		n.MaxPrice = q.Get(ParamMaxPrice)
	}
}

// EncodeInto writes the non-default navigation fields into q, deleting owned
// parameters that are back at their default so the query string stays
// minimal. Parameters the navigation core does not own are preserved.
func (n NavigationState) EncodeInto(q url.Values) {
	for _, p := range ownedParams {
		q.Del(p)
	}
	def := DefaultNavigationState()
	set := func(key, val, defVal string) {
		if val != "" && val != defVal {
			q.Set(key, val)
		}
	}
	set(ParamNiveau, string(n.Niveau), string(def.Niveau))
	set(ParamCode, n.Code, "")
	set(ParamCodeSelecting, n.CodeSelecting, "")
	// niveau_lower re-derives from niveau on parse; only emit when it
	// differs from that derivation.
	lowerDefault := n.Niveau
	if lowerDefault == "" {
		lowerDefault = LevelRegion
	}
	set(ParamNiveauLower, string(n.NiveauLower), string(lowerDefault))
	set(ParamTypeDataDisplay, n.TypeDataDisplay, def.TypeDataDisplay)
	set(ParamLocation, n.Location, "")
	set(ParamLocationCode, n.LocationCode, "")
	set(ParamLocationLibelle, n.LocationLibelle, "")
	set(ParamTransactionType, n.TransactionType, def.TransactionType)
	set(ParamPropertyType, n.PropertyType, def.PropertyType)
	set(ParamMinPrice, n.MinPrice, "")
	set(ParamMaxPrice, n.MaxPrice, "")
}

// Encode serializes the state to a fresh query string.
func (n NavigationState) Encode() string {
	q := url.Values{}
	n.EncodeInto(q)
	return q.Encode()
}

// GeometryKey identifies which geometry fetch the state requires. Responses
// arriving for a different key are stale and must be discarded.
func (n NavigationState) GeometryKey() string {
	return strings.Join([]string{string(n.Niveau), n.Code, string(n.NiveauLower), n.TypeDataDisplay}, "|")
}

// Drill confirms the pending selection: the level advances to its child, the
// selected code becomes the displayed one, and niveau_lower advances one more
// step, stopping at commune. Without a pending selection, or at the terminal
// commune level, Drill is a no-op.
func (n NavigationState) Drill() NavigationState {
	if n.CodeSelecting == "" || n.Niveau == LevelCommune {
		return n
	}
	child, ok := n.Niveau.Child()
	if !ok {
		return n
	}
	n.Code = n.CodeSelecting
	n.CodeSelecting = ""
	n.Niveau = child
	if lower, ok := child.Child(); ok {
		n.NiveauLower = lower
	} else {
		n.NiveauLower = child
	}
	return n
}

// ToggleSelection selects code as the drill target, or clears the target when
// code is already selected (second click deselects).
func (n NavigationState) ToggleSelection(code string) NavigationState {
	if n.CodeSelecting == code {
		n.CodeSelecting = ""
	} else {
		n.CodeSelecting = code
	}
	return n
}

// SelectSuggestion applies a search suggestion to the form fields, mirroring
// the store reducer of the search form.
func (n NavigationState) SelectSuggestion(libelle, code string) NavigationState {
	n.LocationLibelle = libelle
	n.LocationCode = code
	return n
}
