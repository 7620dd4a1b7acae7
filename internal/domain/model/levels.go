package model

// AdminLevel identifies the granularity of an administrative maille.
type AdminLevel string

const (
	LevelRegion      AdminLevel = "region"
	LevelDepartement AdminLevel = "departement"
	LevelCommune     AdminLevel = "commune"
)

// childLevels maps each level to the one rendered below it. Commune is
// terminal and has no entry.
var childLevels = map[AdminLevel]AdminLevel{
	LevelRegion:      LevelDepartement,
	LevelDepartement: LevelCommune,
}

// levelZooms is the viewport zoom applied when flying to a shape of the
// given level.
var levelZooms = map[AdminLevel]int{
	LevelCommune:     13,
	LevelDepartement: 10,
	LevelRegion:      8,
}

// DefaultZoom is used when no level is selected (France-wide view).
const DefaultZoom = 6

// ParseAdminLevel returns the level matching s, or false when s is not a
// known level name.
func ParseAdminLevel(s string) (AdminLevel, bool) {
	switch AdminLevel(s) {
	case LevelRegion, LevelDepartement, LevelCommune:
		return AdminLevel(s), true
	}
	return "", false
}

// Valid reports whether l is one of the three known levels.
func (l AdminLevel) Valid() bool {
	_, ok := ParseAdminLevel(string(l))
	return ok
}

// Child returns the level below l. The second return value is false at the
// terminal commune level.
func (l AdminLevel) Child() (AdminLevel, bool) {
	c, ok := childLevels[l]
	return c, ok
}

// HasChildren reports whether child shapes exist below l.
func (l AdminLevel) HasChildren() bool {
	_, ok := childLevels[l]
	return ok
}

// Zoom returns the viewport zoom used when centering on a shape of level l.
func (l AdminLevel) Zoom() int {
	if z, ok := levelZooms[l]; ok {
		return z
	}
	return DefaultZoom
}
