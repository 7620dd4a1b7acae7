package service

import "homepedia-map/internal/domain/model"

// ReputationIndex gives O(1) access to the latest reputation batch by zone
// code. It is rebuilt wholesale from every batch response, never merged.
type ReputationIndex map[string]model.ReputationRecord

// BuildReputationIndex indexes a batch of records by code. Records without a
// code are dropped; within one batch the backend sends at most one record per
// code, so a later duplicate simply wins.
func BuildReputationIndex(records []model.ReputationRecord) ReputationIndex {
	idx := make(ReputationIndex, len(records))
	for _, r := range records {
		if r.Code == "" {
			continue
		}
		idx[r.Code] = r
	}
	return idx
}

// ZoneDisplay is the display payload joined onto one rendered zone: the
// backend-supplied color and the full record for the tooltip. Both are empty
// when the zone has no data, in which case the renderer falls back to the
// neutral style.
type ZoneDisplay struct {
	Color string
	Stats *model.ReputationRecord
}

// ResolveZoneDisplay looks zoneCode up in the index. Codes outside the
// current batch resolve to an empty display.
func ResolveZoneDisplay(zoneCode string, idx ReputationIndex) ZoneDisplay {
	r, ok := idx[zoneCode]
	if !ok {
		return ZoneDisplay{}
	}
	return ZoneDisplay{Color: r.Color, Stats: &r}
}
