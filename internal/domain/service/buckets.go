package service

import (
	"sort"

	"homepedia-map/internal/domain/model"
)

// EvolutionPoint is one time bucket of an aggregated series.
type EvolutionPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Count  int     `json:"count,omitempty"`
}

// MonthlyTotals buckets transactions by month ("YYYY-MM" prefix of the
// mutation date) and sums their values. The result is ordered by period.
func MonthlyTotals(txs []model.FoncierTransaction) []EvolutionPoint {
	totals := make(map[string]*EvolutionPoint)
	for _, tx := range txs {
		period := monthOf(tx.DateMutation)
		if period == "" {
			continue
		}
		p, ok := totals[period]
		if !ok {
			p = &EvolutionPoint{Period: period}
			totals[period] = p
		}
		p.Value += tx.Value
		p.Count++
	}
	out := make([]EvolutionPoint, 0, len(totals))
	for _, p := range totals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// monthOf reduces a mutation date to its year-month bucket. Dates shorter
// than "YYYY-MM" are unusable and dropped.
func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// NatureStat is the share of one nature of transaction in the series.
type NatureStat struct {
	Nature     string  `json:"nature"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NatureDistribution aggregates transactions by nature_mutation, with each
// nature's percentage of the overall transacted value. Ordered by descending
// total so the dominant natures come first.
func NatureDistribution(txs []model.FoncierTransaction) []NatureStat {
	byNature := make(map[string]*NatureStat)
	var grandTotal float64
	for _, tx := range txs {
		s, ok := byNature[tx.NatureMutation]
		if !ok {
			s = &NatureStat{Nature: tx.NatureMutation}
			byNature[tx.NatureMutation] = s
		}
		s.Total += tx.Value
		s.Count++
		grandTotal += tx.Value
	}
	out := make([]NatureStat, 0, len(byNature))
	for _, s := range byNature {
		if grandTotal > 0 {
			s.Percentage = s.Total / grandTotal * 100
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Nature < out[j].Nature
	})
	return out
}

// SeriesSummary condenses a yearly series for the side panel header.
type SeriesSummary struct {
	Max       float64 `json:"max"`
	Min       float64 `json:"min"`
	Avg       float64 `json:"avg"`
	Evolution float64 `json:"evolution"`
	MaxPeriod string  `json:"maxPeriod"`
	MinPeriod string  `json:"minPeriod"`
}

// SummarizeReputation totals the reputation chart rows per year and derives
// max/min/average and the first-to-last evolution.
func SummarizeReputation(items []model.ReputationChartItem) SeriesSummary {
	perYear := make(map[string]float64)
	for _, it := range items {
		if it.Annee == "" {
			continue
		}
		perYear[it.Annee] += it.Value
	}
	if len(perYear) == 0 {
		return SeriesSummary{}
	}
	years := make([]string, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Strings(years)

	sum := SeriesSummary{
		Max:       perYear[years[0]],
		Min:       perYear[years[0]],
		MaxPeriod: years[0],
		MinPeriod: years[0],
	}
	var total float64
	for _, y := range years {
		v := perYear[y]
		total += v
		if v > sum.Max {
			sum.Max, sum.MaxPeriod = v, y
		}
		if v < sum.Min {
			sum.Min, sum.MinPeriod = v, y
		}
	}
	sum.Avg = total / float64(len(years))
	sum.Evolution = perYear[years[len(years)-1]] - perYear[years[0]]
	return sum
}

// TaxEvolution orders the property-tax averages by exercice.
func TaxEvolution(items []model.TaxeFonciereItem) []EvolutionPoint {
	out := make([]EvolutionPoint, 0, len(items))
	for _, it := range items {
		if it.Exercice == "" {
			continue
		}
		out = append(out, EvolutionPoint{Period: it.Exercice, Value: it.Avg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
