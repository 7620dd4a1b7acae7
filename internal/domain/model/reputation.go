package model

import "encoding/json"

// Display modes for the map data overlay.
const (
	DisplayReputation = "reputation"
	DisplayFoncier    = "foncier"
)

// ReputationRecord is the per-zone incident metric returned by the batch
// reputation endpoint. Color is computed server-side; the client only looks
// it up, keeping a single source of truth for the value-to-color legend.
type ReputationRecord struct {
	Code            string  `json:"code"`
	Value           float64 `json:"value"`
	RatioPourMille  float64 `json:"ratio_pour_mille"`
	Color           string  `json:"color"`
	ValuePercentage float64 `json:"value_percentage"`
}

// Equal compares two records field by field.
func (r ReputationRecord) Equal(o ReputationRecord) bool {
	return r == o
}

// ReputationChartItem is one row of the yearly reputation time series.
type ReputationChartItem struct {
	CodeCommune   string  `json:"code_commune"`
	Annee         string  `json:"annee"`
	Indicateur    string  `json:"indicateur"`
	UniteDeCompte string  `json:"unite_de_compte"`
	Value         float64 `json:"value"`
	TauxPourMille float64 `json:"taux_pour_mille"`
}

// ReputationChart is the /data/reputations/chart envelope.
type ReputationChart struct {
	Data   []ReputationChartItem `json:"data"`
	Filtre []string              `json:"filtre"`
	Annee  []string              `json:"annee"`
}

// FoncierTransaction is one real-estate transaction row.
type FoncierTransaction struct {
	DateMutation   string  `json:"date_mutation"`
	NatureMutation string  `json:"nature_mutation"`
	Value          float64 `json:"value"`
}

// TaxeFonciereItem is one property-tax average per exercice.
type TaxeFonciereItem struct {
	Code     json.Number `json:"code"`
	Niveau   string      `json:"niveau"`
	Exercice string      `json:"exercice"`
	Avg      float64     `json:"avg"`
}

// SentimentTerms groups the term lists shown in the zone side panel. A half
// that failed to load is simply empty.
type SentimentTerms struct {
	Top      []string `json:"top"`
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// Equipment is one public-equipment row from the BPE dataset, as served by
// /data/equipements.
type Equipment struct {
	Nomrs          string  `json:"nomrs"`
	LibelleCommune string  `json:"libelle_commune"`
	CodeCommune    string  `json:"code_commune"`
	Dom            string  `json:"dom"`
	Sdom           string  `json:"sdom"`
	Typequ         string  `json:"typequ"`
	Siret          string  `json:"siret"`
	Longitude      *string `json:"longitude"`
	Latitude       *string `json:"latitude"`
	QualiteGeoloc  string  `json:"qualite_geoloc"`
	LibMod         string  `json:"lib_mod"`
}
