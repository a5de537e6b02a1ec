package domain

// PharmacyAvailability is one search-result entry: a pharmacy and the subset
// of requested medicine names it carries. Derived, never persisted.
type PharmacyAvailability struct {
	PharmacyID   int64    `json:"pharmacy_id"`
	PharmacyName string   `json:"pharmacy_name"`
	PharmacyArea string   `json:"pharmacy_area,omitempty"`
	Matched      []string `json:"matched"`
	Coverage     int      `json:"coverage"`
	Requested    int      `json:"requested"`
	Percent      float64  `json:"percent"`
}

// RankedResult is the outcome of an availability search. Ranked holds every
// matching pharmacy ordered by coverage descending, pharmacy name ascending;
// Complete and Partial are its partition.
type RankedResult struct {
	Requested []string               `json:"requested"`
	Ranked    []PharmacyAvailability `json:"ranked"`
	Complete  []PharmacyAvailability `json:"complete"`
	Partial   []PharmacyAvailability `json:"partial"`
}
