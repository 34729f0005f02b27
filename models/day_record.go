package models

// DayRecord aggregates everything eaten on one calendar day. The four
// running sums must equal the item-wise totals after every mutation.
type DayRecord struct {
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Items    []FoodItem `json:"items"`
}

// Ledger maps an ISO date (YYYY-MM-DD) to that day's record. Items within a
// day are in insertion order; the map itself is unordered.
type Ledger map[string]DayRecord
