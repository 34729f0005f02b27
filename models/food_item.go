package models

// FoodSource records how an entry got into the ledger.
type FoodSource string

const (
	SourceText   FoodSource = "text"
	SourceImage  FoodSource = "image"
	SourceManual FoodSource = "manual"
)

// NutritionFacts is the recognition collaborator's answer for one food.
type NutritionFacts struct {
	FoodItem string  `json:"foodItem"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodItem is one consumed entry. Immutable after creation; owned by the
// DayRecord that contains it. The "type" JSON key is the original client's
// name for the source field.
type FoodItem struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name"`
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Time     string     `json:"time"`
	Source   FoodSource `json:"type"`
}
