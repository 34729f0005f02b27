package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// TargetSource records which path produced the derived targets: the local
// formula or the external estimation service.
type TargetSource string

const (
	TargetSourceLocal  TargetSource = "local"
	TargetSourceRemote TargetSource = "remote"
)

// Targets holds the derived daily energy and macro goals. Calories in kcal,
// macros in grams, every value rounded to the nearest integer.
type Targets struct {
	BMR         int `json:"bmr"`
	Maintenance int `json:"maintenance"`
	Target      int `json:"target"`
	Protein     int `json:"protein"`
	Carbs       int `json:"carbs"`
	Fat         int `json:"fat"`
}

// Profile is the user's biometrics plus the targets derived from them.
// JSON field names match the userProfile payload the original web client
// stored, so existing backups import unchanged. Immutable once computed,
// except by re-running setup.
type Profile struct {
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	Height        float64       `json:"height"` // cm
	Weight        float64       `json:"weight"` // kg
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Goal          Goal          `json:"goal"`

	Targets
	TargetSource TargetSource `json:"targetSource,omitempty"`
}
