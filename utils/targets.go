package utils

import (
	"errors"
	"math"

	"backend/models"
)

var ErrInvalidInput = errors.New("invalid profile input")

// activityMultipliers maps each activity level to its maintenance
// multiplier. Single source of truth, also used to validate setup input.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// genderOffsets holds the Mifflin-St Jeor constant per gender. Broader
// demographic support means extending this table, not the formula.
var genderOffsets = map[models.Gender]float64{
	models.GenderMale:   5,
	models.GenderFemale: -161,
}

// ValidActivityLevel reports whether l is a known activity level.
func ValidActivityLevel(l models.ActivityLevel) bool {
	_, ok := activityMultipliers[l]
	return ok
}

// CalculateTargets derives BMR (Mifflin-St Jeor), maintenance calories,
// goal-adjusted target and macro grams from the profile's biometrics.
// Pure and deterministic; each output is rounded independently from the
// unrounded upstream value.
func CalculateTargets(p models.Profile) (models.Targets, error) {
	offset, ok := genderOffsets[p.Gender]
	if !ok {
		return models.Targets{}, ErrInvalidInput
	}
	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		return models.Targets{}, ErrInvalidInput
	}
	if p.Age <= 0 || p.Height <= 0 || p.Weight <= 0 {
		return models.Targets{}, ErrInvalidInput
	}

	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age) + offset
	maintenance := bmr * mult

	target := maintenance
	switch p.Goal {
	case models.GoalLose:
		target = maintenance - 500 // ~0.5 kg per week
	case models.GoalGain:
		target = maintenance + 500
	case models.GoalMaintain:
	default:
		return models.Targets{}, ErrInvalidInput
	}

	return models.Targets{
		BMR:         int(math.Round(bmr)),
		Maintenance: int(math.Round(maintenance)),
		Target:      int(math.Round(target)),
		Protein:     int(math.Round(2 * p.Weight)),      // 2 g per kg
		Carbs:       int(math.Round(target * 0.45 / 4)), // 45% of calories, 4 kcal/g
		Fat:         int(math.Round(target * 0.25 / 9)), // 25% of calories, 9 kcal/g
	}, nil
}
