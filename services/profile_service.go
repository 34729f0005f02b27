package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"

	"backend/models"
	"backend/storage"
	"backend/utils"
)

// SetupInput is the payload of the initial setup flow.
type SetupInput struct {
	Name          string               `json:"name" binding:"required"`
	Age           int                  `json:"age" binding:"required"`
	Gender        models.Gender        `json:"gender" binding:"required"`
	Height        float64              `json:"height" binding:"required"`
	Weight        float64              `json:"weight" binding:"required"`
	ActivityLevel models.ActivityLevel `json:"activityLevel" binding:"required"`
	Goal          models.Goal          `json:"goal" binding:"required"`
}

type ProfileService struct {
	store     storage.Store
	estimator *EstimatorService
}

func NewProfileService(store storage.Store, estimator *EstimatorService) *ProfileService {
	return &ProfileService{store: store, estimator: estimator}
}

// CompleteSetup validates the biometrics, derives the daily targets and
// persists the finished profile. The external estimator is tried first;
// any failure there substitutes the local formula, and the profile is
// tagged with whichever path produced its targets.
func (s *ProfileService) CompleteSetup(in SetupInput) (*models.Profile, error) {
	p := models.Profile{
		Name:          strings.TrimSpace(in.Name),
		Age:           in.Age,
		Gender:        in.Gender,
		Height:        in.Height,
		Weight:        in.Weight,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !utils.ValidActivityLevel(p.ActivityLevel) {
		return nil, fmt.Errorf("%w: unknown activity level %q", ErrValidation, p.ActivityLevel)
	}

	local, err := utils.CalculateTargets(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p.Targets = local
	p.TargetSource = models.TargetSourceLocal

	if s.estimator != nil && s.estimator.Enabled() {
		if remote, err := s.estimator.EstimateTargets(p); err != nil {
			log.Printf("target estimator unavailable, using local formula: %v", err)
		} else {
			p.Targets = remote
			p.TargetSource = models.TargetSourceRemote
		}
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(storage.KeyProfile, raw); err != nil {
		log.Printf("warning: profile persistence failed: %v", err)
	}
	return &p, nil
}

// Profile loads the stored profile, decorated with BMI.
func (s *ProfileService) Profile() (map[string]interface{}, error) {
	raw, ok, err := s.store.Get(storage.KeyProfile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoProfile
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: stored profile: %v", ErrFormat, err)
	}

	out := map[string]interface{}{
		"profile": p,
	}
	if bmi, err := utils.CalculateBMI(p.Height, p.Weight); err == nil {
		out["bmi"] = math.Round(bmi*10) / 10
		out["bmiCategory"] = utils.BMICategory(bmi)
	}
	return out, nil
}

// Reset clears the stored profile; the original app's logout.
func (s *ProfileService) Reset() error {
	return s.store.Remove(storage.KeyProfile)
}
