package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/models"
)

func TestEstimatorDisabledWithoutURL(t *testing.T) {
	t.Parallel()

	svc := &EstimatorService{}
	if svc.Enabled() {
		t.Fatal("estimator without a URL should be disabled")
	}
}

func TestEstimateTargets(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/calculate-bmr" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(models.Targets{
			BMR: 1700, Maintenance: 2635, Target: 2635, Protein: 140, Carbs: 296, Fat: 73,
		})
	}))
	defer srv.Close()

	svc := &EstimatorService{baseURL: srv.URL, client: srv.Client()}
	got, err := svc.EstimateTargets(models.Profile{Age: 30, Gender: models.GenderMale, Height: 175, Weight: 70})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got.BMR != 1700 || got.Target != 2635 {
		t.Fatalf("unexpected targets: %+v", got)
	}
}

func TestEstimateTargetsRejectsEmptyAnswer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Targets{})
	}))
	defer srv.Close()

	svc := &EstimatorService{baseURL: srv.URL, client: srv.Client()}
	if _, err := svc.EstimateTargets(models.Profile{}); err == nil {
		t.Fatal("empty targets should be rejected")
	}
}

func TestEstimateTargetsRejectsBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := &EstimatorService{baseURL: srv.URL, client: srv.Client()}
	if _, err := svc.EstimateTargets(models.Profile{}); err == nil {
		t.Fatal("non-200 should fail the estimation")
	}
}
