package services

import (
	"context"
	"fmt"

	"backend/models"
)

// FoodAnalyzer is what the ledger engine needs from the recognition side.
type FoodAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (models.NutritionFacts, error)
	AnalyzeImage(ctx context.Context, image []byte) (models.NutritionFacts, error)
}

// RecognitionService pairs the text analyzer with Rekognition label
// detection: an image becomes its strongest label, which then goes through
// the text path.
type RecognitionService struct {
	analyzer *AnalyzerService
	rek      *RekognitionService
}

func NewRecognitionService(analyzer *AnalyzerService, rek *RekognitionService) *RecognitionService {
	return &RecognitionService{analyzer: analyzer, rek: rek}
}

func (s *RecognitionService) AnalyzeText(ctx context.Context, text string) (models.NutritionFacts, error) {
	return s.analyzer.AnalyzeText(ctx, text)
}

func (s *RecognitionService) AnalyzeImage(ctx context.Context, image []byte) (models.NutritionFacts, error) {
	labels, err := s.rek.DetectFoodLabels(ctx, image)
	if err != nil {
		return models.NutritionFacts{}, err
	}
	if len(labels) == 0 {
		return models.NutritionFacts{}, fmt.Errorf("no labels detected")
	}
	return s.analyzer.AnalyzeText(ctx, labels[0])
}
