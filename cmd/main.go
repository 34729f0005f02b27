package main

import (
	"log"
	"os"

	"backend/config"
	"backend/routes"
	"backend/services"
	"backend/storage"
	"backend/utils"
)

func main() {
	config.InitDB()
	if os.Getenv("S3_BUCKET") != "" {
		utils.InitS3()
	}

	store := storage.NewGormStore(config.DB)

	analyzer := services.NewAnalyzerService()
	rek, err := services.NewRekognitionService()
	if err != nil {
		log.Fatalf("Failed to initialize Rekognition: %v", err)
	}
	recog := services.NewRecognitionService(analyzer, rek)
	hub := services.NewRealtimeHub()

	ledger := services.NewLedgerService(store, recog, hub)
	profiles := services.NewProfileService(store, services.NewEstimatorService())

	r := routes.SetupRouter(routes.Deps{
		Profiles: profiles,
		Ledger:   ledger,
		Hub:      hub,
	})
	r.Run(":8080")
}
