package routes

import (
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Profiles *services.ProfileService
	Ledger   *services.LedgerService
	Hub      *services.RealtimeHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.Default()

	pc := controllers.NewProfileController(d.Profiles, d.Ledger)
	lc := controllers.NewLedgerController(d.Ledger)
	bc := controllers.NewBackupController(d.Ledger)
	rc := controllers.NewRealtimeController(d.Hub)

	// Public setup route; completing it hands out the session token.
	r.POST("/setup", pc.Setup)

	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", pc.GetProfile)
		user.DELETE("/profile", pc.Reset)
	}

	ledger := r.Group("/ledger")
	ledger.Use(middlewares.AuthMiddleware())
	{
		ledger.GET("/day", lc.GetDay)
		ledger.POST("/date", lc.SelectDate)
		ledger.POST("/date/shift", lc.ShiftDate)
		ledger.POST("/text", lc.RecordText)
		ledger.POST("/image", lc.RecordImage)
		ledger.POST("/items", lc.RecordManual)
		ledger.DELETE("/day/:date/items/:index", lc.RemoveItem)
	}

	backup := r.Group("/backup")
	backup.Use(middlewares.AuthMiddleware())
	{
		backup.GET("/export", bc.Export)
		backup.POST("/import", bc.Import)
	}

	r.GET("/ws", rc.Connect)

	return r
}
