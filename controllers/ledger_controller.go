package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type LedgerController struct {
	ledger *services.LedgerService
}

func NewLedgerController(ledger *services.LedgerService) *LedgerController {
	return &LedgerController{ledger: ledger}
}

func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAnalysis):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrIndexOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GET /ledger/day?date=YYYY-MM-DD (defaults to the active date)
func (lc *LedgerController) GetDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = lc.ledger.SelectedDate()
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "day": lc.ledger.Day(date)})
}

// POST /ledger/date  { "date": "YYYY-MM-DD" }
func (lc *LedgerController) SelectDate(c *gin.Context) {
	var req struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	selected, err := lc.ledger.SelectDate(req.Date)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedDate": selected})
}

// POST /ledger/date/shift  { "days": -1 }
func (lc *LedgerController) ShiftDate(c *gin.Context) {
	var req struct {
		Days int `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedDate": lc.ledger.ShiftDate(req.Days)})
}

// POST /ledger/text  { "text": "I ate a sandwich" }
func (lc *LedgerController) RecordText(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	item, day, err := lc.ledger.RecordFromText(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "day": day})
}

// POST /ledger/image, multipart field "image"
func (lc *LedgerController) RecordImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	item, day, err := lc.ledger.RecordFromImage(c.Request.Context(), payload)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "day": day})
}

// POST /ledger/items, a hand-entered item
func (lc *LedgerController) RecordManual(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	item, day, err := lc.ledger.RecordManual(models.FoodItem{
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "day": day})
}

// DELETE /ledger/day/:date/items/:index
func (lc *LedgerController) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	day, err := lc.ledger.RemoveItem(c.Param("date"), index)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}
