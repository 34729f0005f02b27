package controllers

import (
	"errors"
	"net/http"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profiles *services.ProfileService
	ledger   *services.LedgerService
}

func NewProfileController(profiles *services.ProfileService, ledger *services.LedgerService) *ProfileController {
	return &ProfileController{profiles: profiles, ledger: ledger}
}

// POST /setup
func (pc *ProfileController) Setup(c *gin.Context) {
	var input services.SetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := pc.profiles.CompleteSetup(input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateJWT(profile.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile, "token": token})
}

// GET /user/profile
func (pc *ProfileController) GetProfile(c *gin.Context) {
	out, err := pc.profiles.Profile()
	if err != nil {
		if errors.Is(err, services.ErrNoProfile) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /user/profile wipes the profile and the ledger, the original
// client's logout.
func (pc *ProfileController) Reset(c *gin.Context) {
	if err := pc.profiles.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	pc.ledger.ResetLedger()
	c.Status(http.StatusNoContent)
}
