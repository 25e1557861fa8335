package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/utils"
)

type AdminController struct {
	Moderation *services.ModerationService
}

func NewAdminController(moderation *services.ModerationService) *AdminController {
	return &AdminController{Moderation: moderation}
}

// ListReports godoc
// @Summary Both report ledgers for the admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/reports [get]
func (ac *AdminController) ListReports(c *gin.Context) {
	user := utils.GetAccount(c)
	userReports, listingReports, err := ac.Moderation.Reports(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"user_reports":    userReports,
		"listing_reports": listingReports,
	})
}

// SuspendUser deactivates an account. Admins cannot be sanctioned.
func (ac *AdminController) SuspendUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id", "success": false})
		return
	}

	user := utils.GetAccount(c)
	if err := ac.Moderation.Deactivate(user, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User suspended"})
}

// ReactivateUser lifts a suspension.
func (ac *AdminController) ReactivateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id", "success": false})
		return
	}

	user := utils.GetAccount(c)
	if err := ac.Moderation.Reactivate(user, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User reactivated"})
}

// DeleteListing removes any listing on behalf of an admin.
func (ac *AdminController) DeleteListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	user := utils.GetAccount(c)
	if err := ac.Moderation.DeleteListing(user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Listing deleted"})
}
