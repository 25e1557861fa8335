package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/utils"
)

type ReportController struct {
	Moderation *services.ModerationService
}

func NewReportController(moderation *services.ModerationService) *ReportController {
	return &ReportController{Moderation: moderation}
}

// ReportUser godoc
// @Summary Report a user
// @Description One report per reporter/target pair; the fifth report suspends the target
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/report [post]
func (rc *ReportController) ReportUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id", "success": false})
		return
	}

	user := utils.GetAccount(c)
	if err := rc.Moderation.ReportUser(user.ID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report submitted"})
}

// ReportListing godoc
// @Summary Report a listing
// @Description One report per reporter/listing pair; the fifth report removes the listing
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/report [post]
func (rc *ReportController) ReportListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	user := utils.GetAccount(c)
	if err := rc.Moderation.ReportListing(user.ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report submitted"})
}
