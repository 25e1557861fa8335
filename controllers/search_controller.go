package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/store"
)

type SearchController struct {
	Search *services.SearchService
}

func NewSearchController(search *services.SearchService) *SearchController {
	return &SearchController{Search: search}
}

// SearchListings godoc
// @Summary Search listings by title keyword
// @Description Case-insensitive substring match; "@name" redirects to that user's profile
// @Tags search
// @Produce json
// @Param keyword query string false "Search keyword"
// @Param sort_by query string false "latest (default), price_asc or price_desc"
// @Success 200 {object} map[string]interface{}
// @Router /search [get]
func (sc *SearchController) SearchListings(c *gin.Context) {
	keyword := c.Query("keyword")
	sortBy := store.SortOrder(c.DefaultQuery("sort_by", string(store.SortLatest)))

	result, err := sc.Search.Search(keyword, sortBy)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Profile != nil {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"redirect": fmt.Sprintf("/api/users/%d", result.Profile.ID),
			"user": gin.H{
				"id":       result.Profile.ID,
				"username": result.Profile.Username,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"keyword": keyword,
		"sort_by": sortBy,
		"results": result.Listings,
	})
}
