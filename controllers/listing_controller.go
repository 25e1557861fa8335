package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/utils"
)

type ListingController struct {
	Listings *services.ListingService
}

type ListingRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Price int    `json:"price" binding:"required"`
}

func NewListingController(listings *services.ListingService) *ListingController {
	return &ListingController{Listings: listings}
}

func listingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id", "success": false})
		return 0, false
	}
	return uint(id), true
}

// CreateListing godoc
// @Summary Put an item up for sale
// @Tags listings
// @Accept json
// @Produce json
// @Success 201 {object} models.Listing
// @Router /listings [post]
func (lc *ListingController) CreateListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := utils.GetAccount(c)
	listing, err := lc.Listings.Create(user.ID, req.Title, req.Body, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Listing created",
		"listing": listing,
	})
}

func (lc *ListingController) GetListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	listing, err := lc.Listings.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "listing": listing})
}

// UpdateListing edits a listing. Seller only; sold listings are immutable.
func (lc *ListingController) UpdateListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := utils.GetAccount(c)
	listing, err := lc.Listings.Update(id, user.ID, req.Title, req.Body, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing updated",
		"listing": listing,
	})
}

// DeleteListing removes a listing; owner or admin.
func (lc *ListingController) DeleteListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	user := utils.GetAccount(c)
	if err := lc.Listings.Delete(id, user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Listing deleted"})
}
