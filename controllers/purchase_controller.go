package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/utils"
)

type PurchaseController struct {
	Purchases *services.PurchaseService
}

func NewPurchaseController(purchases *services.PurchaseService) *PurchaseController {
	return &PurchaseController{Purchases: purchases}
}

// BuyListing godoc
// @Summary Initiate a purchase
// @Description Reserves the listing for the caller and moves the price into escrow
// @Tags purchases
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/buy [post]
func (pc *PurchaseController) BuyListing(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	user := utils.GetAccount(c)
	if err := pc.Purchases.Initiate(id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Purchase initiated. Please confirm when you receive the item",
	})
}

// ConfirmPurchase godoc
// @Summary Confirm a reserved purchase
// @Description Only the assigned buyer may confirm; the seller is paid
// @Tags purchases
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id}/confirm [post]
func (pc *PurchaseController) ConfirmPurchase(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	user := utils.GetAccount(c)
	if err := pc.Purchases.Confirm(id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Purchase confirmed. The seller has received the payment",
	})
}

// CancelPurchase releases a reservation and refunds the buyer. Either side
// of the pending trade may cancel.
func (pc *PurchaseController) CancelPurchase(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	user := utils.GetAccount(c)
	if err := pc.Purchases.Cancel(id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reservation cancelled and buyer refunded",
	})
}
