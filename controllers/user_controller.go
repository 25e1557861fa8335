package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/utils"
)

type UserController struct {
	Accounts *services.AccountService
	Listings *services.ListingService
}

func NewUserController(accounts *services.AccountService, listings *services.ListingService) *UserController {
	return &UserController{Accounts: accounts, Listings: listings}
}

// GetProfile godoc
// @Summary Current user's profile with their listings
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /profile [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	user := utils.GetAccount(c)
	listings, err := uc.Listings.BySeller(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"bio":      user.Bio,
			"balance":  user.Balance,
			"role":     user.Role.Name,
		},
		"listings": listings,
	})
}

// ViewUser shows another user's public profile.
func (uc *UserController) ViewUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id", "success": false})
		return
	}

	user, err := uc.Accounts.Get(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	listings, err := uc.Listings.BySeller(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"bio":      user.Bio,
			"active":   user.Active,
		},
		"listings": listings,
	})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var input struct {
		Bio string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := utils.GetAccount(c)
	if err := uc.Accounts.UpdateBio(user.ID, input.Bio); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated"})
}

func (uc *UserController) ChangeEmail(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := utils.GetAccount(c)
	if err := uc.Accounts.ChangeEmail(user.ID, input.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email updated"})
}

func (uc *UserController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := utils.GetAccount(c)
	if err := uc.Accounts.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

// ChargeWallet godoc
// @Summary Top up the wallet
// @Description Adds a positive integer amount and returns the new balance
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /wallet/charge [post]
func (uc *UserController) ChargeWallet(c *gin.Context) {
	var input struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := utils.GetAccount(c)
	balance, err := uc.Accounts.ChargeWallet(user.ID, input.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wallet charged successfully",
		"balance": balance,
	})
}

// DeleteAccount removes the account and everything it owns.
func (uc *UserController) DeleteAccount(c *gin.Context) {
	user := utils.GetAccount(c)
	if err := uc.Accounts.DeleteAccount(user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Your account has been deleted"})
}
