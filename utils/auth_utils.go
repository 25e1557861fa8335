package utils

import (
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"github.com/secure-trade/api-go/models"
)

type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type contextKey string

const (
	UserContextKey    contextKey = "user_claims"
	AccountContextKey contextKey = "account"
)

// GetUser returns the token claims the auth middleware stored on the
// context, or nil for unauthenticated requests.
func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// GetAccount returns the full account record the auth middleware loaded for
// the current request.
func GetAccount(c *gin.Context) *models.User {
	account, exists := c.Get(string(AccountContextKey))
	if !exists {
		return nil
	}
	if user, ok := account.(*models.User); ok {
		return user
	}
	return nil
}

// GenerateToken mints a 24h access token carrying the user id and role.
func GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role.Name,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
