package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/store"
)

func seedUser(t *testing.T, st store.Store, username string, balance int) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Balance:  balance,
		Active:   true,
		RoleID:   models.RoleIDUser,
		Role:     models.Role{ID: models.RoleIDUser, Name: models.RoleUser},
	}
	require.NoError(t, st.Accounts().Create(u))
	return u
}

func seedAdmin(t *testing.T, st store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Active:   true,
		RoleID:   models.RoleIDAdmin,
		Role:     models.Role{ID: models.RoleIDAdmin, Name: models.RoleAdmin},
	}
	require.NoError(t, st.Accounts().Create(u))
	return u
}

func seedListing(t *testing.T, st store.Store, sellerID uint, title string, price int) *models.Listing {
	t.Helper()
	l := &models.Listing{
		Title:    title,
		Body:     "some description",
		Price:    price,
		SellerID: sellerID,
	}
	require.NoError(t, st.Listings().Create(l))
	return l
}

func balanceOf(t *testing.T, st store.Store, userID uint) int {
	t.Helper()
	u, err := st.Accounts().ByID(userID)
	require.NoError(t, err)
	return u.Balance
}
