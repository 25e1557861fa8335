package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/store"
)

func TestCreateListingValidatesPrice(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	alice := seedUser(t, st, "alice", 0)

	_, err := listings.Create(alice.ID, "Bike", "a bike", 0)
	assert.ErrorIs(t, err, services.ErrInvalidPrice)
	_, err = listings.Create(alice.ID, "Bike", "a bike", -10)
	assert.ErrorIs(t, err, services.ErrInvalidPrice)

	created, err := listings.Create(alice.ID, "  Bike  ", "a bike", 100)
	require.NoError(t, err)
	assert.Equal(t, "Bike", created.Title)
	assert.Equal(t, alice.ID, created.SellerID)
	assert.False(t, created.Sold)
}

func TestUpdateListingOwnership(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 0)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	_, err := listings.Update(bike.ID, bob.ID, "Stolen Bike", "mine now", 1)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	updated, err := listings.Update(bike.ID, alice.ID, "Blue Bike", "repainted", 120)
	require.NoError(t, err)
	assert.Equal(t, "Blue Bike", updated.Title)
	assert.Equal(t, 120, updated.Price)

	_, err = listings.Update(999, alice.ID, "Ghost", "missing", 10)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateSoldListingRejected(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	require.NoError(t, purchases.Confirm(bike.ID, bob.ID))

	_, err := listings.Update(bike.ID, alice.ID, "Bike", "still mine", 100)
	assert.ErrorIs(t, err, services.ErrAlreadySold)
}

func TestDeleteListingByOwnerAndAdmin(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 0)
	admin := seedAdmin(t, st, "root")

	bike := seedListing(t, st, alice.ID, "Bike", 100)
	lamp := seedListing(t, st, alice.ID, "Lamp", 50)

	assert.ErrorIs(t, listings.Delete(bike.ID, bob), services.ErrNotOwner)
	require.NoError(t, listings.Delete(bike.ID, alice))
	require.NoError(t, listings.Delete(lamp.ID, admin))

	_, err := listings.Get(bike.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = listings.Get(lamp.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteReservedListingRefundsBuyer(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	require.NoError(t, listings.Delete(bike.ID, alice))

	assert.Equal(t, 100, balanceOf(t, st, bob.ID))
}

func TestDeleteListingRemovesReports(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	moderation := services.NewModerationService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 0)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, moderation.ReportListing(bob.ID, bike.ID))
	require.NoError(t, listings.Delete(bike.ID, alice))

	count, err := st.Reports().CountListingReports(bike.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSetPhotoSellerOnly(t *testing.T) {
	st := store.NewMemStore()
	listings := services.NewListingService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 0)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	err := listings.SetPhoto(bike.ID, bob.ID, "https://cdn.example.com/x.jpg")
	assert.ErrorIs(t, err, services.ErrNotOwner)

	require.NoError(t, listings.SetPhoto(bike.ID, alice.ID, "https://cdn.example.com/x.jpg"))
	got, err := listings.Get(bike.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.jpg", got.PhotoURL)
}
