package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/store"
)

func TestPurchaseFlow(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 150)
	carol := seedUser(t, st, "carol", 500)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	assert.Equal(t, 50, balanceOf(t, st, bob.ID))
	assert.Equal(t, 0, balanceOf(t, st, alice.ID))

	got, err := st.Listings().ByID(bike.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BuyerID)
	assert.Equal(t, bob.ID, *got.BuyerID)
	assert.True(t, got.Reserved())

	// A second buyer cannot take a reserved listing.
	err = purchases.Initiate(bike.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrAlreadySold)
	assert.Equal(t, 500, balanceOf(t, st, carol.ID))

	// Only the reserving buyer may confirm.
	assert.ErrorIs(t, purchases.Confirm(bike.ID, carol.ID), services.ErrNotBuyer)

	require.NoError(t, purchases.Confirm(bike.ID, bob.ID))
	assert.Equal(t, 100, balanceOf(t, st, alice.ID))
	assert.Equal(t, 50, balanceOf(t, st, bob.ID))

	got, err = st.Listings().ByID(bike.ID)
	require.NoError(t, err)
	assert.True(t, got.Sold)

	assert.ErrorIs(t, purchases.Confirm(bike.ID, bob.ID), services.ErrAlreadySold)
	err = purchases.Initiate(bike.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrAlreadySold)
}

func TestInitiateSelfPurchase(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 1000)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	assert.ErrorIs(t, purchases.Initiate(bike.ID, alice.ID), services.ErrSelfPurchase)
}

func TestInitiateInsufficientFunds(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 50)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	assert.ErrorIs(t, purchases.Initiate(bike.ID, bob.ID), services.ErrInsufficientFunds)

	// The failed debit must roll the reservation back too.
	got, err := st.Listings().ByID(bike.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BuyerID)
	assert.Equal(t, 50, balanceOf(t, st, bob.ID))
}

func TestInitiateMissingListing(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	bob := seedUser(t, st, "bob", 100)

	assert.ErrorIs(t, purchases.Initiate(42, bob.ID), services.ErrNotFound)
}

func TestCancelByBuyerRefunds(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	require.NoError(t, purchases.Cancel(bike.ID, bob.ID))

	assert.Equal(t, 100, balanceOf(t, st, bob.ID))
	got, err := st.Listings().ByID(bike.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BuyerID)
	assert.False(t, got.Sold)

	assert.ErrorIs(t, purchases.Cancel(bike.ID, bob.ID), services.ErrNotReserved)
}

func TestCancelBySellerRefundsBuyer(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	require.NoError(t, purchases.Cancel(bike.ID, alice.ID))

	assert.Equal(t, 100, balanceOf(t, st, bob.ID))
}

func TestCancelByStranger(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	carol := seedUser(t, st, "carol", 0)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	assert.ErrorIs(t, purchases.Cancel(bike.ID, carol.ID), services.ErrNotOwner)
}

func TestConfirmWithoutReservation(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	assert.ErrorIs(t, purchases.Confirm(bike.ID, bob.ID), services.ErrNotBuyer)
}

func TestReleaseExpired(t *testing.T) {
	st := store.NewMemStore()
	purchases := services.NewPurchaseService(st)
	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 0)
	carol := seedUser(t, st, "carol", 200)
	bike := seedListing(t, st, alice.ID, "Bike", 100)
	lamp := seedListing(t, st, alice.ID, "Lamp", 50)

	// Bob's reservation went stale two hours ago; his escrow is already
	// debited. Carol reserved the lamp just now.
	require.NoError(t, st.Listings().Reserve(bike.ID, bob.ID, time.Now().Add(-2*time.Hour)))
	require.NoError(t, purchases.Initiate(lamp.ID, carol.ID))

	released, err := purchases.ReleaseExpired(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	got, err := st.Listings().ByID(bike.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BuyerID)
	assert.Equal(t, 100, balanceOf(t, st, bob.ID))

	got, err = st.Listings().ByID(lamp.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BuyerID)
	assert.Equal(t, carol.ID, *got.BuyerID)
	assert.Equal(t, 150, balanceOf(t, st, carol.ID))
}
