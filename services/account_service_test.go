package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/services"
	"github.com/secure-trade/api-go/store"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	user, err := accounts.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleIDUser, user.RoleID)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret123", user.Password)

	got, err := accounts.Authenticate("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = accounts.Authenticate("alice", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = accounts.Authenticate("nobody", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	_, err := accounts.Register("", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = accounts.Register("alice", "  ", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = accounts.Register("alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestRegisterDuplicate(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	_, err := accounts.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = accounts.Register("alice", "other@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrDuplicate)

	_, err = accounts.Register("alice2", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrDuplicate)
}

func TestAuthenticateSuspended(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	user, err := accounts.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, st.Accounts().SetActive(user.ID, false))

	_, err = accounts.Authenticate("alice", "secret123")
	assert.ErrorIs(t, err, services.ErrAccountDisabled)
}

func TestChangePassword(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	user, err := accounts.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	err = accounts.ChangePassword(user.ID, "secret123", "tiny")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	err = accounts.ChangePassword(user.ID, "wrong-current", "newsecret")
	assert.ErrorIs(t, err, services.ErrWrongCurrentPassword)

	require.NoError(t, accounts.ChangePassword(user.ID, "secret123", "newsecret"))

	_, err = accounts.Authenticate("alice", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = accounts.Authenticate("alice", "newsecret")
	assert.NoError(t, err)
}

func TestChangeEmail(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	alice, err := accounts.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	_, err = accounts.Register("bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	err = accounts.ChangeEmail(alice.ID, "bob@example.com")
	assert.ErrorIs(t, err, services.ErrDuplicate)

	require.NoError(t, accounts.ChangeEmail(alice.ID, "new@example.com"))
	got, err := accounts.Get(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
}

func TestChargeWallet(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)
	alice := seedUser(t, st, "alice", 0)

	_, err := accounts.ChargeWallet(alice.ID, 0)
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
	_, err = accounts.ChargeWallet(alice.ID, -50)
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	got, err := accounts.ChargeWallet(alice.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	got, err = accounts.ChargeWallet(alice.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, 350, got)

	_, err = accounts.ChargeWallet(9999, 10)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestDeleteAccountRefundsReservingBuyers(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)
	purchases := services.NewPurchaseService(st)

	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 100)
	bike := seedListing(t, st, alice.ID, "Bike", 100)

	require.NoError(t, purchases.Initiate(bike.ID, bob.ID))
	assert.Equal(t, 0, balanceOf(t, st, bob.ID))

	require.NoError(t, accounts.DeleteAccount(alice.ID))

	_, err := st.Accounts().ByID(alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Listings().ByID(bike.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 100, balanceOf(t, st, bob.ID))
}

func TestDeleteAccountReleasesHeldReservations(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)
	purchases := services.NewPurchaseService(st)

	carol := seedUser(t, st, "carol", 0)
	bob := seedUser(t, st, "bob", 50)
	lamp := seedListing(t, st, carol.ID, "Lamp", 50)

	require.NoError(t, purchases.Initiate(lamp.ID, bob.ID))
	require.NoError(t, accounts.DeleteAccount(bob.ID))

	got, err := st.Listings().ByID(lamp.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BuyerID)
	assert.False(t, got.Sold)
}

func TestDeleteAccountRemovesReports(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)
	moderation := services.NewModerationService(st)

	alice := seedUser(t, st, "alice", 0)
	bob := seedUser(t, st, "bob", 0)
	require.NoError(t, moderation.ReportUser(bob.ID, alice.ID))

	require.NoError(t, accounts.DeleteAccount(bob.ID))

	count, err := st.Reports().CountUserReports(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteAccountMissing(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)
	assert.ErrorIs(t, accounts.DeleteAccount(42), services.ErrUserNotFound)
}

func TestAuthenticateGoogleCreatesAccountOnce(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)

	first, err := accounts.AuthenticateGoogle("dana@example.com", "dana")
	require.NoError(t, err)
	assert.Equal(t, "dana", first.Username)

	second, err := accounts.AuthenticateGoogle("dana@example.com", "dana")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAuthenticateGoogleUsernameCollision(t *testing.T) {
	st := store.NewMemStore()
	accounts := services.NewAccountService(st)
	seedUser(t, st, "dana", 0)

	user, err := accounts.AuthenticateGoogle("other-dana@example.com", "dana")
	require.NoError(t, err)
	assert.Equal(t, "dana1", user.Username)
	assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Minute)
}
