package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/store"
	"golang.org/x/crypto/bcrypt"
)

// AccountService owns user identity, credential verification and the wallet.
type AccountService struct {
	store store.Store
}

func NewAccountService(st store.Store) *AccountService {
	return &AccountService{store: st}
}

// Register creates an account with a bcrypt-hashed password and the default
// user role. Username and email must both be unused.
func (s *AccountService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, ErrInvalidInput
	}
	if len(password) < 6 {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Active:   true,
		RoleID:   models.RoleIDUser,
		Role:     models.Role{ID: models.RoleIDUser, Name: models.RoleUser},
	}
	if err := s.store.Accounts().Create(user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a credential pair. Unknown usernames and wrong
// passwords fail identically so callers cannot enumerate accounts.
func (s *AccountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.store.Accounts().ByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// AuthenticateGoogle signs in a verified Google identity, creating the
// account on first sight. Generated accounts get a random credential; the
// password flow stays available through a later reset.
func (s *AccountService) AuthenticateGoogle(email, usernameHint string) (*models.User, error) {
	user, err := s.store.Accounts().ByEmail(email)
	if err == nil {
		if !user.Active {
			return nil, ErrAccountDisabled
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	username := strings.TrimSpace(usernameHint)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	for attempt := 0; attempt < 20; attempt++ {
		candidate := username
		if attempt > 0 {
			candidate = fmt.Sprintf("%s%d", username, attempt)
		}
		user, err = s.Register(candidate, email, uuid.New().String())
		if errors.Is(err, ErrDuplicate) {
			continue
		}
		return user, err
	}
	return nil, ErrDuplicate
}

func (s *AccountService) Get(userID uint) (*models.User, error) {
	user, err := s.store.Accounts().ByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrInvalidInput
	}
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return ErrWrongCurrentPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return s.store.Accounts().Save(user)
}

func (s *AccountService) ChangeEmail(userID uint, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" {
		return ErrDuplicate
	}
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	user.Email = newEmail
	if err := s.store.Accounts().Save(user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *AccountService) UpdateBio(userID uint, bio string) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	user.Bio = bio
	return s.store.Accounts().Save(user)
}

// ChargeWallet tops up the wallet and returns the new balance. Amount must
// be a positive integer; no upper bound is enforced.
func (s *AccountService) ChargeWallet(userID uint, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	balance, err := s.store.Accounts().AddBalance(userID, amount)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// DeleteAccount removes the user and everything that would otherwise dangle:
// owned listings (refunding any buyer holding a reservation on them),
// reservations the user holds on other sellers' listings, and reports filed
// by or against the user. One transaction, so a failure leaves no partial
// state.
func (s *AccountService) DeleteAccount(userID uint) error {
	return s.store.Atomically(func(tx store.Store) error {
		if _, err := tx.Accounts().ByID(userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		owned, err := tx.Listings().BySeller(userID)
		if err != nil {
			return err
		}
		for _, l := range owned {
			if l.Reserved() {
				if _, err := tx.Accounts().AddBalance(*l.BuyerID, l.Price); err != nil {
					return err
				}
			}
			if err := tx.Reports().DeleteForListing(l.ID); err != nil {
				return err
			}
			if err := tx.Listings().Delete(l.ID); err != nil {
				return err
			}
		}

		held, err := tx.Listings().ByBuyer(userID)
		if err != nil {
			return err
		}
		for _, l := range held {
			switch {
			case l.Reserved():
				if err := tx.Listings().Release(l.ID, userID); err != nil {
					return err
				}
			case l.Sold:
				// Completed purchases would otherwise keep a buyer
				// reference to a gone account.
				if err := tx.Reports().DeleteForListing(l.ID); err != nil {
					return err
				}
				if err := tx.Listings().Delete(l.ID); err != nil {
					return err
				}
			}
		}

		if err := tx.Reports().DeleteInvolvingUser(userID); err != nil {
			return err
		}
		return tx.Accounts().Delete(userID)
	})
}
