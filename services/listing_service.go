package services

import (
	"errors"
	"strings"

	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/store"
)

// ListingService owns product listings and their sale status.
type ListingService struct {
	store store.Store
}

func NewListingService(st store.Store) *ListingService {
	return &ListingService{store: st}
}

func (s *ListingService) Create(sellerID uint, title, body string, price int) (*models.Listing, error) {
	title = strings.TrimSpace(title)
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	listing := &models.Listing{
		Title:    title,
		Body:     body,
		Price:    price,
		SellerID: sellerID,
	}
	if err := s.store.Listings().Create(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) Get(listingID uint) (*models.Listing, error) {
	listing, err := s.store.Listings().ByID(listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *ListingService) BySeller(sellerID uint) ([]models.Listing, error) {
	return s.store.Listings().BySeller(sellerID)
}

// Update edits title, body and price. Only the seller may edit, and a sold
// listing is immutable.
func (s *ListingService) Update(listingID, editorID uint, title, body string, price int) (*models.Listing, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	var updated *models.Listing
	err := s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if listing.SellerID != editorID {
			return ErrNotOwner
		}
		if listing.Sold {
			return ErrAlreadySold
		}
		listing.Title = strings.TrimSpace(title)
		listing.Body = body
		listing.Price = price
		if err := tx.Listings().Save(listing); err != nil {
			return err
		}
		updated = listing
		return nil
	})
	return updated, err
}

// SetPhoto attaches a confirmed upload to the listing. Seller only.
func (s *ListingService) SetPhoto(listingID, editorID uint, photoURL string) error {
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if listing.SellerID != editorID {
			return ErrNotOwner
		}
		listing.PhotoURL = photoURL
		return tx.Listings().Save(listing)
	})
}

// Delete removes a listing together with its reports. The seller may delete
// their own listing; an admin may delete any. A buyer holding a reservation
// gets the escrowed price back.
func (s *ListingService) Delete(listingID uint, actor *models.User) error {
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if listing.SellerID != actor.ID && !actor.IsAdmin() {
			return ErrNotOwner
		}
		if listing.Reserved() {
			if _, err := tx.Accounts().AddBalance(*listing.BuyerID, listing.Price); err != nil {
				return err
			}
		}
		if err := tx.Reports().DeleteForListing(listingID); err != nil {
			return err
		}
		return tx.Listings().Delete(listingID)
	})
}
