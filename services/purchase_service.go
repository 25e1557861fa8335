package services

import (
	"errors"
	"log"
	"time"

	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/store"
)

// PurchaseService drives the two-phase buy/confirm state machine:
//
//	available -> reserved (buyer assigned, price moved to escrow)
//	reserved  -> confirmed (sold, escrow credited to the seller)
//	reserved  -> available (cancel or expiry, buyer refunded)
//
// Every transition is a single transaction over conditional updates, so two
// buyers racing the same listing cannot both win.
type PurchaseService struct {
	store store.Store
	now   func() time.Time
}

func NewPurchaseService(st store.Store) *PurchaseService {
	return &PurchaseService{store: st, now: time.Now}
}

// Initiate reserves the listing for the buyer and debits the price from the
// buyer's wallet into escrow.
func (s *PurchaseService) Initiate(listingID, buyerID uint) error {
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if listing.SellerID == buyerID {
			return ErrSelfPurchase
		}
		if listing.Sold || listing.BuyerID != nil {
			return ErrAlreadySold
		}
		if err := tx.Listings().Reserve(listingID, buyerID, s.now()); err != nil {
			if errors.Is(err, store.ErrConflict) {
				// Another buyer got there between the read and the update.
				return ErrAlreadySold
			}
			return err
		}
		if _, err := tx.Accounts().AddBalance(buyerID, -listing.Price); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrInsufficientFunds
			}
			return err
		}
		return nil
	})
}

// Confirm finalizes a reserved purchase: only the assigned buyer may
// confirm, the listing becomes sold and the seller receives the escrowed
// price.
func (s *PurchaseService) Confirm(listingID, confirmerID uint) error {
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if listing.BuyerID == nil || *listing.BuyerID != confirmerID {
			return ErrNotBuyer
		}
		if listing.Sold {
			return ErrAlreadySold
		}
		if err := tx.Listings().Confirm(listingID, confirmerID); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadySold
			}
			return err
		}
		if _, err := tx.Accounts().AddBalance(listing.SellerID, listing.Price); err != nil {
			return err
		}
		return nil
	})
}

// Cancel releases a reservation and refunds the buyer. The buyer may back
// out; the seller may also refuse a pending reservation.
func (s *PurchaseService) Cancel(listingID, actorID uint) error {
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !listing.Reserved() {
			return ErrNotReserved
		}
		if actorID != *listing.BuyerID && actorID != listing.SellerID {
			return ErrNotOwner
		}
		return s.release(tx, listing)
	})
}

// ReleaseExpired returns every reservation older than ttl to the market,
// refunding the buyers. Invoked by the scheduler; returns how many
// reservations were released.
func (s *PurchaseService) ReleaseExpired(ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)
	stale, err := s.store.Listings().ReservedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	released := 0
	for _, l := range stale {
		listing := l
		err := s.store.Atomically(func(tx store.Store) error {
			current, err := tx.Listings().ByID(listing.ID)
			if err != nil {
				return err
			}
			if !current.Reserved() || current.ReservedAt == nil || current.ReservedAt.After(cutoff) {
				// Confirmed or re-reserved since the sweep started.
				return store.ErrConflict
			}
			return s.release(tx, current)
		})
		switch {
		case err == nil:
			released++
		case errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound):
			// Lost to a concurrent confirm/cancel; nothing to do.
		default:
			log.Printf("purchase: releasing expired reservation on listing %d: %v", listing.ID, err)
		}
	}
	return released, nil
}

func (s *PurchaseService) release(tx store.Store, listing *models.Listing) error {
	if err := tx.Listings().Release(listing.ID, *listing.BuyerID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrNotReserved
		}
		return err
	}
	_, err := tx.Accounts().AddBalance(*listing.BuyerID, listing.Price)
	return err
}
