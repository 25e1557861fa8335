package services

import (
	"errors"

	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/store"
)

// ReportThreshold is the report count at which the auto-sanction fires:
// the fifth distinct report deactivates a user or removes a listing.
const ReportThreshold = 5

// ModerationService handles report intake, duplicate suppression and the
// threshold-triggered auto-sanctions, plus the manual admin actions.
type ModerationService struct {
	store store.Store
}

func NewModerationService(st store.Store) *ModerationService {
	return &ModerationService{store: st}
}

// ReportUser files a report against another user. Insert, count and sanction
// run in one transaction so concurrent reporters cannot slip past the
// threshold check.
func (s *ModerationService) ReportUser(reporterID, targetID uint) error {
	if reporterID == targetID {
		return ErrSelfReport
	}
	return s.store.Atomically(func(tx store.Store) error {
		if _, err := tx.Accounts().ByID(targetID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		exists, err := tx.Reports().HasUserReport(reporterID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyReported
		}
		report := &models.UserReport{ReporterID: reporterID, ReportedUserID: targetID}
		if err := tx.Reports().CreateUserReport(report); err != nil {
			return err
		}
		count, err := tx.Reports().CountUserReports(targetID)
		if err != nil {
			return err
		}
		if count >= ReportThreshold {
			return tx.Accounts().SetActive(targetID, false)
		}
		return nil
	})
}

// ReportListing files a report against a listing. Duplicates are rejected by
// the composite unique index, not just the pre-check. Hitting the threshold
// removes the listing (refunding a reserving buyer, like any other removal).
func (s *ModerationService) ReportListing(reporterID, listingID uint) error {
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		report := &models.ListingReport{ReporterID: reporterID, ListingID: listingID}
		if err := tx.Reports().CreateListingReport(report); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrAlreadyReported
			}
			return err
		}
		count, err := tx.Reports().CountListingReports(listingID)
		if err != nil {
			return err
		}
		if count >= ReportThreshold {
			if listing.Reserved() {
				if _, err := tx.Accounts().AddBalance(*listing.BuyerID, listing.Price); err != nil {
					return err
				}
			}
			if err := tx.Reports().DeleteForListing(listingID); err != nil {
				return err
			}
			return tx.Listings().Delete(listingID)
		}
		return nil
	})
}

// Reports returns both report ledgers for the admin dashboard.
func (s *ModerationService) Reports(actor *models.User) ([]models.UserReport, []models.ListingReport, error) {
	if !actor.IsAdmin() {
		return nil, nil, ErrForbidden
	}
	userReports, err := s.store.Reports().AllUserReports()
	if err != nil {
		return nil, nil, err
	}
	listingReports, err := s.store.Reports().AllListingReports()
	if err != nil {
		return nil, nil, err
	}
	return userReports, listingReports, nil
}

// Deactivate suspends an account. Admin accounts cannot be sanctioned.
func (s *ModerationService) Deactivate(actor *models.User, targetID uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.store.Atomically(func(tx store.Store) error {
		target, err := tx.Accounts().ByID(targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if target.IsAdmin() {
			return ErrCannotActOnAdmin
		}
		return tx.Accounts().SetActive(targetID, false)
	})
}

// Reactivate lifts a suspension.
func (s *ModerationService) Reactivate(actor *models.User, targetID uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.store.Accounts().SetActive(targetID, true); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// DeleteListing removes any listing on behalf of an admin.
func (s *ModerationService) DeleteListing(actor *models.User, listingID uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.store.Atomically(func(tx store.Store) error {
		listing, err := tx.Listings().ByID(listingID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
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
