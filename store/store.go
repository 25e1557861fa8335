package store

import (
	"errors"
	"time"

	"github.com/secure-trade/api-go/models"
)

// Storage-level failures. Services translate these into the user-facing
// error taxonomy; ErrConflict means a conditional update matched no row.
var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate record")
	ErrConflict  = errors.New("store: conditional update matched nothing")
)

type SortOrder string

const (
	SortLatest    SortOrder = "latest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// Store is the persistence boundary the services are built against. The gorm
// implementation backs production; tests run against the in-memory one.
type Store interface {
	Accounts() AccountStore
	Listings() ListingStore
	Reports() ReportStore

	// Atomically runs fn against a transactional view of the store. If fn
	// returns an error the whole unit of work is rolled back.
	Atomically(fn func(Store) error) error
}

type AccountStore interface {
	Create(u *models.User) error
	ByID(id uint) (*models.User, error)
	ByUsername(username string) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	Save(u *models.User) error
	Delete(id uint) error

	// AddBalance applies delta to the wallet and returns the new balance.
	// The update is conditional: a delta that would drive the balance
	// negative fails with ErrConflict and changes nothing.
	AddBalance(id uint, delta int) (int, error)

	SetActive(id uint, active bool) error
}

type ListingStore interface {
	Create(l *models.Listing) error
	ByID(id uint) (*models.Listing, error)
	BySeller(sellerID uint) ([]models.Listing, error)
	ByBuyer(buyerID uint) ([]models.Listing, error)
	Save(l *models.Listing) error
	Delete(id uint) error

	// Reserve assigns buyerID to an unsold listing that has no buyer yet.
	// Losing the race to another buyer surfaces as ErrConflict.
	Reserve(listingID, buyerID uint, at time.Time) error
	// Confirm marks a listing sold, provided buyerID holds the reservation.
	Confirm(listingID, buyerID uint) error
	// Release clears buyerID's reservation, returning the listing to sale.
	Release(listingID, buyerID uint) error

	Search(keyword string, sort SortOrder) ([]models.Listing, error)
	ReservedBefore(cutoff time.Time) ([]models.Listing, error)
}

type ReportStore interface {
	CreateUserReport(r *models.UserReport) error
	HasUserReport(reporterID, reportedUserID uint) (bool, error)
	CountUserReports(reportedUserID uint) (int64, error)
	AllUserReports() ([]models.UserReport, error)

	CreateListingReport(r *models.ListingReport) error
	CountListingReports(listingID uint) (int64, error)
	AllListingReports() ([]models.ListingReport, error)

	// DeleteForListing removes every report filed against a listing.
	DeleteForListing(listingID uint) error
	// DeleteInvolvingUser removes every report filed by or against a user.
	DeleteInvolvingUser(userID uint) error
}
