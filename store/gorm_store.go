package store

import (
	"errors"
	"strings"
	"time"

	"github.com/secure-trade/api-go/models"
	"gorm.io/gorm"
)

// gormStore implements Store on top of a gorm connection. Requires the
// connection to be opened with TranslateError so unique-index violations
// surface as gorm.ErrDuplicatedKey.
type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Accounts() AccountStore { return (*gormAccounts)(s) }
func (s *gormStore) Listings() ListingStore { return (*gormListings)(s) }
func (s *gormStore) Reports() ReportStore   { return (*gormReports)(s) }

func (s *gormStore) Atomically(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type gormAccounts gormStore

func (s *gormAccounts) Create(u *models.User) error {
	return translate(s.db.Create(u).Error)
}

func (s *gormAccounts) ByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.Preload("Role").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormAccounts) ByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.db.Preload("Role").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormAccounts) ByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Preload("Role").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormAccounts) Save(u *models.User) error {
	return translate(s.db.Save(u).Error)
}

func (s *gormAccounts) Delete(id uint) error {
	return translate(s.db.Delete(&models.User{}, id).Error)
}

func (s *gormAccounts) AddBalance(id uint, delta int) (int, error) {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		var u models.User
		if err := s.db.First(&u, id).Error; err != nil {
			return 0, translate(err)
		}
		return u.Balance, ErrConflict
	}
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return 0, translate(err)
	}
	return u.Balance, nil
}

func (s *gormAccounts) SetActive(id uint, active bool) error {
	res := s.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormListings gormStore

func (s *gormListings) Create(l *models.Listing) error {
	return translate(s.db.Create(l).Error)
}

func (s *gormListings) ByID(id uint) (*models.Listing, error) {
	var l models.Listing
	err := s.db.Preload("Seller").Preload("Buyer").First(&l, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *gormListings) BySeller(sellerID uint) ([]models.Listing, error) {
	var out []models.Listing
	err := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (s *gormListings) ByBuyer(buyerID uint) ([]models.Listing, error) {
	var out []models.Listing
	err := s.db.Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (s *gormListings) Save(l *models.Listing) error {
	return translate(s.db.Save(l).Error)
}

func (s *gormListings) Delete(id uint) error {
	return translate(s.db.Delete(&models.Listing{}, id).Error)
}

func (s *gormListings) Reserve(listingID, buyerID uint, at time.Time) error {
	res := s.db.Model(&models.Listing{}).
		Where("id = ? AND buyer_id IS NULL AND sold = ? AND seller_id <> ?", listingID, false, buyerID).
		Updates(map[string]interface{}{"buyer_id": buyerID, "reserved_at": at})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *gormListings) Confirm(listingID, buyerID uint) error {
	res := s.db.Model(&models.Listing{}).
		Where("id = ? AND buyer_id = ? AND sold = ?", listingID, buyerID, false).
		UpdateColumn("sold", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *gormListings) Release(listingID, buyerID uint) error {
	res := s.db.Model(&models.Listing{}).
		Where("id = ? AND buyer_id = ? AND sold = ?", listingID, buyerID, false).
		Updates(map[string]interface{}{"buyer_id": nil, "reserved_at": nil})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *gormListings) Search(keyword string, sort SortOrder) ([]models.Listing, error) {
	q := s.db.Model(&models.Listing{}).Preload("Seller")
	if keyword != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	switch sort {
	case SortPriceAsc:
		q = q.Order("price ASC")
	case SortPriceDesc:
		q = q.Order("price DESC")
	default:
		q = q.Order("created_at DESC")
	}
	var out []models.Listing
	err := q.Find(&out).Error
	return out, translate(err)
}

func (s *gormListings) ReservedBefore(cutoff time.Time) ([]models.Listing, error) {
	var out []models.Listing
	err := s.db.
		Where("buyer_id IS NOT NULL AND sold = ? AND reserved_at < ?", false, cutoff).
		Find(&out).Error
	return out, translate(err)
}

type gormReports gormStore

func (s *gormReports) CreateUserReport(r *models.UserReport) error {
	return translate(s.db.Create(r).Error)
}

func (s *gormReports) HasUserReport(reporterID, reportedUserID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.UserReport{}).
		Where("reporter_id = ? AND reported_user_id = ?", reporterID, reportedUserID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *gormReports) CountUserReports(reportedUserID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.UserReport{}).
		Where("reported_user_id = ?", reportedUserID).
		Count(&count).Error
	return count, translate(err)
}

func (s *gormReports) AllUserReports() ([]models.UserReport, error) {
	var out []models.UserReport
	err := s.db.Preload("Reporter").Preload("ReportedUser").
		Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (s *gormReports) CreateListingReport(r *models.ListingReport) error {
	return translate(s.db.Create(r).Error)
}

func (s *gormReports) CountListingReports(listingID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.ListingReport{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	return count, translate(err)
}

func (s *gormReports) AllListingReports() ([]models.ListingReport, error) {
	var out []models.ListingReport
	err := s.db.Preload("Reporter").Preload("Listing").
		Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (s *gormReports) DeleteForListing(listingID uint) error {
	return translate(s.db.Where("listing_id = ?", listingID).Delete(&models.ListingReport{}).Error)
}

func (s *gormReports) DeleteInvolvingUser(userID uint) error {
	err := s.db.Where("reporter_id = ? OR reported_user_id = ?", userID, userID).
		Delete(&models.UserReport{}).Error
	if err != nil {
		return translate(err)
	}
	return translate(s.db.Where("reporter_id = ?", userID).Delete(&models.ListingReport{}).Error)
}
