package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/secure-trade/api-go/models"
)

// memState is the whole dataset of a MemStore. Kept in one struct so a
// transaction can snapshot and restore it wholesale.
type memState struct {
	users          map[uint]models.User
	listings       map[uint]models.Listing
	userReports    []models.UserReport
	listingReports []models.ListingReport

	nextUser    uint
	nextListing uint
	nextReport  uint
}

// MemStore is the in-memory Store implementation backing the service tests.
// Transactions snapshot the state and restore it on error, mirroring the
// rollback behavior of the gorm implementation.
type MemStore struct {
	mu    *sync.Mutex
	state *memState
	inTx  bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		mu: &sync.Mutex{},
		state: &memState{
			users:       make(map[uint]models.User),
			listings:    make(map[uint]models.Listing),
			nextUser:    1,
			nextListing: 1,
			nextReport:  1,
		},
	}
}

func (m *MemStore) Accounts() AccountStore { return (*memAccounts)(m) }
func (m *MemStore) Listings() ListingStore { return (*memListings)(m) }
func (m *MemStore) Reports() ReportStore   { return (*memReports)(m) }

func (m *MemStore) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *MemStore) Atomically(fn func(Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	tx := &MemStore{mu: m.mu, state: m.state, inTx: true}
	if err := fn(tx); err != nil {
		*m.state = *snapshot
		return err
	}
	return nil
}

func (s *memState) clone() *memState {
	c := &memState{
		users:          make(map[uint]models.User, len(s.users)),
		listings:       make(map[uint]models.Listing, len(s.listings)),
		userReports:    append([]models.UserReport(nil), s.userReports...),
		listingReports: append([]models.ListingReport(nil), s.listingReports...),
		nextUser:       s.nextUser,
		nextListing:    s.nextListing,
		nextReport:     s.nextReport,
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, l := range s.listings {
		c.listings[id] = cloneListing(l)
	}
	return c
}

func cloneListing(l models.Listing) models.Listing {
	if l.BuyerID != nil {
		id := *l.BuyerID
		l.BuyerID = &id
	}
	if l.ReservedAt != nil {
		at := *l.ReservedAt
		l.ReservedAt = &at
	}
	l.Buyer = nil
	return l
}

type memAccounts MemStore

func (m *memAccounts) Create(u *models.User) error {
	defer (*MemStore)(m).lock()()
	for _, other := range m.state.users {
		if other.Username == u.Username || other.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = m.state.nextUser
	m.state.nextUser++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.state.users[u.ID] = *u
	return nil
}

func (m *memAccounts) ByID(id uint) (*models.User, error) {
	defer (*MemStore)(m).lock()()
	u, ok := m.state.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memAccounts) ByUsername(username string) (*models.User, error) {
	defer (*MemStore)(m).lock()()
	for _, u := range m.state.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) ByEmail(email string) (*models.User, error) {
	defer (*MemStore)(m).lock()()
	for _, u := range m.state.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) Save(u *models.User) error {
	defer (*MemStore)(m).lock()()
	if _, ok := m.state.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, other := range m.state.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.Email == u.Email {
			return ErrDuplicate
		}
	}
	m.state.users[u.ID] = *u
	return nil
}

func (m *memAccounts) Delete(id uint) error {
	defer (*MemStore)(m).lock()()
	if _, ok := m.state.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.state.users, id)
	return nil
}

func (m *memAccounts) AddBalance(id uint, delta int) (int, error) {
	defer (*MemStore)(m).lock()()
	u, ok := m.state.users[id]
	if !ok {
		return 0, ErrNotFound
	}
	if u.Balance+delta < 0 {
		return u.Balance, ErrConflict
	}
	u.Balance += delta
	m.state.users[id] = u
	return u.Balance, nil
}

func (m *memAccounts) SetActive(id uint, active bool) error {
	defer (*MemStore)(m).lock()()
	u, ok := m.state.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Active = active
	m.state.users[id] = u
	return nil
}

type memListings MemStore

func (m *memListings) Create(l *models.Listing) error {
	defer (*MemStore)(m).lock()()
	l.ID = m.state.nextListing
	m.state.nextListing++
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	m.state.listings[l.ID] = cloneListing(*l)
	return nil
}

func (m *memListings) ByID(id uint) (*models.Listing, error) {
	defer (*MemStore)(m).lock()()
	l, ok := m.state.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneListing(l)
	return &out, nil
}

func (m *memListings) BySeller(sellerID uint) ([]models.Listing, error) {
	defer (*MemStore)(m).lock()()
	var out []models.Listing
	for _, l := range m.state.listings {
		if l.SellerID == sellerID {
			out = append(out, cloneListing(l))
		}
	}
	sortListings(out, SortLatest)
	return out, nil
}

func (m *memListings) ByBuyer(buyerID uint) ([]models.Listing, error) {
	defer (*MemStore)(m).lock()()
	var out []models.Listing
	for _, l := range m.state.listings {
		if l.BuyerID != nil && *l.BuyerID == buyerID {
			out = append(out, cloneListing(l))
		}
	}
	sortListings(out, SortLatest)
	return out, nil
}

func (m *memListings) Save(l *models.Listing) error {
	defer (*MemStore)(m).lock()()
	if _, ok := m.state.listings[l.ID]; !ok {
		return ErrNotFound
	}
	m.state.listings[l.ID] = cloneListing(*l)
	return nil
}

func (m *memListings) Delete(id uint) error {
	defer (*MemStore)(m).lock()()
	if _, ok := m.state.listings[id]; !ok {
		return ErrNotFound
	}
	delete(m.state.listings, id)
	return nil
}

func (m *memListings) Reserve(listingID, buyerID uint, at time.Time) error {
	defer (*MemStore)(m).lock()()
	l, ok := m.state.listings[listingID]
	if !ok {
		return ErrConflict
	}
	if l.BuyerID != nil || l.Sold || l.SellerID == buyerID {
		return ErrConflict
	}
	l.BuyerID = &buyerID
	l.ReservedAt = &at
	m.state.listings[listingID] = cloneListing(l)
	return nil
}

func (m *memListings) Confirm(listingID, buyerID uint) error {
	defer (*MemStore)(m).lock()()
	l, ok := m.state.listings[listingID]
	if !ok {
		return ErrConflict
	}
	if l.BuyerID == nil || *l.BuyerID != buyerID || l.Sold {
		return ErrConflict
	}
	l.Sold = true
	m.state.listings[listingID] = cloneListing(l)
	return nil
}

func (m *memListings) Release(listingID, buyerID uint) error {
	defer (*MemStore)(m).lock()()
	l, ok := m.state.listings[listingID]
	if !ok {
		return ErrConflict
	}
	if l.BuyerID == nil || *l.BuyerID != buyerID || l.Sold {
		return ErrConflict
	}
	l.BuyerID = nil
	l.ReservedAt = nil
	m.state.listings[listingID] = cloneListing(l)
	return nil
}

func (m *memListings) Search(keyword string, sort SortOrder) ([]models.Listing, error) {
	defer (*MemStore)(m).lock()()
	needle := strings.ToLower(keyword)
	var out []models.Listing
	for _, l := range m.state.listings {
		if needle == "" || strings.Contains(strings.ToLower(l.Title), needle) {
			out = append(out, cloneListing(l))
		}
	}
	sortListings(out, sort)
	return out, nil
}

func (m *memListings) ReservedBefore(cutoff time.Time) ([]models.Listing, error) {
	defer (*MemStore)(m).lock()()
	var out []models.Listing
	for _, l := range m.state.listings {
		if l.BuyerID != nil && !l.Sold && l.ReservedAt != nil && l.ReservedAt.Before(cutoff) {
			out = append(out, cloneListing(l))
		}
	}
	sortListings(out, SortLatest)
	return out, nil
}

func sortListings(ls []models.Listing, order SortOrder) {
	sort.SliceStable(ls, func(i, j int) bool {
		switch order {
		case SortPriceAsc:
			return ls[i].Price < ls[j].Price
		case SortPriceDesc:
			return ls[i].Price > ls[j].Price
		default:
			if ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
				return ls[i].ID > ls[j].ID
			}
			return ls[i].CreatedAt.After(ls[j].CreatedAt)
		}
	})
}

type memReports MemStore

func (m *memReports) CreateUserReport(r *models.UserReport) error {
	defer (*MemStore)(m).lock()()
	r.ID = m.state.nextReport
	m.state.nextReport++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.state.userReports = append(m.state.userReports, *r)
	return nil
}

func (m *memReports) HasUserReport(reporterID, reportedUserID uint) (bool, error) {
	defer (*MemStore)(m).lock()()
	for _, r := range m.state.userReports {
		if r.ReporterID == reporterID && r.ReportedUserID == reportedUserID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReports) CountUserReports(reportedUserID uint) (int64, error) {
	defer (*MemStore)(m).lock()()
	var count int64
	for _, r := range m.state.userReports {
		if r.ReportedUserID == reportedUserID {
			count++
		}
	}
	return count, nil
}

func (m *memReports) AllUserReports() ([]models.UserReport, error) {
	defer (*MemStore)(m).lock()()
	return append([]models.UserReport(nil), m.state.userReports...), nil
}

func (m *memReports) CreateListingReport(r *models.ListingReport) error {
	defer (*MemStore)(m).lock()()
	for _, other := range m.state.listingReports {
		if other.ReporterID == r.ReporterID && other.ListingID == r.ListingID {
			return ErrDuplicate
		}
	}
	r.ID = m.state.nextReport
	m.state.nextReport++
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.state.listingReports = append(m.state.listingReports, *r)
	return nil
}

func (m *memReports) CountListingReports(listingID uint) (int64, error) {
	defer (*MemStore)(m).lock()()
	var count int64
	for _, r := range m.state.listingReports {
		if r.ListingID == listingID {
			count++
		}
	}
	return count, nil
}

func (m *memReports) AllListingReports() ([]models.ListingReport, error) {
	defer (*MemStore)(m).lock()()
	return append([]models.ListingReport(nil), m.state.listingReports...), nil
}

func (m *memReports) DeleteForListing(listingID uint) error {
	defer (*MemStore)(m).lock()()
	kept := m.state.listingReports[:0]
	for _, r := range m.state.listingReports {
		if r.ListingID != listingID {
			kept = append(kept, r)
		}
	}
	m.state.listingReports = kept
	return nil
}

func (m *memReports) DeleteInvolvingUser(userID uint) error {
	defer (*MemStore)(m).lock()()
	keptUsers := m.state.userReports[:0]
	for _, r := range m.state.userReports {
		if r.ReporterID != userID && r.ReportedUserID != userID {
			keptUsers = append(keptUsers, r)
		}
	}
	m.state.userReports = keptUsers

	keptListings := m.state.listingReports[:0]
	for _, r := range m.state.listingReports {
		if r.ReporterID != userID {
			keptListings = append(keptListings, r)
		}
	}
	m.state.listingReports = keptListings
	return nil
}
