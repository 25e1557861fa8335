package services

import (
	"errors"
	"strings"

	"github.com/secure-trade/api-go/models"
	"github.com/secure-trade/api-go/store"
)

// SearchService resolves keyword queries over listings and the "@username"
// profile shortcut.
type SearchService struct {
	store store.Store
}

func NewSearchService(st store.Store) *SearchService {
	return &SearchService{store: st}
}

// SearchResult is either a set of listings or a profile redirect, never both.
type SearchResult struct {
	Listings []models.Listing
	// Profile is set when the keyword was an "@username" lookup.
	Profile *models.User
}

// Search runs a case-insensitive substring match of the trimmed keyword
// against listing titles, ordered by sort (latest when empty or unknown).
// A keyword starting with "@" is a username lookup instead.
func (s *SearchService) Search(keyword string, sort store.SortOrder) (*SearchResult, error) {
	keyword = strings.TrimSpace(keyword)

	if strings.HasPrefix(keyword, "@") {
		username := strings.TrimPrefix(keyword, "@")
		user, err := s.store.Accounts().ByUsername(username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return &SearchResult{Profile: user}, nil
	}

	switch sort {
	case store.SortPriceAsc, store.SortPriceDesc:
	default:
		sort = store.SortLatest
	}
	listings, err := s.store.Listings().Search(keyword, sort)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Listings: listings}, nil
}
