// Package directory serves the approved-boss listing and slug-addressed
// profile pages to viewers the access gate has already cleared.
package directory

import (
	"context"
	"strings"

	"bestbosses/internal/boss"
	dErrors "bestbosses/pkg/domain-errors"
)

// Service produces the directory listing. The listing is cacheable; the
// search filter is applied after the cache so every search term shares one
// cached payload.
type Service struct {
	bosses boss.Store
	cache  *Cache
}

func NewService(bosses boss.Store, cache *Cache) *Service {
	return &Service{bosses: bosses, cache: cache}
}

// List returns directory entries newest-first. A non-empty search term
// keeps entries whose name, company, location, industry or function
// contains it, case-insensitively.
func (s *Service) List(ctx context.Context, search string) ([]*boss.Boss, error) {
	listing, ok := s.cache.Listing(ctx)
	if !ok {
		var err error
		listing, err = s.bosses.List(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list directory")
		}
		s.cache.StoreListing(ctx, listing)
	}

	if strings.TrimSpace(search) == "" {
		return listing, nil
	}

	term := strings.ToLower(search)
	filtered := make([]*boss.Boss, 0, len(listing))
	for _, b := range listing {
		if matches(b, term) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func matches(b *boss.Boss, term string) bool {
	for _, field := range []string{
		b.FirstName, b.LastName, b.Company, b.Location, b.Industry, b.Function,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
