package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
	"github.com/shandysiswandi/gocountry/internal/country/usecase"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkguid"
)

var _ usecase.Store = (*InMemoryStore)(nil)

// InMemoryStore keeps countries keyed by lower-cased name. Records are stored
// and returned by value so readers never observe a partial write.
type InMemoryStore struct {
	mu        sync.RWMutex
	countries map[string]entity.Country
	order     []string
	meta      *entity.RefreshMetadata
	ids       pkguid.NumberID
}

func NewInMemoryStore(ids pkguid.NumberID) *InMemoryStore {
	return &InMemoryStore{
		countries: make(map[string]entity.Country),
		ids:       ids,
	}
}

func (s *InMemoryStore) Upsert(ctx context.Context, country entity.Country) (entity.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.upsertLocked(country)
}

func (s *InMemoryStore) SaveRefresh(ctx context.Context, countries []entity.Country, refreshedAt time.Time) (entity.RefreshMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return entity.RefreshMetadata{}, err
	}

	for _, c := range countries {
		if _, err := s.upsertLocked(c); err != nil {
			return entity.RefreshMetadata{}, err
		}
	}

	if s.meta == nil {
		s.meta = &entity.RefreshMetadata{}
	}
	s.meta.TotalCountries = len(s.countries)
	s.meta.LastRefreshedAt = refreshedAt

	return *s.meta, nil
}

func (s *InMemoryStore) FindByName(ctx context.Context, name string) (entity.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.countries[key(name)]
	if !ok {
		return entity.Country{}, pkgerror.ErrNotFound
	}

	return c, nil
}

func (s *InMemoryStore) List(ctx context.Context, filter usecase.CountryFilter) ([]entity.Country, error) {
	s.mu.RLock()
	items := make([]entity.Country, 0, len(s.order))
	for _, k := range s.order {
		if c := s.countries[k]; filter.Matches(c) {
			items = append(items, c)
		}
	}
	s.mu.RUnlock()

	usecase.SortCountries(items, filter.Sort)

	return items, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(name)
	if _, ok := s.countries[k]; !ok {
		return pkgerror.ErrNotFound
	}

	delete(s.countries, k)
	for i, existing := range s.order {
		if existing == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if s.meta != nil {
		s.meta.TotalCountries = len(s.countries)
	}

	return nil
}

func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.countries), nil
}

func (s *InMemoryStore) Metadata(ctx context.Context) (entity.RefreshMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.meta == nil {
		return entity.RefreshMetadata{}, pkgerror.ErrNotFound
	}

	return *s.meta, nil
}

// upsertLocked must be called with the write lock held.
func (s *InMemoryStore) upsertLocked(c entity.Country) (entity.Country, error) {
	k := key(c.Name)
	if k == "" {
		return entity.Country{}, pkgerror.NewInvalidInput(errNameRequired)
	}

	if existing, ok := s.countries[k]; ok {
		c.ID = existing.ID
		c.Name = existing.Name
	} else {
		c.ID = s.ids.Generate()
		c.Name = strings.TrimSpace(c.Name)
		s.order = append(s.order, k)
	}

	s.countries[k] = c

	return c, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
