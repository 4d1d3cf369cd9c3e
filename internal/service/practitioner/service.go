package practitioner

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/internal/repository"
)

const rosterCacheKey = "practitioners:all"

// Service lists the practitioner roster. The roster changes rarely, so
// reads go through a short-lived in-process cache.
type Service struct {
	repo  repository.PractitionerRepository
	cache *gocache.Cache
}

func NewService(repo repository.PractitionerRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Service) ListPractitioners(ctx context.Context) ([]*model.Practitioner, error) {
	if cached, ok := s.cache.Get(rosterCacheKey); ok {
		return cached.([]*model.Practitioner), nil
	}

	practitioners, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(rosterCacheKey, practitioners, gocache.DefaultExpiration)
	return practitioners, nil
}
