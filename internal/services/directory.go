package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/onboarding/internal/metrics"
	"github.com/GregMSThompson/onboarding/internal/models"
)

type DirectorySource interface {
	Regions(ctx context.Context) ([]models.Region, error)
	Zones(ctx context.Context, regionID string) ([]models.Zone, error)
	Banks(ctx context.Context) ([]models.Bank, error)
}

type directoryService struct {
	source  DirectorySource
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewDirectoryService(source DirectorySource, c Cache, ttl time.Duration, m *metrics.Metrics) *directoryService {
	return &directoryService{
		source:  source,
		cache:   c,
		ttl:     ttl,
		metrics: m,
	}
}

func (s *directoryService) ListRegions(ctx context.Context) ([]models.Region, error) {
	return cachedList(ctx, s.cache, s.metrics, "directory", "regions", s.ttl, s.source.Regions)
}

func (s *directoryService) ListZones(ctx context.Context, regionID string) ([]models.Zone, error) {
	return cachedList(ctx, s.cache, s.metrics, "directory", "zones:"+regionID, s.ttl, func(ctx context.Context) ([]models.Zone, error) {
		return s.source.Zones(ctx, regionID)
	})
}

func (s *directoryService) ListBanks(ctx context.Context) ([]models.Bank, error) {
	return cachedList(ctx, s.cache, s.metrics, "directory", "banks", s.ttl, s.source.Banks)
}
