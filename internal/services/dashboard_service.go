package services

import (
	"context"
	"log"
	"time"

	"rds-portal/internal/models"
)

const (
	recentWindow = 7 * 24 * time.Hour
	recentLimit  = 5
)

// SummaryStore is the read-only slice of the registry the dashboard needs.
type SummaryStore interface {
	CountByOwner(ctx context.Context, owner string) (int, error)
	CountByOwnerAndStatus(ctx context.Context, owner, status string) (int, error)
	RecentByOwner(ctx context.Context, owner string, since time.Time, limit int) ([]models.Instance, error)
}

// Summary is the dashboard's landing-page aggregate. HasData is false when
// the registry could not be reached; the counts are then zero by contract
// rather than by error suppression.
type Summary struct {
	Total   int
	Running int
	Recent  []models.Instance
	HasData bool
}

type DashboardService struct {
	instances SummaryStore
}

func NewDashboardService(instances SummaryStore) *DashboardService {
	return &DashboardService{instances: instances}
}

// Summarize never fails the page: any registry error degrades to a zeroed
// Summary with HasData unset.
func (s *DashboardService) Summarize(ctx context.Context, owner string) Summary {
	total, err := s.instances.CountByOwner(ctx, owner)
	if err != nil {
		log.Printf("dashboard: registry unavailable for %s: %v", owner, err)
		return Summary{}
	}

	running, err := s.instances.CountByOwnerAndStatus(ctx, owner, models.StatusAvailable)
	if err != nil {
		log.Printf("dashboard: registry unavailable for %s: %v", owner, err)
		return Summary{}
	}

	weekAgo := time.Now().Add(-recentWindow)
	recent, err := s.instances.RecentByOwner(ctx, owner, weekAgo, recentLimit)
	if err != nil {
		log.Printf("dashboard: registry unavailable for %s: %v", owner, err)
		return Summary{}
	}

	return Summary{
		Total:   total,
		Running: running,
		Recent:  recent,
		HasData: true,
	}
}
