package playlist

import (
	"context"

	"github.com/aircast/hub/pkg/common/kafka"
	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/observability/metrics"
	"github.com/aircast/hub/pkg/request"
)

type Service struct {
	repo     *Repository
	requests *request.Service
	events   *kafka.Producer
}

func NewService(repo *Repository, requests *request.Service, events *kafka.Producer) *Service {
	return &Service{repo: repo, requests: requests, events: events}
}

// PromoteResult reports the outcome of a promotion attempt.
type PromoteResult struct {
	Promoted    bool   `json:"promoted"`
	PlaylistKey string `json:"playlist_key,omitempty"`
	URL         string `json:"url,omitempty"`
}

func (s *Service) Promote(ctx context.Context, requestID uint) (*PromoteResult, error) {
	pl, promoted, err := s.repo.Promote(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !promoted {
		return &PromoteResult{Promoted: false}, nil
	}

	item := pl.Items[len(pl.Items)-1]
	metrics.IncPromotion()
	s.requests.InvalidatePool(ctx)

	if s.events != nil {
		err := s.events.PublishEvent(ctx, "playlist.promoted", "hub", map[string]interface{}{
			"playlist_key": pl.Key,
			"request_id":   requestID,
			"url":          item.URL,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("failed to publish promotion event")
		}
	}

	return &PromoteResult{
		Promoted:    true,
		PlaylistKey: pl.Key,
		URL:         item.URL,
	}, nil
}

func (s *Service) Get(ctx context.Context, key string) (*Playlist, error) {
	return s.repo.Get(ctx, key)
}
