package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aircast/hub/pkg/common/kafka"
	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/common/models"
	"github.com/aircast/hub/pkg/intake"
	"github.com/aircast/hub/pkg/locale"
	"github.com/aircast/hub/pkg/observability/metrics"
	"github.com/redis/go-redis/v9"
)

const poolCacheKey = "hub:pool"

var (
	ErrInvalidSuggestionURL = errors.New("suggestion is not a valid absolute URL")
	ErrInvalidLanguage      = errors.New("not a recognized language code")
	ErrInvalidTopic         = errors.New("not a valid topic")
)

type Service struct {
	validator *intake.Validator
	repo      *Repository
	cache     *redis.Client
	events    *kafka.Producer
	topics    TopicCatalog
	poolTTL   time.Duration
}

func NewService(validator *intake.Validator, repo *Repository, cache *redis.Client, events *kafka.Producer, topics TopicCatalog, poolTTL time.Duration) *Service {
	return &Service{
		validator: validator,
		repo:      repo,
		cache:     cache,
		events:    events,
		topics:    topics,
		poolTTL:   poolTTL,
	}
}

// Submit runs a candidate through intake validation and persists the
// resulting request. This is the only path by which new requests are created.
func (s *Service) Submit(ctx context.Context, c intake.Candidate) (*Request, error) {
	prepared, err := s.validator.Check(c)
	if err != nil {
		return nil, err
	}

	req := New(prepared)
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("persisting request: %w", err)
	}

	s.publish(ctx, "request.accepted", req.AdaptorName, map[string]interface{}{
		"request_id":     req.ID,
		"content_type":   req.ContentType,
		"content_format": req.ContentFormat,
		"world":          req.World,
	})

	return req, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Request, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, world, contentType string) ([]Request, error) {
	return s.repo.List(ctx, world, contentType)
}

func (s *Service) Suggest(ctx context.Context, id uint, rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrInvalidSuggestionURL
	}

	req, err := s.repo.Mutate(ctx, id, func(r *Request) error {
		return r.Suggest(rawURL)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSuggestion()
	s.invalidatePool(ctx)
	return req, nil
}

func (s *Service) Vote(ctx context.Context, id uint, rawURL string) (*Request, error) {
	req, err := s.repo.Mutate(ctx, id, func(r *Request) error {
		return r.Vote(rawURL)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncVote()
	s.invalidatePool(ctx)
	return req, nil
}

func (s *Service) SetContent(ctx context.Context, id uint, f ContentFields) (*Request, error) {
	if f.Language != "" && !locale.Known(f.Language) {
		return nil, fmt.Errorf("language %q: %w", f.Language, ErrInvalidLanguage)
	}
	if f.ContentLanguage != "" && !locale.Known(f.ContentLanguage) {
		return nil, fmt.Errorf("content language %q: %w", f.ContentLanguage, ErrInvalidLanguage)
	}
	if f.Topic != "" && !s.topics.Valid(f.Topic) {
		return nil, fmt.Errorf("topic %q: %w", f.Topic, ErrInvalidTopic)
	}

	return s.repo.Mutate(ctx, id, func(r *Request) error {
		r.SetContent(f)
		return nil
	})
}

func (s *Service) Revert(ctx context.Context, id uint) (*Request, error) {
	return s.repo.Mutate(ctx, id, func(r *Request) error {
		r.Revert()
		return nil
	})
}

func (s *Service) SetRevision(ctx context.Context, id uint, n int) (*Request, error) {
	return s.repo.Mutate(ctx, id, func(r *Request) error {
		return r.SetRevision(n)
	})
}

// ContentPool returns all non-broadcast requests with at least one
// suggestion, each paired with its top suggestion, ordered by vote count.
// Results are cached in Redis for a short TTL and invalidated on every
// suggest, vote and promotion.
func (s *Service) ContentPool(ctx context.Context) ([]models.PoolEntry, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, poolCacheKey).Bytes(); err == nil {
			var entries []models.PoolEntry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
		}
	}

	reqs, err := s.repo.Pool(ctx)
	if err != nil {
		return nil, err
	}
	entries := RankPool(reqs)

	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, poolCacheKey, data, s.poolTTL).Err(); err != nil {
				logger.Log.WithError(err).Warn("failed to cache content pool")
			}
		}
	}

	return entries, nil
}

// InvalidatePool drops the cached content pool. Exposed so the playlist
// service can invalidate after a promotion removes a request from the pool.
func (s *Service) InvalidatePool(ctx context.Context) {
	s.invalidatePool(ctx)
}

func (s *Service) invalidatePool(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, poolCacheKey).Err(); err != nil {
		logger.Log.WithError(err).Warn("failed to invalidate content pool cache")
	}
}

func (s *Service) publish(ctx context.Context, eventType, source string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, eventType, source, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Error("failed to publish event")
	}
}
