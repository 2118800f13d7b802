package view

import (
	"context"
	"fmt"
	"time"

	eventRepo "campus.clubhub.id/clubhub/internal/modules/event/repository"
	"github.com/redis/go-redis/v9"
)

// ViewService buffers event detail views in Redis and flushes them into
// event_insights on a timer, so hot events don't hammer the DB per request.
type ViewService interface {
	IncrementView(ctx context.Context, eventID uint, viewerKey string) error
	StartViewSyncWorker(ctx context.Context)
}

type viewService struct {
	redisClient *redis.Client
	eventRepo   eventRepo.EventRepository
}

func NewViewService(redisClient *redis.Client, eventRepo eventRepo.EventRepository) ViewService {
	return &viewService{
		redisClient: redisClient,
		eventRepo:   eventRepo,
	}
}

func (s *viewService) IncrementView(ctx context.Context, eventID uint, viewerKey string) error {
	// 1. Same viewer only counts once per hour
	userViewKey := fmt.Sprintf("event:user_view:%d:%s", eventID, viewerKey)

	exists, err := s.redisClient.Exists(ctx, userViewKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check viewer: %w", err)
	}
	if exists == 1 {
		return nil
	}

	// 2. Increment view count in Redis
	viewKey := fmt.Sprintf("event:views:%d", eventID)
	if _, err := s.redisClient.Incr(ctx, viewKey).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	// 3. Add to pending sync set
	if _, err := s.redisClient.SAdd(ctx, "pending:event_views", fmt.Sprintf("%d", eventID)).Result(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	// 4. Mark viewer as counted (expires in 1 hour)
	if _, err := s.redisClient.SetEx(ctx, userViewKey, "viewed", time.Hour).Result(); err != nil {
		return fmt.Errorf("failed to set viewer marker: %w", err)
	}

	return nil
}

func (s *viewService) syncViewsToDB(ctx context.Context) {
	pendingKey := "pending:event_views"

	eventIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		fmt.Printf("Error getting pending event views: %v\n", err)
		return
	}
	if len(eventIDs) == 0 {
		return
	}

	for _, eventIDStr := range eventIDs {
		var eventID uint
		if _, err := fmt.Sscanf(eventIDStr, "%d", &eventID); err != nil {
			fmt.Printf("Invalid event ID: %s: %v\n", eventIDStr, err)
			continue
		}

		viewKey := fmt.Sprintf("event:views:%d", eventID)
		viewCountStr, err := s.redisClient.Get(ctx, viewKey).Result()
		if err != nil && err != redis.Nil {
			fmt.Printf("Error getting view count for event %d: %v\n", eventID, err)
			continue
		}
		if viewCountStr == "" {
			continue
		}

		var viewCount int
		fmt.Sscanf(viewCountStr, "%d", &viewCount)

		if viewCount > 0 {
			if err := s.eventRepo.AddInsightViews(ctx, eventID, viewCount); err != nil {
				fmt.Printf("Failed to flush event views to DB: %v\n", err)
				continue
			}

			if _, err := s.redisClient.Del(ctx, viewKey).Result(); err != nil {
				fmt.Printf("Failed to reset Redis counter: %v\n", err)
			}
		}
	}

	if _, err := s.redisClient.Del(ctx, pendingKey).Result(); err != nil {
		fmt.Printf("Failed to clear pending set: %v\n", err)
	}

	fmt.Printf("Synced views for %d events\n", len(eventIDs))
}

func (s *viewService) StartViewSyncWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		case <-ctx.Done():
			return
		}
	}
}
