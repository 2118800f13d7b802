package service

import (
	"context"
	"fmt"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	"campus.clubhub.id/clubhub/internal/modules/gamification/dto"
	"campus.clubhub.id/clubhub/internal/modules/gamification/repository"
	"github.com/google/uuid"
)

// GamificationService awards points, advances streaks and grants badges.
// Only the registration and check-in services call Award; handlers never do.
type GamificationService interface {
	Award(ctx context.Context, userID uuid.UUID, action string, points int) ([]model.Badge, error)
	StatsFor(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type gamificationService struct {
	repo repository.GamificationRepository
	now  func() time.Time
}

func NewGamificationService(repo repository.GamificationRepository) GamificationService {
	return &gamificationService{
		repo: repo,
		now:  time.Now,
	}
}

var badgeCatalog = map[string]model.Badge{
	model.BadgeFirstEvent: {
		Type:        model.BadgeFirstEvent,
		Name:        "First Event",
		Description: "Registered for your first event",
	},
	model.BadgeStreak7: {
		Type:        model.BadgeStreak7,
		Name:        "Week Streak",
		Description: "Attended events 7 days in a row",
	},
	model.BadgeStreak30: {
		Type:        model.BadgeStreak30,
		Name:        "Monthly Legend",
		Description: "Attended events 30 days in a row",
	},
}

func (s *gamificationService) Award(ctx context.Context, userID uuid.UUID, action string, points int) ([]model.Badge, error) {
	switch action {
	case model.ActionRegister:
		return s.awardRegister(ctx, userID, points)
	case model.ActionCheckIn:
		return s.awardCheckIn(ctx, userID, points)
	default:
		return nil, fmt.Errorf("unknown award action: %s", action)
	}
}

func (s *gamificationService) awardRegister(ctx context.Context, userID uuid.UUID, points int) ([]model.Badge, error) {
	stats, err := s.repo.UpsertRegisterAward(ctx, userID, points)
	if err != nil {
		return nil, err
	}

	var granted []model.Badge
	if stats.EventsRegistered >= 1 {
		badge, err := s.grantBadge(ctx, userID, model.BadgeFirstEvent)
		if err != nil {
			return granted, err
		}
		if badge != nil {
			granted = append(granted, *badge)
		}
	}

	return granted, nil
}

func (s *gamificationService) awardCheckIn(ctx context.Context, userID uuid.UUID, points int) ([]model.Badge, error) {
	today := s.now()

	stats, err := s.repo.UpdateCheckInStats(ctx, userID, func(st *model.ParticipantStats) {
		st.Points += points
		st.EventsAttended++
		st.CurrentStreak = nextStreak(st.CurrentStreak, st.LastEventDate, today)
		if st.CurrentStreak > st.LongestStreak {
			st.LongestStreak = st.CurrentStreak
		}
		day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		st.LastEventDate = &day
	})
	if err != nil {
		return nil, err
	}

	var granted []model.Badge
	for threshold, badgeType := range map[int]string{7: model.BadgeStreak7, 30: model.BadgeStreak30} {
		if stats.CurrentStreak >= threshold {
			badge, err := s.grantBadge(ctx, userID, badgeType)
			if err != nil {
				return granted, err
			}
			if badge != nil {
				granted = append(granted, *badge)
			}
		}
	}

	return granted, nil
}

// grantBadge inserts the badge once per (user, type). Returns nil when the
// user already holds it.
func (s *gamificationService) grantBadge(ctx context.Context, userID uuid.UUID, badgeType string) (*model.Badge, error) {
	has, err := s.repo.HasBadge(ctx, userID, badgeType)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, nil
	}

	badge := badgeCatalog[badgeType]
	badge.UserID = userID
	badge.EarnedAt = s.now()

	if err := s.repo.CreateBadge(ctx, &badge); err != nil {
		return nil, err
	}

	return &badge, nil
}

func (s *gamificationService) StatsFor(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error) {
	stats, err := s.repo.StatsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.repo.BadgesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorite, err := s.repo.FavoriteCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatsResponse{
		Points:           stats.Points,
		EventsRegistered: stats.EventsRegistered,
		EventsAttended:   stats.EventsAttended,
		CurrentStreak:    stats.CurrentStreak,
		LongestStreak:    stats.LongestStreak,
		FavoriteCategory: favorite,
		Badges:           make([]dto.BadgeResponse, 0, len(badges)),
	}
	if stats.LastEventDate != nil {
		d := stats.LastEventDate.Format("2006-01-02")
		resp.LastEventDate = &d
	}
	for _, b := range badges {
		resp.Badges = append(resp.Badges, dto.BadgeResponse{
			Type:        b.Type,
			Name:        b.Name,
			Description: b.Description,
			EarnedAt:    b.EarnedAt,
		})
	}

	return resp, nil
}

func (s *gamificationService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	stats, err := s.repo.TopStats(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(stats))
	for i, st := range stats {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         st.UserID.String(),
			Name:           st.User.Name,
			AvatarURL:      st.User.AvatarURL,
			Points:         st.Points,
			EventsAttended: st.EventsAttended,
			CurrentStreak:  st.CurrentStreak,
		})
	}

	return entries, nil
}
