package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus.clubhub.id/clubhub/internal/modules/analytics/dto"
	"campus.clubhub.id/clubhub/internal/modules/analytics/repository"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const activeDaysWindow = 30 * 24 * time.Hour

type AnalyticsService interface {
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
	PopularClubs(ctx context.Context, limit int) ([]dto.PopularClub, error)
	ActiveDays(ctx context.Context) ([]dto.ActiveDay, error)
	// Attendance for all clubs (university dashboard).
	Attendance(ctx context.Context) ([]dto.EventAttendance, error)
	// LeaderAttendance scopes attendance to the leader's own club.
	LeaderAttendance(ctx context.Context, leaderID uuid.UUID) ([]dto.EventAttendance, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	clubRepo clubRepo.ClubRepository
	now      func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository, clubs clubRepo.ClubRepository) AnalyticsService {
	return &analyticsService{repo: repo, clubRepo: clubs, now: time.Now}
}

func (s *analyticsService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	counts, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.OverviewResponse{
		TotalClubs:         counts.Clubs,
		TotalEvents:        counts.Events,
		TotalParticipants:  counts.Participants,
		TotalRegistrations: counts.Registrations,
		TotalCheckIns:      counts.CheckIns,
		PendingRequests:    counts.Pending,
	}, nil
}

func (s *analyticsService) PopularClubs(ctx context.Context, limit int) ([]dto.PopularClub, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	rows, err := s.repo.PopularClubs(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PopularClub, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.PopularClub{
			ClubID:        row.ClubID,
			Name:          row.Name,
			Category:      row.Category,
			EventCount:    row.EventCount,
			Registrations: row.Registrations,
		})
	}
	return out, nil
}

func (s *analyticsService) ActiveDays(ctx context.Context) ([]dto.ActiveDay, error) {
	rows, err := s.repo.ActiveDays(ctx, s.now().Add(-activeDaysWindow))
	if err != nil {
		return nil, err
	}

	out := make([]dto.ActiveDay, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ActiveDay{
			Date:          row.Day.Format("2006-01-02"),
			Registrations: row.Registrations,
		})
	}
	return out, nil
}

func (s *analyticsService) Attendance(ctx context.Context) ([]dto.EventAttendance, error) {
	rows, err := s.repo.AttendanceByClub(ctx, 0)
	if err != nil {
		return nil, err
	}
	return s.buildAttendance(rows), nil
}

func (s *analyticsService) LeaderAttendance(ctx context.Context, leaderID uuid.UUID) ([]dto.EventAttendance, error) {
	club, err := s.clubRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no club assigned to this leader", apperror.ErrForbidden)
		}
		return nil, err
	}

	rows, err := s.repo.AttendanceByClub(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	return s.buildAttendance(rows), nil
}

// buildAttendance derives no-show and attendance rates. No-shows only count
// once the event day has passed.
func (s *analyticsService) buildAttendance(rows []repository.AttendanceRow) []dto.EventAttendance {
	today := s.now().UTC().Truncate(24 * time.Hour)

	out := make([]dto.EventAttendance, 0, len(rows))
	for _, row := range rows {
		entry := dto.EventAttendance{
			EventID:    row.EventID,
			Title:      row.Title,
			Date:       row.Date.Format("2006-01-02"),
			Registered: row.Registered,
			CheckedIn:  row.CheckedIn,
			Cancelled:  row.Cancelled,
		}
		if row.Registered > 0 {
			entry.AttendanceRate = float64(row.CheckedIn) / float64(row.Registered)
			if row.Date.Before(today) {
				entry.NoShows = row.Registered - row.CheckedIn
			}
		}
		out = append(out, entry)
	}
	return out
}
