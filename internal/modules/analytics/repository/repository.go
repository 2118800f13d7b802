package repository

import (
	"context"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	"gorm.io/gorm"
)

type OverviewCounts struct {
	Clubs         int64
	Events        int64
	Participants  int64
	Registrations int64
	CheckIns      int64
	Pending       int64
}

type PopularClubRow struct {
	ClubID        uint
	Name          string
	Category      string
	EventCount    int64
	Registrations int64
}

type ActiveDayRow struct {
	Day           time.Time
	Registrations int64
}

type AttendanceRow struct {
	EventID    uint
	Title      string
	Date       time.Time
	Registered int64
	CheckedIn  int64
	Cancelled  int64
}

type AnalyticsRepository interface {
	Overview(ctx context.Context) (*OverviewCounts, error)
	PopularClubs(ctx context.Context, limit int) ([]PopularClubRow, error)
	// ActiveDays buckets registrations by creation day over the trailing window.
	ActiveDays(ctx context.Context, since time.Time) ([]ActiveDayRow, error)
	// AttendanceByClub aggregates per-event registration outcomes. clubID zero
	// covers all clubs.
	AttendanceByClub(ctx context.Context, clubID uint) ([]AttendanceRow, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Overview(ctx context.Context) (*OverviewCounts, error) {
	var counts OverviewCounts
	db := r.db.WithContext(ctx)

	steps := []struct {
		dest  *int64
		query func() *gorm.DB
	}{
		{&counts.Clubs, func() *gorm.DB { return db.Model(&model.Club{}) }},
		{&counts.Events, func() *gorm.DB { return db.Model(&model.Event{}) }},
		{&counts.Participants, func() *gorm.DB {
			return db.Model(&model.User{}).Where("role = ?", model.RoleParticipant)
		}},
		{&counts.Registrations, func() *gorm.DB {
			return db.Model(&model.Registration{}).Where("cancelled = ?", false)
		}},
		{&counts.CheckIns, func() *gorm.DB {
			return db.Model(&model.Registration{}).Where("checked_in = ?", true)
		}},
		{&counts.Pending, func() *gorm.DB {
			return db.Model(&model.ClubRequest{}).Where("status = ?", model.ClubRequestPending)
		}},
	}

	for _, step := range steps {
		if err := step.query().Count(step.dest).Error; err != nil {
			return nil, err
		}
	}
	return &counts, nil
}

func (r *analyticsRepository) PopularClubs(ctx context.Context, limit int) ([]PopularClubRow, error) {
	var rows []PopularClubRow
	err := r.db.WithContext(ctx).Model(&model.Club{}).
		Select(`clubs.id as club_id, clubs.name, clubs.category,
			COUNT(DISTINCT events.id) as event_count,
			COUNT(registrations.id) as registrations`).
		Joins("LEFT JOIN events ON events.club_id = clubs.id").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id AND registrations.cancelled = false").
		Group("clubs.id, clubs.name, clubs.category").
		Order("registrations DESC, event_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) ActiveDays(ctx context.Context, since time.Time) ([]ActiveDayRow, error) {
	var rows []ActiveDayRow
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Select("DATE(created_at) as day, COUNT(*) as registrations").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("registrations DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) AttendanceByClub(ctx context.Context, clubID uint) ([]AttendanceRow, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{}).
		Select(`events.id as event_id, events.title, events.date,
			COUNT(registrations.id) FILTER (WHERE registrations.cancelled = false) as registered,
			COUNT(registrations.id) FILTER (WHERE registrations.checked_in = true) as checked_in,
			COUNT(registrations.id) FILTER (WHERE registrations.cancelled = true) as cancelled`).
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Group("events.id, events.title, events.date").
		Order("events.date DESC")
	if clubID != 0 {
		q = q.Where("events.club_id = ?", clubID)
	}

	var rows []AttendanceRow
	err := q.Scan(&rows).Error
	return rows, err
}
