package repository

import (
	"context"

	"campus.clubhub.id/clubhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	FindByID(ctx context.Context, id uint) (*model.Club, error)
	FindByLeaderID(ctx context.Context, leaderID uuid.UUID) (*model.Club, error)
	FindByName(ctx context.Context, name string) (*model.Club, error)
	List(ctx context.Context, category, search string) ([]model.Club, error)
	Update(ctx context.Context, club *model.Club) error
	Delete(ctx context.Context, id uint) error
	// LeaderOwnsEvent reports whether the event belongs to a club led by the
	// given user. Check-in authorization hangs off this single predicate.
	LeaderOwnsEvent(ctx context.Context, leaderID uuid.UUID, eventID uint) (bool, error)
	EventCounts(ctx context.Context) (map[uint]int64, error)
	RegistrationCounts(ctx context.Context) (map[uint]int64, error)
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(ctx context.Context, club *model.Club) error {
	return r.db.WithContext(ctx).Create(club).Error
}

func (r *clubRepository) FindByID(ctx context.Context, id uint) (*model.Club, error) {
	var club model.Club
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Events").
		First(&club, id).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) FindByLeaderID(ctx context.Context, leaderID uuid.UUID) (*model.Club, error) {
	var club model.Club
	err := r.db.WithContext(ctx).Where("leader_id = ?", leaderID).First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) FindByName(ctx context.Context, name string) (*model.Club, error) {
	var club model.Club
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) List(ctx context.Context, category, search string) ([]model.Club, error) {
	var clubs []model.Club
	q := r.db.WithContext(ctx).Preload("Leader")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		q = q.Where("name ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	err := q.Order("name asc").Find(&clubs).Error
	return clubs, err
}

func (r *clubRepository) Update(ctx context.Context, club *model.Club) error {
	return r.db.WithContext(ctx).Save(club).Error
}

func (r *clubRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Club{}, id).Error
}

func (r *clubRepository) LeaderOwnsEvent(ctx context.Context, leaderID uuid.UUID, eventID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).
		Joins("JOIN clubs ON clubs.id = events.club_id").
		Where("events.id = ? AND clubs.leader_id = ?", eventID, leaderID).
		Count(&count).Error
	return count > 0, err
}

func (r *clubRepository) EventCounts(ctx context.Context) (map[uint]int64, error) {
	type row struct {
		ClubID uint
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Event{}).
		Select("club_id, COUNT(*) as count").
		Group("club_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, rw := range rows {
		counts[rw.ClubID] = rw.Count
	}
	return counts, nil
}

func (r *clubRepository) RegistrationCounts(ctx context.Context) (map[uint]int64, error) {
	type row struct {
		ClubID uint
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Select("events.club_id, COUNT(*) as count").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.cancelled = ?", false).
		Group("events.club_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, rw := range rows {
		counts[rw.ClubID] = rw.Count
	}
	return counts, nil
}
