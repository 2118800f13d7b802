package repository

import (
	"context"
	"errors"

	"campus.clubhub.id/clubhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository interface {
	// UpsertRegisterAward adds points and bumps events_registered in one
	// atomic statement, creating the stats row if needed.
	UpsertRegisterAward(ctx context.Context, userID uuid.UUID, points int) (*model.ParticipantStats, error)
	// UpdateCheckInStats loads the stats row under a row lock, applies the
	// mutation and saves it, all inside one transaction.
	UpdateCheckInStats(ctx context.Context, userID uuid.UUID, apply func(*model.ParticipantStats)) (*model.ParticipantStats, error)
	HasBadge(ctx context.Context, userID uuid.UUID, badgeType string) (bool, error)
	CreateBadge(ctx context.Context, badge *model.Badge) error
	StatsByUserID(ctx context.Context, userID uuid.UUID) (*model.ParticipantStats, error)
	BadgesByUserID(ctx context.Context, userID uuid.UUID) ([]model.Badge, error)
	// FavoriteCategory returns the club category the user registered for most
	// often, or "" when they have no active registrations.
	FavoriteCategory(ctx context.Context, userID uuid.UUID) (string, error)
	TopStats(ctx context.Context, limit int) ([]model.ParticipantStats, error)
}

type gamificationRepository struct {
	db *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) UpsertRegisterAward(ctx context.Context, userID uuid.UUID, points int) (*model.ParticipantStats, error) {
	// Using GORM OnConflict for Upsert
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":            gorm.Expr("participant_stats.points + ?", points),
			"events_registered": gorm.Expr("participant_stats.events_registered + 1"),
			"last_updated_at":   gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&model.ParticipantStats{
		UserID:           userID,
		Points:           points,
		EventsRegistered: 1,
	}).Error
	if err != nil {
		return nil, err
	}

	var stats model.ParticipantStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *gamificationRepository) UpdateCheckInStats(ctx context.Context, userID uuid.UUID, apply func(*model.ParticipantStats)) (*model.ParticipantStats, error) {
	var stats model.ParticipantStats

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Make sure the row exists before locking it.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.ParticipantStats{UserID: userID}).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&stats).Error; err != nil {
			return err
		}

		apply(&stats)

		return tx.Save(&stats).Error
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *gamificationRepository) HasBadge(ctx context.Context, userID uuid.UUID, badgeType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Badge{}).
		Where("user_id = ? AND type = ?", userID, badgeType).
		Count(&count).Error
	return count > 0, err
}

func (r *gamificationRepository) CreateBadge(ctx context.Context, badge *model.Badge) error {
	// DoNothing keeps a concurrent double-grant from failing; the unique
	// (user_id, type) index guarantees at most one row survives.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(badge).Error
}

func (r *gamificationRepository) StatsByUserID(ctx context.Context, userID uuid.UUID) (*model.ParticipantStats, error) {
	var stats model.ParticipantStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Zero stats for users who never registered
			return &model.ParticipantStats{UserID: userID}, nil
		}
		return nil, err
	}
	return &stats, nil
}

func (r *gamificationRepository) BadgesByUserID(ctx context.Context, userID uuid.UUID) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at asc").
		Find(&badges).Error
	return badges, err
}

func (r *gamificationRepository) FavoriteCategory(ctx context.Context, userID uuid.UUID) (string, error) {
	var category string
	err := r.db.WithContext(ctx).
		Table("registrations").
		Select("clubs.category").
		Joins("JOIN events ON events.id = registrations.event_id").
		Joins("JOIN clubs ON clubs.id = events.club_id").
		Joins("JOIN users ON users.email = registrations.email").
		Where("users.id = ? AND registrations.cancelled = ?", userID, false).
		Group("clubs.category").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&category).Error
	return category, err
}

func (r *gamificationRepository) TopStats(ctx context.Context, limit int) ([]model.ParticipantStats, error) {
	var stats []model.ParticipantStats
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("points DESC").
		Limit(limit).
		Find(&stats).Error
	return stats, err
}
