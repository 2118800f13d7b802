package repository

import (
	"context"

	"campus.clubhub.id/clubhub/internal/model"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.Registration) error
	Update(ctx context.Context, reg *model.Registration) error
	FindByID(ctx context.Context, id uint) (*model.Registration, error)
	FindByEventAndEmail(ctx context.Context, eventID uint, email string) (*model.Registration, error)
	ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error)
	ListByEmail(ctx context.Context, email string) ([]model.Registration, error)
	CountsByEvent(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) Update(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Club").
		First(&reg, id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByEventAndEmail(ctx context.Context, eventID uint, email string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND email = ?", eventID, email).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepository) ListByEmail(ctx context.Context, email string) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Club").
		Where("email = ?", email).
		Order("created_at desc").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepository) CountsByEvent(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	type row struct {
		EventID uint
		Count   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Select("event_id, COUNT(*) as count").
		Where("event_id IN ? AND cancelled = ?", eventIDs, false).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.EventID] = rw.Count
	}
	return counts, nil
}
