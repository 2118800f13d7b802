package repository

import (
	"context"

	"campus.clubhub.id/clubhub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClubRequestRepository interface {
	Create(ctx context.Context, req *model.ClubRequest) error
	Update(ctx context.Context, req *model.ClubRequest) error
	FindByID(ctx context.Context, id uint) (*model.ClubRequest, error)
	ListByProposer(ctx context.Context, proposerID uuid.UUID) ([]model.ClubRequest, error)
	List(ctx context.Context, status string) ([]model.ClubRequest, error)
	HasPending(ctx context.Context, proposerID uuid.UUID, name string) (bool, error)
}

type clubRequestRepository struct {
	db *gorm.DB
}

func NewClubRequestRepository(db *gorm.DB) ClubRequestRepository {
	return &clubRequestRepository{db: db}
}

func (r *clubRequestRepository) Create(ctx context.Context, req *model.ClubRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *clubRequestRepository) Update(ctx context.Context, req *model.ClubRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *clubRequestRepository) FindByID(ctx context.Context, id uint) (*model.ClubRequest, error) {
	var req model.ClubRequest
	err := r.db.WithContext(ctx).Preload("Proposer").First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *clubRequestRepository) ListByProposer(ctx context.Context, proposerID uuid.UUID) ([]model.ClubRequest, error) {
	var reqs []model.ClubRequest
	err := r.db.WithContext(ctx).
		Where("proposer_id = ?", proposerID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

func (r *clubRequestRepository) List(ctx context.Context, status string) ([]model.ClubRequest, error) {
	var reqs []model.ClubRequest
	q := r.db.WithContext(ctx).Preload("Proposer")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at asc").Find(&reqs).Error
	return reqs, err
}

// HasPending reports whether the proposer already has an undecided request
// with the same name.
func (r *clubRequestRepository) HasPending(ctx context.Context, proposerID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ClubRequest{}).
		Where("proposer_id = ? AND LOWER(name) = LOWER(?) AND status = ?", proposerID, name, model.ClubRequestPending).
		Count(&count).Error
	return count > 0, err
}
