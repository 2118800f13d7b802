package service

import (
	"context"
	"errors"
	"fmt"

	"campus.clubhub.id/clubhub/internal/model"
	"campus.clubhub.id/clubhub/internal/modules/club/dto"
	"campus.clubhub.id/clubhub/internal/modules/club/repository"
	userRepo "campus.clubhub.id/clubhub/internal/modules/user/repository"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClubService interface {
	List(ctx context.Context, filter dto.ClubFilter) ([]model.Club, error)
	Get(ctx context.Context, id uint) (*model.Club, error)
	MyClub(ctx context.Context, leaderID uuid.UUID) (*model.Club, error)
	UpdateMyClub(ctx context.Context, leaderID uuid.UUID, input dto.UpdateClubInput) (*model.Club, error)
	Overview(ctx context.Context) ([]dto.ClubOverview, error)
	Delete(ctx context.Context, id uint) error
	RevokeLeader(ctx context.Context, clubID uint) error
}

type clubService struct {
	repo     repository.ClubRepository
	userRepo userRepo.UserRepository
}

func NewClubService(repo repository.ClubRepository, userRepo userRepo.UserRepository) ClubService {
	return &clubService{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *clubService) List(ctx context.Context, filter dto.ClubFilter) ([]model.Club, error) {
	return s.repo.List(ctx, filter.Category, filter.Search)
}

func (s *clubService) Get(ctx context.Context, id uint) (*model.Club, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: club not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return club, nil
}

func (s *clubService) MyClub(ctx context.Context, leaderID uuid.UUID) (*model.Club, error) {
	club, err := s.repo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no club assigned to this leader", apperror.ErrNotFound)
		}
		return nil, err
	}
	return club, nil
}

func (s *clubService) UpdateMyClub(ctx context.Context, leaderID uuid.UUID, input dto.UpdateClubInput) (*model.Club, error) {
	club, err := s.MyClub(ctx, leaderID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		club.Name = input.Name
	}
	if input.Description != "" {
		club.Description = input.Description
	}
	if input.Category != "" {
		club.Category = input.Category
	}

	if err := s.repo.Update(ctx, club); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *clubService) Overview(ctx context.Context) ([]dto.ClubOverview, error) {
	clubs, err := s.repo.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	eventCounts, err := s.repo.EventCounts(ctx)
	if err != nil {
		return nil, err
	}
	regCounts, err := s.repo.RegistrationCounts(ctx)
	if err != nil {
		return nil, err
	}

	overview := make([]dto.ClubOverview, 0, len(clubs))
	for _, club := range clubs {
		overview = append(overview, dto.ClubOverview{
			Club:              club,
			EventCount:        eventCounts[club.ID],
			RegistrationCount: regCounts[club.ID],
		})
	}
	return overview, nil
}

func (s *clubService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// RevokeLeader detaches the leader from the club and downgrades the account
// back to participant. The club itself stays.
func (s *clubService) RevokeLeader(ctx context.Context, clubID uint) error {
	club, err := s.Get(ctx, clubID)
	if err != nil {
		return err
	}

	if club.LeaderID == nil {
		return fmt.Errorf("%w: club has no leader", apperror.ErrRejected)
	}

	leader, err := s.userRepo.FindByID(ctx, club.LeaderID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	club.LeaderID = nil
	club.Leader = nil
	if err := s.repo.Update(ctx, club); err != nil {
		return err
	}

	if leader != nil {
		leader.Role = model.RoleParticipant
		if err := s.userRepo.Update(ctx, leader); err != nil {
			return err
		}
	}

	return nil
}
