package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	"campus.clubhub.id/clubhub/internal/modules/clubrequest/dto"
	"campus.clubhub.id/clubhub/internal/modules/clubrequest/repository"
	userRepo "campus.clubhub.id/clubhub/internal/modules/user/repository"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier pushes a persisted notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error
}

type ClubRequestService interface {
	// Submit files a new club proposal for the participant.
	Submit(ctx context.Context, proposerID uuid.UUID, input dto.CreateClubRequestInput) (*model.ClubRequest, error)
	// MyRequests lists the proposer's requests. Decisions scheduled for later
	// still read as pending.
	MyRequests(ctx context.Context, proposerID uuid.UUID) ([]model.ClubRequest, error)
	// List returns requests for the university dashboard, optionally filtered
	// by status.
	List(ctx context.Context, status string) ([]model.ClubRequest, error)
	// Decide approves or rejects a pending request. Approval promotes the
	// proposer to leader and creates the club.
	Decide(ctx context.Context, id uint, input dto.DecideInput) (*model.ClubRequest, error)
}

type clubRequestService struct {
	repo     repository.ClubRequestRepository
	clubRepo clubRepo.ClubRepository
	userRepo userRepo.UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewClubRequestService(
	repo repository.ClubRequestRepository,
	clubs clubRepo.ClubRepository,
	users userRepo.UserRepository,
	notifier Notifier,
) ClubRequestService {
	return &clubRequestService{
		repo:     repo,
		clubRepo: clubs,
		userRepo: users,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *clubRequestService) Submit(ctx context.Context, proposerID uuid.UUID, input dto.CreateClubRequestInput) (*model.ClubRequest, error) {
	if _, err := s.clubRepo.FindByName(ctx, input.Name); err == nil {
		return nil, fmt.Errorf("%w: a club with this name already exists", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pending, err := s.repo.HasPending(ctx, proposerID, input.Name)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: you already have a pending request for this club", apperror.ErrConflict)
	}

	req := &model.ClubRequest{
		ProposerID:     proposerID,
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
		Mission:        input.Mission,
		TargetAudience: input.TargetAudience,
		ActivitiesPlan: input.ActivitiesPlan,
		Status:         model.ClubRequestPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *clubRequestService) MyRequests(ctx context.Context, proposerID uuid.UUID) ([]model.ClubRequest, error) {
	reqs, err := s.repo.ListByProposer(ctx, proposerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range reqs {
		if reqs[i].VisibleFrom != nil && now.Before(*reqs[i].VisibleFrom) {
			maskDecision(&reqs[i])
		}
	}
	return reqs, nil
}

// maskDecision presents an embargoed decision as still pending.
func maskDecision(req *model.ClubRequest) {
	req.Status = model.ClubRequestPending
	req.DecisionMessage = ""
	req.DecidedAt = nil
	req.VisibleFrom = nil
}

func (s *clubRequestService) List(ctx context.Context, status string) ([]model.ClubRequest, error) {
	return s.repo.List(ctx, status)
}

func (s *clubRequestService) Decide(ctx context.Context, id uint, input dto.DecideInput) (*model.ClubRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: club request not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if req.Status != model.ClubRequestPending {
		return nil, fmt.Errorf("%w: this request has already been decided", apperror.ErrRejected)
	}

	if input.Status == model.ClubRequestApproved {
		if err := s.approve(ctx, req); err != nil {
			return nil, err
		}
	}

	decidedAt := s.now()
	req.Status = input.Status
	req.DecisionMessage = input.Message
	req.DecidedAt = &decidedAt
	if input.DelayHours > 0 {
		visibleFrom := decidedAt.Add(time.Duration(input.DelayHours) * time.Hour)
		req.VisibleFrom = &visibleFrom
	}

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}

	// Embargoed decisions stay quiet; the proposer finds out once visible.
	if req.VisibleFrom == nil {
		s.notifyDecision(ctx, req)
	}

	return req, nil
}

// approve promotes the proposer to leader and creates the club. Proposers who
// already lead a club cannot take on a second one.
func (s *clubRequestService) approve(ctx context.Context, req *model.ClubRequest) error {
	proposer, err := s.userRepo.FindByID(ctx, req.ProposerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: proposer account no longer exists", apperror.ErrRejected)
		}
		return err
	}

	if _, err := s.clubRepo.FindByLeaderID(ctx, proposer.ID); err == nil {
		return fmt.Errorf("%w: proposer already leads a club", apperror.ErrRejected)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if proposer.Role != model.RoleLeader {
		proposer.Role = model.RoleLeader
		if err := s.userRepo.Update(ctx, proposer); err != nil {
			return err
		}
	}

	club := &model.Club{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		LeaderID:    &proposer.ID,
	}
	return s.clubRepo.Create(ctx, club)
}

func (s *clubRequestService) notifyDecision(ctx context.Context, req *model.ClubRequest) {
	if s.notifier == nil {
		return
	}

	msg := fmt.Sprintf("Your club request %q was %s.", req.Name, req.Status)
	if err := s.notifier.Notify(ctx, req.ProposerID, model.NotifClubRequestDecided, msg); err != nil {
		log.Printf("Failed to notify club request decision for %d: %v", req.ID, err)
	}
}
