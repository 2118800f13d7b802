package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	"campus.clubhub.id/clubhub/internal/modules/registration/repository"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User-facing scan results.
const (
	MsgInvalidQR        = "Invalid QR code. Registration not found."
	MsgCancelledRSVP    = "This RSVP has been cancelled."
	MsgAlreadyCheckedIn = "Participant already checked in."
	MsgCheckInSuccess   = "Check-in successful"
)

// Awarder is the slice of the gamification service check-ins need.
type Awarder interface {
	Award(ctx context.Context, userID uuid.UUID, action string, points int) ([]model.Badge, error)
}

// Notifier pushes a persisted notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type CheckInResult struct {
	Registration     *model.Registration
	AlreadyCheckedIn bool
	Message          string
}

type CheckInService interface {
	// CheckIn marks the registration attended on behalf of the leader
	// scanning the QR code. Re-scanning an attended registration succeeds
	// without awarding points a second time.
	CheckIn(ctx context.Context, registrationID uint, leaderID uuid.UUID) (*CheckInResult, error)
}

type checkInService struct {
	regRepo  repository.RegistrationRepository
	clubRepo clubRepo.ClubRepository
	users    userFinder
	awarder  Awarder
	notifier Notifier
	now      func() time.Time
}

func NewCheckInService(
	regs repository.RegistrationRepository,
	clubs clubRepo.ClubRepository,
	users userFinder,
	awarder Awarder,
	notifier Notifier,
) CheckInService {
	return &checkInService{
		regRepo:  regs,
		clubRepo: clubs,
		users:    users,
		awarder:  awarder,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, registrationID uint, leaderID uuid.UUID) (*CheckInResult, error) {
	reg, err := s.regRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrNotFound, MsgInvalidQR)
		}
		return nil, err
	}

	owns, err := s.clubRepo.LeaderOwnsEvent(ctx, leaderID, reg.EventID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("%w: this registration belongs to another club's event", apperror.ErrForbidden)
	}

	if reg.Cancelled {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRejected, MsgCancelledRSVP)
	}

	if reg.CheckedIn {
		return &CheckInResult{
			Registration:     reg,
			AlreadyCheckedIn: true,
			Message:          MsgAlreadyCheckedIn,
		}, nil
	}

	checkedInAt := s.now()
	reg.CheckedIn = true
	reg.CheckedInAt = &checkedInAt
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	// Attendance is recorded. Points and notifications are best-effort.
	s.awardAttendance(ctx, reg)

	return &CheckInResult{
		Registration: reg,
		Message:      MsgCheckInSuccess,
	}, nil
}

// awardAttendance gives check-in points to the matching account. Guests
// without an account earn nothing.
func (s *checkInService) awardAttendance(ctx context.Context, reg *model.Registration) {
	if s.awarder == nil {
		return
	}

	user, err := s.users.FindByEmail(ctx, reg.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to resolve user for check-in award: %v", err)
		}
		return
	}

	badges, err := s.awarder.Award(ctx, user.ID, model.ActionCheckIn, model.PointsCheckIn)
	if err != nil {
		log.Printf("Failed to award check-in points to %s: %v", reg.Email, err)
		return
	}

	if s.notifier != nil {
		for _, badge := range badges {
			msg := fmt.Sprintf("You earned the %q badge!", badge.Name)
			if err := s.notifier.Notify(ctx, user.ID, model.NotifBadgeEarned, msg); err != nil {
				log.Printf("Failed to notify badge for %s: %v", reg.Email, err)
			}
		}
	}
}
