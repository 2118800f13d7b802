package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"campus.clubhub.id/clubhub/internal/model"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	eventRepo "campus.clubhub.id/clubhub/internal/modules/event/repository"
	"campus.clubhub.id/clubhub/internal/modules/registration/repository"
	userRepo "campus.clubhub.id/clubhub/internal/modules/user/repository"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"campus.clubhub.id/clubhub/pkg/mail"
	"campus.clubhub.id/clubhub/pkg/qr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User-facing result messages.
const (
	MsgConfirmed     = "RSVP confirmed!"
	MsgReactivated   = "RSVP reactivated and QR resent."
	MsgAlreadyActive = "Already registered for this event"
	MsgNotFound      = "RSVP not found"
	MsgCancelled     = "RSVP cancelled."
	MsgEventNotFound = "Event not found"
)

// Awarder is the slice of the gamification service registrations need.
type Awarder interface {
	Award(ctx context.Context, userID uuid.UUID, action string, points int) ([]model.Badge, error)
}

// Notifier pushes a persisted notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error
}

// ArtifactStore persists QR images (see pkg/qr.DiskStore).
type ArtifactStore interface {
	Exists(path string) bool
	Save(fileName string, png []byte) (string, error)
	Read(path string) ([]byte, error)
}

type RegisterResult struct {
	Registration *model.Registration
	Created      bool
	Message      string
}

type RegistrationService interface {
	// Register creates or reactivates the RSVP for (event, email).
	Register(ctx context.Context, eventID uint, participantName, email string) (*RegisterResult, error)
	Cancel(ctx context.Context, eventID uint, email string) error
	// ListForLeader lists an event's registrations for the leader whose club
	// owns it.
	ListForLeader(ctx context.Context, leaderID uuid.UUID, eventID uint) ([]model.Registration, error)
	History(ctx context.Context, email string) ([]model.Registration, error)
	QRImage(ctx context.Context, registrationID uint, email string) ([]byte, error)
}

type registrationService struct {
	repo      repository.RegistrationRepository
	eventRepo eventRepo.EventRepository
	userRepo  userRepo.UserRepository
	clubRepo  clubRepo.ClubRepository
	awarder   Awarder
	notifier  Notifier
	artifacts ArtifactStore
	mailer    mail.Mailer
}

func NewRegistrationService(
	repo repository.RegistrationRepository,
	events eventRepo.EventRepository,
	users userRepo.UserRepository,
	clubs clubRepo.ClubRepository,
	awarder Awarder,
	notifier Notifier,
	artifacts ArtifactStore,
	mailer mail.Mailer,
) RegistrationService {
	return &registrationService{
		repo:      repo,
		eventRepo: events,
		userRepo:  users,
		clubRepo:  clubs,
		awarder:   awarder,
		notifier:  notifier,
		artifacts: artifacts,
		mailer:    mailer,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID uint, participantName, email string) (*RegisterResult, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrNotFound, MsgEventNotFound)
		}
		return nil, err
	}

	reg, err := s.repo.FindByEventAndEmail(ctx, eventID, email)
	created := false
	switch {
	case err == nil && !reg.Cancelled:
		return nil, fmt.Errorf("%w: %s", apperror.ErrConflict, MsgAlreadyActive)

	case err == nil && reg.Cancelled:
		// Reactivate the existing row, keeping its ID (and QR identity).
		reg.Cancelled = false
		reg.ParticipantName = participantName
		if err := s.repo.Update(ctx, reg); err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		reg = &model.Registration{
			EventID:         eventID,
			ParticipantName: participantName,
			Email:           email,
		}
		if err := s.repo.Create(ctx, reg); err != nil {
			// Unique (event_id, email) index: someone else won the race.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: %s", apperror.ErrConflict, MsgAlreadyActive)
			}
			return nil, err
		}
		created = true

	default:
		return nil, err
	}

	// The RSVP is committed. Everything below is best-effort: log and move on.
	s.ensureQRArtifact(ctx, reg, event)

	if created {
		s.awardRegistration(ctx, reg)
	}
	s.sendConfirmationEmail(reg, event, created)

	message := MsgReactivated
	if created {
		message = MsgConfirmed
	}

	return &RegisterResult{
		Registration: reg,
		Created:      created,
		Message:      message,
	}, nil
}

func (s *registrationService) Cancel(ctx context.Context, eventID uint, email string) error {
	reg, err := s.repo.FindByEventAndEmail(ctx, eventID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", apperror.ErrNotFound, MsgNotFound)
		}
		return err
	}
	if reg.Cancelled {
		return fmt.Errorf("%w: %s", apperror.ErrNotFound, MsgNotFound)
	}

	// Cancelling never claws back points already earned.
	reg.Cancelled = true
	return s.repo.Update(ctx, reg)
}

func (s *registrationService) ListForLeader(ctx context.Context, leaderID uuid.UUID, eventID uint) ([]model.Registration, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrNotFound, MsgEventNotFound)
		}
		return nil, err
	}

	owns, err := s.clubRepo.LeaderOwnsEvent(ctx, leaderID, eventID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("%w: event belongs to another club", apperror.ErrForbidden)
	}

	return s.repo.ListByEvent(ctx, eventID)
}

func (s *registrationService) History(ctx context.Context, email string) ([]model.Registration, error) {
	return s.repo.ListByEmail(ctx, email)
}

func (s *registrationService) QRImage(ctx context.Context, registrationID uint, email string) ([]byte, error) {
	reg, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: registration not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if reg.Email != email {
		return nil, fmt.Errorf("%w: registration belongs to another participant", apperror.ErrForbidden)
	}

	if s.artifacts != nil && s.artifacts.Exists(reg.QRCodePath) {
		return s.artifacts.Read(reg.QRCodePath)
	}

	// Artifact missing on disk: rebuild it from the registration itself.
	token := qr.Encode(reg.ID, reg.EventID, reg.ParticipantName, reg.Email)
	return qr.Materialize(token)
}

// ensureQRArtifact regenerates the PNG when the stored path is empty or the
// file vanished from disk, then records the new path.
func (s *registrationService) ensureQRArtifact(ctx context.Context, reg *model.Registration, event *model.Event) {
	if s.artifacts == nil {
		return
	}
	if reg.QRCodePath != "" && s.artifacts.Exists(reg.QRCodePath) {
		return
	}

	token := qr.Encode(reg.ID, event.ID, reg.ParticipantName, reg.Email)
	png, err := qr.Materialize(token)
	if err != nil {
		log.Printf("Failed to render QR for registration %d: %v", reg.ID, err)
		return
	}

	path, err := s.artifacts.Save(qr.FileName(reg.ID, reg.Email), png)
	if err != nil {
		log.Printf("Failed to store QR for registration %d: %v", reg.ID, err)
		return
	}

	reg.QRCodePath = path
	if err := s.repo.Update(ctx, reg); err != nil {
		log.Printf("Failed to record QR path for registration %d: %v", reg.ID, err)
	}
}

// awardRegistration gives the registration points to the matching account.
// Guests without an account simply earn nothing.
func (s *registrationService) awardRegistration(ctx context.Context, reg *model.Registration) {
	if s.awarder == nil {
		return
	}

	user, err := s.userRepo.FindByEmail(ctx, reg.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to resolve user for registration award: %v", err)
		}
		return
	}

	badges, err := s.awarder.Award(ctx, user.ID, model.ActionRegister, model.PointsRegister)
	if err != nil {
		log.Printf("Failed to award registration points to %s: %v", reg.Email, err)
		return
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, user.ID, model.NotifRSVPConfirmed, MsgConfirmed); err != nil {
			log.Printf("Failed to notify registration for %s: %v", reg.Email, err)
		}
		for _, badge := range badges {
			msg := fmt.Sprintf("You earned the %q badge!", badge.Name)
			if err := s.notifier.Notify(ctx, user.ID, model.NotifBadgeEarned, msg); err != nil {
				log.Printf("Failed to notify badge for %s: %v", reg.Email, err)
			}
		}
	}
}

func (s *registrationService) sendConfirmationEmail(reg *model.Registration, event *model.Event, created bool) {
	if s.mailer == nil {
		return
	}

	subject := fmt.Sprintf("Your RSVP for %s", event.Title)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your RSVP for <b>%s</b> on %s is confirmed. Show the attached QR code at the door.</p>",
		reg.ParticipantName, event.Title, event.Date.Format("January 2, 2006"),
	)
	if !created {
		html = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your RSVP for <b>%s</b> on %s has been reactivated. Your QR code is attached again.</p>",
			reg.ParticipantName, event.Title, event.Date.Format("January 2, 2006"),
		)
	}

	var png []byte
	if s.artifacts != nil && s.artifacts.Exists(reg.QRCodePath) {
		if data, err := s.artifacts.Read(reg.QRCodePath); err == nil {
			png = data
		}
	}

	go func(to, fileName string, attachment []byte) {
		var err error
		if attachment != nil {
			err = s.mailer.SendWithAttachment(to, subject, html, fileName, attachment)
		} else {
			err = s.mailer.Send(to, subject, html)
		}
		if err != nil {
			log.Printf("Failed to send RSVP email to %s: %v", to, err)
		}
	}(reg.Email, qr.FileName(reg.ID, reg.Email), png)
}
