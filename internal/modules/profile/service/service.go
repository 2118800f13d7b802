package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"campus.clubhub.id/clubhub/internal/model"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	gamification "campus.clubhub.id/clubhub/internal/modules/gamification/service"
	"campus.clubhub.id/clubhub/internal/modules/profile/dto"
	registration "campus.clubhub.id/clubhub/internal/modules/registration/service"
	userRepo "campus.clubhub.id/clubhub/internal/modules/user/repository"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"campus.clubhub.id/clubhub/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*dto.ProfileResponse, error)
	// History lists the user's registrations, newest first, with QR links for
	// active ones.
	History(ctx context.Context, userID uuid.UUID) ([]dto.HistoryEntry, error)
}

type profileService struct {
	users        userRepo.UserRepository
	clubs        clubRepo.ClubRepository
	gamification gamification.GamificationService
	registration registration.RegistrationService
	imageStorage storage.ImageStorage
}

func NewProfileService(
	users userRepo.UserRepository,
	clubs clubRepo.ClubRepository,
	gamificationSvc gamification.GamificationService,
	registrationSvc registration.RegistrationService,
	imageStorage storage.ImageStorage,
) ProfileService {
	return &profileService{
		users:        users,
		clubs:        clubs,
		gamification: gamificationSvc,
		registration: registrationSvc,
		imageStorage: imageStorage,
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, user), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, user), nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*dto.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.imageStorage == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", apperror.ErrInternal)
	}

	url, err := s.imageStorage.UploadImage(ctx, r, storage.FolderAvatars, fileName)
	if err != nil {
		return nil, err
	}

	if user.AvatarURL != nil && *user.AvatarURL != "" {
		if err := s.imageStorage.DeleteImage(ctx, *user.AvatarURL); err != nil {
			log.Printf("Failed to delete old avatar: %v", err)
		}
	}

	user.AvatarURL = &url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, user), nil
}

func (s *profileService) History(ctx context.Context, userID uuid.UUID) ([]dto.HistoryEntry, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	regs, err := s.registration.History(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	out := make([]dto.HistoryEntry, 0, len(regs))
	for _, reg := range regs {
		entry := dto.HistoryEntry{
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			EventTitle:     reg.Event.Title,
			EventDate:      reg.Event.Date.Format("2006-01-02"),
			ClubName:       reg.Event.Club.Name,
			Cancelled:      reg.Cancelled,
			CheckedIn:      reg.CheckedIn,
			CheckedInAt:    reg.CheckedInAt,
		}
		if !reg.Cancelled {
			entry.QRURL = fmt.Sprintf("/api/registrations/%d/qr", reg.ID)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *profileService) findUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// buildProfile attaches the role-specific section. Failures there degrade to a
// bare profile instead of failing the request.
func (s *profileService) buildProfile(ctx context.Context, user *model.User) *dto.ProfileResponse {
	profile := &dto.ProfileResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		JoinedAt:  user.CreatedAt,
	}

	switch user.Role {
	case model.RoleParticipant:
		if s.gamification == nil {
			break
		}
		stats, err := s.gamification.StatsFor(ctx, user.ID)
		if err != nil {
			log.Printf("Failed to load stats for profile %s: %v", user.ID, err)
			break
		}
		profile.Stats = stats

	case model.RoleLeader:
		club, err := s.clubs.FindByLeaderID(ctx, user.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Failed to load club for profile %s: %v", user.ID, err)
			}
			break
		}
		full, err := s.clubs.FindByID(ctx, club.ID)
		if err != nil {
			log.Printf("Failed to load club details for profile %s: %v", user.ID, err)
			break
		}
		profile.Club = &dto.LeaderClubSummary{
			ClubID:     full.ID,
			Name:       full.Name,
			Category:   full.Category,
			EventCount: len(full.Events),
		}
	}

	return profile
}
