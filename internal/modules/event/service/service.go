package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	clubRepo "campus.clubhub.id/clubhub/internal/modules/club/repository"
	"campus.clubhub.id/clubhub/internal/modules/event/dto"
	"campus.clubhub.id/clubhub/internal/modules/event/repository"
	search "campus.clubhub.id/clubhub/internal/modules/search/service"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"campus.clubhub.id/clubhub/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Events are locked against deletion inside this window before the date.
	deleteNoticeDays = 7
)

// registrationCounter is the slice of the registration repository the
// dashboard needs.
type registrationCounter interface {
	CountsByEvent(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
}

type EventService interface {
	List(ctx context.Context, filter dto.EventFilter) ([]model.Event, int64, error)
	Get(ctx context.Context, id uint) (*model.Event, error)
	Create(ctx context.Context, leaderID uuid.UUID, input dto.CreateEventInput) (*model.Event, error)
	Update(ctx context.Context, leaderID uuid.UUID, id uint, input dto.UpdateEventInput) (*model.Event, error)
	Delete(ctx context.Context, leaderID uuid.UUID, id uint) error
	UploadPoster(ctx context.Context, leaderID uuid.UUID, id uint, r io.Reader, fileName string) (*model.Event, error)
	// Dashboard lists the leader's club events with active registration and
	// view counts.
	Dashboard(ctx context.Context, leaderID uuid.UUID) ([]dto.DashboardEntry, error)
}

type eventService struct {
	repo          repository.EventRepository
	clubRepo      clubRepo.ClubRepository
	registrations registrationCounter
	searchSvc     search.EventSearchService
	imageStorage  storage.ImageStorage
	now           func() time.Time
}

func NewEventService(repo repository.EventRepository, clubs clubRepo.ClubRepository, registrations registrationCounter, searchSvc search.EventSearchService, imageStorage storage.ImageStorage) EventService {
	return &eventService{
		repo:          repo,
		clubRepo:      clubs,
		registrations: registrations,
		searchSvc:     searchSvc,
		imageStorage:  imageStorage,
		now:           time.Now,
	}
}

func (s *eventService) List(ctx context.Context, filter dto.EventFilter) ([]model.Event, int64, error) {
	listFilter := repository.ListFilter{
		Category: filter.Category,
		Upcoming: filter.Upcoming,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}

	if filter.Date != "" {
		d, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid date filter", apperror.ErrBadRequest)
		}
		listFilter.Date = &d
	}

	if filter.Search != "" {
		if ids, ok := s.searchIDs(filter.Search, filter.Category); ok {
			listFilter.IDs = ids
			listFilter.Category = "" // already applied by the search filter
		} else {
			// Meilisearch unavailable, fall back to SQL matching
			listFilter.Search = filter.Search
		}
	}

	return s.repo.List(ctx, listFilter)
}

// searchIDs asks Meilisearch for matching event IDs. ok is false when the
// index cannot answer and SQL should take over.
func (s *eventService) searchIDs(query, category string) ([]uint, bool) {
	if s.searchSvc == nil {
		return nil, false
	}

	ids, err := s.searchSvc.SearchEventIDs(query, category, 50)
	if err != nil {
		log.Printf("Event search failed, falling back to SQL: %v", err)
		return nil, false
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, true
}

func (s *eventService) Get(ctx context.Context, id uint) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Event not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, leaderID uuid.UUID, input dto.CreateEventInput) (*model.Event, error) {
	club, err := s.clubRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no club assigned to this leader", apperror.ErrForbidden)
		}
		return nil, err
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event date", apperror.ErrBadRequest)
	}

	event := &model.Event{
		ClubID:      club.ID,
		Title:       input.Title,
		Description: input.Description,
		Date:        date,
		Time:        input.Time,
		Location:    input.Location,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	event.Club = *club
	s.indexAsync(event)

	return event, nil
}

func (s *eventService) Update(ctx context.Context, leaderID uuid.UUID, id uint, input dto.UpdateEventInput) (*model.Event, error) {
	event, err := s.ownedEvent(ctx, leaderID, id)
	if err != nil {
		return nil, err
	}

	// Edits close the day before the event starts.
	if !s.today().Before(truncateDay(event.Date)) {
		return nil, fmt.Errorf("%w: events can only be edited until the day before they start", apperror.ErrRejected)
	}

	if input.Title != "" {
		event.Title = input.Title
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid event date", apperror.ErrBadRequest)
		}
		event.Date = date
	}
	if input.Time != "" {
		event.Time = input.Time
	}
	if input.Location != "" {
		event.Location = input.Location
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.indexAsync(event)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, leaderID uuid.UUID, id uint) error {
	event, err := s.ownedEvent(ctx, leaderID, id)
	if err != nil {
		return err
	}

	// Participants need notice: deletion is blocked within 7 days of the event.
	if truncateDay(event.Date).Sub(s.today()) < deleteNoticeDays*24*time.Hour {
		return fmt.Errorf("%w: events can only be deleted at least 7 days in advance", apperror.ErrRejected)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchSvc != nil {
		if err := s.searchSvc.DeleteEvent(id); err != nil {
			log.Printf("Failed to remove event %d from search index: %v", id, err)
		}
	}

	return nil
}

func (s *eventService) UploadPoster(ctx context.Context, leaderID uuid.UUID, id uint, r io.Reader, fileName string) (*model.Event, error) {
	event, err := s.ownedEvent(ctx, leaderID, id)
	if err != nil {
		return nil, err
	}

	if s.imageStorage == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", apperror.ErrInternal)
	}

	url, err := s.imageStorage.UploadImage(ctx, r, storage.FolderPosters, fileName)
	if err != nil {
		return nil, err
	}

	if event.PosterURL != nil && *event.PosterURL != "" {
		if err := s.imageStorage.DeleteImage(ctx, *event.PosterURL); err != nil {
			log.Printf("Failed to delete old poster: %v", err)
		}
	}

	event.PosterURL = &url
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *eventService) Dashboard(ctx context.Context, leaderID uuid.UUID) ([]dto.DashboardEntry, error) {
	club, err := s.clubRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no club assigned", apperror.ErrForbidden)
		}
		return nil, err
	}

	events, err := s.repo.ListByClubID(ctx, club.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	counts, err := s.registrations.CountsByEvent(ctx, ids)
	if err != nil {
		return nil, err
	}
	views, err := s.repo.ViewsByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.DashboardEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, dto.DashboardEntry{
			Event:         e,
			Registrations: counts[e.ID],
			Views:         views[e.ID],
		})
	}
	return entries, nil
}

func (s *eventService) ownedEvent(ctx context.Context, leaderID uuid.UUID, id uint) (*model.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	owns, err := s.clubRepo.LeaderOwnsEvent(ctx, leaderID, id)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("%w: event belongs to another club", apperror.ErrForbidden)
	}

	return event, nil
}

func (s *eventService) indexAsync(event *model.Event) {
	if s.searchSvc == nil {
		return
	}
	go func(e model.Event) {
		if err := s.searchSvc.IndexEvent(&e); err != nil {
			log.Printf("Failed to index event %d: %v", e.ID, err)
		}
	}(*event)
}

func (s *eventService) today() time.Time {
	return truncateDay(s.now())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
