package repository

import (
	"context"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	Category string
	Date     *time.Time
	Search   string
	IDs      []uint
	Upcoming bool
	Page     int
	Limit    int
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint) error
	ListByClubID(ctx context.Context, clubID uint) ([]model.Event, error)
	List(ctx context.Context, filter ListFilter) ([]model.Event, int64, error)
	AddInsightViews(ctx context.Context, eventID uint, delta int) error
	ViewsByEventIDs(ctx context.Context, ids []uint) (map[uint]int, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).Preload("Club").First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Event{}, id).Error
}

func (r *eventRepository) ListByClubID(ctx context.Context, clubID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("date asc").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) List(ctx context.Context, filter ListFilter) ([]model.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{}).
		Joins("JOIN clubs ON clubs.id = events.club_id").
		Preload("Club")

	if filter.Category != "" {
		q = q.Where("clubs.category = ?", filter.Category)
	}
	if filter.Date != nil {
		q = q.Where("events.date = ?", filter.Date.Format("2006-01-02"))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("events.title ILIKE ? OR events.description ILIKE ? OR events.location ILIKE ?", like, like, like)
	}
	if filter.IDs != nil {
		q = q.Where("events.id IN ?", filter.IDs)
	}
	if filter.Upcoming {
		q = q.Where("events.date >= CURRENT_DATE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var events []model.Event
	err := q.Order("events.date asc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&events).Error
	return events, total, err
}

func (r *eventRepository) AddInsightViews(ctx context.Context, eventID uint, delta int) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"views":      gorm.Expr("event_insights.views + ?", delta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&model.EventInsight{
		EventID: eventID,
		Views:   delta,
	}).Error
}

func (r *eventRepository) ViewsByEventIDs(ctx context.Context, ids []uint) (map[uint]int, error) {
	views := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	var insights []model.EventInsight
	if err := r.db.WithContext(ctx).Where("event_id IN ?", ids).Find(&insights).Error; err != nil {
		return nil, err
	}
	for _, in := range insights {
		views[in.EventID] = in.Views
	}
	return views, nil
}
