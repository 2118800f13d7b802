package agents

import (
	"context"
	"testing"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	eventRepo "campus.clubhub.id/clubhub/internal/modules/event/repository"
	"gorm.io/gorm"
)

type fakeEventRepo struct {
	byDate map[string][]model.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error { return nil }
func (f *fakeEventRepo) Update(ctx context.Context, event *model.Event) error { return nil }
func (f *fakeEventRepo) Delete(ctx context.Context, id uint) error            { return nil }

func (f *fakeEventRepo) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEventRepo) ListByClubID(ctx context.Context, clubID uint) ([]model.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter eventRepo.ListFilter) ([]model.Event, int64, error) {
	if filter.Date == nil {
		return nil, 0, nil
	}
	events := f.byDate[filter.Date.Format("2006-01-02")]
	return events, int64(len(events)), nil
}

func (f *fakeEventRepo) AddInsightViews(ctx context.Context, eventID uint, delta int) error {
	return nil
}

func (f *fakeEventRepo) ViewsByEventIDs(ctx context.Context, ids []uint) (map[uint]int, error) {
	return nil, nil
}

type fakeRegRepo struct {
	byEvent map[uint][]model.Registration
}

func (f *fakeRegRepo) Create(ctx context.Context, reg *model.Registration) error { return nil }
func (f *fakeRegRepo) Update(ctx context.Context, reg *model.Registration) error { return nil }

func (f *fakeRegRepo) FindByID(ctx context.Context, id uint) (*model.Registration, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegRepo) FindByEventAndEmail(ctx context.Context, eventID uint, email string) (*model.Registration, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegRepo) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	return f.byEvent[eventID], nil
}

func (f *fakeRegRepo) ListByEmail(ctx context.Context, email string) ([]model.Registration, error) {
	return nil, nil
}

func (f *fakeRegRepo) CountsByEvent(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	return nil, nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) Send(to, subject, html string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

func (f *fakeMailer) SendWithAttachment(to, subject, html, fileName string, content []byte) error {
	return f.Send(to, subject, html)
}

func TestReminderAgentEmailsActiveRegistrants(t *testing.T) {
	now := time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC)

	events := &fakeEventRepo{byDate: map[string][]model.Event{
		"2026-09-15": {
			{ID: 1, Title: "Robotics Workshop", Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), Time: "14:00", Location: "Lab 3"},
		},
	}}
	regs := &fakeRegRepo{byEvent: map[uint][]model.Registration{
		1: {
			{ID: 1, EventID: 1, ParticipantName: "Dina", Email: "dina@example.com"},
			{ID: 2, EventID: 1, ParticipantName: "Budi", Email: "budi@example.com", Cancelled: true},
			{ID: 3, EventID: 1, ParticipantName: "Citra", Email: "citra@example.com"},
		},
	}}
	mailer := &fakeMailer{}

	agent := NewEventReminderAgent(events, regs, mailer)
	agent.now = func() time.Time { return now }

	if err := agent.Execute(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 reminders (cancelled RSVP skipped), got %d", len(mailer.sent))
	}
	for _, m := range mailer.sent {
		if m.subject != "Reminder: Robotics Workshop is tomorrow" {
			t.Errorf("unexpected subject %q", m.subject)
		}
		if m.to == "budi@example.com" {
			t.Error("cancelled registrant should not receive a reminder")
		}
	}
}

func TestReminderAgentNoEvents(t *testing.T) {
	agent := NewEventReminderAgent(
		&fakeEventRepo{byDate: map[string][]model.Event{}},
		&fakeRegRepo{},
		&fakeMailer{},
	)

	if err := agent.Execute(context.Background()); err != nil {
		t.Fatalf("expected no error with an empty day, got %v", err)
	}
}
