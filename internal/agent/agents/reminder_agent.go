package agents

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	eventRepo "campus.clubhub.id/clubhub/internal/modules/event/repository"
	registrationRepo "campus.clubhub.id/clubhub/internal/modules/registration/repository"
	"campus.clubhub.id/clubhub/pkg/mail"
)

// EventReminderAgent emails everyone with an active RSVP the day before
// their event.
type EventReminderAgent struct {
	events        eventRepo.EventRepository
	registrations registrationRepo.RegistrationRepository
	mailer        mail.Mailer
	now           func() time.Time
}

func NewEventReminderAgent(
	events eventRepo.EventRepository,
	registrations registrationRepo.RegistrationRepository,
	mailer mail.Mailer,
) *EventReminderAgent {
	return &EventReminderAgent{
		events:        events,
		registrations: registrations,
		mailer:        mailer,
		now:           time.Now,
	}
}

func (a *EventReminderAgent) GetName() string {
	return "EventReminderAgent"
}

// Runs every evening at 18:00.
func (a *EventReminderAgent) GetSchedule() string {
	return "0 18 * * *"
}

func (a *EventReminderAgent) Execute(ctx context.Context) error {
	tomorrow := a.now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)

	events, _, err := a.events.List(ctx, eventRepo.ListFilter{Date: &tomorrow})
	if err != nil {
		return fmt.Errorf("failed to load tomorrow's events: %w", err)
	}
	if len(events) == 0 {
		log.Println("📭 No events tomorrow, nothing to remind")
		return nil
	}

	sent := 0
	for _, event := range events {
		regs, err := a.registrations.ListByEvent(ctx, event.ID)
		if err != nil {
			log.Printf("Failed to load registrations for event %d: %v", event.ID, err)
			continue
		}

		for _, reg := range regs {
			if reg.Cancelled {
				continue
			}
			if err := a.sendReminder(&event, &reg); err != nil {
				log.Printf("Failed to send reminder to %s: %v", reg.Email, err)
				continue
			}
			sent++
		}
	}

	log.Printf("📬 Sent %d event reminders for %d events", sent, len(events))
	return nil
}

func (a *EventReminderAgent) sendReminder(event *model.Event, reg *model.Registration) error {
	if a.mailer == nil {
		return fmt.Errorf("mailer is not configured")
	}

	subject := fmt.Sprintf("Reminder: %s is tomorrow", event.Title)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p><b>%s</b> starts tomorrow at %s, %s. Don't forget your QR code for check-in!</p>",
		reg.ParticipantName, event.Title, event.Time, event.Location,
	)
	return a.mailer.Send(reg.Email, subject, html)
}
