package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRegRepo struct {
	regs map[uint]*model.Registration
}

func (f *fakeRegRepo) Create(ctx context.Context, reg *model.Registration) error { return nil }

func (f *fakeRegRepo) Update(ctx context.Context, reg *model.Registration) error {
	stored := *reg
	f.regs[reg.ID] = &stored
	return nil
}

func (f *fakeRegRepo) FindByID(ctx context.Context, id uint) (*model.Registration, error) {
	if r, ok := f.regs[id]; ok {
		out := *r
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegRepo) FindByEventAndEmail(ctx context.Context, eventID uint, email string) (*model.Registration, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegRepo) ListByEvent(ctx context.Context, eventID uint) ([]model.Registration, error) {
	return nil, nil
}

func (f *fakeRegRepo) ListByEmail(ctx context.Context, email string) ([]model.Registration, error) {
	return nil, nil
}

func (f *fakeRegRepo) CountsByEvent(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	return nil, nil
}

type fakeClubRepo struct {
	ownedEvents map[uint]uuid.UUID
}

func (f *fakeClubRepo) Create(ctx context.Context, club *model.Club) error { return nil }
func (f *fakeClubRepo) Update(ctx context.Context, club *model.Club) error { return nil }
func (f *fakeClubRepo) Delete(ctx context.Context, id uint) error          { return nil }

func (f *fakeClubRepo) FindByID(ctx context.Context, id uint) (*model.Club, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) FindByLeaderID(ctx context.Context, leaderID uuid.UUID) (*model.Club, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) FindByName(ctx context.Context, name string) (*model.Club, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) List(ctx context.Context, category, search string) ([]model.Club, error) {
	return nil, nil
}

func (f *fakeClubRepo) LeaderOwnsEvent(ctx context.Context, leaderID uuid.UUID, eventID uint) (bool, error) {
	return f.ownedEvents[eventID] == leaderID, nil
}

func (f *fakeClubRepo) EventCounts(ctx context.Context) (map[uint]int64, error) { return nil, nil }
func (f *fakeClubRepo) RegistrationCounts(ctx context.Context) (map[uint]int64, error) {
	return nil, nil
}

type fakeUsers struct {
	byEmail map[string]*model.User
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type awardCall struct {
	userID uuid.UUID
	action string
	points int
}

type fakeAwarder struct {
	calls  []awardCall
	badges []model.Badge
}

func (f *fakeAwarder) Award(ctx context.Context, userID uuid.UUID, action string, points int) ([]model.Badge, error) {
	f.calls = append(f.calls, awardCall{userID: userID, action: action, points: points})
	return f.badges, nil
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error {
	f.messages = append(f.messages, notifType+": "+message)
	return nil
}

type fixture struct {
	svc      CheckInService
	regs     *fakeRegRepo
	awarder  *fakeAwarder
	notifier *fakeNotifier
	leaderID uuid.UUID
	user     *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	leaderID := uuid.New()
	user := &model.User{ID: uuid.New(), Name: "Dina", Email: "dina@example.com", Role: model.RoleParticipant}

	regs := &fakeRegRepo{regs: map[uint]*model.Registration{
		1: {ID: 1, EventID: 10, ParticipantName: "Dina", Email: "dina@example.com"},
		2: {ID: 2, EventID: 10, ParticipantName: "Budi", Email: "budi@example.com", Cancelled: true},
	}}

	awarder := &fakeAwarder{}
	notifier := &fakeNotifier{}

	svc := NewCheckInService(
		regs,
		&fakeClubRepo{ownedEvents: map[uint]uuid.UUID{10: leaderID}},
		&fakeUsers{byEmail: map[string]*model.User{user.Email: user}},
		awarder,
		notifier,
	)

	return &fixture{svc: svc, regs: regs, awarder: awarder, notifier: notifier, leaderID: leaderID, user: user}
}

func TestCheckInSuccess(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.svc.CheckIn(context.Background(), 1, fx.leaderID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.AlreadyCheckedIn {
		t.Error("expected a first check-in")
	}
	if result.Message != MsgCheckInSuccess {
		t.Errorf("expected %q, got %q", MsgCheckInSuccess, result.Message)
	}
	if !result.Registration.CheckedIn || result.Registration.CheckedInAt == nil {
		t.Error("expected attendance to be recorded with a timestamp")
	}

	if len(fx.awarder.calls) != 1 {
		t.Fatalf("expected one award call, got %d", len(fx.awarder.calls))
	}
	call := fx.awarder.calls[0]
	if call.action != model.ActionCheckIn || call.points != model.PointsCheckIn || call.userID != fx.user.ID {
		t.Errorf("unexpected award call: %+v", call)
	}
}

func TestCheckInIdempotent(t *testing.T) {
	fx := newFixture(t)

	first, err := fx.svc.CheckIn(context.Background(), 1, fx.leaderID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := fx.svc.CheckIn(context.Background(), 1, fx.leaderID)
	if err != nil {
		t.Fatalf("expected re-scan to succeed, got %v", err)
	}

	if !second.AlreadyCheckedIn {
		t.Error("expected AlreadyCheckedIn=true on re-scan")
	}
	if second.Message != MsgAlreadyCheckedIn {
		t.Errorf("expected %q, got %q", MsgAlreadyCheckedIn, second.Message)
	}
	if !second.Registration.CheckedInAt.Equal(*first.Registration.CheckedInAt) {
		t.Error("expected the original check-in timestamp to be preserved")
	}

	// Points are awarded exactly once.
	if len(fx.awarder.calls) != 1 {
		t.Errorf("expected one award call, got %d", len(fx.awarder.calls))
	}
}

func TestCheckInCancelledRSVP(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CheckIn(context.Background(), 2, fx.leaderID)
	if !errors.Is(err, apperror.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if len(fx.awarder.calls) != 0 {
		t.Errorf("expected no award for a cancelled RSVP, got %d calls", len(fx.awarder.calls))
	}
}

func TestCheckInUnknownRegistration(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CheckIn(context.Background(), 99, fx.leaderID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckInForeignEvent(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CheckIn(context.Background(), 1, uuid.New())
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	reg, _ := fx.regs.FindByID(context.Background(), 1)
	if reg.CheckedIn {
		t.Error("expected registration to remain unchecked")
	}
}

func TestCheckInGuestEarnsNothing(t *testing.T) {
	fx := newFixture(t)
	fx.regs.regs[3] = &model.Registration{ID: 3, EventID: 10, ParticipantName: "Guest", Email: "guest@example.com"}

	result, err := fx.svc.CheckIn(context.Background(), 3, fx.leaderID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Message != MsgCheckInSuccess {
		t.Errorf("expected %q, got %q", MsgCheckInSuccess, result.Message)
	}
	if len(fx.awarder.calls) != 0 {
		t.Errorf("expected no award for guests, got %d calls", len(fx.awarder.calls))
	}
}

func TestCheckInNotifiesBadges(t *testing.T) {
	fx := newFixture(t)
	fx.awarder.badges = []model.Badge{{UserID: fx.user.ID, Type: model.BadgeStreak7, Name: "Week Streak"}}

	if _, err := fx.svc.CheckIn(context.Background(), 1, fx.leaderID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(fx.notifier.messages) != 1 {
		t.Fatalf("expected one badge notification, got %d", len(fx.notifier.messages))
	}
	want := model.NotifBadgeEarned + `: You earned the "Week Streak" badge!`
	if fx.notifier.messages[0] != want {
		t.Errorf("expected %q, got %q", want, fx.notifier.messages[0])
	}
}

func TestCheckInTimestampUsesClock(t *testing.T) {
	fx := newFixture(t)
	fixed := time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC)
	fx.svc.(*checkInService).now = func() time.Time { return fixed }

	result, err := fx.svc.CheckIn(context.Background(), 1, fx.leaderID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Registration.CheckedInAt.Equal(fixed) {
		t.Errorf("expected check-in at %v, got %v", fixed, result.Registration.CheckedInAt)
	}
}
