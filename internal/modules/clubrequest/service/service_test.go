package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	"campus.clubhub.id/clubhub/internal/modules/clubrequest/dto"
	"campus.clubhub.id/clubhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRequestRepo struct {
	reqs   map[uint]*model.ClubRequest
	nextID uint
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{reqs: make(map[uint]*model.ClubRequest), nextID: 1}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *model.ClubRequest) error {
	req.ID = f.nextID
	f.nextID++
	stored := *req
	f.reqs[req.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req *model.ClubRequest) error {
	stored := *req
	f.reqs[req.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id uint) (*model.ClubRequest, error) {
	if r, ok := f.reqs[id]; ok {
		out := *r
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepo) ListByProposer(ctx context.Context, proposerID uuid.UUID) ([]model.ClubRequest, error) {
	var out []model.ClubRequest
	for _, r := range f.reqs {
		if r.ProposerID == proposerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) List(ctx context.Context, status string) ([]model.ClubRequest, error) {
	var out []model.ClubRequest
	for _, r := range f.reqs {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) HasPending(ctx context.Context, proposerID uuid.UUID, name string) (bool, error) {
	for _, r := range f.reqs {
		if r.ProposerID == proposerID && r.Name == name && r.Status == model.ClubRequestPending {
			return true, nil
		}
	}
	return false, nil
}

type fakeClubRepo struct {
	clubs  map[uint]*model.Club
	nextID uint
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: make(map[uint]*model.Club), nextID: 1}
}

func (f *fakeClubRepo) Create(ctx context.Context, club *model.Club) error {
	club.ID = f.nextID
	f.nextID++
	stored := *club
	f.clubs[club.ID] = &stored
	return nil
}

func (f *fakeClubRepo) Update(ctx context.Context, club *model.Club) error { return nil }
func (f *fakeClubRepo) Delete(ctx context.Context, id uint) error          { return nil }

func (f *fakeClubRepo) FindByID(ctx context.Context, id uint) (*model.Club, error) {
	if c, ok := f.clubs[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) FindByLeaderID(ctx context.Context, leaderID uuid.UUID) (*model.Club, error) {
	for _, c := range f.clubs {
		if c.LeaderID != nil && *c.LeaderID == leaderID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) FindByName(ctx context.Context, name string) (*model.Club, error) {
	for _, c := range f.clubs {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) List(ctx context.Context, category, search string) ([]model.Club, error) {
	return nil, nil
}

func (f *fakeClubRepo) LeaderOwnsEvent(ctx context.Context, leaderID uuid.UUID, eventID uint) (bool, error) {
	return false, nil
}

func (f *fakeClubRepo) EventCounts(ctx context.Context) (map[uint]int64, error) { return nil, nil }
func (f *fakeClubRepo) RegistrationCounts(ctx context.Context) (map[uint]int64, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	if u, ok := f.users[uid]; ok {
		out := *u
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) { return 0, nil }

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, notifType, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fixture struct {
	svc      ClubRequestService
	reqs     *fakeRequestRepo
	clubs    *fakeClubRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
	proposer *model.User
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	proposer := &model.User{ID: uuid.New(), Name: "Dina", Email: "dina@example.com", Role: model.RoleParticipant}

	reqs := newFakeRequestRepo()
	clubs := newFakeClubRepo()
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{proposer.ID: proposer}}
	notifier := &fakeNotifier{}

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := NewClubRequestService(reqs, clubs, users, notifier)
	svc.(*clubRequestService).now = func() time.Time { return now }

	return &fixture{svc: svc, reqs: reqs, clubs: clubs, users: users, notifier: notifier, proposer: proposer, now: now}
}

func validInput() dto.CreateClubRequestInput {
	return dto.CreateClubRequestInput{
		Name:        "Robotics Club",
		Description: "A club for students who love building robots.",
		Category:    "technology",
	}
}

func TestSubmit(t *testing.T) {
	fx := newFixture(t)

	req, err := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if req.Status != model.ClubRequestPending {
		t.Errorf("expected pending status, got %q", req.Status)
	}
	if req.ProposerID != fx.proposer.ID {
		t.Errorf("expected proposer recorded, got %s", req.ProposerID)
	}
}

func TestSubmitDuplicatePending(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict on pending duplicate, got %v", err)
	}
}

func TestSubmitNameTakenByClub(t *testing.T) {
	fx := newFixture(t)
	fx.clubs.Create(context.Background(), &model.Club{Name: "Robotics Club"})

	_, err := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict for an existing club name, got %v", err)
	}
}

func TestApprove(t *testing.T) {
	fx := newFixture(t)

	req, err := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	decided, err := fx.svc.Decide(context.Background(), req.ID, dto.DecideInput{
		Status:  model.ClubRequestApproved,
		Message: "Welcome aboard!",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if decided.Status != model.ClubRequestApproved {
		t.Errorf("expected approved, got %q", decided.Status)
	}
	if decided.DecidedAt == nil || !decided.DecidedAt.Equal(fx.now) {
		t.Errorf("expected decision timestamp %v, got %v", fx.now, decided.DecidedAt)
	}

	club, err := fx.clubs.FindByLeaderID(context.Background(), fx.proposer.ID)
	if err != nil {
		t.Fatalf("expected a club led by the proposer, got %v", err)
	}
	if club.Name != "Robotics Club" {
		t.Errorf("expected club named after the request, got %q", club.Name)
	}

	promoted, _ := fx.users.FindByID(context.Background(), fx.proposer.ID.String())
	if promoted.Role != model.RoleLeader {
		t.Errorf("expected proposer promoted to leader, got %q", promoted.Role)
	}

	if len(fx.notifier.messages) != 1 {
		t.Errorf("expected one decision notification, got %d", len(fx.notifier.messages))
	}
}

func TestReject(t *testing.T) {
	fx := newFixture(t)

	req, _ := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())

	decided, err := fx.svc.Decide(context.Background(), req.ID, dto.DecideInput{
		Status:  model.ClubRequestRejected,
		Message: "Overlaps with an existing club.",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if decided.Status != model.ClubRequestRejected {
		t.Errorf("expected rejected, got %q", decided.Status)
	}
	if _, err := fx.clubs.FindByLeaderID(context.Background(), fx.proposer.ID); err == nil {
		t.Error("expected no club on rejection")
	}
	user, _ := fx.users.FindByID(context.Background(), fx.proposer.ID.String())
	if user.Role != model.RoleParticipant {
		t.Errorf("expected proposer to stay a participant, got %q", user.Role)
	}
}

func TestDecideTwice(t *testing.T) {
	fx := newFixture(t)

	req, _ := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())
	if _, err := fx.svc.Decide(context.Background(), req.ID, dto.DecideInput{Status: model.ClubRequestRejected}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := fx.svc.Decide(context.Background(), req.ID, dto.DecideInput{Status: model.ClubRequestApproved})
	if !errors.Is(err, apperror.ErrRejected) {
		t.Fatalf("expected rejection on second decision, got %v", err)
	}
}

func TestApproveProposerAlreadyLeads(t *testing.T) {
	fx := newFixture(t)
	fx.clubs.Create(context.Background(), &model.Club{Name: "Chess Club", LeaderID: &fx.proposer.ID})

	req, _ := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())

	_, err := fx.svc.Decide(context.Background(), req.ID, dto.DecideInput{Status: model.ClubRequestApproved})
	if !errors.Is(err, apperror.ErrRejected) {
		t.Fatalf("expected rejection when the proposer already leads a club, got %v", err)
	}

	stored, _ := fx.reqs.FindByID(context.Background(), req.ID)
	if stored.Status != model.ClubRequestPending {
		t.Errorf("expected request to stay pending after a failed approval, got %q", stored.Status)
	}
}

func TestEmbargoedDecisionReadsAsPending(t *testing.T) {
	fx := newFixture(t)

	req, _ := fx.svc.Submit(context.Background(), fx.proposer.ID, validInput())

	if _, err := fx.svc.Decide(context.Background(), req.ID, dto.DecideInput{
		Status:     model.ClubRequestRejected,
		Message:    "Not this semester.",
		DelayHours: 24,
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// No notification while embargoed.
	if len(fx.notifier.messages) != 0 {
		t.Errorf("expected no notification before visible_from, got %d", len(fx.notifier.messages))
	}

	mine, err := fx.svc.MyRequests(context.Background(), fx.proposer.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected one request, got %d", len(mine))
	}
	if mine[0].Status != model.ClubRequestPending {
		t.Errorf("expected masked status pending, got %q", mine[0].Status)
	}
	if mine[0].DecisionMessage != "" || mine[0].DecidedAt != nil {
		t.Error("expected decision details to be hidden")
	}

	// After the embargo the decision shows through.
	fx.svc.(*clubRequestService).now = func() time.Time { return fx.now.Add(25 * time.Hour) }
	mine, _ = fx.svc.MyRequests(context.Background(), fx.proposer.ID)
	if mine[0].Status != model.ClubRequestRejected {
		t.Errorf("expected decision visible after embargo, got %q", mine[0].Status)
	}
	if mine[0].DecisionMessage != "Not this semester." {
		t.Errorf("expected decision message visible, got %q", mine[0].DecisionMessage)
	}
}
