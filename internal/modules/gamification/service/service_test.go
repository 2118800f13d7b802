package service

import (
	"context"
	"testing"
	"time"

	"campus.clubhub.id/clubhub/internal/model"
	"github.com/google/uuid"
)

type fakeGamificationRepo struct {
	stats     map[uuid.UUID]*model.ParticipantStats
	badges    []model.Badge
	favorites map[uuid.UUID]string
}

func newFakeGamificationRepo() *fakeGamificationRepo {
	return &fakeGamificationRepo{stats: make(map[uuid.UUID]*model.ParticipantStats)}
}

func (f *fakeGamificationRepo) ensure(userID uuid.UUID) *model.ParticipantStats {
	if st, ok := f.stats[userID]; ok {
		return st
	}
	st := &model.ParticipantStats{UserID: userID}
	f.stats[userID] = st
	return st
}

func (f *fakeGamificationRepo) UpsertRegisterAward(ctx context.Context, userID uuid.UUID, points int) (*model.ParticipantStats, error) {
	st := f.ensure(userID)
	st.Points += points
	st.EventsRegistered++
	snapshot := *st
	return &snapshot, nil
}

func (f *fakeGamificationRepo) UpdateCheckInStats(ctx context.Context, userID uuid.UUID, apply func(*model.ParticipantStats)) (*model.ParticipantStats, error) {
	st := f.ensure(userID)
	apply(st)
	snapshot := *st
	return &snapshot, nil
}

func (f *fakeGamificationRepo) HasBadge(ctx context.Context, userID uuid.UUID, badgeType string) (bool, error) {
	for _, b := range f.badges {
		if b.UserID == userID && b.Type == badgeType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGamificationRepo) CreateBadge(ctx context.Context, badge *model.Badge) error {
	for _, b := range f.badges {
		if b.UserID == badge.UserID && b.Type == badge.Type {
			return nil // unique index: silently keep the first row
		}
	}
	f.badges = append(f.badges, *badge)
	return nil
}

func (f *fakeGamificationRepo) StatsByUserID(ctx context.Context, userID uuid.UUID) (*model.ParticipantStats, error) {
	if st, ok := f.stats[userID]; ok {
		snapshot := *st
		return &snapshot, nil
	}
	return &model.ParticipantStats{UserID: userID}, nil
}

func (f *fakeGamificationRepo) BadgesByUserID(ctx context.Context, userID uuid.UUID) ([]model.Badge, error) {
	var out []model.Badge
	for _, b := range f.badges {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeGamificationRepo) FavoriteCategory(ctx context.Context, userID uuid.UUID) (string, error) {
	return f.favorites[userID], nil
}

func (f *fakeGamificationRepo) TopStats(ctx context.Context, limit int) ([]model.ParticipantStats, error) {
	var out []model.ParticipantStats
	for _, st := range f.stats {
		out = append(out, *st)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeGamificationRepo) badgeCount(userID uuid.UUID, badgeType string) int {
	n := 0
	for _, b := range f.badges {
		if b.UserID == userID && b.Type == badgeType {
			n++
		}
	}
	return n
}

func newTestService(repo *fakeGamificationRepo, now *time.Time) *gamificationService {
	return &gamificationService{
		repo: repo,
		now:  func() time.Time { return *now },
	}
}

func TestAwardRegister(t *testing.T) {
	repo := newFakeGamificationRepo()
	now := date(2026, 3, 10)
	svc := newTestService(repo, &now)
	userID := uuid.New()

	granted, err := svc.Award(context.Background(), userID, model.ActionRegister, model.PointsRegister)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	st := repo.stats[userID]
	if st.Points != 10 || st.EventsRegistered != 1 {
		t.Errorf("expected 10 points and 1 registration, got %d/%d", st.Points, st.EventsRegistered)
	}
	if len(granted) != 1 || granted[0].Type != model.BadgeFirstEvent {
		t.Fatalf("expected first_event badge, got %v", granted)
	}

	// Second registration: more points, no second badge.
	granted, err = svc.Award(context.Background(), userID, model.ActionRegister, model.PointsRegister)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(granted) != 0 {
		t.Errorf("expected no new badges, got %v", granted)
	}
	if st.Points != 20 {
		t.Errorf("expected 20 points, got %d", st.Points)
	}
	if repo.badgeCount(userID, model.BadgeFirstEvent) != 1 {
		t.Errorf("expected exactly one first_event badge")
	}
}

func TestAwardCheckInStreakProgression(t *testing.T) {
	repo := newFakeGamificationRepo()
	now := date(2026, 3, 1)
	svc := newTestService(repo, &now)
	userID := uuid.New()

	for day := 0; day < 7; day++ {
		now = date(2026, 3, 1+day)
		granted, err := svc.Award(context.Background(), userID, model.ActionCheckIn, model.PointsCheckIn)
		if err != nil {
			t.Fatalf("day %d: expected no error, got %v", day, err)
		}
		if day < 6 && len(granted) != 0 {
			t.Errorf("day %d: expected no badge, got %v", day, granted)
		}
		if day == 6 {
			if len(granted) != 1 || granted[0].Type != model.BadgeStreak7 {
				t.Fatalf("expected streak_7 badge on day 7, got %v", granted)
			}
		}
	}

	st := repo.stats[userID]
	if st.CurrentStreak != 7 || st.LongestStreak != 7 {
		t.Errorf("expected streak 7/7, got %d/%d", st.CurrentStreak, st.LongestStreak)
	}
	if st.Points != 7*model.PointsCheckIn {
		t.Errorf("expected %d points, got %d", 7*model.PointsCheckIn, st.Points)
	}
	if st.EventsAttended != 7 {
		t.Errorf("expected 7 events attended, got %d", st.EventsAttended)
	}

	// An eighth day keeps the badge singular.
	now = date(2026, 3, 8)
	granted, err := svc.Award(context.Background(), userID, model.ActionCheckIn, model.PointsCheckIn)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(granted) != 0 {
		t.Errorf("expected no duplicate streak badge, got %v", granted)
	}
	if repo.badgeCount(userID, model.BadgeStreak7) != 1 {
		t.Errorf("expected exactly one streak_7 badge")
	}
}

func TestAwardCheckInSameDay(t *testing.T) {
	repo := newFakeGamificationRepo()
	now := date(2026, 3, 10)
	svc := newTestService(repo, &now)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.Award(context.Background(), userID, model.ActionCheckIn, model.PointsCheckIn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	st := repo.stats[userID]
	if st.CurrentStreak != 1 {
		t.Errorf("expected same-day repeat to leave streak at 1, got %d", st.CurrentStreak)
	}
	// Points and attendance still accrue for a second event on the same day.
	if st.Points != 2*model.PointsCheckIn || st.EventsAttended != 2 {
		t.Errorf("expected points/attendance for both check-ins, got %d/%d", st.Points, st.EventsAttended)
	}
}

func TestAwardCheckInGapResets(t *testing.T) {
	repo := newFakeGamificationRepo()
	now := date(2026, 3, 1)
	svc := newTestService(repo, &now)
	userID := uuid.New()

	for day := 0; day < 3; day++ {
		now = date(2026, 3, 1+day)
		if _, err := svc.Award(context.Background(), userID, model.ActionCheckIn, model.PointsCheckIn); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	// Two-day gap resets the streak but keeps the longest.
	now = date(2026, 3, 6)
	if _, err := svc.Award(context.Background(), userID, model.ActionCheckIn, model.PointsCheckIn); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	st := repo.stats[userID]
	if st.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Errorf("expected longest streak 3, got %d", st.LongestStreak)
	}
}

func TestAwardUnknownAction(t *testing.T) {
	repo := newFakeGamificationRepo()
	now := date(2026, 3, 10)
	svc := newTestService(repo, &now)

	if _, err := svc.Award(context.Background(), uuid.New(), "uncheck_in", 5); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestStatsForNewUser(t *testing.T) {
	repo := newFakeGamificationRepo()
	now := date(2026, 3, 10)
	svc := newTestService(repo, &now)

	resp, err := svc.StatsFor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Points != 0 || resp.CurrentStreak != 0 {
		t.Errorf("expected zero stats, got %+v", resp)
	}
	if resp.Badges == nil || len(resp.Badges) != 0 {
		t.Errorf("expected empty badge list, got %v", resp.Badges)
	}
}
