package progress

import (
	"testing"
	"time"

	"github.com/sandeepkv93/flowstate/internal/model"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) nextDay(n int) { c.t = c.t.AddDate(0, 0, n) }

func newTestEngine() (*Engine, *testClock) {
	c := &testClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	return New(WithClock(c.now)), c
}

func TestLevelThresholds(t *testing.T) {
	cases := map[int]int{0: 0, 1: 100, 2: 282, 3: 519, 4: 800, 5: 1118}
	for level, want := range cases {
		if got := LevelThreshold(level); got != want {
			t.Fatalf("LevelThreshold(%d) = %d, want %d", level, got, want)
		}
	}
}

func TestAddXPLevelsUp(t *testing.T) {
	e, _ := newTestEngine()
	award := e.AddXP(100)
	if e.State().Level != 2 || !award.LeveledUp() || award.XP != 100 {
		t.Fatalf("expected level 2 after 100 xp, got %#v award=%#v", e.State(), award)
	}
	if e.XPForNextLevel() != 282 {
		t.Fatalf("unexpected next threshold %d", e.XPForNextLevel())
	}
}

func TestAddXPMultiLevelJump(t *testing.T) {
	e, _ := newTestEngine()
	e.AddXP(1200)
	st := e.State()
	if st.Level != 6 {
		t.Fatalf("expected jump to level 6, got %d", st.Level)
	}
	if !st.IsUnlocked("level_5") {
		t.Fatalf("expected level_5 unlocked by the jump")
	}
}

func TestAddXPStreakBonus(t *testing.T) {
	e, _ := newTestEngine()
	e.Restore(State{Level: 1, Streak: 3})
	if award := e.AddXP(25); award.XP != 32 {
		t.Fatalf("expected 25 + floor(7.5) = 32, got %d", award.XP)
	}
	if award := e.AddXP(0); award.XP != 0 || e.State().XP != 32 {
		t.Fatalf("expected zero award to be a no-op")
	}
	if award := e.AddXP(-10); award.XP != 0 || e.State().XP != 32 {
		t.Fatalf("expected negative award to be ignored")
	}
}

func TestAddXPZeroStillEvaluatesAchievements(t *testing.T) {
	e, _ := newTestEngine()
	e.Restore(State{Level: 1, TotalTasksCompleted: 10})
	award := e.AddXP(0)
	if award.XP != 0 || e.State().XP != 0 {
		t.Fatalf("expected no xp, got award=%#v state=%#v", award, e.State())
	}
	if len(award.Unlocked) != 2 || !e.State().IsUnlocked("first_task") || !e.State().IsUnlocked("ten_tasks") {
		t.Fatalf("expected restored totals to unlock first_task and ten_tasks, got %v", award.Unlocked)
	}
	if again := e.AddXP(0); len(again.Unlocked) != 0 {
		t.Fatalf("unlocks must not repeat, got %v", again.Unlocked)
	}
}

func TestCompleteTaskSameDay(t *testing.T) {
	e, _ := newTestEngine()
	e.CompleteTask()
	afterFirst := e.State()
	e.CompleteTask()
	st := e.State()
	if st.TasksCompletedToday != 2 || st.TotalTasksCompleted != 2 {
		t.Fatalf("unexpected counters: %#v", st)
	}
	if st.Streak != afterFirst.Streak || st.Streak != 1 {
		t.Fatalf("expected streak untouched on same day, got %d", st.Streak)
	}
	if st.LastCompletedDate != "2026-03-10" {
		t.Fatalf("unexpected last date %q", st.LastCompletedDate)
	}
}

func TestCompleteTaskConsecutiveDaysAndGap(t *testing.T) {
	e, c := newTestEngine()
	for day := 1; day <= 3; day++ {
		e.CompleteTask()
		if e.State().Streak != day {
			t.Fatalf("day %d: expected streak %d, got %d", day, day, e.State().Streak)
		}
		c.nextDay(1)
	}
	if !e.State().IsUnlocked("streak_3") {
		t.Fatalf("expected streak_3 unlocked")
	}
	if e.State().TasksCompletedToday != 1 {
		t.Fatalf("expected daily counter reset on new day")
	}

	c.nextDay(1)
	e.CompleteTask()
	if e.State().Streak != 1 {
		t.Fatalf("expected streak reset to 1 after a gap, got %d", e.State().Streak)
	}
	if !e.State().IsUnlocked("streak_3") {
		t.Fatalf("achievements must never re-lock")
	}
}

func TestCheckStreak(t *testing.T) {
	e, c := newTestEngine()
	e.CheckStreak()
	if e.State().Streak != 0 {
		t.Fatalf("no history should leave streak at 0")
	}
	e.CompleteTask()
	c.nextDay(1)
	e.CheckStreak()
	if e.State().Streak != 1 {
		t.Fatalf("yesterday's completion must keep the streak")
	}
	c.nextDay(1)
	before := e.State()
	e.CheckStreak()
	e.CheckStreak()
	after := e.State()
	if after.Streak != 0 {
		t.Fatalf("expected reset after a two-day gap")
	}
	if after.XP != before.XP || after.TasksCompletedToday != before.TasksCompletedToday {
		t.Fatalf("check must not touch xp or daily counter")
	}
}

func TestCompleteFocusSession(t *testing.T) {
	e, _ := newTestEngine()
	for i := 0; i < 5; i++ {
		e.CompleteFocusSession(25)
	}
	st := e.State()
	if st.FocusSessionsCompleted != 5 || st.TotalFocusMinutes != 125 || st.XP != 250 {
		t.Fatalf("unexpected focus totals: %#v", st)
	}
	if !st.IsUnlocked("focus_5") {
		t.Fatalf("expected focus_5 unlocked")
	}
	if _, ok := st.UnlockedAt["focus_5"]; !ok {
		t.Fatalf("expected unlock time recorded")
	}
}

func TestCheckAchievementsReturnsOnlyNew(t *testing.T) {
	e, _ := newTestEngine()
	award := e.CompleteTask()
	if len(award.Unlocked) != 1 || award.Unlocked[0] != "first_task" {
		t.Fatalf("expected first_task in award, got %v", award.Unlocked)
	}
	if again := e.CheckAchievements(); len(again) != 0 {
		t.Fatalf("expected nothing new, got %v", again)
	}
}

func TestLevelProgressBounds(t *testing.T) {
	e, _ := newTestEngine()
	if p := e.LevelProgress(); p != 0 {
		t.Fatalf("expected 0 at start, got %v", p)
	}
	e.Restore(State{Level: 1, XP: 50})
	if p := e.LevelProgress(); p != 0.5 {
		t.Fatalf("expected 0.5, got %v", p)
	}
	for xp := 0; xp < 3000; xp += 37 {
		e.Restore(State{Level: 1})
		e.AddXP(xp)
		if p := e.LevelProgress(); p < 0 || p > 1 {
			t.Fatalf("progress %v out of range at xp %d", p, xp)
		}
	}
	e.Restore(State{Level: 3, XP: 10})
	if p := e.LevelProgress(); p != 0 {
		t.Fatalf("expected clamp to 0 below current threshold, got %v", p)
	}
}

func TestRestoreNormalizesAndCopies(t *testing.T) {
	e, _ := newTestEngine()
	in := State{Level: 0, XP: -5, Unlocked: []string{"first_task"}}
	e.Restore(in)
	st := e.State()
	if st.Level != 1 || st.XP != 0 {
		t.Fatalf("expected normalized state, got %#v", st)
	}
	in.Unlocked[0] = "mutated"
	st.Unlocked[0] = "mutated"
	if !e.State().IsUnlocked("first_task") {
		t.Fatalf("engine state aliased caller slices")
	}
}

func TestAchievementsJoinCatalog(t *testing.T) {
	e, _ := newTestEngine()
	e.CompleteTask()
	list := e.Achievements()
	if len(list) != 12 {
		t.Fatalf("expected 12 catalog entries, got %d", len(list))
	}
	if !list[0].Unlocked || list[0].ID != "first_task" || list[0].Current != 1 {
		t.Fatalf("unexpected first entry: %#v", list[0])
	}
	if list[1].Unlocked || list[1].Current != 1 {
		t.Fatalf("unexpected second entry: %#v", list[1])
	}
}

func TestEvaluateIsPure(t *testing.T) {
	catalog := []model.Achievement{
		{ID: "a", Requirement: 2, Kind: model.AchievementTasksCompleted},
		{ID: "b", Requirement: 1, Kind: model.AchievementLevel},
		{ID: "c", Requirement: 3, Kind: model.AchievementFocusSessions},
	}
	unlocked := []string{"b"}
	got := Evaluate(Totals{TasksCompleted: 2, Level: 1, FocusSessions: 1}, catalog, unlocked)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected evaluation %v", got)
	}
	if len(unlocked) != 1 {
		t.Fatalf("evaluate must not modify the unlocked set")
	}
}

func TestDefaultCatalogValid(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range DefaultCatalog() {
		if err := a.Validate(); err != nil {
			t.Fatalf("invalid catalog entry: %v", err)
		}
		if seen[a.ID] {
			t.Fatalf("duplicate achievement %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestWithCatalog(t *testing.T) {
	e := New(WithCatalog([]model.Achievement{{ID: "only", Requirement: 1, Kind: model.AchievementTasksCompleted}}))
	e.CompleteTask()
	if st := e.State(); len(st.Unlocked) != 1 || st.Unlocked[0] != "only" {
		t.Fatalf("expected custom catalog, got %v", st.Unlocked)
	}
}
