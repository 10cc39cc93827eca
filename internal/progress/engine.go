// Package progress tracks experience, levels, daily streaks and achievement
// unlocks. The Engine reacts to two events, a completed task and a completed
// focus session; everything else is derived from its State.
package progress

import (
	"math"
	"time"

	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
)

// SnapshotKey names the persisted slot holding the progression state.
const SnapshotKey = "flowstate-game"

const (
	XPPerTask             = 25
	XPPerFocusMinute      = 2
	StreakBonusMultiplier = 0.1
)

type State struct {
	XP                     int                  `json:"xp"`
	Level                  int                  `json:"level"`
	Streak                 int                  `json:"streak"`
	LastCompletedDate      string               `json:"last_completed_date,omitempty"`
	TasksCompletedToday    int                  `json:"tasks_completed_today"`
	TotalTasksCompleted    int                  `json:"total_tasks_completed"`
	FocusSessionsCompleted int                  `json:"focus_sessions_completed"`
	TotalFocusMinutes      int                  `json:"total_focus_minutes"`
	Unlocked               []string             `json:"unlocked_achievements"`
	UnlockedAt             map[string]time.Time `json:"unlocked_at,omitempty"`
}

// DefaultState is the state of a first run.
func DefaultState() State {
	return State{Level: 1, Unlocked: []string{}}
}

func (s State) Totals() Totals {
	return Totals{
		TasksCompleted: s.TotalTasksCompleted,
		Streak:         s.Streak,
		FocusSessions:  s.FocusSessionsCompleted,
		Level:          s.Level,
	}
}

func (s State) IsUnlocked(id string) bool {
	for _, u := range s.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// Award describes what a single event changed, for notifications.
type Award struct {
	XP          int
	LevelBefore int
	LevelAfter  int
	Unlocked    []string
}

func (a Award) LeveledUp() bool { return a.LevelAfter > a.LevelBefore }

type Engine struct {
	state   State
	catalog []model.Achievement
	now     clock.Clock
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

func WithCatalog(catalog []model.Achievement) Option {
	return func(e *Engine) {
		e.catalog = append([]model.Achievement(nil), catalog...)
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		state:   DefaultState(),
		catalog: DefaultCatalog(),
		now:     clock.System,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LevelThreshold is the total XP at which level stops being the current level.
func LevelThreshold(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// AddXP grants amount plus the streak bonus and raises the level as many
// times as the new total allows. Non-positive amounts grant nothing but
// achievements are still re-evaluated.
func (e *Engine) AddXP(amount int) Award {
	award := Award{LevelBefore: e.state.Level, LevelAfter: e.state.Level}
	if amount <= 0 {
		award.Unlocked = e.CheckAchievements()
		return award
	}
	// Integer form of floor(amount * streak * 0.1).
	bonus := amount * e.state.Streak / 10
	gained := amount + bonus
	e.state.XP += gained
	for e.state.XP >= LevelThreshold(e.state.Level) {
		e.state.Level++
	}
	award.XP = gained
	award.LevelAfter = e.state.Level
	award.Unlocked = e.CheckAchievements()
	return award
}

// CompleteTask records one completed task against today's streak and
// awards XPPerTask. The calendar day is read once per call.
func (e *Engine) CompleteTask() Award {
	now := e.now()
	today := clock.DateKey(now)
	if e.state.LastCompletedDate != today {
		if e.state.LastCompletedDate == clock.DateKey(clock.AddDays(now, -1)) {
			e.state.Streak++
		} else {
			e.state.Streak = 1
		}
		e.state.TasksCompletedToday = 1
		e.state.LastCompletedDate = today
	} else {
		e.state.TasksCompletedToday++
	}
	e.state.TotalTasksCompleted++
	award := e.AddXP(XPPerTask)
	award.Unlocked = append(award.Unlocked, e.CheckAchievements()...)
	return award
}

func (e *Engine) CompleteFocusSession(minutes int) Award {
	if minutes < 0 {
		minutes = 0
	}
	e.state.FocusSessionsCompleted++
	e.state.TotalFocusMinutes += minutes
	award := e.AddXP(minutes * XPPerFocusMinute)
	award.Unlocked = append(award.Unlocked, e.CheckAchievements()...)
	return award
}

// CheckStreak resets the streak when the last completion is older than
// yesterday. It never increments.
func (e *Engine) CheckStreak() {
	last := e.state.LastCompletedDate
	if last == "" {
		return
	}
	now := e.now()
	if last != clock.DateKey(now) && last != clock.DateKey(clock.AddDays(now, -1)) {
		e.state.Streak = 0
	}
}

// CheckAchievements unlocks every satisfied catalog entry and returns the
// ids unlocked by this call.
func (e *Engine) CheckAchievements() []string {
	fresh := Evaluate(e.state.Totals(), e.catalog, e.state.Unlocked)
	if len(fresh) == 0 {
		return nil
	}
	if e.state.UnlockedAt == nil {
		e.state.UnlockedAt = make(map[string]time.Time, len(fresh))
	}
	now := e.now()
	for _, id := range fresh {
		e.state.Unlocked = append(e.state.Unlocked, id)
		e.state.UnlockedAt[id] = now
	}
	return fresh
}

func (e *Engine) XPForNextLevel() int {
	return LevelThreshold(e.state.Level)
}

// LevelProgress is the fraction of the current level already earned,
// clamped to [0, 1].
func (e *Engine) LevelProgress() float64 {
	current := LevelThreshold(e.state.Level - 1)
	next := LevelThreshold(e.state.Level)
	if next <= current {
		return 0
	}
	p := float64(e.state.XP-current) / float64(next-current)
	return math.Min(math.Max(p, 0), 1)
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	out := e.state
	out.Unlocked = append([]string{}, e.state.Unlocked...)
	if e.state.UnlockedAt != nil {
		out.UnlockedAt = make(map[string]time.Time, len(e.state.UnlockedAt))
		for k, v := range e.state.UnlockedAt {
			out.UnlockedAt[k] = v
		}
	}
	return out
}

// Restore replaces the state verbatim. A zero level is lifted to 1 so a
// hand-edited or empty snapshot cannot break the level curve.
func (e *Engine) Restore(s State) {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	e.state = s
	e.state = e.State()
}

func (e *Engine) Catalog() []model.Achievement {
	return append([]model.Achievement(nil), e.catalog...)
}

type AchievementStatus struct {
	model.Achievement
	Unlocked   bool
	UnlockedAt time.Time
	Current    int
}

// Achievements joins the catalog with the unlocked set.
func (e *Engine) Achievements() []AchievementStatus {
	totals := e.state.Totals()
	out := make([]AchievementStatus, 0, len(e.catalog))
	for _, a := range e.catalog {
		st := AchievementStatus{Achievement: a, Current: totals.value(a.Kind)}
		if e.state.IsUnlocked(a.ID) {
			st.Unlocked = true
			st.UnlockedAt = e.state.UnlockedAt[a.ID]
		}
		out = append(out, st)
	}
	return out
}
