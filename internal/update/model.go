package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/flowstate/internal/config"
	"github.com/sandeepkv93/flowstate/internal/logging"
	"github.com/sandeepkv93/flowstate/internal/scheduler"
	"github.com/sandeepkv93/flowstate/internal/workspace"
)

type View string

const (
	ViewTasks View = "Tasks"
	ViewFocus View = "Focus"
	ViewStats View = "Stats"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks string
	Focus string
	Stats string
	Help  string
	Quit  string
}

type Model struct {
	CurrentView   View
	Tasks         TasksState
	Focus         FocusState
	Scheduler     *scheduler.Engine
	AlertLog      []scheduler.DueAlert
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	ws        *workspace.Workspace
	ctx       context.Context
	cfg       config.Config
	log       *slog.Logger
	dueAlerts bool
	// alerted holds alert keys already delivered so replanning does not
	// repeat them.
	alerted map[string]bool

	quickAddInput  textinput.Model
	commandInput   textinput.Model
	focusProgress  progress.Model
	levelProgress  progress.Model
	focusSpinner   spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
}

type TasksState struct {
	Cursor int
	Adding bool
}

type FocusPhase string

const (
	FocusPhaseWork  FocusPhase = "work"
	FocusPhaseBreak FocusPhase = "break"
)

type FocusState struct {
	WorkMinutes       int
	BreakMinutes      int
	RemainingSec      int
	Running           bool
	Phase             FocusPhase
	SessionsCompleted int
	// TickID tags the live countdown chain. Ticks carrying any other id are
	// stale and dropped.
	TickID int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct {
	ID int
}

type DueAlertMsg struct {
	Alert scheduler.DueAlert
}

// NewModel builds the TUI over an opened workspace. The context bounds every
// persistence call the model makes.
func NewModel(ctx context.Context, ws *workspace.Workspace, cfg config.Config) Model {
	work := cfg.FocusMinutes
	if !config.ValidFocusMinutes(work) {
		work = 25
	}
	brk := cfg.BreakMinutes
	if brk <= 0 {
		brk = 5
	}
	m := Model{
		CurrentView: ViewTasks,
		Focus: FocusState{
			WorkMinutes:  work,
			BreakMinutes: brk,
			RemainingSec: work * 60,
			Phase:        FocusPhaseWork,
		},
		Keys: GlobalKeyMap{
			Tasks: "1",
			Focus: "2",
			Stats: "3",
			Help:  "?",
			Quit:  "q",
		},
		ws:        ws,
		ctx:       ctx,
		cfg:       cfg,
		log:       logging.Discard(),
		dueAlerts: cfg.DueAlerts,
		alerted:   make(map[string]bool),
	}
	m.initBubbleComponents()
	return m
}

// WithScheduler attaches the due-date alert engine and plans alerts for the
// current tasks.
func (m Model) WithScheduler(engine *scheduler.Engine) Model {
	m.Scheduler = engine
	m.replanAlerts()
	return m
}

func (m Model) WithLogger(l *slog.Logger) Model {
	if l != nil {
		m.log = l
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.Placeholder = "Pay rent tomorrow !high"
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.levelProgress = progress.New(progress.WithGradient("#f59e0b", "#22c55e"), progress.WithWidth(30))

	m.focusSpinner = spinner.New()
	m.focusSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(40, 10)
}
