package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gantry/internal/pharos"
	"github.com/five82/gantry/internal/prefs"
	"github.com/five82/gantry/internal/state"
)

// View identifies a console view.
type View int

const (
	ViewTimelines View = iota
	ViewGroups
	ViewSpaces
	ViewScenes
	ViewTriggers
	ViewLog
)

var viewNames = map[View]string{
	ViewTimelines: "timelines",
	ViewGroups:    "groups",
	ViewSpaces:    "spaces",
	ViewScenes:    "scenes",
	ViewTriggers:  "triggers",
	ViewLog:       "log",
}

var resourceViews = map[pharos.Resource]View{
	pharos.ResourceTimelines: ViewTimelines,
	pharos.ResourceGroups:    ViewGroups,
	pharos.ResourceSpaces:    ViewSpaces,
	pharos.ResourceScenes:    ViewScenes,
	pharos.ResourceTriggers:  ViewTriggers,
}

func (v View) String() string {
	return viewNames[v]
}

// Controller is what the console needs from a controller connection.
type Controller interface {
	Host() string
	Personality() pharos.Personality
	SessionID() string
	Authenticated() bool
	KeepaliveStatus() pharos.KeepaliveStatus
	Timeline(ctx context.Context, action pharos.TimelineAction, num int) error
	Scene(ctx context.Context, action pharos.SceneAction, num int) error
	SetLevel(ctx context.Context, num int, level any) error
	FireTrigger(ctx context.Context, num int) error
}

// Options configures the console.
type Options struct {
	Context    context.Context
	Controller Controller
	Store      *state.Store
	Refresh    func() // requests an immediate dashboard refresh; may be nil
	LogFile    string
	PollTick   time.Duration
	ThemeName  string
	StartView  string
	PrefsPath  string
}

// statusLine is the outcome of the last command, shown in the footer.
type statusLine struct {
	text string
	err  bool
	at   time.Time
}

// Model is the root console state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      Controller
	store     *state.Store
	refresh   func()
	logFile   string
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	theme    Theme
	views    []View
	current  View
	width    int
	height   int
	ready    bool
	showHelp bool

	snapshot state.Snapshot
	selected map[View]int
	status   statusLine

	prompting  bool
	levelInput textinput.Model

	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates the console model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	var personality pharos.Personality
	if opts.Controller != nil {
		personality = opts.Controller.Personality()
	}
	views := viewsFor(personality)

	input := textinput.New()
	input.Placeholder = "0-100"
	input.CharLimit = 6
	input.Prompt = "Level: "

	m := Model{
		ctx:        ctx,
		ctrl:       opts.Controller,
		store:      opts.Store,
		refresh:    opts.Refresh,
		logFile:    opts.LogFile,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.ThemeName),
		views:      views,
		current:    views[0],
		selected:   make(map[View]int),
		levelInput: input,
	}
	if v, ok := m.viewByName(opts.StartView); ok {
		m.current = v
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// viewsFor lists the views in tab order for a personality. The log view is
// always last.
func viewsFor(p pharos.Personality) []View {
	var views []View
	for _, r := range p.Resources() {
		views = append(views, resourceViews[r])
	}
	return append(views, ViewLog)
}

func (m Model) viewByName(name string) (View, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range m.views {
		if v.String() == name {
			return v, true
		}
	}
	return 0, false
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.current == ViewLog {
		cmds = append(cmds, readLogCmd(m.logFile))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.current == ViewLog {
			cmds = append(cmds, readLogCmd(m.logFile))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case logLinesMsg:
		m.setLogLines(msg.lines, msg.err)
		return m, nil

	case actionResultMsg:
		return m.handleActionResult(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.NextView):
		return m.switchView(1)
	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(-1)
	}

	if m.current == ViewLog {
		return m.handleLogKey(msg)
	}
	if cmd, handled := m.moveSelection(msg); handled {
		return m, cmd
	}
	return m.handleActionKey(msg)
}

func (m Model) switchView(step int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, v := range m.views {
		if v == m.current {
			idx = i
			break
		}
	}
	n := len(m.views)
	m.current = m.views[((idx+step)%n+n)%n]
	m.savePrefs()
	if m.current == ViewLog {
		return m, readLogCmd(m.logFile)
	}
	return m, nil
}

func (m Model) moveSelection(msg tea.KeyMsg) (tea.Cmd, bool) {
	count := len(m.rows())
	sel := m.selected[m.current]
	switch {
	case key.Matches(msg, m.keys.Down):
		if sel < count-1 {
			m.selected[m.current] = sel + 1
		}
	case key.Matches(msg, m.keys.Up):
		if sel > 0 {
			m.selected[m.current] = sel - 1
		}
	case key.Matches(msg, m.keys.Top):
		m.selected[m.current] = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected[m.current] = max(count-1, 0)
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) clampSelection() {
	for _, v := range m.views {
		if v == ViewLog {
			continue
		}
		count := len(m.rowsFor(v))
		if m.selected[v] >= count {
			m.selected[v] = max(count-1, 0)
		}
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, StartView: m.current.String()})
}

// renderMain renders header, view tabs, content and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	height := max(m.height-3, 3)
	if m.current == ViewLog {
		return m.renderLog(height)
	}
	return m.renderTable(height)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
