package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/editor"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
	"github.com/five82/framegrid/internal/prefs"
	"github.com/five82/framegrid/internal/state"
)

const (
	frameInterval  = 16 * time.Millisecond
	statusInterval = time.Second
	logTailLines   = 400
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *state.Store
	Subscription *state.Subscription
	Submitter    commit.Submitter
	Failures     func() int64
	Board        editor.Board
	Prefs        prefs.Prefs
	PrefsPath    string
	PrefsUpdates <-chan prefs.Prefs
	LogPath      string
	Logger       *slog.Logger
}

// appKeys are the bindings owned by the shell rather than the editor.
type appKeys struct {
	Quit        key.Binding
	Help        key.Binding
	Logs        key.Binding
	Orientation key.Binding
	Theme       key.Binding
}

func defaultAppKeys() appKeys {
	return appKeys{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+q"), key.WithHelp("q", "Quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Help")),
		Logs:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "Log")),
		Orientation: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Orientation")),
		Theme:       key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "Theme")),
	}
}

func (k appKeys) bindings() []key.Binding {
	return []key.Binding{k.Orientation, k.Theme, k.Logs, k.Help, k.Quit}
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	sub       *state.Subscription
	failures  func() int64
	prefsPath string
	prefsCh   <-chan prefs.Prefs
	logPath   string
	logger    *slog.Logger

	engine *editor.Engine
	mouse  *mouse.Handler
	prefs  prefs.Prefs
	keys   appKeys

	theme   Theme
	width   int
	height  int
	ready   bool
	scroll  mouse.Point
	ticking bool

	snapshot state.Snapshot

	input textinput.Model
	help  help.Model

	showHelp bool
	showLogs bool
	logView  viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	failures := opts.Failures
	if failures == nil {
		failures = func() int64 { return 0 }
	}
	board := opts.Board
	if board == nil {
		board = editor.DefaultBoard()
	}

	handler := mouse.NewHandler()
	p := opts.Prefs
	engine := editor.New(grid.Grid{}, editor.Options{
		Submitter:     opts.Submitter,
		Board:         board,
		Logger:        logger,
		Capture:       handler.Capture,
		Orientation:   editor.ParseOrientation(p.Orientation),
		Snap:          p.Snap,
		PixelsPerBeat: p.PixelsPerBeat,
		Language:      p.DefaultLanguage,
	})

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 256

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		sub:       opts.Subscription,
		failures:  failures,
		prefsPath: opts.PrefsPath,
		prefsCh:   opts.PrefsUpdates,
		logPath:   opts.LogPath,
		logger:    logger,
		engine:    engine,
		mouse:     handler,
		prefs:     p,
		keys:      defaultAppKeys(),
		theme:     GetTheme(p.Theme),
		input:     input,
		help:      help.New(),
		logView:   viewport.New(0, 0),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Engine exposes the interaction engine, mainly for tests.
func (m Model) Engine() *editor.Engine {
	return m.engine
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{statusTickCmd()}
	if m.sub != nil {
		cmds = append(cmds, waitForChangesCmd(m.ctx, m.sub))
	}
	if m.prefsCh != nil {
		cmds = append(cmds, waitForPrefsCmd(m.ctx, m.prefsCh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.logView.Width = max(msg.Width-6, 10)
		m.logView.Height = max(msg.Height-6, 3)
		m.ensureFocusVisible()
		return m, nil

	case changesMsg:
		m.engine.Apply(msg...)
		if m.store != nil {
			m.snapshot = m.store.Snapshot()
		}
		m.syncInput()
		return m, waitForChangesCmd(m.ctx, m.sub)

	case subscriptionClosedMsg:
		if !errors.Is(msg.err, context.Canceled) && !errors.Is(msg.err, state.ErrClosed) {
			m.logger.Warn("mirror subscription ended", "error", msg.err)
		}
		return m, nil

	case prefsMsg:
		m.applyPrefs(prefs.Prefs(msg))
		return m, waitForPrefsCmd(m.ctx, m.prefsCh)

	case frameTickMsg:
		m.engine.FrameTick()
		if m.mouse.Capture.Held() {
			return m, frameTickCmd()
		}
		m.ticking = false
		return m, nil

	case statusTickMsg:
		if m.store != nil {
			m.snapshot = m.store.Snapshot()
		}
		if m.showLogs {
			m.refreshLogs()
		}
		return m, statusTickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		switch {
		case key.Matches(msg, m.keys.Logs), msg.String() == "esc":
			m.showLogs = false
			return m, nil
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	if m.engine.Mode() == editor.ModeEditing {
		if m.engine.HandleKey(msg) {
			m.syncInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.engine.UpdateDraft(m.input.Value())
		return m, cmd
	}

	if m.engine.Mode() == editor.ModeIdle {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.engine.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Logs):
			m.showLogs = true
			m.refreshLogs()
			m.logView.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keys.Orientation):
			next := editor.Horizontal
			if m.engine.Orientation() == editor.Horizontal {
				next = editor.Vertical
			}
			m.engine.SetOrientation(next)
			m.prefs.Orientation = next.String()
			m.scroll = mouse.Point{}
			m.savePrefs()
			m.ensureFocusVisible()
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			m.prefs.Theme = m.theme.Name
			m.savePrefs()
			return m, nil
		}
	}

	m.engine.HandleKey(msg)
	cmd := m.syncInput()
	m.ensureFocusVisible()
	return m, cmd
}

// syncInput mirrors the engine's draft into the text input.
func (m *Model) syncInput() tea.Cmd {
	_, _, value, ok := m.engine.Draft()
	if !ok {
		m.input.Blur()
		m.input.SetValue("")
		return nil
	}
	if m.input.Focused() {
		return nil
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) applyPrefs(p prefs.Prefs) {
	m.prefs = p
	m.theme = GetTheme(p.Theme)
	m.engine.SetOrientation(editor.ParseOrientation(p.Orientation))
	m.engine.SetSnap(p.Snap)
	m.engine.SetPixelsPerBeat(p.PixelsPerBeat)
	m.engine.SetLanguage(p.DefaultLanguage)
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

// bodyTop is the screen row of the first grid row.
const bodyTop = 1

func (m Model) bodyRect() mouse.Rect {
	return mouse.Rect{X: 0, Y: bodyTop, W: m.width, H: max(m.height-bodyTop-2, 0)}
}

// origin maps content coordinates to screen coordinates.
func (m Model) origin() mouse.Point {
	return mouse.Point{X: -m.scroll.X, Y: bodyTop - m.scroll.Y}
}

func (m Model) geometry() geometry {
	var preview func(grid.Cell) (float64, bool)
	if c, d, ok := m.engine.ResizePreview(); ok {
		preview = func(x grid.Cell) (float64, bool) { return d, x == c }
	}
	return computeGeometry(m.engine.Grid(), m.engine.Orientation(), m.prefs.PixelsPerBeat, preview)
}

// ensureFocusVisible scrolls so the focused frame is inside the body.
func (m *Model) ensureFocusVisible() {
	focus, ok := m.engine.Focus()
	if !ok {
		return
	}
	b, ok := m.geometry().box(focus)
	if !ok {
		return
	}
	body := m.bodyRect()
	r := b.rect
	if r.Y < m.scroll.Y {
		m.scroll.Y = r.Y
	} else if r.Y+r.H > m.scroll.Y+body.H {
		m.scroll.Y = max(r.Y+r.H-body.H, 0)
	}
	if r.X < m.scroll.X {
		m.scroll.X = r.X
	} else if r.X+r.W > m.scroll.X+body.W {
		m.scroll.X = max(r.X+r.W-body.W, 0)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	left := styles.Logo.Render("framegrid")
	info := styles.MutedText.Render(
		" " + m.engine.Orientation().String() +
			" · snap " + formatFloat(m.prefs.Snap) +
			" · " + m.theme.Name)
	return styles.Header.Width(m.width).Render(fitWidth(left+info, max(m.width-2, 0)))
}

// renderBody draws the grid and rebuilds the hit map to match it.
func (m Model) renderBody() string {
	body := m.bodyRect()
	geo := m.geometry()
	origin := m.origin()
	geo.register(m.mouse.HitMap, origin, body)

	var marq *mouse.Rect
	if r, ok := m.engine.MarqueeRect(); ok {
		c := mouse.Rect{X: r.X - origin.X, Y: r.Y - origin.Y, W: r.W, H: r.H}
		marq = &c
	}

	cv := newCanvas(body.W, body.H)
	if m.engine.Grid().LineCount() == 0 {
		msg := "waiting for the grid…"
		if m.snapshot.HasGrid {
			msg = "the grid is empty: press i to add a frame"
		}
		cv.text(2, 1, body.W-2, msg, paintLabel)
	}
	drawGrid(cv, geo, m.engine, mouse.Point{X: origin.X - body.X, Y: origin.Y - body.Y}, marq)
	return cv.render(paintStyles(m.theme))
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	parts := statusSegments(m.engine, m.snapshot, m.failures())
	line := strings.Join(parts, "  │  ")
	style := styles.Footer
	if m.snapshot.IsOffline() {
		style = style.Foreground(lipgloss.Color(m.theme.Danger))
	}
	return style.Width(m.width).Render(fitWidth(line, max(m.width-2, 0)))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if field, cell, _, ok := m.engine.Draft(); ok {
		label := field.String()
		if cell.IsLineScoped() {
			label += " " + lineLabel(cell.Line)
		} else {
			label += " " + cell.String()
		}
		prompt := styles.AccentText.Render(label + " › ")
		return fitWidth(prompt+m.input.View(), m.width)
	}
	bindings := append(m.engine.KeyMap().ShortHelp(), m.keys.bindings()...)
	return fitWidth(m.help.ShortHelpView(bindings), m.width)
}

// Messages

type changesMsg []state.Change

type subscriptionClosedMsg struct{ err error }

type prefsMsg prefs.Prefs

type frameTickMsg time.Time

type statusTickMsg time.Time

// Commands

func waitForChangesCmd(ctx context.Context, sub *state.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		changes, err := sub.Next(ctx)
		if err != nil {
			return subscriptionClosedMsg{err: err}
		}
		return changesMsg(changes)
	}
}

func waitForPrefsCmd(ctx context.Context, ch <-chan prefs.Prefs) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-ch:
			if !ok {
				return nil
			}
			return prefsMsg(p)
		}
	}
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func statusTickCmd() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
