package tui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/arena"
	"github.com/vovakirdan/serpent-arena/internal/core"
)

// Palette lists the selectable snake colors in menu order.
var Palette = []string{"#39ff14", "#ff1aff", "#00eaff", "#ffe600", "#ff6b6b", "#7c3aed"}

type menuField int

const (
	fieldName menuField = iota
	fieldColor
	fieldStyle
	fieldCount
)

const (
	requestTimeout = 5 * time.Second
	maxUsernameLen = 24
)

// Notices shown in the menu.
const (
	noticeNeedName     = "Enter a username to play."
	noticeSignInFailed = "Could not sign in. Please try again."
)

// Options configures an App.
type Options struct {
	Backend  Backend
	Settings arena.Settings

	// Seed fixes the RNG of every game. Zero seeds from the clock.
	Seed int64

	// Username, Color and Style prefill the menu.
	Username string
	Color    string
	Style    arena.Style

	// Profile remembers the last menu choice. Nil disables it.
	Profile *ProfileFile

	Logger *log.Logger

	Width  int
	Height int
}

type signedInMsg struct {
	player Player
	err    error
}

type leaderboardMsg struct {
	rows []Row
	err  error
}

type scoreSubmittedMsg struct {
	game int
	err  error
}

// App is the top-level Bubble Tea model: menu -> playing -> game over.
type App struct {
	opts    Options
	backend Backend
	logger  *log.Logger
	keys    KeyMap
	help    help.Model
	life    arena.Lifecycle
	width   int
	height  int

	// Menu
	name      textinput.Model
	focus     menuField
	colorIdx  int
	styleIdx  int
	notice    string
	signingIn bool
	player    Player
	board     Scoreboard

	// Current game; game numbers drop ticks of earlier games
	game         int
	session      *arena.Session
	style        arena.Style
	screen       *core.Screen
	submitStatus string

	quitting bool
}

// NewApp creates the app in the menu phase.
func NewApp(opts Options) App {
	if opts.Settings.TickPeriod <= 0 {
		opts.Settings = arena.DefaultSettings()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxUsernameLen
	ti.Width = maxUsernameLen
	ti.Prompt = "> "
	ti.SetValue(opts.Username)
	ti.Focus()

	colorIdx := max(slices.Index(Palette, strings.ToLower(opts.Color)), 0)
	styleIdx := max(slices.Index(arena.Styles, opts.Style), 0)

	h := help.New()
	h.Width = opts.Width

	return App{
		opts:     opts,
		backend:  opts.Backend,
		logger:   opts.Logger,
		keys:     DefaultKeyMap(),
		help:     h,
		width:    opts.Width,
		height:   opts.Height,
		name:     ti,
		colorIdx: colorIdx,
		styleIdx: styleIdx,
		board:    NewScoreboard(),
		screen:   core.NewScreen(max(opts.Width, 1), max(opts.Height-1, 1)),
	}
}

// Init starts the cursor blink and the first leaderboard load.
func (m App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadLeaderboard())
}

// Update handles messages and updates the model state.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(max(msg.Width, 1), max(msg.Height-1, 1))
		return m, nil

	case tea.KeyMsg:
		switch m.life.Phase() {
		case arena.PhasePlaying:
			return m.handlePlayingKey(msg)
		case arena.PhaseGameOver:
			return m.handleGameOverKey(msg)
		default:
			return m.handleMenuKey(msg)
		}

	case TickMsg:
		return m.handleTick(msg)

	case GraceMsg:
		return m.handleGrace(msg)

	case signedInMsg:
		return m.handleSignedIn(msg)

	case leaderboardMsg:
		if msg.err != nil {
			m.logger.Warn("cannot load leaderboard", "error", msg.err)
			m.board.SetError()
		} else {
			m.board.SetRows(msg.rows)
		}
		return m, nil

	case scoreSubmittedMsg:
		if msg.game != m.game {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("cannot submit score", "user", m.player.Username, "error", msg.err)
			m.submitStatus = "Score not saved."
		} else {
			m.submitStatus = "Score saved."
		}
		m.board.SetLoading()
		return m, m.loadLeaderboard()
	}

	if m.life.Phase() == arena.PhaseMenu && m.focus == fieldName {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m App) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Play):
		if m.signingIn {
			return m, nil
		}
		name := strings.TrimSpace(m.name.Value())
		if name == "" {
			m.notice = noticeNeedName
			return m, nil
		}
		m.notice = ""
		m.signingIn = true
		return m, m.signIn(name, Palette[m.colorIdx], string(arena.Styles[m.styleIdx]))

	case key.Matches(msg, m.keys.NextField):
		return m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.PrevField):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	switch m.focus {
	case fieldColor:
		m.colorIdx = cycle(m.colorIdx, len(Palette), m.optionStep(msg))
	case fieldStyle:
		m.styleIdx = cycle(m.styleIdx, len(arena.Styles), m.optionStep(msg))
	default:
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// optionStep returns -1, 0 or 1 for the left/right option keys.
func (m App) optionStep(msg tea.KeyMsg) int {
	switch {
	case key.Matches(msg, m.keys.Prev):
		return -1
	case key.Matches(msg, m.keys.Next):
		return 1
	}
	return 0
}

func cycle(i, n, step int) int {
	return (i + step + n) % n
}

func (m App) setFocus(f menuField) (tea.Model, tea.Cmd) {
	m.focus = f
	if f == fieldName {
		return m, m.name.Focus()
	}
	m.name.Blur()
	return m, nil
}

func (m App) handleSignedIn(msg signedInMsg) (tea.Model, tea.Cmd) {
	m.signingIn = false
	if msg.err != nil {
		m.logger.Warn("sign in failed", "error", msg.err)
		m.notice = noticeSignInFailed
		return m, nil
	}

	m.player = msg.player
	if m.opts.Profile != nil {
		p := Profile{Username: msg.player.Username, Color: Palette[m.colorIdx], Style: string(arena.Styles[m.styleIdx])}
		if err := m.opts.Profile.Save(p); err != nil {
			m.logger.Warn("cannot save profile", "error", err)
		}
	}
	return m.startGame()
}

// startGame begins a fresh session from the menu or game over.
func (m App) startGame() (tea.Model, tea.Cmd) {
	if err := m.life.Start(); err != nil {
		return m, nil
	}
	m.name.Blur()
	m.game++
	m.style = arena.Styles[m.styleIdx]
	m.session = arena.NewSession(m.opts.Settings, Palette[m.colorIdx], m.opts.Seed)
	m.submitStatus = ""
	m.logger.Info("game started", "user", m.player.Username, "game", m.game)
	return m, tickCmd(m.game, m.opts.Settings.TickPeriod)
}

func (m App) handlePlayingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.End):
		if m.session.End() {
			return m, graceCmd(m.game, m.opts.Settings.EndGrace)
		}
		return m, nil
	}

	if d, ok := m.keys.Steer(msg); ok {
		m.session.Steer(d)
	}
	return m, nil
}

// handleTick advances the current game by one step.
func (m App) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Game != m.game || m.life.Phase() != arena.PhasePlaying || !m.session.Running() {
		return m, nil
	}

	out := m.session.Advance()
	if out.PlayerDead {
		return m, graceCmd(m.game, m.opts.Settings.DeathGrace)
	}
	return m, tickCmd(m.game, m.opts.Settings.TickPeriod)
}

// handleGrace moves to game over and submits the final score.
func (m App) handleGrace(msg GraceMsg) (tea.Model, tea.Cmd) {
	if msg.Game != m.game || m.life.Phase() != arena.PhasePlaying {
		return m, nil
	}

	score := m.session.Score()
	if err := m.life.Finish(score); err != nil {
		return m, nil
	}
	m.logger.Info("game over", "user", m.player.Username, "score", score, "reason", m.session.Snapshot().Reason)
	m.submitStatus = "Saving score..."
	return m, m.submitScore(m.game, m.player.ID, score)
}

func (m App) handleGameOverKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Restart):
		return m.startGame()

	case key.Matches(msg, m.keys.Menu):
		if err := m.life.Menu(); err != nil {
			return m, nil
		}
		return m.setFocus(fieldName)
	}
	return m, nil
}

func (m App) signIn(username, color, style string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		p, err := backend.SignIn(ctx, username, color, style)
		return signedInMsg{player: p, err: err}
	}
}

func (m App) loadLeaderboard() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rows, err := backend.Leaderboard(ctx, leaderboardSize)
		return leaderboardMsg{rows: rows, err: err}
	}
}

func (m App) submitScore(game int, userID string, score int) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return scoreSubmittedMsg{game: game, err: backend.SubmitScore(ctx, userID, score)}
	}
}

// Phase returns the lifecycle phase.
func (m App) Phase() arena.Phase {
	return m.life.Phase()
}

// View renders the current phase.
func (m App) View() string {
	if m.quitting {
		return ""
	}

	switch m.life.Phase() {
	case arena.PhasePlaying:
		arena.Render(m.session.Snapshot(), m.style, m.screen)
		return RenderScreen(m.screen) + "\n" + m.helpView()
	case arena.PhaseGameOver:
		return m.place(m.gameOverView())
	default:
		return m.place(m.menuView())
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39ff14"))
	labelStyle  = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	activeLabel = labelStyle.Foreground(lipgloss.Color("229")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	scoreStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(string(core.ColorFood)))
)

func (m App) label(f menuField, text string) string {
	if m.focus == f {
		return activeLabel.Render(text)
	}
	return labelStyle.Render(text)
}

func (m App) menuView() string {
	var swatches []string
	for i, c := range Palette {
		block := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("██")
		if i == m.colorIdx {
			block = "[" + block + "]"
		} else {
			block = " " + block + " "
		}
		swatches = append(swatches, block)
	}

	style := arena.Styles[m.styleIdx].Label()
	if m.focus == fieldStyle {
		style = "< " + style + " >"
	} else {
		style = "  " + style + "  "
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		m.label(fieldName, "Username")+m.name.View(),
		m.label(fieldColor, "Color")+strings.Join(swatches, ""),
		m.label(fieldStyle, "Style")+style,
	)

	status := ""
	switch {
	case m.signingIn:
		status = mutedStyle.Render("Signing in...")
	case m.notice != "":
		status = noticeStyle.Render(m.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("S E R P E N T   A R E N A"),
		"",
		form,
		status,
		"",
		m.board.View(),
		"",
		m.helpView(),
	)
}

func (m App) gameOverView() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("G A M E   O V E R"),
		"",
		scoreStyle.Render(fmt.Sprintf("%s scored %d", m.player.Username, m.life.Score())),
		mutedStyle.Render(m.submitStatus),
		"",
		m.board.View(),
		"",
		m.helpView(),
	)
}

func (m App) helpView() string {
	return m.help.View(phaseHelp{keys: m.keys, phase: m.life.Phase()})
}

// place centers content when the window size is known.
func (m App) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// Run starts the Bubble Tea program with a new app.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewApp(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)
	_, err := p.Run()
	return err
}
