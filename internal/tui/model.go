// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicatch/internal/model"
	"github.com/verte-zerg/tuicatch/internal/session"
	statsPkg "github.com/verte-zerg/tuicatch/internal/stats"
)

type tickMsg struct {
	gen int
	at  time.Time
}

type timeoutMsg struct {
	gen int
	at  time.Time
}

// Model implements the Bubble Tea game UI.
type Model struct {
	config  model.Config
	session *session.Session
	ledger  session.Ledger
	logger  zerolog.Logger
	keys    keyMap
	now     func() time.Time

	width  int
	height int

	summary     table.Model
	summaryHead []string
	hasSummary  bool
}

var (
	caughtStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6CC644"))
	letterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	catchLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	typedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	frameStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs the game UI around a session that has not started yet.
func NewModel(cfg model.Config, sess *session.Session, ledger session.Ledger, logger zerolog.Logger) *Model {
	return &Model{
		config:  cfg,
		session: sess,
		ledger:  ledger,
		logger:  logger,
		keys:    defaultKeyMap(),
		now:     time.Now,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.handle(m.session.Start(m.now()))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handle(m.session.Tick(msg.gen, msg.at))
	case timeoutMsg:
		return m, m.handle(m.session.Timeout(msg.gen, msg.at))
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.session.Stop()
		return tea.Quit
	}
	if m.session.Phase() == session.PhaseStopped {
		if key.Matches(msg, m.keys.Close) {
			return tea.Quit
		}
		var cmd tea.Cmd
		m.summary, cmd = m.summary.Update(msg)
		return cmd
	}
	if key.Matches(msg, m.keys.End) {
		if m.session.Stop() {
			m.loadSummary()
		}
		return nil
	}
	if key.Matches(msg, m.keys.Ignore) || msg.Type != tea.KeyRunes {
		return nil
	}
	var cmds []tea.Cmd
	for _, r := range msg.Runes {
		cmds = append(cmds, m.handle(m.session.Key(r, m.now())))
	}
	return tea.Batch(cmds...)
}

// handle arms the timers a session event asked for.
func (m *Model) handle(req session.Request) tea.Cmd {
	if req.Stopped {
		m.loadSummary()
		return nil
	}
	var cmds []tea.Cmd
	if req.Tick {
		cmds = append(cmds, tickCmd(m.config.TickInterval, req.Gen))
	}
	if req.Timeout > 0 {
		cmds = append(cmds, timeoutCmd(req.Timeout, req.Gen))
	}
	return tea.Batch(cmds...)
}

func tickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func timeoutCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return timeoutMsg{gen: gen, at: t}
	})
}

func (m *Model) loadSummary() {
	m.hasSummary = false
	score := m.session.Score()
	diff := m.session.Difficulty()
	m.summaryHead = []string{
		"Session over: " + m.session.EndReason(),
		fmt.Sprintf("Rounds %d · Level %d · Score %d", diff.CompletedWords, diff.Level(), score),
	}
	if m.ledger == nil {
		return
	}
	rounds, err := m.ledger.ListRounds(context.Background())
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to load rounds")
		return
	}
	rows := make([]table.Row, 0, len(rounds))
	for i, r := range rounds {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			r.Word,
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.ErrorCount),
			fmt.Sprintf("%d", r.MissedLetters),
			statsPkg.Feedback(statsPkg.Classify(r.ErrorCount, r.MissedLetters)).String(),
		})
	}
	height := len(rows) + 1
	if height > 12 {
		height = 12
	}
	m.summary = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Word", Width: 14},
			{Title: "Level", Width: 5},
			{Title: "Errors", Width: 6},
			{Title: "Missed", Width: 6},
			{Title: "Feedback", Width: 48},
		}),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	m.hasSummary = true
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.session.Phase() == session.PhaseStopped {
		content = m.renderSummary()
	} else {
		content = m.renderGame()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderGame() string {
	f := m.session.Frame(m.now())
	board := frameStyle.Render(strings.Join(renderRows(f.Rows), "\n"))

	lines := []string{board, "", renderProgress(f.Target, f.Typed)}
	if f.Feedback != "" {
		style := pendingStyle
		if f.Feedback != "Caught!" {
			style = errorStyle
		}
		lines = append(lines, style.Render(f.Feedback))
	}
	for _, n := range f.Notice {
		lines = append(lines, noticeStyle.Render(n))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderSummary() string {
	lines := make([]string, 0, len(m.summaryHead)+2)
	for _, h := range m.summaryHead {
		lines = append(lines, noticeStyle.Render(h))
	}
	if m.hasSummary {
		lines = append(lines, "", m.summary.View())
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFooter() string {
	if m.session.Phase() == session.PhaseStopped {
		return footerStyle.Render("q quit")
	}
	f := m.session.Frame(m.now())
	segments := []string{
		fmt.Sprintf("Round %d", f.Round),
		fmt.Sprintf("Level %d (%d letters)", f.Level, f.WordLength),
		fmt.Sprintf("Errors %d", f.Errors),
		fmt.Sprintf("Missed %d", f.Missed),
	}
	if f.Timed {
		segments = append(segments, fmt.Sprintf("%s left", formatRemaining(f.Remaining)))
	}
	segments = append(segments, "esc end")
	return footerStyle.Render(strings.Join(segments, " · "))
}

func formatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
