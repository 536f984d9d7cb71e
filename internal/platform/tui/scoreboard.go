package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Scoreboard layout constants
const (
	leaderboardSize = 10 // Rows fetched and shown
	nameColWidth    = 16
)

// Scoreboard renders the leaderboard table shown in the menu and after a game.
type Scoreboard struct {
	rows    []Row
	err     bool
	loading bool
	table   table.Model
}

// NewScoreboard creates an empty scoreboard waiting for its first load.
func NewScoreboard() Scoreboard {
	sb := Scoreboard{loading: true}
	sb.table = sb.createTable()
	return sb
}

// createTable creates a new table with appropriate columns.
func (sb *Scoreboard) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: nameColWidth},
		{Title: "Score", Width: 8},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(leaderboardSize+1),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Nothing is selectable; keep the first row unhighlighted.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t
}

// SetLoading marks a refresh in flight.
func (sb *Scoreboard) SetLoading() {
	sb.loading = true
}

// SetRows replaces the shown rows.
func (sb *Scoreboard) SetRows(rows []Row) {
	sb.rows = rows
	sb.err = false
	sb.loading = false
	sb.updateTableRows()
}

// SetError keeps the previous rows and notes the failed refresh.
func (sb *Scoreboard) SetError() {
	sb.err = true
	sb.loading = false
}

// Rows returns the rows currently shown.
func (sb Scoreboard) Rows() []Row {
	return sb.rows
}

// updateTableRows updates the table with current scores.
func (sb *Scoreboard) updateTableRows() {
	rows := make([]table.Row, len(sb.rows))
	for i, r := range sb.rows {
		name := r.Username
		if len(name) > nameColWidth-1 {
			name = name[:nameColWidth-2] + "."
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			name,
			fmt.Sprintf("%d", r.Score),
			r.At.Local().Format("Jan 02 15:04"),
		}
	}
	sb.table.SetRows(rows)
	sb.table.GotoTop()
}

// View renders the table or a status message.
func (sb Scoreboard) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	var body string
	switch {
	case len(sb.rows) > 0:
		body = sb.table.View()
	case sb.loading:
		body = mutedStyle.Render("Loading...")
	case sb.err:
		body = mutedStyle.Render("Leaderboard unavailable.")
	default:
		body = mutedStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	if sb.err && len(sb.rows) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, mutedStyle.Render("(could not refresh)"))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("TOP 10"),
		boxStyle.Render(body),
	)
}
