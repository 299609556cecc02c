package heatmap

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	analyticsdto "flowdash/internal/modules/analytics/dto"
	"flowdash/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AnalyticsPort interface {
	Heatmap(ctx context.Context) ([]analyticsdto.HeatmapCell, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Cells []analyticsdto.HeatmapCell
	Err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port  AnalyticsPort
	cells []analyticsdto.HeatmapCell
	err   error
}

func New(port AnalyticsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.LoadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(LoadedMsg); ok {
		m.err = msg.Err
		if msg.Err == nil {
			m.cells = msg.Cells
		}
	}
	return m, nil
}

// View renders the 365 cells as a GitHub-style grid: one row per weekday,
// one column per week, oldest week leftmost.
func (m Model) View() string {
	if m.err != nil {
		return theme.Muted.Render("heatmap unavailable: " + m.err.Error())
	}
	if len(m.cells) == 0 {
		return theme.Muted.Render("no activity yet")
	}

	// Column index is the week offset; row index is Monday=0..Sunday=6.
	const columns = 53
	grid := make([][]int, 7)
	for i := range grid {
		grid[i] = make([]int, columns)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}
	firstWeekday := mondayIndex(m.cells[0].Date.Weekday())
	for i, cell := range m.cells {
		offset := firstWeekday + i
		col := offset / 7
		row := offset % 7
		if col < columns {
			grid[row][col] = cell.Intensity
		}
	}

	active := 0
	total := 0
	for _, cell := range m.cells {
		if cell.Minutes > 0 {
			active++
		}
		total += cell.Minutes
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Last 365 days") + "\n\n")
	labels := []string{"Mon", "", "Wed", "", "Fri", "", "Sun"}
	for row := 0; row < 7; row++ {
		sb.WriteString(fmt.Sprintf("%-4s", labels[row]))
		for col := 0; col < columns; col++ {
			switch v := grid[row][col]; v {
			case -1:
				sb.WriteString(" ")
			default:
				sb.WriteString(theme.HeatLevels[v].Render("■"))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d active days · %.0f hours total", active, float64(total)/60)))
	sb.WriteString("  " + theme.Muted.Render("less "))
	for i := 0; i < 5; i++ {
		sb.WriteString(theme.HeatLevels[i].Render("■"))
	}
	sb.WriteString(theme.Muted.Render(" more"))
	return sb.String()
}

func (m Model) LoadCmd() tea.Cmd {
	return func() tea.Msg {
		cells, err := m.port.Heatmap(context.Background())
		return LoadedMsg{Cells: cells, Err: err}
	}
}

func mondayIndex(d time.Weekday) int {
	// time.Weekday counts from Sunday; the grid starts rows at Monday.
	return (int(d) + 6) % 7
}
