package trends

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "flowdash/internal/modules/analytics/dto"
	"flowdash/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AnalyticsPort interface {
	Summary(ctx context.Context, filter string) (analyticsdto.Summary, error)
	Trend(ctx context.Context, filter string) ([]analyticsdto.TrendBucket, error)
	Bottlenecks(ctx context.Context, filter string) ([]analyticsdto.BottleneckTotal, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Filter      string
	Summary     analyticsdto.Summary
	Buckets     []analyticsdto.TrendBucket
	Bottlenecks []analyticsdto.BottleneckTotal
	Err         error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        AnalyticsPort
	filter      string
	summary     analyticsdto.Summary
	buckets     []analyticsdto.TrendBucket
	bottlenecks []analyticsdto.BottleneckTotal
	err         error
	width       int
	height      int
}

func New(port AnalyticsPort) Model {
	return Model{port: port, filter: "week"}
}

func (m Model) Init() tea.Cmd {
	return m.LoadCmd()
}

func (m Model) Filter() string { return m.filter }

// SetFilter switches the window and returns the reload command.
func (m *Model) SetFilter(filter string) tea.Cmd {
	m.filter = filter
	return m.LoadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LoadedMsg:
		if msg.Filter != m.filter {
			return m, nil
		}
		m.err = msg.Err
		if msg.Err == nil {
			m.summary = msg.Summary
			m.buckets = msg.Buckets
			m.bottlenecks = msg.Bottlenecks
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "1":
			return m, m.SetFilter("day")
		case "2":
			return m, m.SetFilter("week")
		case "3":
			return m, m.SetFilter("month")
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Muted.Render("trends unavailable: " + m.err.Error())
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Sessions", fmt.Sprintf("%d", m.summary.Count)),
		m.card("Hours", fmt.Sprintf("%.1f", m.summary.TotalHours)),
		m.card("Avg score", fmt.Sprintf("%.1f", m.summary.AvgScore)),
		m.card("Ship rate", fmt.Sprintf("%d%%", m.summary.ShipRate)),
	)

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Trends — "+m.filter) + "  " +
		theme.Muted.Render("(1: day  2: week  3: month)") + "\n\n")
	sb.WriteString(cards + "\n\n")
	sb.WriteString(m.renderChart() + "\n")
	sb.WriteString(m.renderBottlenecks())
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) card(label, value string) string {
	return theme.Pane.Render(theme.Muted.Render(label) + "\n" + theme.Hot.Render(value))
}

func (m Model) renderChart() string {
	maxMinutes := 0
	for _, b := range m.buckets {
		if b.TotalMinutes > maxMinutes {
			maxMinutes = b.TotalMinutes
		}
	}
	barWidth := m.width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	var sb strings.Builder
	for _, b := range m.buckets {
		length := 0
		if maxMinutes > 0 {
			length = b.TotalMinutes * barWidth / maxMinutes
		}
		bar := theme.Good.Render(strings.Repeat("█", length))
		best := ""
		if b.Label == m.summary.BestBucketLabel && b.TotalMinutes > 0 {
			best = theme.Hot.Render(" ★")
		}
		sb.WriteString(fmt.Sprintf("%-10s %4d min  %s%s\n", b.Label, b.TotalMinutes, bar, best))
	}
	return sb.String()
}

func (m Model) renderBottlenecks() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Bottlenecks") + "\n")
	for _, t := range m.bottlenecks {
		bar := strings.Repeat("▰", t.Percent/5)
		sb.WriteString(fmt.Sprintf("%-10s %3d%%  %s\n", t.Phase, t.Percent, theme.Muted.Render(bar)))
	}
	return sb.String()
}

func (m Model) LoadCmd() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		ctx := context.Background()
		summary, err := m.port.Summary(ctx, filter)
		if err != nil {
			return LoadedMsg{Filter: filter, Err: err}
		}
		buckets, err := m.port.Trend(ctx, filter)
		if err != nil {
			return LoadedMsg{Filter: filter, Err: err}
		}
		bottlenecks, err := m.port.Bottlenecks(ctx, filter)
		if err != nil {
			return LoadedMsg{Filter: filter, Err: err}
		}
		return LoadedMsg{Filter: filter, Summary: summary, Buckets: buckets, Bottlenecks: bottlenecks}
	}
}
