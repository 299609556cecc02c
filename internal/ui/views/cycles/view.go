package cycles

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "flowdash/internal/modules/analytics/dto"
	"flowdash/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AnalyticsPort interface {
	Cycles(ctx context.Context) ([]analyticsdto.CycleStats, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Cycles []analyticsdto.CycleStats
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type cycleItem struct {
	cycle analyticsdto.CycleStats
}

func (i cycleItem) Title() string { return i.cycle.TagName }

func (i cycleItem) Description() string {
	state := "active"
	if !i.cycle.Active {
		state = "completed"
	}
	return fmt.Sprintf("%s  %d sessions  %d min", state, i.cycle.Count, i.cycle.TotalMin)
}

func (i cycleItem) FilterValue() string { return i.cycle.TagName }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   AnalyticsPort
	list   list.Model
	width  int
	height int
}

func New(port AnalyticsPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Shipping cycles"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.LoadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*4/10, m.height)

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Shipping cycles — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Cycles))
		for i, c := range msg.Cycles {
			items[i] = cycleItem{cycle: c}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Padding(1).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.renderDetail())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(cycleItem)
	if !ok {
		return theme.Muted.Render("Create a tag with tag:create, then attach sessions to it")
	}
	c := item.cycle

	state := theme.Good.Render("active")
	ended := "—"
	if !c.Active {
		state = theme.Muted.Render("completed")
	}
	if !c.EndedAt.IsZero() {
		ended = c.EndedAt.Format("2006-01-02")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(c.TagName) + "  " + state + "\n\n")
	sb.WriteString(theme.Muted.Render("started:  ") + c.StartedAt.Format("2006-01-02") + "\n")
	sb.WriteString(theme.Muted.Render("ended:    ") + ended + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("sessions: "), c.Count))
	sb.WriteString(fmt.Sprintf("%s%d min\n", theme.Muted.Render("total:    "), c.TotalMin))

	if len(c.Sessions) > 0 {
		sb.WriteString("\n" + theme.Title.Render("History") + "\n")
		for _, s := range c.Sessions {
			marker := " "
			if s.Shipped {
				marker = theme.Good.Render("✓")
			}
			sb.WriteString(fmt.Sprintf("%s %s  %d min\n", marker, s.StartTime.Format("01-02 15:04"), s.Minutes))
		}
	}
	return sb.String()
}

func (m Model) LoadCmd() tea.Cmd {
	return func() tea.Msg {
		cycles, err := m.port.Cycles(context.Background())
		return LoadedMsg{Cycles: cycles, Err: err}
	}
}
