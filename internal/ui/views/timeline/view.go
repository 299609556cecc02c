package timeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "flowdash/internal/modules/session/dto"
	"flowdash/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	List(ctx context.Context) ([]sessiondto.SessionOutput, error)
	Update(ctx context.Context, input sessiondto.UpdateInput) (sessiondto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type SessionsLoadedMsg struct {
	Sessions []sessiondto.SessionOutput
	Err      error
}

// ChangedMsg tells the app model that the session collection mutated, so the
// other tabs can refresh.
type ChangedMsg struct{}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
}

func (i sessionItem) Title() string { return i.session.Goal }

func (i sessionItem) Description() string {
	shipped := ""
	if i.session.Shipped {
		shipped = "  shipped"
	}
	return fmt.Sprintf("%s  %d min  score %d%s",
		i.session.EndTime.Format("Mon 02 Jan 15:04"), i.session.LeadTimeMinutes, i.session.FlowScore, shipped)
}

func (i sessionItem) FilterValue() string { return i.session.Goal }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   SessionPort
	list   list.Model
	width  int
	height int
}

func New(port SessionPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Timeline"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
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
		m.resize()

	case SessionsLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Timeline — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Timeline"
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "d":
				if item, ok := m.list.SelectedItem().(sessionItem); ok {
					return m, m.deleteCmd(item.session.ID)
				}
			case "s":
				if item, ok := m.list.SelectedItem().(sessionItem); ok {
					return m, m.toggleShippedCmd(item.session)
				}
			}
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 5 / 10
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

// Filtering reports whether the list's search filter is active, so the app
// model can leave global keys alone.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	m.list.SetSize(listW, m.height)
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("Select a session")
	}
	s := item.session
	shipped := "no"
	if s.Shipped {
		shipped = "yes"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Goal) + "\n\n")
	sb.WriteString(theme.Muted.Render("start:    ") + s.StartTime.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(theme.Muted.Render("end:      ") + s.EndTime.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(fmt.Sprintf("%s%d min\n", theme.Muted.Render("duration: "), s.LeadTimeMinutes))
	sb.WriteString(fmt.Sprintf("%s%d / 5\n", theme.Muted.Render("score:    "), s.FlowScore))
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("breaks:   "), s.Interruptions))
	sb.WriteString(theme.Muted.Render("shipped:  ") + shipped + "\n")
	sb.WriteString(fmt.Sprintf("%sthink %d%% · code %d%% · debug %d%% · wait %d%%\n",
		theme.Muted.Render("split:    "),
		s.Bottleneck.Thinking, s.Bottleneck.Coding, s.Bottleneck.Debugging, s.Bottleneck.Waiting))
	if s.TagID != "" {
		sb.WriteString(theme.Muted.Render("cycle:    ") + s.TagID + "\n")
	}
	if s.Notes != "" {
		sb.WriteString("\n" + s.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("d: delete  s: toggle shipped"))
	return sb.String()
}

func (m Model) LoadCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.List(context.Background())
		return SessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.port.Delete(context.Background(), id); err != nil {
			return SessionsLoadedMsg{Err: err}
		}
		return ChangedMsg{}
	}
}

func (m Model) toggleShippedCmd(session sessiondto.SessionOutput) tea.Cmd {
	return func() tea.Msg {
		shipped := !session.Shipped
		patch := sessiondto.UpdateInput{ID: session.ID, Shipped: &shipped}
		if _, err := m.port.Update(context.Background(), patch); err != nil {
			return SessionsLoadedMsg{Err: err}
		}
		return ChangedMsg{}
	}
}
