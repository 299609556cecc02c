package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "flowdash/internal/modules/analytics/dto"
	notifydomain "flowdash/internal/modules/notify/domain"
	sessiondomain "flowdash/internal/modules/session/domain"
	sessiondto "flowdash/internal/modules/session/dto"
	tagdto "flowdash/internal/modules/tag/dto"
	apperrors "flowdash/internal/platform/errors"
	"flowdash/internal/ui/components"
	"flowdash/internal/ui/theme"
	cyclesview "flowdash/internal/ui/views/cycles"
	flowview "flowdash/internal/ui/views/flow"
	heatmapview "flowdash/internal/ui/views/heatmap"
	timelineview "flowdash/internal/ui/views/timeline"
	trendsview "flowdash/internal/ui/views/trends"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	StartFlow(ctx context.Context, goal, tagID string) (sessiondto.CurrentSessionOutput, error)
	Complete(ctx context.Context, input sessiondto.CompleteInput) (sessiondto.SessionOutput, error)
	Cancel(ctx context.Context) error
	GetActive(ctx context.Context) (sessiondto.CurrentSessionOutput, error)
	List(ctx context.Context) ([]sessiondto.SessionOutput, error)
	Update(ctx context.Context, input sessiondto.UpdateInput) (sessiondto.SessionOutput, error)
	Delete(ctx context.Context, id string) error
	ReminderInterval(ctx context.Context) (int, error)
	SetReminderInterval(ctx context.Context, minutes int) error
	Seed(ctx context.Context, days int, tagIDs []string) (int, error)
}

type tagPort interface {
	Create(ctx context.Context, name string) (tagdto.TagOutput, error)
	List(ctx context.Context) ([]tagdto.TagOutput, error)
}

type analyticsPort interface {
	Summary(ctx context.Context, filter string) (analyticsdto.Summary, error)
	Trend(ctx context.Context, filter string) ([]analyticsdto.TrendBucket, error)
	Bottlenecks(ctx context.Context, filter string) ([]analyticsdto.BottleneckTotal, error)
	Heatmap(ctx context.Context) ([]analyticsdto.HeatmapCell, error)
	Cycles(ctx context.Context) ([]analyticsdto.CycleStats, error)
}

type exportPort interface {
	JSON(ctx context.Context, w io.Writer) error
	CSV(ctx context.Context, w io.Writer) error
}

type notifyPort interface {
	Trigger(ctx context.Context, goal string, elapsedMin int)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabFlow tabID = iota
	tabTimeline
	tabTrends
	tabHeatmap
	tabCycles
	tabCount
)

var tabLabels = [tabCount]string{
	"Flow", "Timeline", "Trends", "Heatmap", "Cycles",
}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active sessiondto.CurrentSessionOutput
	err    error
}

type flowStartedMsg struct {
	active sessiondto.CurrentSessionOutput
	err    error
}

type flowCompletedMsg struct {
	session sessiondto.SessionOutput
	err     error
}

type flowCancelledMsg struct{ err error }

type tagCreatedMsg struct {
	tag tagdto.TagOutput
	err error
}

type intervalLoadedMsg struct {
	minutes int
	err     error
}

type intervalSetMsg struct {
	minutes int
	err     error
}

type seededMsg struct {
	count int
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

// tickMsg drives the elapsed timer. It carries the session id it was armed
// for, so a tick scheduled for a replaced or ended session is discarded.
type tickMsg struct {
	sessionID string
	at        time.Time
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Delete  key.Binding
	Shipped key.Binding
	Filter  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete session")),
		Shipped: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle shipped")),
		Filter:  key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "trend window")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Delete, k.Shipped},
		{k.Filter},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the active flow
// session, the reminder timer, the help overlay, and the command palette. All
// business logic is delegated to port interfaces; all rendering is delegated
// to sub-views.
type Model struct {
	session   sessionPort
	tags      tagPort
	analytics analyticsPort
	export    exportPort
	notify    notifyPort

	flowView     flowview.Model
	timelineView timelineview.Model
	trendsView   trendsview.Model
	heatmapView  heatmapview.Model
	cyclesView   cyclesview.Model

	activeTab    tabID
	keys         keyMap
	help         help.Model
	showHelp     bool
	palette      components.Palette
	active       sessiondto.CurrentSessionOutput
	hasActive    bool
	activeTag    string
	interval     int
	lastReminder time.Time
	status       string
	width        int
	height       int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(session sessionPort, tags tagPort, analytics analyticsPort, export exportPort, notify notifyPort) Model {
	return Model{
		session:      session,
		tags:         tags,
		analytics:    analytics,
		export:       export,
		notify:       notify,
		flowView:     flowview.New(),
		timelineView: timelineview.New(session),
		trendsView:   trendsview.New(analytics),
		heatmapView:  heatmapview.New(analytics),
		cyclesView:   cyclesview.New(analytics),
		activeTab:    tabFlow,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		interval:     sessiondomain.DefaultReminderInterval,
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timelineView.Init(),
		m.trendsView.Init(),
		m.heatmapView.Init(),
		m.cyclesView.Init(),
		m.loadActiveCmd(),
		m.loadIntervalCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open. Ticks still pass through
	// so the timer keeps moving behind the overlay.
	if m.palette.Visible() {
		if tick, ok := msg.(tickMsg); ok {
			return m.handleTick(tick)
		}
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case tickMsg:
		return m.handleTick(msg)

	case activeLoadedMsg:
		if msg.err != nil {
			if msg.err != apperrors.ErrNoActiveSession {
				m.status = "active session check: " + msg.err.Error()
			}
			m.hasActive = false
			m.flowView.SetActive(nil, "")
		} else {
			m.setActive(msg.active)
			m.status = "session recovered: " + msg.active.Goal
			cmds = append(cmds, m.tickCmd(msg.active.ID))
		}

	case flowStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
		} else {
			m.setActive(msg.active)
			m.lastReminder = time.Time{}
			m.status = "in flow: " + msg.active.Goal
			m.activeTab = tabFlow
			cmds = append(cmds, m.tickCmd(msg.active.ID))
		}

	case flowCompletedMsg:
		if msg.err != nil {
			m.status = "complete failed: " + msg.err.Error()
		} else {
			m.clearActive()
			m.status = fmt.Sprintf("recorded %q: %d min", msg.session.Goal, msg.session.LeadTimeMinutes)
			cmds = append(cmds, m.refreshDataCmds()...)
		}

	case flowCancelledMsg:
		if msg.err != nil {
			m.status = "cancel failed: " + msg.err.Error()
		} else {
			m.clearActive()
			m.status = "session discarded"
		}

	case tagCreatedMsg:
		if msg.err != nil {
			m.status = "tag failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("tag %q ready", msg.tag.Name)
			cmds = append(cmds, m.cyclesView.LoadCmd())
		}

	case intervalLoadedMsg:
		if msg.err == nil {
			m.interval = msg.minutes
			m.flowView.SetReminderInterval(msg.minutes)
		}

	case intervalSetMsg:
		if msg.err != nil {
			m.status = "reminder: " + msg.err.Error()
		} else {
			m.interval = msg.minutes
			m.flowView.SetReminderInterval(msg.minutes)
			if msg.minutes == 0 {
				m.status = "reminders off"
			} else {
				m.status = fmt.Sprintf("reminder every %d min", msg.minutes)
			}
		}

	case seededMsg:
		if msg.err != nil {
			m.status = "seed failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("seeded %d sessions", msg.count)
			cmds = append(cmds, m.refreshDataCmds()...)
		}

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.path
		}

	case timelineview.ChangedMsg:
		m.status = "timeline updated"
		cmds = append(cmds, m.refreshDataCmds()...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimeline:
		m.timelineView, tabCmd = m.timelineView.Update(msg)
	case tabTrends:
		m.trendsView, tabCmd = m.trendsView.Update(msg)
	case tabHeatmap:
		m.heatmapView, tabCmd = m.heatmapView.Update(msg)
	case tabCycles:
		m.cyclesView, tabCmd = m.cyclesView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// handleTick advances the elapsed display and fires the reminder when due.
// A tick armed for a session that is no longer active is dropped without
// rescheduling, which retires the old timer chain.
func (m Model) handleTick(tick tickMsg) (tea.Model, tea.Cmd) {
	if !m.hasActive || tick.sessionID != m.active.ID {
		return m, nil
	}
	m.flowView.Tick(tick.at)

	var cmds []tea.Cmd
	elapsed := tick.at.Sub(m.active.StartTime)
	sinceLast := elapsed
	if !m.lastReminder.IsZero() {
		sinceLast = tick.at.Sub(m.lastReminder)
	}
	if notifydomain.ShouldFire(elapsed, sinceLast, m.interval) {
		m.lastReminder = tick.at
		goal := m.active.Goal
		elapsedMin := int(elapsed.Minutes())
		cmds = append(cmds, func() tea.Msg {
			m.notify.Trigger(context.Background(), goal, elapsedMin)
			return nil
		})
	}
	cmds = append(cmds, m.tickCmd(m.active.ID))
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabFlow:
		return m.flowView.View()
	case tabTimeline:
		return m.timelineView.View()
	case tabTrends:
		return m.trendsView.View()
	case tabHeatmap:
		return m.heatmapView.View()
	case tabCycles:
		return m.cyclesView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "flowdash  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasActive {
		left = theme.Hot.Render("● "+m.active.Goal) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch {
	case parts[0] == "flow:start":
		if len(parts) < 2 {
			m.status = "usage: flow:start <goal> [#tag]"
			return m, nil
		}
		goalWords := parts[1:]
		tagName := ""
		if last := goalWords[len(goalWords)-1]; strings.HasPrefix(last, "#") {
			tagName = strings.TrimPrefix(last, "#")
			goalWords = goalWords[:len(goalWords)-1]
		}
		return m, m.startFlowCmd(strings.Join(goalWords, " "), tagName)

	case parts[0] == "flow:complete":
		if len(parts) < 2 {
			m.status = "usage: flow:complete <score> [shipped] [notes]"
			return m, nil
		}
		score, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid score"
			return m, nil
		}
		rest := parts[2:]
		shipped := false
		if len(rest) > 0 && rest[0] == "shipped" {
			shipped = true
			rest = rest[1:]
		}
		return m, m.completeFlowCmd(score, shipped, strings.Join(rest, " "))

	case parts[0] == "flow:cancel":
		return m, m.cancelFlowCmd()

	case parts[0] == "tag:create":
		if len(parts) < 2 {
			m.status = "usage: tag:create <name>"
			return m, nil
		}
		return m, m.createTagCmd(strings.Join(parts[1:], " "))

	case parts[0] == "filter:day" || parts[0] == "filter:week" || parts[0] == "filter:month":
		filter := strings.TrimPrefix(parts[0], "filter:")
		m.activeTab = tabTrends
		return m, m.trendsView.SetFilter(filter)

	case parts[0] == "export:json" || parts[0] == "export:csv":
		format := strings.TrimPrefix(parts[0], "export:")
		path := "flowdash-export." + format
		if len(parts) >= 2 {
			path = parts[1]
		}
		return m, m.exportCmd(format, path)

	case parts[0] == "reminder:off":
		return m, m.setIntervalCmd(0)

	case strings.HasPrefix(parts[0], "reminder:"):
		minutes, err := strconv.Atoi(strings.TrimPrefix(parts[0], "reminder:"))
		if err != nil {
			m.status = "usage: reminder:<minutes>|off"
			return m, nil
		}
		return m, m.setIntervalCmd(minutes)

	case parts[0] == "seed":
		days := 0
		if len(parts) >= 2 {
			if d, err := strconv.Atoi(parts[1]); err == nil {
				days = d
			}
		}
		return m, m.seedCmd(days)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) setActive(active sessiondto.CurrentSessionOutput) {
	m.hasActive = true
	m.active = active
	m.activeTag = active.TagID
	m.flowView.SetActive(&active, m.activeTag)
	m.flowView.Tick(time.Now())
}

func (m *Model) clearActive() {
	m.hasActive = false
	m.active = sessiondto.CurrentSessionOutput{}
	m.flowView.SetActive(nil, "")
}

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	if m.activeTab == tabTimeline {
		return m.timelineView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.flowView.SetSize(m.width, m.height-3)
	m.timelineView, _ = m.timelineView.Update(sz)
	m.trendsView, _ = m.trendsView.Update(sz)
	m.heatmapView, _ = m.heatmapView.Update(sz)
	m.cyclesView, _ = m.cyclesView.Update(sz)
}

// refreshDataCmds reloads every tab that renders the session collection.
func (m Model) refreshDataCmds() []tea.Cmd {
	return []tea.Cmd{
		m.timelineView.LoadCmd(),
		m.trendsView.LoadCmd(),
		m.heatmapView.LoadCmd(),
		m.cyclesView.LoadCmd(),
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) tickCmd(sessionID string) tea.Cmd {
	return tea.Tick(time.Second, func(at time.Time) tea.Msg {
		return tickMsg{sessionID: sessionID, at: at}
	})
}

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.session.GetActive(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) loadIntervalCmd() tea.Cmd {
	return func() tea.Msg {
		minutes, err := m.session.ReminderInterval(context.Background())
		return intervalLoadedMsg{minutes: minutes, err: err}
	}
}

func (m Model) startFlowCmd(goal, tagName string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tagID := ""
		if tagName != "" {
			tag, err := m.tags.Create(ctx, tagName)
			if err != nil {
				return flowStartedMsg{err: err}
			}
			tagID = tag.ID
		}
		active, err := m.session.StartFlow(ctx, goal, tagID)
		return flowStartedMsg{active: active, err: err}
	}
}

func (m Model) completeFlowCmd(score int, shipped bool, notes string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.session.Complete(context.Background(), sessiondto.CompleteInput{
			FlowScore: score,
			Shipped:   shipped,
			// The palette path records an even split; the CLI takes the
			// detailed breakdown.
			Bottleneck: sessiondomain.Bottleneck{Thinking: 25, Coding: 25, Debugging: 25, Waiting: 25},
			Notes:      notes,
		})
		return flowCompletedMsg{session: session, err: err}
	}
}

func (m Model) cancelFlowCmd() tea.Cmd {
	return func() tea.Msg {
		return flowCancelledMsg{err: m.session.Cancel(context.Background())}
	}
}

func (m Model) createTagCmd(name string) tea.Cmd {
	return func() tea.Msg {
		tag, err := m.tags.Create(context.Background(), name)
		return tagCreatedMsg{tag: tag, err: err}
	}
}

func (m Model) setIntervalCmd(minutes int) tea.Cmd {
	return func() tea.Msg {
		err := m.session.SetReminderInterval(context.Background(), minutes)
		return intervalSetMsg{minutes: minutes, err: err}
	}
}

func (m Model) seedCmd(days int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tags, err := m.tags.List(ctx)
		if err != nil {
			return seededMsg{err: err}
		}
		tagIDs := make([]string, 0, len(tags))
		for _, t := range tags {
			tagIDs = append(tagIDs, t.ID)
		}
		count, err := m.session.Seed(ctx, days, tagIDs)
		return seededMsg{count: count, err: err}
	}
}

func (m Model) exportCmd(format, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: err}
		}
		defer f.Close()
		ctx := context.Background()
		if format == "json" {
			err = m.export.JSON(ctx, f)
		} else {
			err = m.export.CSV(ctx, f)
		}
		return exportedMsg{path: path, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
