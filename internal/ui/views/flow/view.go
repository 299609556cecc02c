package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	sessiondto "flowdash/internal/modules/session/dto"
	"flowdash/internal/ui/theme"
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the active session. All mutations go through the app model's
// palette commands; this view only displays state pushed into it.
type Model struct {
	active   *sessiondto.CurrentSessionOutput
	tagName  string
	interval int
	now      time.Time
	width    int
	height   int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetActive replaces the displayed session. nil means idle.
func (m *Model) SetActive(active *sessiondto.CurrentSessionOutput, tagName string) {
	m.active = active
	m.tagName = tagName
}

func (m *Model) SetReminderInterval(minutes int) { m.interval = minutes }

// Tick advances the elapsed display.
func (m *Model) Tick(now time.Time) { m.now = now }

func (m Model) View() string {
	var sb strings.Builder
	if m.active == nil {
		sb.WriteString(theme.Title.Render("No session in flow") + "\n\n")
		sb.WriteString(theme.Muted.Render("Open the palette (:) and run  flow:start <goal> [#tag]") + "\n")
	} else {
		elapsed := m.now.Sub(m.active.StartTime)
		if elapsed < 0 {
			elapsed = 0
		}
		sb.WriteString(theme.Title.Render("In flow") + "\n\n")
		sb.WriteString(theme.Hot.Render(formatElapsed(elapsed)) + "\n\n")
		sb.WriteString(theme.Muted.Render("goal:    ") + m.active.Goal + "\n")
		sb.WriteString(theme.Muted.Render("started: ") + m.active.StartTime.Format("15:04:05") + "\n")
		if m.tagName != "" {
			sb.WriteString(theme.Muted.Render("cycle:   ") + m.tagName + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("flow:complete <score> [shipped] [notes]  ·  flow:cancel"))
	}

	sb.WriteString("\n\n")
	if m.interval > 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("reminder every %d min", m.interval)))
	} else {
		sb.WriteString(theme.Muted.Render("reminders off"))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mins, secs)
}
