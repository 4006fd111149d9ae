// Package tui renders the live dashboard view: a fixed-interval poll that
// re-derives the checklist and reminder state and repaints.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/halcyonlegal/casefile/internal/cli"
	"github.com/halcyonlegal/casefile/internal/dashboard"
	"github.com/halcyonlegal/casefile/internal/model"
	"github.com/halcyonlegal/casefile/internal/reminder"
)

// DefaultPollInterval is how often the watch view re-reads the store.
const DefaultPollInterval = 5 * time.Second

type tickMsg time.Time

type snapshotMsg struct {
	err       error
	snap      dashboard.Snapshot
	checklist dashboard.Checklist
}

// DashboardModel is the bubbletea model for `casefile dashboard --watch`.
type DashboardModel struct {
	agg       *dashboard.Aggregator
	prev      *model.ReminderState
	err       error
	notices   []string
	snap      dashboard.Snapshot
	checklist dashboard.Checklist
	progress  progress.Model
	interval  time.Duration
	loaded    bool
}

// NewDashboardModel creates the watch model.
func NewDashboardModel(agg *dashboard.Aggregator, interval time.Duration) DashboardModel {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return DashboardModel{
		agg:      agg,
		interval: interval,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Init starts the poll loop with an immediate first load.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

// Update handles poll ticks, reloads, and quit keys.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		return m, tea.Batch(m.load(), m.tick())

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil

		// Notify exactly once per channel transition by diffing against
		// the previous materialized state.
		for _, ev := range reminder.Transitions(m.prev, msg.snap.Reminders) {
			m.notices = append(m.notices, fmt.Sprintf("%s reminder %s at %s",
				ev.Channel, ev.Status, ev.At.Format("15:04:05")))
		}
		if len(m.notices) > 3 {
			m.notices = m.notices[len(m.notices)-3:]
		}

		m.prev = msg.snap.Reminders
		m.snap = msg.snap
		m.checklist = msg.checklist
		m.loaded = true
		return m, nil

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil
	}

	return m, nil
}

// View renders the checklist, progress bar, reminders and recent notices.
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Case dashboard") + "\n\n")

	if m.err != nil {
		b.WriteString(cli.FormatError(m.err.Error()) + "\n")
		return b.String()
	}
	if !m.loaded {
		b.WriteString(cli.SubtleStyle.Render("loading…") + "\n")
		return b.String()
	}

	b.WriteString(m.progress.ViewAs(float64(m.checklist.Percent)/100) + "\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("%d of %d required steps complete",
		m.checklist.RequiredDone, m.checklist.RequiredTotal)) + "\n\n")

	current, completed, upcoming := dashboard.Partition(m.checklist.Steps)

	for _, step := range completed {
		b.WriteString(cli.SuccessStyle.Render(cli.DoneIcon+" "+step.Title) + "\n")
	}
	if current != nil {
		b.WriteString(cli.BoldStyle.Render(cli.CurrentIcon+" "+current.Title) +
			cli.SubtleStyle.Render("  "+current.Description) + "\n")
	}
	for _, step := range upcoming {
		title := step.Title
		if step.Optional {
			title += " (optional)"
		}
		b.WriteString(cli.SubtleStyle.Render(cli.PendingIcon+" "+title) + "\n")
	}

	b.WriteString("\n" + renderReminders(m.snap.Reminders) + "\n")

	for _, notice := range m.notices {
		b.WriteString(cli.InfoStyle.Render(cli.BellIcon+" "+notice) + "\n")
	}

	b.WriteString("\n" + cli.SubtleStyle.Render("q to quit") + "\n")
	return b.String()
}

func renderReminders(state *model.ReminderState) string {
	if state == nil {
		return cli.SubtleStyle.Render("reminders: not configured")
	}
	return fmt.Sprintf("reminders: sms %s, call %s",
		renderStatus(state.SMS.Status), renderStatus(state.Call.Status))
}

func renderStatus(status model.ReminderStatus) string {
	switch status {
	case model.ReminderSent, model.ReminderCompleted:
		return cli.SuccessStyle.Render(string(status))
	case model.ReminderCanceled, model.ReminderFailed:
		return cli.ErrorStyle.Render(string(status))
	default:
		return cli.SubtleStyle.Render(string(status))
	}
}

func (m DashboardModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m DashboardModel) load() tea.Cmd {
	return func() tea.Msg {
		snap, checklist, err := m.agg.Overview(context.Background(), time.Now())
		return snapshotMsg{snap: snap, checklist: checklist, err: err}
	}
}
