package main

import (
	"fmt"
	"sort"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/bubbles/key"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/coopsched/frameloop"
)

// row is the dashboard's view of one tracked task, rebuilt from
// frameloop.Event payloads as they arrive rather than polling
// GetStats/GetTask on every render.
type row struct {
	id       string
	status   string
	priority string
	attempt  int
	progress float64
	updated  time.Time
	errText  string
}

type model struct {
	sched    *frameloop.Scheduler
	events   <-chan frameloop.Event
	rows     map[string]*row
	order    []string
	selected int
	width    int
	height   int
	quitting bool
	nextDemo int
}

func newModel(sched *frameloop.Scheduler, events <-chan frameloop.Event) model {
	return model{
		sched:  sched,
		events: events,
		rows:   make(map[string]*row),
	}
}

func waitForEvent(events <-chan frameloop.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Tab):
			if len(m.order) > 0 {
				m.selected = (m.selected + 1) % len(m.order)
			}
		case key.Matches(msg, keys.AddTask):
			m.nextDemo++
			id := fmt.Sprintf("adhoc-%d", m.nextDemo)
			_, _ = m.sched.AddTask(frameloop.Descriptor{
				ID:       id,
				Type:     "demo.work",
				Priority: frameloop.PriorityNormal,
			})
		case key.Matches(msg, keys.Cancel):
			if len(m.order) > 0 {
				_ = m.sched.CancelTask(m.order[m.selected])
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameloop.Event:
		m.applyEvent(msg)
		return m, waitForEvent(m.events)
	}

	return m, nil
}

func (m *model) applyEvent(evt frameloop.Event) {
	r, ok := m.rows[evt.TaskID]
	if !ok {
		r = &row{id: evt.TaskID, status: "PENDING"}
		m.rows[evt.TaskID] = r
		m.order = append(m.order, evt.TaskID)
		sort.Strings(m.order)
	}
	r.updated = time.Now()

	switch evt.Type {
	case frameloop.EventTaskAdded:
		r.status = "PENDING"
	case frameloop.EventTaskStarted:
		r.status = "RUNNING"
		r.attempt = evt.Attempt
	case frameloop.EventTaskProgress:
		r.progress = evt.Progress
	case frameloop.EventTaskRetry:
		r.status = "PENDING"
		r.attempt = evt.Attempt
	case frameloop.EventTaskCompleted:
		r.status = "COMPLETED"
		r.progress = 100
	case frameloop.EventTaskFailed:
		r.status = "FAILED"
		if evt.Err != nil {
			r.errText = evt.Err.Error()
		}
	case frameloop.EventTaskCancelled:
		r.status = "CANCELLED"
		if evt.Err != nil {
			r.errText = evt.Err.Error()
		}
	}
}

func (m model) View() tea.View {
	if m.quitting {
		v := tea.NewView("framewatch: shutting down\n")
		v.AltScreen = true
		return v
	}
	if m.width == 0 {
		v := tea.NewView("initializing...")
		v.AltScreen = true
		return v
	}

	stats := m.sched.GetStats()
	title := styleTitle.Render(fmt.Sprintf(
		"framewatch — total %d  pending %d  running %d  completed %d  failed %d  cancelled %d",
		stats.TotalTasks, stats.PendingTasks, stats.RunningTasks,
		stats.CompletedTasks, stats.FailedTasks, stats.CancelledTasks,
	))

	lines := make([]string, 0, len(m.order))
	for i, id := range m.order {
		r := m.rows[id]
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		age := humanize.Time(r.updated)
		line := fmt.Sprintf("%s%-20s %-10s attempt=%d progress=%.0f%% %s",
			marker, r.id, r.status, r.attempt, r.progress, age)
		lines = append(lines, statusStyle(r.status).Render(line))
	}

	body := styleUnfocusedBorder.Width(m.width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)

	v := tea.NewView(lipgloss.JoinVertical(lipgloss.Left, title, body, helpView()))
	v.AltScreen = true
	return v
}
