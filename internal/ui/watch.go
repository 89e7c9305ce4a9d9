package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/wlmonitors"
)

// maxFooterEvents caps the event history shown below the table.
const maxFooterEvents = 8

// eventMsg wraps a monitor event for the Bubble Tea update loop.
type eventMsg struct {
	event wlmonitors.Event
}

// closedMsg signals that the event channel was closed.
type closedMsg struct{}

// waitForEvent blocks on the event channel and converts the next event into
// a message. Re-issued after every event, the usual channel-pump pattern.
func waitForEvent(ch <-chan wlmonitors.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// WatchModel renders the live monitor table and a short event history.
type WatchModel struct {
	events <-chan wlmonitors.Event

	table    table.Model
	monitors map[uint32]wlmonitors.Monitor
	order    []uint32
	history  []string
	closed   bool
}

// NewWatchModel creates the watch screen reading from events.
func NewWatchModel(events <-chan wlmonitors.Event) *WatchModel {
	columns := []table.Column{
		{Title: "NAME", Width: 10},
		{Title: "STATUS", Width: 6},
		{Title: "MODE", Width: 16},
		{Title: "POSITION", Width: 12},
		{Title: "SCALE", Width: 6},
		{Title: "TRANSFORM", Width: 11},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(ColorPrimary)
	s.Selected = s.Selected.Foreground(ColorText)
	t.SetStyles(s)

	return &WatchModel{
		events:   events,
		table:    t,
		monitors: make(map[uint32]wlmonitors.Monitor),
	}
}

// Init implements tea.Model.
func (m *WatchModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case eventMsg:
		m.apply(msg.event)
		return m, waitForEvent(m.events)
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *WatchModel) apply(ev wlmonitors.Event) {
	switch e := ev.(type) {
	case wlmonitors.InitialStateEvent:
		for _, mon := range e.Monitors {
			m.upsert(mon)
		}
		m.note(EventStyle.Render(fmt.Sprintf("connected, %d monitor(s)", len(e.Monitors))))
	case wlmonitors.ChangedEvent:
		m.upsert(e.Monitor)
		m.note(EventStyle.Render(fmt.Sprintf("%s changed", e.Monitor.Name)))
	case wlmonitors.RemovedEvent:
		delete(m.monitors, e.ID)
		for i, id := range m.order {
			if id == e.ID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		m.note(EventStyle.Render(fmt.Sprintf("%s disconnected", e.Name)))
	case wlmonitors.ActionFailedEvent:
		m.note(FailureStyle.Render(fmt.Sprintf("%s failed: %s", e.Action, e.Reason)))
	}
	m.refreshRows()
}

func (m *WatchModel) upsert(mon wlmonitors.Monitor) {
	if _, ok := m.monitors[mon.ID]; !ok {
		m.order = append(m.order, mon.ID)
	}
	m.monitors[mon.ID] = mon
}

func (m *WatchModel) note(line string) {
	m.history = append(m.history, line)
	if len(m.history) > maxFooterEvents {
		m.history = m.history[len(m.history)-maxFooterEvents:]
	}
}

func (m *WatchModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		mon := m.monitors[id]
		status := DisabledIndicator
		mode := "-"
		if mon.Enabled {
			status = EnabledIndicator
			if cur, ok := mon.Mode(mon.CurrentMode); ok {
				mode = fmt.Sprintf("%dx%d@%dHz", cur.Width, cur.Height, cur.RefreshHz)
			}
		}
		rows = append(rows, table.Row{
			mon.Name,
			status,
			mode,
			fmt.Sprintf("%d,%d", mon.Position.X, mon.Position.Y),
			fmt.Sprintf("%.2f", mon.Scale),
			mon.Transform.String(),
		})
	}
	m.table.SetRows(rows)
}

// View implements tea.Model.
func (m *WatchModel) View() string {
	if m.closed {
		return ""
	}
	view := TitleStyle.Render("wlmon watch") + "\n"
	view += TableBorderStyle.Render(m.table.View()) + "\n"
	if len(m.history) > 0 {
		view += FooterHeaderStyle.Render("Events") + "\n"
		for _, line := range m.history {
			view += "  " + line + "\n"
		}
	}
	view += HelpStyle.Render("q - quit")
	return view
}
