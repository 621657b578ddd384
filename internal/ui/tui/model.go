package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PhaseStatus is one pipeline phase as displayed.
type PhaseStatus struct {
	Name    string
	Done    bool
	Active  bool
	Elapsed time.Duration
	Err     error
}

// Model is the Bubble Tea model for the progress view.
type Model struct {
	Stack    string
	Provider string

	Phases  []PhaseStatus
	Nodes   []NodeMsg
	Notices []string
	Status  string

	StartTime    time.Time
	SpinnerFrame int

	Width int
	Err   error
	Done  bool
}

// NewModel creates a model listing phases in run order.
func NewModel(stack, provider string, phases []string) Model {
	m := Model{
		Stack:     stack,
		Provider:  provider,
		StartTime: time.Now(),
		Phases:    make([]PhaseStatus, len(phases)),
	}
	for i, name := range phases {
		m.Phases[i] = PhaseStatus{Name: name}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case PhaseMsg:
		m.updatePhase(msg)

	case NodeMsg:
		m.Nodes = append(m.Nodes, msg)

	case NoticeMsg:
		m.Notices = append(m.Notices, msg.Text)

	case StatusMsg:
		m.Status = msg.Text

	case TickMsg:
		if m.Done || m.Err != nil {
			return m, nil
		}
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Name == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Phases run in order, so everything before idx has finished.
	for i := 0; i < idx; i++ {
		if m.Phases[i].Err == nil {
			m.Phases[i].Done = true
		}
		m.Phases[i].Active = false
	}

	phase := &m.Phases[idx]
	switch {
	case msg.Err != nil:
		phase.Err = msg.Err
		phase.Active = false
	case msg.Done:
		phase.Done = true
		phase.Active = false
		phase.Elapsed = msg.Elapsed
	default:
		phase.Active = true
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
