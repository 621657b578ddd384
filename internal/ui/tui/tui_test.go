package tui

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/clusterform/internal/pipeline"
)

func newTestModel() Model {
	return NewModel("prod", "hcloud", []string{"resolve", "zones", "plan"})
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{1500 * time.Microsecond, "1ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatElapsed(tt.d), "formatElapsed(%v)", tt.d)
	}
}

func TestModelUpdatePhase(t *testing.T) {
	m := newTestModel()

	m = update(m, PhaseMsg{Phase: "resolve"})
	assert.True(t, m.Phases[0].Active)

	m = update(m, PhaseMsg{Phase: "resolve", Done: true, Elapsed: time.Millisecond})
	assert.True(t, m.Phases[0].Done)
	assert.False(t, m.Phases[0].Active)
	assert.Equal(t, time.Millisecond, m.Phases[0].Elapsed)

	// Starting a later phase closes the earlier ones.
	m = update(m, PhaseMsg{Phase: "plan"})
	assert.True(t, m.Phases[1].Done)
	assert.True(t, m.Phases[2].Active)

	m = update(m, PhaseMsg{Phase: "plan", Err: errors.New("boom")})
	assert.EqualError(t, m.Phases[2].Err, "boom")
	assert.False(t, m.Phases[2].Done)
}

func TestModelUpdate_UnknownPhaseIgnored(t *testing.T) {
	m := update(newTestModel(), PhaseMsg{Phase: "assemble"})
	for _, phase := range m.Phases {
		assert.False(t, phase.Active)
	}
}

func TestModelUpdate_QuitMessages(t *testing.T) {
	m := newTestModel()

	next, cmd := m.Update(DoneMsg{})
	assert.True(t, next.(Model).Done)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	next, cmd = m.Update(ErrMsg{Err: errors.New("api down")})
	assert.EqualError(t, next.(Model).Err, "api down")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelUpdate_TickStopsWhenFinished(t *testing.T) {
	m := newTestModel()

	next, cmd := m.Update(TickMsg{})
	assert.Equal(t, 1, next.(Model).SpinnerFrame)
	assert.NotNil(t, cmd)

	m.Done = true
	_, cmd = m.Update(TickMsg{})
	assert.Nil(t, cmd)
}

func TestView(t *testing.T) {
	m := update(newTestModel(),
		PhaseMsg{Phase: "resolve", Done: true},
		PhaseMsg{Phase: "zones"},
		NodeMsg{Tag: "other_node_1", Zone: "fsn1", JoinState: "new"},
		NoticeMsg{Text: "data cannot take router: already placed with control"},
		StatusMsg{Text: "resolved 2 groups"},
	)

	view := m.View()
	assert.Contains(t, view, "clusterform: prod (hcloud)")
	assert.Contains(t, view, "resolved 2 groups")
	assert.Contains(t, view, checkMark)
	assert.Contains(t, view, pending)
	assert.Contains(t, view, "other_node_1")
	assert.Contains(t, view, "already placed with control")

	m = update(m, ErrMsg{Err: errors.New("api down")})
	view = m.View()
	assert.Contains(t, view, "Failed")
	assert.Contains(t, view, "api down")
}

func TestCurrentSpinner(t *testing.T) {
	assert.Equal(t, spinnerFrames[0], currentSpinner(0))
	assert.Equal(t, spinnerFrames[1], currentSpinner(-1))
	assert.Equal(t, spinnerFrames[0], currentSpinner(len(spinnerFrames)))
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestObserver(t *testing.T) {
	sender := &recordingSender{}
	obs := NewObserver(sender)

	pipeline.LogPhaseStart(obs, "plan")
	pipeline.LogPhaseComplete(obs, "plan", 2*time.Millisecond)
	pipeline.LogPhaseFailed(obs, "zones", errors.New("api down"))
	obs.Event(pipeline.Event{
		Type:     pipeline.EventNodePlanned,
		Resource: "other_node_2",
		Fields:   map[string]string{"zone": "nbg1", "join_state": "existing"},
	})
	obs.Event(pipeline.Event{
		Type:     pipeline.EventColocationDropped,
		Resource: "data",
		Message:  "router already placed with control",
		Fields:   map[string]string{"target": "router"},
	})
	obs.WithFields(map[string]string{"stack": "prod"}).Printf("resolved %d groups", 2)

	require.Len(t, sender.msgs, 6)
	assert.Equal(t, PhaseMsg{Phase: "plan"}, sender.msgs[0])
	assert.Equal(t, PhaseMsg{Phase: "plan", Done: true, Elapsed: 2 * time.Millisecond}, sender.msgs[1])
	failed := sender.msgs[2].(PhaseMsg)
	assert.EqualError(t, failed.Err, "api down")
	assert.Equal(t, NodeMsg{Tag: "other_node_2", Zone: "nbg1", JoinState: "existing"}, sender.msgs[3])
	assert.Equal(t, NoticeMsg{Text: "data: router already placed with control"}, sender.msgs[4])
	assert.Equal(t, StatusMsg{Text: "resolved 2 groups"}, sender.msgs[5])
}

func TestRun(t *testing.T) {
	var out bytes.Buffer

	err := Run(context.Background(), &out, newTestModel(), func(obs pipeline.Observer) error {
		pipeline.LogPhaseStart(obs, "resolve")
		pipeline.LogPhaseComplete(obs, "resolve", time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "clusterform: prod")
}

func TestRun_ReturnsPipelineError(t *testing.T) {
	var out bytes.Buffer

	err := Run(context.Background(), &out, newTestModel(), func(pipeline.Observer) error {
		return errors.New("zones phase failed: api down")
	})
	assert.EqualError(t, err, "zones phase failed: api down")
}
