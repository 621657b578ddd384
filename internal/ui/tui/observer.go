package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/clusterform/internal/pipeline"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards pipeline events to the progress view.
type Observer struct {
	sender Sender
}

// NewObserver creates an observer sending to s.
func NewObserver(s Sender) *Observer {
	return &Observer{sender: s}
}

func (o *Observer) Printf(format string, v ...any) {
	o.sender.Send(StatusMsg{Text: fmt.Sprintf(format, v...)})
}

func (o *Observer) Event(event pipeline.Event) {
	switch event.Type {
	case pipeline.EventPhaseStarted:
		o.sender.Send(PhaseMsg{Phase: event.Phase})
	case pipeline.EventPhaseCompleted:
		o.sender.Send(PhaseMsg{Phase: event.Phase, Done: true, Elapsed: event.Duration})
	case pipeline.EventPhaseFailed:
		err := event.Err
		if err == nil {
			err = errors.New(event.Message)
		}
		o.sender.Send(PhaseMsg{Phase: event.Phase, Err: err})
	case pipeline.EventNodePlanned:
		o.sender.Send(NodeMsg{
			Tag:       event.Resource,
			Zone:      event.Fields["zone"],
			JoinState: event.Fields["join_state"],
		})
	case pipeline.EventColocationDropped:
		o.sender.Send(NoticeMsg{Text: fmt.Sprintf("%s: %s", event.Resource, event.Message)})
	}
}

// WithFields returns the observer itself. The view has no use for context
// fields.
func (o *Observer) WithFields(map[string]string) pipeline.Observer {
	return o
}
