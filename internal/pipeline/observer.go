package pipeline

import (
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives progress of a run.
type Observer interface {
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event is a structured pipeline event.
type Event struct {
	Type      EventType
	Phase     string
	Message   string
	Resource  string
	Timestamp time.Time
	Fields    map[string]string
	// Duration is set on phase completion.
	Duration time.Duration
	// Err is set on phase failure.
	Err error
}

// EventType represents the type of pipeline event.
type EventType string

const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"

	// EventNodePlanned is emitted once per quorum node.
	EventNodePlanned EventType = "node.planned"
	// EventColocationDropped reports a colocation request an earlier
	// isolation made impossible.
	EventColocationDropped EventType = "colocation.dropped"
)

// LogObserver writes events to a logr.Logger. Phase events and Printf go
// to V(0); node and colocation events to V(1).
type LogObserver struct {
	log    logr.Logger
	fields map[string]string
}

// NewLogObserver creates an observer on log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log, fields: make(map[string]string)}
}

func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, o.keysAndValues(event.Fields)...)

	log := o.log
	switch event.Type {
	case EventNodePlanned, EventColocationDropped:
		log = log.V(1)
	}
	log.Info(event.Message, kv...)
}

func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{log: o.log, fields: merge(o.fields, fields)}
}

// keysAndValues merges context and event fields, event fields winning,
// in key order.
func (o *LogObserver) keysAndValues(fields map[string]string) []any {
	merged := merge(o.fields, fields)

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:     EventPhaseCompleted,
		Phase:    phase,
		Message:  fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
		Duration: duration,
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
		Err:     err,
	})
}

func merge(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	maps.Copy(merged, base)
	maps.Copy(merged, extra)
	return merged
}
