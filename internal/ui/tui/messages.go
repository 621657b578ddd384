// Package tui provides a Bubble Tea progress view for generate and plan runs.
package tui

import "time"

// PhaseMsg reports progress of a pipeline phase.
type PhaseMsg struct {
	Phase   string
	Done    bool
	Elapsed time.Duration
	Err     error
}

// NodeMsg reports a planned quorum node.
type NodeMsg struct {
	Tag       string
	Zone      string
	JoinState string
}

// NoticeMsg carries a line shown under the phase list, such as a dropped
// colocation.
type NoticeMsg struct{ Text string }

// StatusMsg replaces the status line.
type StatusMsg struct{ Text string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
