package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/clusterform/internal/pipeline"
)

// Run shows the progress view on out while fn executes. fn receives an
// observer wired to the view. The error returned is fn's; a failure of the
// view itself is only reported when fn succeeded.
func Run(ctx context.Context, out io.Writer, m Model, fn func(obs pipeline.Observer) error) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	runErr := make(chan error, 1)
	go func() {
		err := fn(NewObserver(p))
		runErr <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	_, viewErr := p.Run()
	if err := <-runErr; err != nil {
		return err
	}
	if viewErr != nil && !errors.Is(viewErr, tea.ErrProgramKilled) {
		return fmt.Errorf("progress view: %w", viewErr)
	}
	return nil
}
