package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Run executes tasks in parallel and waits for all of them. Every failure is
// wrapped with its task name and the failures are joined, so errors.Is and
// errors.As see each of them.
//
// Example:
//
//	err := Run(ctx,
//	    Task{Name: "network", Func: discoverNetwork},
//	    Task{Name: "images", Func: fetchImages},
//	)
func Run(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	errs := make([]error, len(tasks))
	done := make(chan struct{}, len(tasks))

	for i, task := range tasks {
		go func() {
			defer func() { done <- struct{}{} }()
			if err := task.Func(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.Name, err)
			}
		}()
	}

	for range len(tasks) {
		<-done
	}
	return errors.Join(errs...)
}
