package template

import "fmt"

// AssemblyError reports a missing or malformed fragment, or a fragment the
// target could not merge. Nothing is written when assembly fails.
type AssemblyError struct {
	Resource string
	Err      error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembling %s: %v", e.Resource, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
