package handlers

import (
	"errors"

	"github.com/imamik/clusterform/internal/bootstrap"
	"github.com/imamik/clusterform/internal/template"
	"github.com/imamik/clusterform/internal/topology"
)

// Process exit codes.
const (
	ExitFailure       = 1
	ExitInvalidIntent = 2
	ExitDiscovery     = 3
	ExitAssembly      = 4
)

// ExitCode maps an error returned by a handler to the process exit code.
func ExitCode(err error) int {
	var (
		intentErr    *topology.InvalidIntentError
		discoveryErr *bootstrap.DiscoveryError
		assemblyErr  *template.AssemblyError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &intentErr):
		return ExitInvalidIntent
	case errors.As(err, &discoveryErr):
		return ExitDiscovery
	case errors.As(err, &assemblyErr):
		return ExitAssembly
	default:
		return ExitFailure
	}
}
