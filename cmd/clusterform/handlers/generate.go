// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. External services are reached through package-level
// factory variables so handlers can be tested without the CLI framework or a
// cloud account.
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/logging"
	"github.com/imamik/clusterform/internal/metrics"
	"github.com/imamik/clusterform/internal/pipeline"
	"github.com/imamik/clusterform/internal/template"
	"github.com/imamik/clusterform/internal/ui/tui"
)

// Options are the inputs shared by generate and plan.
type Options struct {
	// ConfigPath is the configuration file. Empty means look for
	// clusterform.yaml in the working directory and its parents.
	ConfigPath string
	Verbosity  int
	LogJSON    bool
	// Override applies command-line flags on top of the file configuration.
	Override func(cfg *config.Config) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// stdout receives the generated document and summaries.
	stdout io.Writer = os.Stdout

	// stderr receives log output.
	stderr io.Writer = os.Stderr

	// isTerminal reports whether stdout is a terminal.
	isTerminal = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// stderrIsTerminal reports whether stderr is a terminal.
	stderrIsTerminal = func() bool {
		fd := os.Stderr.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// runProgress runs a pipeline behind the progress view.
	runProgress = tui.Run

	// newEnvironment discovers the provider target and placement oracle.
	newEnvironment = buildEnvironment

	// newFragmentStore opens the configured fragment source.
	newFragmentStore = buildFragmentStore
)

// session is one loaded and validated run.
type session struct {
	cfg      *config.Config
	log      logr.Logger
	runID    string
	timeouts *config.Timeouts
	metrics  *metrics.Recorder
	env      *environment
	// progress shows the progress view on stderr instead of phase logs.
	progress bool
}

// Generate resolves the topology, plans the quorum nodes and writes the
// provider document to stdout.
//
// The document is encoded into memory first, so a failure at any step leaves
// stdout untouched.
func Generate(ctx context.Context, opts Options) error {
	s, err := prepare(ctx, opts)
	if err != nil {
		return err
	}

	err = s.generate(ctx)
	s.report(ctx, err)
	return err
}

func prepare(ctx context.Context, opts Options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	verbosity := logging.Verbosity(opts.Verbosity)
	log := logging.New(logging.Options{
		Verbosity: verbosity,
		JSON:      opts.LogJSON,
		Writer:    stderr,
	})
	log, runID := logging.WithRun(log, cfg.Stack)
	log.V(1).Info("loaded configuration", "provider", cfg.Provider)

	s := &session{
		cfg:      cfg,
		log:      log,
		runID:    runID,
		timeouts: config.LoadTimeouts(),
		metrics:  metrics.NewRecorder(),
		progress: !opts.LogJSON && verbosity == 0 && stderrIsTerminal(),
	}

	env, err := newEnvironment(ctx, cfg, s.timeouts, log)
	if err != nil {
		return nil, err
	}
	s.env = env
	return s, nil
}

func (s *session) pipelineContext(ctx context.Context) *pipeline.Context {
	pctx := pipeline.NewContext(ctx, s.cfg.Stack, s.cfg.Intents(), s.env.Oracle, s.log)
	pctx.Timeouts = s.timeouts
	pctx.Metrics = s.metrics
	return pctx
}

func (s *session) generate(ctx context.Context) error {
	store, err := newFragmentStore(ctx, s.cfg)
	if err != nil {
		return &template.AssemblyError{Resource: "fragments", Err: err}
	}

	pctx := s.pipelineContext(ctx)
	pctx.Assembler = template.NewAssembler(store, s.env.Target, s.log)
	if err := s.runPipeline(pctx, pipeline.GeneratePhases()); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := pctx.State.Result.Document.Encode(&buf, isTerminal()); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if _, err := stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	s.log.Info("generated document", "target", s.env.Target.Name(), "ingress", pctx.State.Result.Ingress)
	return nil
}

// runPipeline runs phases in order. With progress enabled the phase events
// drive the progress view rather than the log.
func (s *session) runPipeline(pctx *pipeline.Context, phases []pipeline.Phase) error {
	p := pipeline.NewPipeline(phases...)
	if !s.progress {
		return p.Run(pctx)
	}

	names := make([]string, len(phases))
	for i, phase := range phases {
		names[i] = phase.Name()
	}
	model := tui.NewModel(s.cfg.Stack, s.cfg.Provider, names)
	return runProgress(pctx.Context, stderr, model, func(obs pipeline.Observer) error {
		pctx.Observer = obs
		return p.Run(pctx)
	})
}

// report records the outcome and pushes metrics when a pushgateway is set.
// A failed push is logged only.
func (s *session) report(ctx context.Context, runErr error) {
	result := metrics.ResultSuccess
	if runErr != nil {
		result = metrics.ResultError
	}
	s.metrics.RecordGenerate(result)

	url := s.cfg.Metrics.Pushgateway
	if url == "" {
		return
	}
	if err := s.metrics.Push(ctx, url, s.cfg.Stack); err != nil {
		s.log.Error(err, "failed to push metrics", "pushgateway", url)
		return
	}
	s.log.V(1).Info("pushed metrics", "pushgateway", url)
}
