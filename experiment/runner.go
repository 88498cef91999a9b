package experiment

import (
	"context"
	"fmt"
	"os"

	"github.com/steerlab/steer/config"
	"github.com/steerlab/steer/internal/logging"
	"github.com/steerlab/steer/menu"
	"github.com/steerlab/steer/params"
)

// RunnerOptions holds configuration for creating a Runner. Only Experiment
// is required; zero fields get defaults.
type RunnerOptions struct {
	// Experiment supplies the training, testing, and persistence
	// collaborators. Required.
	Experiment Experiment

	// SavePath is the model checkpoint path. Defaults to
	// config.DefaultSavePath.
	SavePath string

	// TestingInterval is the number of training iterations per testing
	// iteration. Defaults to config.DefaultTestingInterval.
	TestingInterval int

	// Hyper and Status are the parameter stores. Fresh stores are created
	// when nil; pass pre-populated ones to expose experiment-specific
	// parameters.
	Hyper  *params.Store
	Status *params.StatusStore

	// Prompter drives the menu session. Defaults to a stdin/stdout
	// prompter, which requires a terminal.
	Prompter menu.Prompter

	// Logger receives loop lifecycle events. Defaults to a stderr logger.
	Logger *logging.Logger

	// Interrupts overrides the menu-request signal source. When nil the
	// Runner claims process-wide os.Interrupt delivery for the duration of
	// Run; only one loop per process may do that.
	Interrupts <-chan os.Signal
}

// Runner owns the control loop: it executes training iterations strictly
// sequentially, consults the deferred-interrupt flag only between
// iterations, and runs a testing step plus checkpoint after every
// TestingInterval training steps.
type Runner struct {
	*session
	interval   int
	interrupts <-chan os.Signal
}

// NewRunner creates a Runner from options. It registers the standard menu
// screens and the "iterations" and "run_id" status parameters, leaving any
// values already present (a resumed experiment) untouched.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	savePath := opts.SavePath
	if savePath == "" {
		savePath = config.DefaultSavePath
	}
	interval := opts.TestingInterval
	if interval == 0 {
		interval = config.DefaultTestingInterval
	}
	if interval < 0 {
		return nil, fmt.Errorf("testing interval must be positive, got %d", interval)
	}

	s, err := newSession(opts.Experiment, savePath, opts.Hyper, opts.Status,
		opts.Prompter, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &Runner{
		session:    s,
		interval:   interval,
		interrupts: opts.Interrupts,
	}, nil
}

// Hyper returns the hyperparameter store.
func (r *Runner) Hyper() *params.Store { return r.hyper }

// Status returns the status parameter store.
func (r *Runner) Status() *params.StatusStore { return r.status }

// RequestMenu arms the deferred-menu flag, exactly as an operator interrupt
// would. Safe to call from any goroutine.
func (r *Runner) RequestMenu() { r.requestMenu() }

// Run executes the loop until the context is cancelled or a collaborator
// fails. Cancellation is honored only at the safe point between iterations
// and returns nil; collaborator errors propagate unchanged, wrapped with
// the failing step.
//
// Run claims process interrupt delivery unless RunnerOptions.Interrupts was
// set, and releases it on return.
func (r *Runner) Run(ctx context.Context) error {
	sig := r.interrupts
	if sig == nil {
		ch, err := claimInterrupts()
		if err != nil {
			return err
		}
		defer releaseInterrupts(ch)
		sig = ch
	}

	done := make(chan struct{})
	defer close(done)
	r.watchInterrupts(sig, done)

	r.refreshRunID()
	if err := r.maybeLoad(); err != nil {
		return err
	}

	r.logger.Info("training loop started",
		"iteration", r.iterations(), "testing_interval", r.interval)

	for {
		for i := 0; i < r.interval; i++ {
			// The safe point: the only place the flag and the context
			// are consulted.
			if ctx.Err() != nil {
				r.logger.Info("training loop stopped", "iteration", r.iterations())
				return nil
			}
			if r.wantMenu.Load() {
				if err := r.pauseForMenu(); err != nil {
					return err
				}
			}

			if err := r.exp.RunTrainingStep(); err != nil {
				return fmt.Errorf("training step: %w", err)
			}
			if err := r.bumpIterations(); err != nil {
				return err
			}
		}

		if err := r.exp.RunTestingStep(); err != nil {
			return fmt.Errorf("testing step: %w", err)
		}
		if err := r.checkpoint(); err != nil {
			return err
		}
		r.logger.Debug("testing step complete", "iteration", r.iterations())
	}
}

// pauseForMenu runs the menu session and checkpoints unconditionally on
// exit, so operator edits are durable before training resumes.
func (r *Runner) pauseForMenu() error {
	if err := r.showMainMenu(); err != nil {
		return err
	}
	return r.checkpoint()
}
