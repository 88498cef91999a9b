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

// EpochOptions holds configuration for creating an EpochDriver.
type EpochOptions struct {
	// Experiment supplies the collaborators. Its RunTrainingStep is
	// expected to run the framework's whole fit loop; RunTestingStep is
	// typically a no-op because the framework tests internally. Required.
	Experiment Experiment

	// SavePath is the model checkpoint path. Defaults to
	// config.DefaultSavePath.
	SavePath string

	// AfterEpoch runs at the end of every epoch, before any menu entry.
	// Use it to push framework metrics into the status store.
	AfterEpoch func(epoch int) error

	// AfterMenu runs after the operator exits the menu, before the
	// checkpoint. Use it to apply reconfiguration the edits require.
	AfterMenu func() error

	// Hyper, Status, Prompter, Logger, Interrupts as in RunnerOptions.
	Hyper      *params.Store
	Status     *params.StatusStore
	Prompter   menu.Prompter
	Logger     *logging.Logger
	Interrupts <-chan os.Signal
}

// EpochDriver adapts the deferred-menu mechanism to frameworks that own
// their training loop. The host framework calls OnEpochEnd from its
// end-of-epoch hook; epoch boundaries are the safe points, playing the role
// iteration boundaries play for Runner.
type EpochDriver struct {
	*session
	afterEpoch func(epoch int) error
	afterMenu  func() error
	interrupts <-chan os.Signal
}

// NewEpochDriver creates an EpochDriver from options.
func NewEpochDriver(opts EpochOptions) (*EpochDriver, error) {
	savePath := opts.SavePath
	if savePath == "" {
		savePath = config.DefaultSavePath
	}

	s, err := newSession(opts.Experiment, savePath, opts.Hyper, opts.Status,
		opts.Prompter, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &EpochDriver{
		session:    s,
		afterEpoch: opts.AfterEpoch,
		afterMenu:  opts.AfterMenu,
		interrupts: opts.Interrupts,
	}, nil
}

// Hyper returns the hyperparameter store.
func (d *EpochDriver) Hyper() *params.Store { return d.hyper }

// Status returns the status parameter store.
func (d *EpochDriver) Status() *params.StatusStore { return d.status }

// RequestMenu arms the deferred-menu flag; the menu opens at the end of the
// current epoch. Safe to call from any goroutine.
func (d *EpochDriver) RequestMenu() { d.requestMenu() }

// OnEpochEnd is the hook the host framework must call at the end of each
// epoch. It runs the AfterEpoch callback, then, if a menu request is
// pending, pauses into the menu, applies AfterMenu, and checkpoints
// unconditionally before returning control to the framework.
func (d *EpochDriver) OnEpochEnd(epoch int) error {
	if d.afterEpoch != nil {
		if err := d.afterEpoch(epoch); err != nil {
			return fmt.Errorf("after epoch %d: %w", epoch, err)
		}
	}
	if !d.wantMenu.Load() {
		return nil
	}

	if err := d.showMainMenu(); err != nil {
		return err
	}
	if d.afterMenu != nil {
		if err := d.afterMenu(); err != nil {
			return fmt.Errorf("applying menu changes: %w", err)
		}
	}
	return d.checkpoint()
}

// Run performs the startup load decision and hands control to the
// framework via a single RunTrainingStep call, which is expected to drive
// OnEpochEnd as it goes. It claims process interrupt delivery unless
// EpochOptions.Interrupts was set.
func (d *EpochDriver) Run(ctx context.Context) error {
	sig := d.interrupts
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
	d.watchInterrupts(sig, done)

	d.refreshRunID()
	if err := d.maybeLoad(); err != nil {
		return err
	}

	d.logger.Info("framework loop started")
	if err := d.exp.RunTrainingStep(); err != nil {
		return fmt.Errorf("training step: %w", err)
	}
	return nil
}
