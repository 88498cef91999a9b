package experiment

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/steerlab/steer/internal/logging"
	"github.com/steerlab/steer/menu"
	"github.com/steerlab/steer/params"
)

// Well-known status parameter names maintained by the control loop.
const (
	// StatusIterations counts completed training iterations across the
	// whole experiment, including previous runs that were resumed.
	StatusIterations = "iterations"

	// StatusRunID identifies the current process run.
	StatusRunID = "run_id"
)

// session bundles the state shared by the pull-based Runner and the
// event-driven EpochDriver: the collaborator, the parameter stores, the
// menu tree, and the deferred-interrupt flag.
//
// wantMenu is the only cross-goroutine state. The interrupt watcher is its
// sole setter; the loop goroutine reads and clears it, and only at a safe
// point, so no iteration is ever interrupted mid-way.
type session struct {
	exp      Experiment
	savePath string
	hyper    *params.Store
	status   *params.StatusStore
	prompter menu.Prompter
	tree     *menu.Tree
	logger   *logging.Logger
	wantMenu atomic.Bool
}

func newSession(exp Experiment, savePath string, hyper *params.Store,
	status *params.StatusStore, prompter menu.Prompter, logger *logging.Logger) (*session, error) {

	if exp == nil {
		return nil, fmt.Errorf("experiment must not be nil")
	}
	if savePath == "" {
		return nil, fmt.Errorf("save path must not be empty")
	}
	if hyper == nil {
		hyper = params.NewStore()
	}
	if status == nil {
		status = params.NewStatusStore()
	}
	if prompter == nil {
		p, err := menu.NewStdioPrompter()
		if err != nil {
			return nil, err
		}
		prompter = p
	}
	if logger == nil {
		logger = logging.New()
	}

	s := &session{
		exp:      exp,
		savePath: savePath,
		hyper:    hyper,
		status:   status,
		prompter: prompter,
		tree:     menu.NewTree(),
		logger:   logger,
	}

	s.tree.Add(menu.NewMainScreen(prompter))
	s.tree.Add(menu.NewAdjustScreen(hyper, prompter))
	s.tree.Add(menu.NewStatusScreen(status, prompter))

	// AddIfAbsent keeps counts from a resumed experiment intact.
	s.status.AddIfAbsent(StatusIterations, 0)
	s.status.AddIfAbsent(StatusRunID, "")

	return s, nil
}

// requestMenu arms the deferred-menu flag. Safe to call from any goroutine;
// duplicate requests while one is pending are coalesced. It reports whether
// this call armed the flag.
func (s *session) requestMenu() bool {
	return s.wantMenu.CompareAndSwap(false, true)
}

// watchInterrupts turns delivered signals into menu requests. It does
// nothing else: no store access, no I/O beyond the acknowledgment line, so
// it is safe no matter where the loop currently is.
func (s *session) watchInterrupts(sig <-chan os.Signal, done <-chan struct{}) {
	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-sig:
				if !ok {
					return
				}
				if s.requestMenu() {
					s.prompter.Display("Interrupt received; opening menu at the next safe point.")
				}
			}
		}
	}()
}

// refreshRunID stamps a new run identifier for this process run.
func (s *session) refreshRunID() {
	if err := s.status.Update(StatusRunID, uuid.NewString()); err != nil {
		s.logger.Warn("failed to record run id", "error", err)
	}
}

// maybeLoad runs the startup load decision: when a saved model exists, ask
// the operator whether to load it or start fresh. Called once, before the
// loop begins.
func (s *session) maybeLoad() error {
	if !s.exp.ModelExists(s.savePath) {
		return nil
	}
	load := menu.NewLoadScreen(s.savePath, s.prompter)
	if err := load.Show(s.tree); err != nil {
		return fmt.Errorf("load decision: %w", err)
	}
	if !load.ShouldLoad() {
		s.logger.Info("starting fresh", "path", s.savePath)
		return nil
	}
	if err := s.exp.LoadModel(s.savePath); err != nil {
		return fmt.Errorf("loading model from %s: %w", s.savePath, err)
	}
	s.logger.Info("loaded model", "path", s.savePath)
	return nil
}

// showMainMenu clears the pending flag and runs the menu session. The flag
// is cleared first so an interrupt arriving while the menu is open queues a
// fresh visit instead of being lost.
func (s *session) showMainMenu() error {
	s.wantMenu.Store(false)
	s.logger.Info("entering menu", "iteration", s.iterations())
	if err := s.tree.Show(menu.NameMain); err != nil {
		return fmt.Errorf("menu session: %w", err)
	}
	return nil
}

// checkpoint invokes the save collaborator, reporting any hyperparameters
// edited since the previous checkpoint.
func (s *session) checkpoint() error {
	if changed := s.hyper.Changed(); len(changed) > 0 {
		sort.Strings(changed)
		s.logger.Info("hyperparameters changed", "names", strings.Join(changed, ","))
	}
	if err := s.exp.SaveModel(s.savePath); err != nil {
		return fmt.Errorf("saving model to %s: %w", s.savePath, err)
	}
	s.logger.Debug("checkpoint written", "path", s.savePath)
	return nil
}

// iterations reads the iteration counter from the status store.
func (s *session) iterations() int {
	v, err := s.status.Value(StatusIterations)
	if err != nil {
		return 0
	}
	n, _ := v.(int)
	return n
}

func (s *session) bumpIterations() error {
	return s.status.Update(StatusIterations, s.iterations()+1)
}
