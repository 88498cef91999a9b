// Package experiment implements the control loop that lets an operator
// steer a long-running training process. A Runner executes caller-supplied
// training and testing steps, checks a deferred interrupt flag at the top
// of each iteration, and pauses into the menu session when the flag is set.
// An EpochDriver offers the same deferred-menu mechanism for frameworks
// that own their own loop and only surface end-of-epoch notifications.
package experiment

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotImplemented is returned by Base.LoadModel. Experiments that save
// models must provide their own LoadModel; reaching the default one means
// persistence was left half-implemented.
var ErrNotImplemented = errors.New("not implemented")

// Experiment supplies the domain work the control loop delegates: the
// per-iteration computation and model persistence. Any error returned from
// these methods is fatal to the run; the loop performs no retries.
type Experiment interface {
	// RunTrainingStep runs a single training iteration.
	RunTrainingStep() error

	// RunTestingStep runs a single testing iteration.
	RunTestingStep() error

	// SaveModel persists the model to path.
	SaveModel(path string) error

	// LoadModel restores the model from path.
	LoadModel(path string) error

	// ModelExists reports whether a saved model is present at path.
	ModelExists(path string) bool
}

// Base provides default implementations for the optional Experiment
// methods. Embed it and implement RunTrainingStep and RunTestingStep;
// override SaveModel and LoadModel only if the experiment persists a model.
type Base struct{}

// SaveModel does nothing.
func (Base) SaveModel(path string) error {
	return nil
}

// LoadModel fails: an experiment whose saved model was found on disk must
// know how to read it back.
func (Base) LoadModel(path string) error {
	return fmt.Errorf("LoadModel(%s): %w", path, ErrNotImplemented)
}

// ModelExists checks whether path exists on disk.
func (Base) ModelExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
