// Package demo contains the built-in demonstration experiment: a simulated
// noisy loss descent whose step size is the "lr" hyperparameter. It
// exercises the whole control surface end to end, including model
// persistence as a small YAML blob.
package demo

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/steerlab/steer/experiment"
	"github.com/steerlab/steer/params"
)

// Hyperparameter and status names registered by the demo.
const (
	ParamLR    = "lr"
	ParamNoise = "noise"

	StatusLoss    = "loss"
	StatusValLoss = "val_loss"
)

// snapshot is the persisted model blob.
type snapshot struct {
	Loss float64 `yaml:"loss"`
}

// Experiment simulates training: each step shrinks the loss proportionally
// to the learning rate, plus noise. Adjust "lr" from the menu and watch the
// descent speed up or diverge.
type Experiment struct {
	experiment.Base

	// StepDelay paces the loop so the demo is watchable. Zero disables
	// pacing.
	StepDelay time.Duration

	hyper  *params.Store
	status *params.StatusStore
	rng    *rand.Rand
	loss   float64
}

// New registers the demo's parameters on the given stores and returns the
// experiment. Existing parameter values (a resumed run) are left untouched.
func New(hyper *params.Store, status *params.StatusStore) *Experiment {
	e := &Experiment{
		StepDelay: 100 * time.Millisecond,
		hyper:     hyper,
		status:    status,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		loss:      1.0,
	}
	hyper.AddIfAbsent(ParamLR, 0.05)
	hyper.AddIfAbsent(ParamNoise, 0.02)
	status.AddIfAbsent(StatusLoss, e.loss)
	status.AddIfAbsent(StatusValLoss, e.loss)
	return e
}

// RunTrainingStep performs one descent step.
func (e *Experiment) RunTrainingStep() error {
	lr := e.floatParam(ParamLR, 0.05)
	noise := e.floatParam(ParamNoise, 0.0)

	e.loss = e.loss*(1-lr) + e.rng.NormFloat64()*noise
	if e.loss < 0 {
		e.loss = 0
	}
	if err := e.status.Update(StatusLoss, e.loss); err != nil {
		return err
	}
	if e.StepDelay > 0 {
		time.Sleep(e.StepDelay)
	}
	return nil
}

// RunTestingStep records a validation loss near the training loss.
func (e *Experiment) RunTestingStep() error {
	noise := e.floatParam(ParamNoise, 0.0)
	val := e.loss + e.rng.Float64()*noise
	return e.status.Update(StatusValLoss, val)
}

// SaveModel writes the current loss as a YAML snapshot.
func (e *Experiment) SaveModel(path string) error {
	data, err := yaml.Marshal(snapshot{Loss: e.loss})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadModel restores the loss from a YAML snapshot.
func (e *Experiment) LoadModel(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	e.loss = snap.Loss
	return e.status.Update(StatusLoss, e.loss)
}

// floatParam reads a numeric hyperparameter, tolerating the int values the
// menu's input parsing can produce.
func (e *Experiment) floatParam(name string, fallback float64) float64 {
	v, err := e.hyper.Value(name)
	if err != nil {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return fallback
	}
}
