package experiment

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steerlab/steer/menu"
	"github.com/steerlab/steer/params"
)

// errStop lets mocks break out of the otherwise infinite loop.
var errStop = errors.New("stop the loop")

// mockExperiment records every collaborator call in order.
type mockExperiment struct {
	events     []string
	trainCalls int
	testCalls  int
	saveCalls  int
	loadCalls  int
	exists     bool
	testErr    error
	saveErr    error
	loadErr    error

	// onTrain, when set, runs on every training step with the 1-based
	// call number.
	onTrain func(call int) error
}

func (m *mockExperiment) RunTrainingStep() error {
	m.trainCalls++
	m.events = append(m.events, "train")
	if m.onTrain != nil {
		return m.onTrain(m.trainCalls)
	}
	return nil
}

func (m *mockExperiment) RunTestingStep() error {
	m.testCalls++
	m.events = append(m.events, "test")
	return m.testErr
}

func (m *mockExperiment) SaveModel(path string) error {
	m.saveCalls++
	m.events = append(m.events, "save")
	return m.saveErr
}

func (m *mockExperiment) LoadModel(path string) error {
	m.loadCalls++
	m.events = append(m.events, "load")
	return m.loadErr
}

func (m *mockExperiment) ModelExists(path string) bool {
	return m.exists
}

// newTestRunner builds a Runner wired with a scripted prompter and a test
// interrupt channel so no process-global signal state is touched.
func newTestRunner(t *testing.T, exp Experiment, interval int, script ...string) (*Runner, *menu.ScriptPrompter) {
	t.Helper()
	p := menu.NewScriptPrompter(script...)
	r, err := NewRunner(RunnerOptions{
		Experiment:      exp,
		SavePath:        "test.steer",
		TestingInterval: interval,
		Prompter:        p,
		Logger:          newQuietLogger(),
		Interrupts:      make(chan os.Signal),
	})
	require.NoError(t, err)
	return r, p
}

func TestNewRunner_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(RunnerOptions{})
	assert.ErrorContains(t, err, "experiment must not be nil")

	_, err = NewRunner(RunnerOptions{
		Experiment:      &mockExperiment{},
		TestingInterval: -1,
		Prompter:        menu.NewScriptPrompter(),
	})
	assert.ErrorContains(t, err, "testing interval")
}

func TestNewRunner_Defaults(t *testing.T) {
	t.Parallel()

	r, err := NewRunner(RunnerOptions{
		Experiment: &mockExperiment{},
		Prompter:   menu.NewScriptPrompter(),
		Logger:     newQuietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, "experiment.steer", r.savePath)
	assert.Equal(t, 100, r.interval)

	// The standard status parameters exist before the loop starts.
	v, err := r.Status().Value(StatusIterations)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestRunner_TestingIntervalScenario(t *testing.T) {
	t.Parallel()

	exp := &mockExperiment{}
	exp.onTrain = func(call int) error {
		if call == 4 {
			return errStop
		}
		return nil
	}
	r, _ := newTestRunner(t, exp, 3)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errStop)

	// Three training steps, then exactly one testing step and one
	// checkpoint before the fourth training step began.
	assert.Equal(t, []string{"train", "train", "train", "test", "save", "train"}, exp.events)

	v, err := r.Status().Value(StatusIterations)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestRunner_DeferredInterrupt(t *testing.T) {
	t.Parallel()

	exp := &mockExperiment{}
	var r *Runner
	exp.onTrain = func(call int) error {
		switch call {
		case 1:
			// Arm the flag mid-iteration, twice: the duplicate must
			// coalesce into a single menu visit.
			r.RequestMenu()
			r.RequestMenu()
		case 3:
			return errStop
		}
		return nil
	}

	// The single menu visit resumes immediately.
	r, p := newTestRunner(t, exp, 100, "2")

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errStop)

	// The iteration in flight finished before the menu opened, the menu
	// exit checkpointed, and the cleared flag caused no second visit.
	assert.Equal(t, []string{"train", "save", "train", "train"}, exp.events)
	assert.Len(t, p.Selections, 1)
}

func TestRunner_LoadDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		script        string
		wantLoadCalls int
	}{
		{"operator loads", "0", 1},
		{"operator starts fresh", "1", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			exp := &mockExperiment{exists: true}
			exp.onTrain = func(call int) error { return errStop }
			r, _ := newTestRunner(t, exp, 3, tt.script)

			err := r.Run(context.Background())
			require.ErrorIs(t, err, errStop)
			assert.Equal(t, tt.wantLoadCalls, exp.loadCalls)
			if tt.wantLoadCalls > 0 {
				// Loading happens before any training.
				assert.Equal(t, "load", exp.events[0])
			}
		})
	}
}

func TestRunner_LoadFailureIsFatal(t *testing.T) {
	t.Parallel()

	exp := &mockExperiment{exists: true, loadErr: errors.New("corrupt blob")}
	r, _ := newTestRunner(t, exp, 3, "0")

	err := r.Run(context.Background())
	assert.ErrorContains(t, err, "loading model from test.steer")
	assert.Zero(t, exp.trainCalls)
}

func TestRunner_CollaboratorErrorsPropagate(t *testing.T) {
	t.Parallel()

	t.Run("testing step", func(t *testing.T) {
		t.Parallel()
		exp := &mockExperiment{testErr: errStop}
		r, _ := newTestRunner(t, exp, 1)

		err := r.Run(context.Background())
		require.ErrorIs(t, err, errStop)
		assert.ErrorContains(t, err, "testing step")
	})

	t.Run("checkpoint", func(t *testing.T) {
		t.Parallel()
		exp := &mockExperiment{saveErr: errStop}
		r, _ := newTestRunner(t, exp, 1)

		err := r.Run(context.Background())
		require.ErrorIs(t, err, errStop)
		assert.ErrorContains(t, err, "saving model")
	})
}

func TestRunner_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := &mockExperiment{}
	r, _ := newTestRunner(t, exp, 3)

	// Cancellation is a clean stop, observed at the safe point before any
	// work starts.
	require.NoError(t, r.Run(ctx))
	assert.Zero(t, exp.trainCalls)
}

func TestRunner_ResumeKeepsIterationCount(t *testing.T) {
	t.Parallel()

	status := params.NewStatusStore()
	require.NoError(t, status.Add(StatusIterations, 7))

	exp := &mockExperiment{}
	exp.onTrain = func(call int) error {
		if call == 3 {
			return errStop
		}
		return nil
	}
	p := menu.NewScriptPrompter()
	r, err := NewRunner(RunnerOptions{
		Experiment:      exp,
		SavePath:        "test.steer",
		TestingInterval: 10,
		Status:          status,
		Prompter:        p,
		Logger:          newQuietLogger(),
		Interrupts:      make(chan os.Signal),
	})
	require.NoError(t, err)

	require.ErrorIs(t, r.Run(context.Background()), errStop)

	v, err := status.Value(StatusIterations)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestRunner_RunIDStamped(t *testing.T) {
	t.Parallel()

	exp := &mockExperiment{}
	exp.onTrain = func(call int) error { return errStop }
	r, _ := newTestRunner(t, exp, 3)

	require.ErrorIs(t, r.Run(context.Background()), errStop)

	v, err := r.Status().Value(StatusRunID)
	require.NoError(t, err)
	id, ok := v.(string)
	require.True(t, ok)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}
