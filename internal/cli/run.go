package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steerlab/steer/config"
	"github.com/steerlab/steer/experiment"
	"github.com/steerlab/steer/internal/demo"
	"github.com/steerlab/steer/internal/logging"
	"github.com/steerlab/steer/params"
)

var (
	runConfigPath string
	runSavePath   string
	runInterval   int
	runVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the built-in demonstration experiment",
	Long: `Runs a simulated noisy loss descent under interactive control.

Hit Ctrl+C to open the menu at the next iteration boundary: inspect the
loss history, change "lr" or "noise", and resume. The model is a small
YAML snapshot written to the save file on every checkpoint; restarting
with the same save file offers to load it. The loop runs until the
process is terminated (e.g. SIGTERM).

Example:
  steer run
  steer run --save-file run1.steer --interval 25
  steer run --config steer.yaml --verbose`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "steer.yaml", "path to run config file")
	runCmd.Flags().StringVar(&runSavePath, "save-file", "", "model save path (overrides config)")
	runCmd.Flags().IntVar(&runInterval, "interval", 0, "training iterations per testing iteration (overrides config)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
}

// applyOverrides folds command-line flag values into the loaded config.
func applyOverrides(cfg *config.RunConfig, savePath string, interval int) {
	if savePath != "" {
		cfg.SavePath = savePath
	}
	if interval > 0 {
		cfg.TestingInterval = interval
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := logging.New()
	if runVerbose {
		logger.SetLevel(logging.LevelDebug)
	}

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, runSavePath, runInterval)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	hyper := params.NewStore()
	status := params.NewStatusStoreWithLimit(cfg.HistoryLimit)
	exp := demo.New(hyper, status)

	runner, err := experiment.NewRunner(experiment.RunnerOptions{
		Experiment:      exp,
		SavePath:        cfg.SavePath,
		TestingInterval: cfg.TestingInterval,
		Hyper:           hyper,
		Status:          status,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("setting up runner: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runner.Run(ctx)
}
