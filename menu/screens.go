package menu

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/steerlab/steer/params"
)

// historyTail is how many trailing history samples StatusScreen shows per
// parameter.
const historyTail = 5

// ParseValue converts operator input into a typed value, trying int, then
// float, then bool, and falling back to the raw string. Hyperparameter
// edits go through this so numeric values stay numeric.
func ParseValue(input string) any {
	if v, err := strconv.Atoi(input); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(input, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(input); err == nil {
		return v
	}
	return input
}

// MainScreen is the entry point of the tree: branch to status or adjust, or
// return control to the loop.
type MainScreen struct {
	prompter Prompter
}

// NewMainScreen creates the main screen.
func NewMainScreen(p Prompter) *MainScreen {
	return &MainScreen{prompter: p}
}

func (s *MainScreen) Name() string { return NameMain }

// Show loops until the operator chooses to resume training.
func (s *MainScreen) Show(tree *Tree) error {
	for {
		choice, err := s.prompter.Select("Training paused", []string{
			"Show status",
			"Adjust hyperparameters",
			"Resume training",
		})
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			if err := tree.Show(NameStatus); err != nil {
				return err
			}
		case 1:
			if err := tree.Show(NameAdjust); err != nil {
				return err
			}
		case 2:
			return nil
		}
	}
}

// AdjustScreen lists hyperparameters and lets the operator overwrite one at
// a time. It is the only screen that mutates a store.
type AdjustScreen struct {
	hyper    *params.Store
	prompter Prompter
}

// NewAdjustScreen creates the hyperparameter editing screen.
func NewAdjustScreen(hyper *params.Store, p Prompter) *AdjustScreen {
	return &AdjustScreen{hyper: hyper, prompter: p}
}

func (s *AdjustScreen) Name() string { return NameAdjust }

// Show loops until the operator backs out to the main screen.
func (s *AdjustScreen) Show(tree *Tree) error {
	for {
		names := s.hyper.Names()
		sort.Strings(names)
		options := append(names, "Back")

		choice, err := s.prompter.Select("Adjust hyperparameters", options)
		if err != nil {
			return err
		}
		if choice == len(names) {
			return nil
		}

		name := names[choice]
		current, err := s.hyper.Value(name)
		if err != nil {
			return err
		}
		input, err := s.prompter.PromptValue(
			fmt.Sprintf("New value for %s (current %v)", name, current))
		if err != nil {
			return err
		}
		value := ParseValue(input)
		if err := s.hyper.Update(name, value); err != nil {
			return err
		}
		s.prompter.Display(fmt.Sprintf("%s = %s",
			nameStyle.Render(name), valueStyle.Render(fmt.Sprintf("%v", value))))
	}
}

// StatusScreen renders status parameters and their recent history. It never
// mutates anything.
type StatusScreen struct {
	status   *params.StatusStore
	prompter Prompter
}

// NewStatusScreen creates the read-only status screen.
func NewStatusScreen(status *params.StatusStore, p Prompter) *StatusScreen {
	return &StatusScreen{status: status, prompter: p}
}

func (s *StatusScreen) Name() string { return NameStatus }

// Show renders the listing, offering a refresh so the operator can re-read
// values changed by an adjust round trip.
func (s *StatusScreen) Show(tree *Tree) error {
	for {
		s.render()
		choice, err := s.prompter.Select("Status", []string{"Refresh", "Back"})
		if err != nil {
			return err
		}
		if choice == 1 {
			return nil
		}
	}
}

func (s *StatusScreen) render() {
	names := s.status.Names()
	sort.Strings(names)
	if len(names) == 0 {
		s.prompter.Display("No status parameters recorded yet.")
		return
	}
	for _, name := range names {
		value, err := s.status.Value(name)
		if err != nil {
			continue
		}
		history, err := s.status.History(name)
		if err != nil {
			continue
		}
		tail := history
		if len(tail) > historyTail {
			tail = tail[len(tail)-historyTail:]
		}
		s.prompter.Display(fmt.Sprintf("%s = %s  (recent: %v)",
			nameStyle.Render(name), valueStyle.Render(fmt.Sprintf("%v", value)), tail))
	}
}

// LoadScreen is shown once at startup when a prior checkpoint exists. It
// records whether the operator chose to load it; the control loop consults
// ShouldLoad after Show returns.
type LoadScreen struct {
	savePath   string
	prompter   Prompter
	shouldLoad bool
}

// NewLoadScreen creates the load-decision screen for the given checkpoint
// path.
func NewLoadScreen(savePath string, p Prompter) *LoadScreen {
	return &LoadScreen{savePath: savePath, prompter: p}
}

func (s *LoadScreen) Name() string { return "load" }

// Show asks the load-or-fresh question exactly once.
func (s *LoadScreen) Show(tree *Tree) error {
	choice, err := s.prompter.Select(
		fmt.Sprintf("Found a saved model at %s", s.savePath),
		[]string{"Load saved model", "Start fresh"})
	if err != nil {
		return err
	}
	s.shouldLoad = choice == 0
	return nil
}

// ShouldLoad reports the operator's answer from the last Show.
func (s *LoadScreen) ShouldLoad() bool {
	return s.shouldLoad
}
