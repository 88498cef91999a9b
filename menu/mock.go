package menu

import (
	"fmt"
	"strconv"
)

// ScriptPrompter implements Prompter by replaying a canned script of
// selections and values. It records everything displayed so tests can make
// assertions about what the operator would have seen. Exported for use by
// tests in other packages.
type ScriptPrompter struct {
	// Script entries are consumed in order. Select consumes the next entry
	// as a 0-based index, PromptValue consumes it verbatim.
	Script []string

	// Displayed collects every Display call.
	Displayed []string

	// Selections records each (title, chosen option) pair.
	Selections [][2]string

	pos int
}

// NewScriptPrompter creates a ScriptPrompter that replays the given script.
func NewScriptPrompter(script ...string) *ScriptPrompter {
	return &ScriptPrompter{Script: script}
}

// Display records the text.
func (p *ScriptPrompter) Display(text string) {
	p.Displayed = append(p.Displayed, text)
}

// Select consumes the next script entry as the 0-based index to choose.
func (p *ScriptPrompter) Select(title string, options []string) (int, error) {
	entry, err := p.next("Select", title)
	if err != nil {
		return 0, err
	}
	choice, err := strconv.Atoi(entry)
	if err != nil || choice < 0 || choice >= len(options) {
		return 0, fmt.Errorf("scripted selection %q invalid for %d options", entry, len(options))
	}
	p.Selections = append(p.Selections, [2]string{title, options[choice]})
	return choice, nil
}

// PromptValue consumes the next script entry verbatim.
func (p *ScriptPrompter) PromptValue(label string) (string, error) {
	return p.next("PromptValue", label)
}

func (p *ScriptPrompter) next(op, label string) (string, error) {
	if p.pos >= len(p.Script) {
		return "", fmt.Errorf("script exhausted at %s(%q)", op, label)
	}
	entry := p.Script[p.pos]
	p.pos++
	return entry, nil
}
