// Package menu implements the interactive session shown while the control
// loop is paused: a flat tree of named screens over the parameter stores,
// driven by a small prompt/selection interface.
//
// Screens never talk to a terminal directly; they go through a Prompter.
// TermPrompter is the line-oriented terminal implementation, ScriptPrompter
// is the scripted implementation used in tests.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter is the interaction surface consumed by screens.
type Prompter interface {
	// Display writes a line of text to the operator.
	Display(text string)

	// Select presents a titled list of options and returns the index of
	// the chosen one.
	Select(title string, options []string) (int, error)

	// PromptValue asks the operator for a free-form value.
	PromptValue(label string) (string, error)
}

// TermPrompter is a line-oriented Prompter over a reader/writer pair,
// normally stdin/stdout.
type TermPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTermPrompter creates a TermPrompter over the given streams.
func NewTermPrompter(in io.Reader, out io.Writer) *TermPrompter {
	return &TermPrompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// NewStdioPrompter creates a TermPrompter over stdin/stdout. It fails if
// stdin is not a terminal, since an interactive session cannot run without
// an operator on the other end.
func NewStdioPrompter() (*TermPrompter, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	return NewTermPrompter(os.Stdin, os.Stdout), nil
}

// Display writes a line of text to the output stream.
func (p *TermPrompter) Display(text string) {
	fmt.Fprintln(p.out, text)
}

// Select renders the title and numbered options, then reads selections
// until the operator enters a valid option number (1-based on screen,
// 0-based in the returned index).
func (p *TermPrompter) Select(title string, options []string) (int, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, titleStyle.Render(title))
	for i, option := range options {
		fmt.Fprintf(p.out, "  %s %s\n", indexStyle.Render(fmt.Sprintf("%d.", i+1)), option)
	}

	for {
		fmt.Fprint(p.out, "> ")
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintln(p.out, errorStyle.Render(
				fmt.Sprintf("Enter a number between 1 and %d.", len(options))))
			continue
		}
		return choice - 1, nil
	}
}

// PromptValue prints the label and reads one line of input.
func (p *TermPrompter) PromptValue(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine()
}

func (p *TermPrompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}
