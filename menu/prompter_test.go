package menu

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermPrompter_Display(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := NewTermPrompter(strings.NewReader(""), &out)
	p.Display("hello")

	assert.Equal(t, "hello\n", out.String())
}

func TestTermPrompter_Select(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := NewTermPrompter(strings.NewReader("2\n"), &out)

	choice, err := p.Select("Pick one", []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, 1, choice)
	assert.Contains(t, out.String(), "Pick one")
	assert.Contains(t, out.String(), "first")
	assert.Contains(t, out.String(), "second")
}

func TestTermPrompter_SelectRepromptsOnInvalid(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	// Garbage, out of range, then valid.
	p := NewTermPrompter(strings.NewReader("abc\n9\n1\n"), &out)

	choice, err := p.Select("Pick one", []string{"only"})
	require.NoError(t, err)
	assert.Equal(t, 0, choice)
	assert.Contains(t, out.String(), "Enter a number between 1 and 1")
}

func TestTermPrompter_SelectEOF(t *testing.T) {
	t.Parallel()

	p := NewTermPrompter(strings.NewReader(""), io.Discard)
	_, err := p.Select("Pick one", []string{"only"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestTermPrompter_PromptValue(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := NewTermPrompter(strings.NewReader("  0.05  \n"), &out)

	value, err := p.PromptValue("New value for lr")
	require.NoError(t, err)
	assert.Equal(t, "0.05", value)
	assert.Contains(t, out.String(), "New value for lr: ")
}
