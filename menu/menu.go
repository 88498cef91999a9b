package menu

import "fmt"

// Screen names used in the standard tree.
const (
	NameMain   = "main"
	NameAdjust = "adjust"
	NameStatus = "status"
)

// Screen is one named unit of the menu tree. Show runs the screen's
// interactive loop; it may navigate to sibling screens through the tree and
// returns when the operator backs out.
type Screen interface {
	Name() string
	Show(tree *Tree) error
}

// UnknownScreenError is returned by Tree.Show for a name that was never
// added.
type UnknownScreenError struct {
	Name string
}

func (e *UnknownScreenError) Error() string {
	return fmt.Sprintf("unknown menu screen %q", e.Name)
}

// Tree is a flat dispatch table of screens keyed by name.
type Tree struct {
	screens map[string]Screen
}

// NewTree creates an empty Tree.
func NewTree() *Tree {
	return &Tree{screens: make(map[string]Screen)}
}

// Add registers a screen under its own name, replacing any previous screen
// with that name.
func (t *Tree) Add(s Screen) {
	t.screens[s.Name()] = s
}

// Show dispatches to the named screen.
func (t *Tree) Show(name string) error {
	s, ok := t.screens[name]
	if !ok {
		return &UnknownScreenError{Name: name}
	}
	return s.Show(t)
}
