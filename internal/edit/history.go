// history.go implements the bounded undo/redo stacks.
//
// Commands are processed strictly in application order; undo and redo
// never reorder relative to other command types. Undo or redo on an
// empty stack is a silent no-op, never an error.

package edit

// History applies commands and records them for undo/redo.
// Not safe for concurrent use; all calls happen on the single-threaded
// event loop.
type History struct {
	target *Target
	limit  int
	undo   []Command
	redo   []Command
}

// NewHistory creates a history over target. A non-positive limit uses
// DefaultLimit.
func NewHistory(target *Target, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{target: target, limit: limit}
}

// Apply performs the mutation, pushes the command onto the undo stack
// (evicting the oldest when full), and clears the redo stack. A failed
// command is not recorded.
func (h *History) Apply(c Command) error {
	if err := c.Apply(h.target); err != nil {
		return err
	}
	if len(h.undo) == h.limit {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, c)
	h.redo = h.redo[:0]
	return nil
}

// Undo pops the last command and applies its exact inverse, moving it
// onto the redo stack. An empty stack is a silent no-op.
func (h *History) Undo() error {
	if len(h.undo) == 0 {
		return nil
	}
	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if err := c.Invert(h.target); err != nil {
		// Put it back: the state was not unwound
		h.undo = append(h.undo, c)
		return err
	}
	h.redo = append(h.redo, c)
	return nil
}

// Redo re-applies the most recently undone command. An empty stack is a
// silent no-op.
func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return nil
	}
	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := c.Apply(h.target); err != nil {
		h.redo = append(h.redo, c)
		return err
	}
	h.undo = append(h.undo, c)
	return nil
}

// CanUndo reports whether an undo would do anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the undo stack depth.
func (h *History) Depth() int { return len(h.undo) }

// UndoNames returns the undo stack's command names, oldest first.
// Used by history display.
func (h *History) UndoNames() []string {
	out := make([]string, len(h.undo))
	for i, c := range h.undo {
		out[i] = c.Name()
	}
	return out
}
