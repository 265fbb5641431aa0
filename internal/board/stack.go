package board

// CommandStack records reversible edits for local undo/redo. It lives for one
// room session and is discarded on leaving the room. Pushing new work always
// clears the redo branch: a fresh edit invalidates the stale redo history.
//
// Undo and Redo interpret commands against the store state at the moment of
// execution. Under concurrent remote edits the target shape may already be
// gone or replaced; the resulting undo can appear to do nothing. That hazard
// is inherent to the unordered transport, not something the stack papers over.
type CommandStack struct {
	undo []Command
	redo []Command
}

// NewCommandStack constructs an empty stack.
func NewCommandStack() *CommandStack {
	return &CommandStack{}
}

// Push records a command that has already been applied, clearing the redo
// stack.
func (st *CommandStack) Push(cmd Command) {
	st.undo = append(st.undo, cmd)
	st.redo = st.redo[:0]
}

// Undo pops the most recent command, reverts it against the current store
// state and moves it to the redo stack. It no-ops when the stack is empty.
func (st *CommandStack) Undo(s *Store) (Command, bool) {
	if len(st.undo) == 0 {
		return Command{}, false
	}
	cmd := st.undo[len(st.undo)-1]
	st.undo = st.undo[:len(st.undo)-1]
	if err := cmd.Revert(s); err != nil {
		// Unknown kind: drop the command rather than corrupt the stacks.
		return Command{}, false
	}
	st.redo = append(st.redo, cmd)
	return cmd, true
}

// Redo pops the most recent undone command, re-applies its payload and moves
// it back to the undo stack. It no-ops when the redo stack is empty.
func (st *CommandStack) Redo(s *Store) (Command, bool) {
	if len(st.redo) == 0 {
		return Command{}, false
	}
	cmd := st.redo[len(st.redo)-1]
	st.redo = st.redo[:len(st.redo)-1]
	if err := cmd.Apply(s); err != nil {
		return Command{}, false
	}
	st.undo = append(st.undo, cmd)
	return cmd, true
}

// UndoLen returns the undo stack depth.
func (st *CommandStack) UndoLen() int { return len(st.undo) }

// RedoLen returns the redo stack depth.
func (st *CommandStack) RedoLen() int { return len(st.redo) }
