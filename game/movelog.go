package game

// MoveLog is the ordered history of applied moves plus the stack of undone
// moves that can be redone.
type MoveLog struct {
	History []Move
	Undone  []Move
}

// Record appends a move and discards anything that could have been redone.
func (l *MoveLog) Record(m Move) {
	l.History = append(l.History, m)
	l.Undone = nil
}

// Undo pops the last move onto the redo stack.
func (l *MoveLog) Undo() (Move, bool) {
	if len(l.History) == 0 {
		return Move{}, false
	}
	m := l.History[len(l.History)-1]
	l.History = l.History[:len(l.History)-1]
	l.Undone = append(l.Undone, m)
	return m, true
}

// Redo pops the last undone move back onto the history.
func (l *MoveLog) Redo() (Move, bool) {
	if len(l.Undone) == 0 {
		return Move{}, false
	}
	m := l.Undone[len(l.Undone)-1]
	l.Undone = l.Undone[:len(l.Undone)-1]
	l.History = append(l.History, m)
	return m, true
}

func (l *MoveLog) CanUndo() bool { return len(l.History) > 0 }
func (l *MoveLog) CanRedo() bool { return len(l.Undone) > 0 }

func (l MoveLog) Copy() MoveLog {
	history := make([]Move, len(l.History))
	copy(history, l.History)
	undone := make([]Move, len(l.Undone))
	copy(undone, l.Undone)
	return MoveLog{History: history, Undone: undone}
}
