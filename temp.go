package arena

// Temp is a restore point on an arena. It does not own the arena.
//
// Checkpoints nest in stack order: a Temp begun after another must be ended
// first. Ending them out of order is not detected and leaves the arena at
// whichever position was restored last.
type Temp struct {
	arena *Arena
	pos   uint64
}

// TempBegin captures the current position.
func (a *Arena) TempBegin() Temp {
	return Temp{arena: a, pos: a.Pos()}
}

// End restores the arena to the position captured by TempBegin.
func (t Temp) End() {
	if t.arena == nil {
		return
	}
	t.arena.PopTo(t.pos)
}

// Arena returns the arena the checkpoint was taken on.
func (t Temp) Arena() *Arena { return t.arena }

// Pos returns the saved position.
func (t Temp) Pos() uint64 { return t.pos }
