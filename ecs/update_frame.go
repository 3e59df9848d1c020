package ecs

type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage

	halted bool
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Halt stops the scheduler from running the remaining systems of this frame.
// Queued commands are still flushed.
func (f *UpdateFrame) Halt() {
	f.halted = true
}

// Halted reports whether Halt was called during this frame.
func (f *UpdateFrame) Halted() bool {
	return f.halted
}
