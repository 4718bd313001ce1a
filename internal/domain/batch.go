package domain

// Batch is the ordered set of commands transmitted in one frame exchange. It
// is owned by the frame loop for the duration of a single exchange and is
// never retained across frames. Hooks may inspect and append; nothing may
// remove or reorder commands already in the batch.
type Batch struct {
	commands []Command
}

// NewBatch seeds a batch with the caller's commands, which always come first
// in the transmitted order.
func NewBatch(commands []Command) *Batch {
	b := &Batch{commands: make([]Command, 0, len(commands)+8)}
	b.commands = append(b.commands, commands...)
	return b
}

// Append adds commands to the end of the batch.
func (b *Batch) Append(commands ...Command) {
	b.commands = append(b.commands, commands...)
}

func (b *Batch) Len() int { return len(b.commands) }

// Commands returns the batch contents in transmission order. The returned
// slice is a copy; appending to it does not grow the batch.
func (b *Batch) Commands() []Command {
	out := make([]Command, len(b.commands))
	copy(out, b.commands)
	return out
}
