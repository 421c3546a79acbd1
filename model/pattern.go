package model

import "io"

// Pattern is one region of the strip. Patterns render themselves as wire
// frames into the strip buffer, in list order.
type Pattern interface {
	Level() uint8
	SetLevel(pct uint8)
	Reps() int
	SetReps(n int)
	// Pixels is the length of the stored (or generated) pixel sequence.
	Pixels() int
	// FrameLen is the number of bytes Render writes.
	FrameLen() int
	// Render writes the pattern's frames at the head of dst and returns the
	// number of bytes written. dst must hold at least FrameLen bytes.
	Render(dst []byte) int
	First() RGB
	Last() RGB

	Dim(goal uint8, dur uint32)
	RunActions(dt uint32) bool
	CleanActions()
	DeleteAction(a Action)
	Actions() []Action

	Dump(w io.Writer)
}

// base carries the state shared by every Pattern variant.
type base struct {
	level uint8
	reps  int
	acts  []Action
}

func newBase(reps int, level uint8) base {
	b := base{}
	b.SetReps(reps)
	b.SetLevel(level)
	return b
}

func (b *base) Level() uint8 { return b.level }

// SetLevel sets the brightness percentage, capped at 100.
func (b *base) SetLevel(pct uint8) {
	if pct > 100 {
		pct = 100
	}
	b.level = pct
}

// UpdateLevel shifts the level by delta percent, clamped to [0, 100].
func (b *base) UpdateLevel(delta int) {
	v := int(b.level) + delta
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	b.level = uint8(v)
}

func (b *base) Reps() int { return b.reps }

func (b *base) SetReps(n int) {
	if n < 0 {
		n = 0
	}
	b.reps = n
}

func (b *base) IncReps() { b.reps++ }

func (b *base) DecReps() {
	if b.reps > 0 {
		b.reps--
	}
}

// Dim starts a brightness ramp to goal percent over dur clock units. An
// existing dimmer is retargeted in place from the current level.
func (b *base) Dim(goal uint8, dur uint32) {
	for _, a := range b.acts {
		if d, ok := a.(*Dimmer); ok {
			d.retarget(b, goal, dur)
			return
		}
	}
	b.acts = append(b.acts, newDimmer(b, goal, dur))
}

// RunActions ticks every owned action and reports whether any of them
// changed the pattern. Completed actions are left in place.
func (b *base) RunActions(dt uint32) bool {
	changed := false
	for _, a := range b.acts {
		if a.Tick(dt) {
			changed = true
		}
	}
	return changed
}

// CleanActions drops completed actions.
func (b *base) CleanActions() {
	if len(b.acts) == 0 {
		return
	}
	kept := b.acts[:0]
	for _, a := range b.acts {
		if !a.Done() {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(b.acts); i++ {
		b.acts[i] = nil
	}
	b.acts = kept
}

func (b *base) DeleteAction(a Action) {
	for i, x := range b.acts {
		if x == a {
			copy(b.acts[i:], b.acts[i+1:])
			b.acts[len(b.acts)-1] = nil
			b.acts = b.acts[:len(b.acts)-1]
			return
		}
	}
}

func (b *base) Actions() []Action {
	out := make([]Action, len(b.acts))
	copy(out, b.acts)
	return out
}

func (b *base) dropActions() {
	b.acts = nil
}
