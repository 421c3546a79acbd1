package model

// Ramp is a Pattern that generates a gradient between two colors. Its repeat
// count is the number of gradient steps, endpoints included.
type Ramp struct {
	base
	ends  [2]RGB
	start Fixed
	delta Fixed
}

func NewRamp(from, to RGB, steps int, level uint8) *Ramp {
	r := &Ramp{
		base: newBase(steps, level),
		ends: [2]RGB{from, to},
	}
	r.recalc()
	return r
}

func (r *Ramp) recalc() {
	r.start = ToFixed(r.ends[0])
	r.delta = StepSize(r.ends[0], r.ends[1], r.reps)
}

// SetEndpoints replaces both gradient colors.
func (r *Ramp) SetEndpoints(from, to RGB) {
	r.ends = [2]RGB{from, to}
	r.recalc()
}

// SetReps sets the number of gradient steps.
func (r *Ramp) SetReps(n int) {
	r.base.SetReps(n)
	r.recalc()
}

func (r *Ramp) IncReps() {
	r.base.IncReps()
	r.recalc()
}

func (r *Ramp) DecReps() {
	r.base.DecReps()
	r.recalc()
}

func (r *Ramp) Pixels() int { return len(r.ends) }

func (r *Ramp) FrameLen() int { return r.reps * FrameSize }

func (r *Ramp) First() RGB { return r.ends[0] }

func (r *Ramp) Last() RGB { return r.ends[1] }

// Step returns the color of gradient step i.
func (r *Ramp) Step(i int) RGB {
	acc := r.start
	for j := 0; j < i; j++ {
		acc = acc.Add(r.delta)
	}
	return acc.RGB()
}

func (r *Ramp) Render(dst []byte) int {
	acc := r.start
	n := 0
	for i := 0; i < r.reps; i++ {
		PutFrame(dst[n:], acc.RGB(), r.level)
		n += FrameSize
		acc = acc.Add(r.delta)
	}
	return n
}

func (r *Ramp) release() {
	r.dropActions()
}
