package model

// Segment is a Pattern backed by an explicit, rotatable pixel sequence.
type Segment struct {
	base
	pix  []RGB
	fade *fader
}

// fader holds per-channel fixed-point state while a fade is active.
type fader struct {
	start   []int32
	current []int32
	delta   []int32
}

// NewSegment copies pix into a new segment rendered reps times at level
// percent brightness.
func NewSegment(pix []RGB, reps int, level uint8) *Segment {
	s := &Segment{
		base: newBase(reps, level),
		pix:  make([]RGB, len(pix)),
	}
	copy(s.pix, pix)
	return s
}

func (s *Segment) Pixels() int { return len(s.pix) }

func (s *Segment) FrameLen() int { return len(s.pix) * s.reps * FrameSize }

// Colors returns the live pixel slice.
func (s *Segment) Colors() []RGB { return s.pix }

// Color returns pixel i, with negative indexes clamped to the first pixel.
func (s *Segment) Color(i int) RGB {
	if i < 0 {
		i = 0
	}
	return s.pix[i]
}

func (s *Segment) SetColor(i int, c RGB) { s.pix[i] = c }

func (s *Segment) First() RGB {
	if len(s.pix) == 0 {
		return Off
	}
	return s.pix[0]
}

func (s *Segment) Last() RGB {
	if len(s.pix) == 0 {
		return Off
	}
	return s.pix[len(s.pix)-1]
}

func (s *Segment) Render(dst []byte) int {
	n := 0
	for r := 0; r < s.reps; r++ {
		for _, c := range s.pix {
			PutFrame(dst[n:], c, s.level)
			n += FrameSize
		}
	}
	return n
}

// Fill sets pixels start..end inclusive to c. -1 selects the first or last pixel.
func (s *Segment) Fill(c RGB, start, end int) {
	start, end = s.span(start, end)
	for i := start; i <= end; i++ {
		s.pix[i] = c
	}
}

func (s *Segment) span(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end < 0 || end >= len(s.pix) {
		end = len(s.pix) - 1
	}
	return start, end
}

// RotateLeft shifts the pixels n places towards the head, wrapping around.
func (s *Segment) RotateLeft(n int) {
	l := len(s.pix)
	if l == 0 {
		return
	}
	n %= l
	if n == 0 {
		return
	}
	tmp := make([]RGB, n)
	copy(tmp, s.pix[:n])
	copy(s.pix, s.pix[n:])
	copy(s.pix[l-n:], tmp)
}

// RotateRight shifts the pixels n places towards the tail, wrapping around.
func (s *Segment) RotateRight(n int) {
	l := len(s.pix)
	if l == 0 {
		return
	}
	n %= l
	if n == 0 {
		return
	}
	tmp := make([]RGB, n)
	copy(tmp, s.pix[l-n:])
	copy(s.pix[n:], s.pix[:l-n])
	copy(s.pix, tmp)
}

// MergePix copies p1 into this segment at start1, then blends p2 on top at
// start2 keeping the brightest value of each channel. Pixels falling past the
// end of this segment are dropped.
func (s *Segment) MergePix(p1 *Segment, start1 int, p2 *Segment, start2 int) {
	if start1 >= 0 && start1 < len(s.pix) {
		copy(s.pix[start1:], p1.pix)
	}
	for i, c := range p2.pix {
		j := start2 + i
		if j < 0 {
			continue
		}
		if j >= len(s.pix) {
			break
		}
		s.pix[j] = s.pix[j].Max(c)
	}
}

// Ramp interpolates the pixels strictly between start and end from the
// colors currently at those two positions. -1 selects the first or last pixel.
func (s *Segment) Ramp(start, end int) {
	start, end = s.span(start, end)
	steps := end - start + 1
	if steps < 3 {
		return
	}
	acc := ToFixed(s.pix[start])
	d := StepSize(s.pix[start], s.pix[end], steps)
	for i := start + 1; i < end; i++ {
		acc = acc.Add(d)
		s.pix[i] = acc.RGB()
	}
}

// FadeNeighbors sets the first pixel to prev and the last pixel to next (or
// off when next is nil), then ramps between them.
func (s *Segment) FadeNeighbors(prev RGB, next *RGB) {
	if len(s.pix) == 0 {
		return
	}
	s.pix[0] = prev
	if next == nil {
		s.pix[len(s.pix)-1] = Off
	} else {
		s.pix[len(s.pix)-1] = *next
	}
	s.Ramp(-1, -1)
}

// InitFader prepares a fade from the current pixels to end in steps calls to
// StepFader. end must hold at least Pixels colors; steps < 1 is treated as 1.
func (s *Segment) InitFader(end []RGB, steps int) {
	if steps < 1 {
		steps = 1
	}
	n := len(s.pix) * 3
	f := &fader{
		start:   make([]int32, n),
		current: make([]int32, n),
		delta:   make([]int32, n),
	}
	for i, c := range s.pix {
		e := end[i]
		from := [3]uint8{c.R, c.G, c.B}
		to := [3]uint8{e.R, e.G, e.B}
		for ch := 0; ch < 3; ch++ {
			k := i*3 + ch
			f.start[k] = int32(from[ch]) << Scale
			f.current[k] = f.start[k]
			f.delta[k] = ((int32(to[ch]) - int32(from[ch])) << Scale) / int32(steps)
		}
	}
	s.fade = f
}

// StepFader advances the fade one step. Without an active fader it does nothing.
func (s *Segment) StepFader() {
	f := s.fade
	if f == nil {
		return
	}
	for k := range f.current {
		f.current[k] = clampFixed(f.current[k] + f.delta[k])
	}
	s.writeBack()
}

// ResetFader restores the colors captured by InitFader, keeping the fader.
func (s *Segment) ResetFader() {
	f := s.fade
	if f == nil {
		return
	}
	copy(f.current, f.start)
	s.writeBack()
}

// ClearFader drops the fade state; InitFader must be called to fade again.
func (s *Segment) ClearFader() {
	s.fade = nil
}

func (s *Segment) Fading() bool { return s.fade != nil }

func (s *Segment) writeBack() {
	c := s.fade.current
	for i := range s.pix {
		s.pix[i] = RGB{R: fromFixed(c[i*3]), G: fromFixed(c[i*3+1]), B: fromFixed(c[i*3+2])}
	}
}

func (s *Segment) release() {
	s.ClearFader()
	s.dropActions()
}
