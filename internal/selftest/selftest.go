// Package selftest lays out wiring and color checks on a strip, one frame
// per step.
package selftest

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-dots/model"
)

type Kind string

const (
	None        Kind = ""
	IndexSweep  Kind = "index_sweep"
	RGBChannels Kind = "rgb_channels"
	Fade        Kind = "fade"
)

// FadeSteps is the length of each half of the fade check.
const FadeSteps = 32

var ErrUnknownTest = errors.New("unknown self test")

func Parse(name string) (Kind, error) {
	switch k := Kind(name); k {
	case IndexSweep, RGBChannels, Fade:
		return k, nil
	}
	return None, fmt.Errorf("%q: %w", name, ErrUnknownTest)
}

type Runner struct {
	kind Kind
	step int
	seg  *model.Segment
}

func NewRunner(k Kind) *Runner { return &Runner{kind: k} }

func (r *Runner) Kind() Kind { return r.kind }

// Step lays out the next check on s; returns false when complete.
func (r *Runner) Step(s *model.Strip, _ uint64) bool {
	n := s.PixelCount()
	if n == 0 {
		return false
	}

	switch r.kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		if r.step == 0 {
			pix := make([]model.RGB, n)
			pix[0] = model.White
			r.reset(s, pix)
		} else {
			r.seg.RotateRight(1)
		}
	case RGBChannels:
		if r.step >= 3 {
			return false
		}
		var c model.RGB
		switch r.step {
		case 0:
			c.R = 255
		case 1:
			c.G = 255
		case 2:
			c.B = 255
		}
		s.Clear()
		s.AddSegment([]model.RGB{c}, n, 100)
	case Fade:
		switch {
		case r.step == 0:
			r.reset(s, make([]model.RGB, n))
			r.seg.InitFader(solid(n, model.White), FadeSteps)
		case r.step == FadeSteps+1:
			r.seg.InitFader(solid(n, model.Off), FadeSteps)
			r.seg.StepFader()
		case r.step > 2*FadeSteps:
			r.seg.ClearFader()
			return false
		default:
			r.seg.StepFader()
		}
	default:
		return false
	}
	s.Invalidate()
	r.step++
	return true
}

func (r *Runner) reset(s *model.Strip, pix []model.RGB) {
	s.Clear()
	r.seg = s.AddSegment(pix, 1, 100)
}

func solid(n int, c model.RGB) []model.RGB {
	out := make([]model.RGB, n)
	for i := range out {
		out[i] = c
	}
	return out
}
