// Package scene lays out a strip from the static scene in the config file.
package scene

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-dots/internal/config"
	"github.com/coreman2200/funtimes-dots/model"
)

var (
	ErrNoColors = errors.New("segment has no colors")
	ErrTooLong  = errors.New("scene does not fit the strip")
)

type rotor struct {
	seg *model.Segment
	n   int
}

// Scene keeps the per-tick motion of the patterns it built.
type Scene struct {
	rotors []rotor
	frames int
}

// Build appends the configured patterns to s. brightness scales every
// pattern level.
func Build(s *model.Strip, pats []config.Pattern, brightness int) (*Scene, error) {
	sc := &Scene{}
	for i := 0; i < s.Len(); i++ {
		sc.frames += s.Pattern(i).FrameLen() / model.FrameSize
	}
	var (
		built []model.Pattern
		blend []int
	)
	for i, p := range pats {
		level := uint8(clamp(p.Level*brightness/100, 0, 100))
		var pat model.Pattern
		switch p.Kind {
		case "ramp":
			from, err := model.ParseColor(p.From)
			if err != nil {
				return nil, fmt.Errorf("scene[%d] from: %w", i, err)
			}
			to, err := model.ParseColor(p.To)
			if err != nil {
				return nil, fmt.Errorf("scene[%d] to: %w", i, err)
			}
			pat = model.NewRamp(from, to, p.Reps, level)
		default:
			if len(p.Colors) == 0 {
				return nil, fmt.Errorf("scene[%d]: %w", i, ErrNoColors)
			}
			pix := make([]model.RGB, len(p.Colors))
			for j, name := range p.Colors {
				c, err := model.ParseColor(name)
				if err != nil {
					return nil, fmt.Errorf("scene[%d] color %d: %w", i, j, err)
				}
				pix[j] = c
			}
			seg := model.NewSegment(pix, p.Reps, level)
			if p.Rotate != 0 {
				sc.rotors = append(sc.rotors, rotor{seg: seg, n: p.Rotate})
			}
			if p.Blend {
				blend = append(blend, i)
			}
			pat = seg
		}
		sc.frames += pat.FrameLen() / model.FrameSize
		if sc.frames > s.PixelCount() {
			return nil, fmt.Errorf("%d pixels on a strip of %d: %w", sc.frames, s.PixelCount(), ErrTooLong)
		}
		if p.Dim != nil {
			pat.Dim(uint8(clamp(p.Dim.To, 0, 100)), uint32(max(p.Dim.Ms, 0)))
		}
		built = append(built, pat)
	}

	base := s.Len()
	for _, p := range built {
		s.Append(p)
	}
	for _, i := range blend {
		prev := model.Off
		if base+i > 0 {
			prev = s.Pattern(base + i - 1).Last()
		}
		s.FadeNeighbors(base+i, prev)
	}
	return sc, nil
}

// Pixels is the number of pixels the scene covers.
// Pixels reports how many pixels the strip's patterns cover.
func (sc *Scene) Pixels() int { return sc.frames }

// Step advances rotating segments by one tick. It always reports true so it
// can drive a looper for as long as the process runs.
func (sc *Scene) Step(s *model.Strip, _ uint64) bool {
	for _, r := range sc.rotors {
		if r.n > 0 {
			r.seg.RotateLeft(r.n)
		} else {
			r.seg.RotateRight(-r.n)
		}
	}
	if len(sc.rotors) > 0 {
		s.Invalidate()
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
