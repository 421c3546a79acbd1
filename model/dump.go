package model

import (
	"fmt"
	"io"
)

// Dump writes a human-readable view of the composed buffer and the pattern
// list, for debugging.
func (s *Strip) Dump(w io.Writer) {
	fmt.Fprintf(w, "strip: pixels=%d patterns=%d rendered=%d bytes\n", s.pixels, len(s.pats), s.cursor)
	fmt.Fprintln(w, "Pix\tTag\tBlu\tGrn\tRed")
	for i := 0; i+FrameSize <= s.cursor; i += FrameSize {
		fmt.Fprintf(w, "%d\t0x%02X\t0x%02X\t0x%02X\t0x%02X\n", i/FrameSize, s.buf[i], s.buf[i+1], s.buf[i+2], s.buf[i+3])
	}
	if len(s.pats) == 0 {
		fmt.Fprintln(w, "no patterns")
		return
	}
	for i, p := range s.pats {
		fmt.Fprintf(w, "pattern %d\n", i)
		p.Dump(w)
	}
}

func (b *base) dump(w io.Writer, kind string, pixels int) {
	fmt.Fprintf(w, "  kind=%s pixels=%d reps=%d level=%d%% actions=%d\n", kind, pixels, b.reps, b.level, len(b.acts))
	for _, a := range b.acts {
		if d, ok := a.(*Dimmer); ok {
			fmt.Fprintf(w, "  action %s goal=%d%% done=%t\n", a.Kind(), d.Goal(), a.Done())
			continue
		}
		fmt.Fprintf(w, "  action %s done=%t\n", a.Kind(), a.Done())
	}
}

func (s *Segment) Dump(w io.Writer) {
	s.dump(w, "segment", len(s.pix))
	for i, c := range s.pix {
		if c.IsOff() {
			fmt.Fprintf(w, "  pix[%d]: off\n", i)
			continue
		}
		fmt.Fprintf(w, "  pix[%d]: 0x%02X 0x%02X 0x%02X\n", i, c.R, c.G, c.B)
	}
	if s.fade != nil {
		fmt.Fprintln(w, "  fading")
	}
}

func (r *Ramp) Dump(w io.Writer) {
	r.dump(w, "ramp", len(r.ends))
	fmt.Fprintf(w, "  from: %s\n  to:   %s\n", r.ends[0], r.ends[1])
}
