package model

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Margin is the number of spare pixel frames allocated past the strip length.
const Margin = 2

// ErrOverrun is the panic cause when patterns render past the strip buffer.
var ErrOverrun = errors.New("strip buffer overrun")

// Clock returns a free-running millisecond count. Only differences between
// two readings are used, so wrap-around is harmless.
type Clock interface {
	Millis() uint32
}

type Stats struct {
	Frames   uint64 // full transmissions
	Renders  uint64 // recompositions of the buffer
	Skipped  uint64 // renders served from the previous buffer
	Bytes    uint64 // bytes handed to the sink
	Patterns int
	Actions  int
}

type Option func(*Strip)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Strip) { s.log = l }
}

func WithClock(c Clock) Option {
	return func(s *Strip) { s.clock = c }
}

type releaser interface {
	release()
}

// Strip owns an ordered list of patterns and the composed wire buffer for a
// strip of a fixed number of pixels.
type Strip struct {
	pixels int
	pats   []Pattern
	buf    []byte
	cursor int

	sink    Sink
	clock   Clock
	last    uint32
	changed bool

	stats Stats
	log   zerolog.Logger
}

func NewStrip(pixels int, sink Sink, opts ...Option) *Strip {
	if pixels < 0 {
		pixels = 0
	}
	s := &Strip{
		pixels:  pixels,
		buf:     make([]byte, (pixels+Margin)*FrameSize),
		sink:    sink,
		changed: true,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.clock != nil {
		s.last = s.clock.Millis()
	}
	return s
}

func (s *Strip) PixelCount() int { return s.pixels }

func (s *Strip) Len() int { return len(s.pats) }

func (s *Strip) Pattern(i int) Pattern { return s.pats[i] }

// Bytes returns the composed pixel frames up to the write cursor.
func (s *Strip) Bytes() []byte { return s.buf[:s.cursor] }

// Append adds p at the tail of the strip and returns its index.
func (s *Strip) Append(p Pattern) int {
	s.pats = append(s.pats, p)
	s.changed = true
	s.log.Debug().Int("index", len(s.pats)-1).Int("bytes", p.FrameLen()).Msg("pattern appended")
	return len(s.pats) - 1
}

// AddSegment appends a segment of pix repeated reps times.
func (s *Strip) AddSegment(pix []RGB, reps int, level uint8) *Segment {
	p := NewSegment(pix, reps, level)
	s.Append(p)
	return p
}

// AddRamp appends a gradient of steps pixels from one color to another.
func (s *Strip) AddRamp(from, to RGB, steps int, level uint8) *Ramp {
	p := NewRamp(from, to, steps, level)
	s.Append(p)
	return p
}

// Clear drops every pattern along with its actions and fade state.
func (s *Strip) Clear() {
	for i, p := range s.pats {
		if r, ok := p.(releaser); ok {
			r.release()
		}
		s.pats[i] = nil
	}
	if len(s.pats) > 0 {
		s.log.Debug().Int("patterns", len(s.pats)).Msg("patterns cleared")
	}
	s.pats = s.pats[:0]
	s.changed = true
}

// Invalidate makes the next Render recompose the buffer. Direct edits to a
// pattern are not seen otherwise.
func (s *Strip) Invalidate() { s.changed = true }

// SetLevel applies one brightness percentage to every pattern.
func (s *Strip) SetLevel(pct uint8) {
	for _, p := range s.pats {
		p.SetLevel(pct)
	}
	s.changed = true
}

// Tick runs every pattern's actions for dt clock units and reports whether
// any pattern changed.
func (s *Strip) Tick(dt uint32) bool {
	changed := false
	for _, p := range s.pats {
		if p.RunActions(dt) {
			changed = true
		}
	}
	if changed {
		s.changed = true
	}
	return changed
}

// Update ticks the strip by the time elapsed on the clock since the last call.
func (s *Strip) Update() bool {
	if s.clock == nil {
		return s.Tick(0)
	}
	now := s.clock.Millis()
	dt := now - s.last
	s.last = now
	return s.Tick(dt)
}

// CleanActions drops completed actions from every pattern.
func (s *Strip) CleanActions() {
	dropped := 0
	for _, p := range s.pats {
		n := len(p.Actions())
		p.CleanActions()
		dropped += n - len(p.Actions())
	}
	if dropped > 0 {
		s.log.Debug().Int("actions", dropped).Msg("completed actions dropped")
	}
}

// Render recomposes the buffer when something changed or force is set, then
// transmits a full frame. Rendering past the buffer panics with ErrOverrun.
func (s *Strip) Render(force bool) error {
	if !s.changed && !force {
		s.stats.Skipped++
		s.log.Trace().Int("bytes", s.cursor).Msg("render skipped")
		return s.Transmit()
	}
	s.changed = false
	s.cursor = 0
	for i, p := range s.pats {
		n := p.FrameLen()
		if s.cursor+n > len(s.buf) {
			panic(fmt.Errorf("pattern %d needs %d bytes at offset %d of %d: %w", i, n, s.cursor, len(s.buf), ErrOverrun))
		}
		s.cursor += p.Render(s.buf[s.cursor:])
	}
	s.stats.Renders++
	return s.Transmit()
}

// Show advances the strip by the clock and renders it.
func (s *Strip) Show(force bool) error {
	s.Update()
	return s.Render(force)
}

// Transmit sends leader, composed frames and trailer to the sink.
func (s *Strip) Transmit() error {
	if err := writeZeros(s.sink, LeaderLen); err != nil {
		return err
	}
	for _, b := range s.buf[:s.cursor] {
		if err := s.sink.WriteByte(b); err != nil {
			return fmt.Errorf("write pixels: %w", err)
		}
	}
	trailer := TrailerLen(s.pixels)
	if err := writeZeros(s.sink, trailer); err != nil {
		return err
	}
	if f, ok := s.sink.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}
	}
	s.stats.Frames++
	s.stats.Bytes += uint64(LeaderLen + s.cursor + trailer)
	return nil
}

// ClearLights paints the whole strip with fill and leaves the list empty.
func (s *Strip) ClearLights(fill RGB) error {
	s.Clear()
	s.AddSegment([]RGB{fill}, s.pixels, 100)
	err := s.Render(true)
	s.Clear()
	return err
}

// FadeNeighbors blends the segment at index i from prev into the first pixel
// of the pattern after it. It reports false when i is not a segment.
func (s *Strip) FadeNeighbors(i int, prev RGB) bool {
	if i < 0 || i >= len(s.pats) {
		return false
	}
	seg, ok := s.pats[i].(*Segment)
	if !ok {
		return false
	}
	var next *RGB
	if i+1 < len(s.pats) {
		c := s.pats[i+1].First()
		next = &c
	}
	seg.FadeNeighbors(prev, next)
	s.changed = true
	return true
}

func (s *Strip) Stats() Stats {
	st := s.stats
	st.Patterns = len(s.pats)
	for _, p := range s.pats {
		st.Actions += len(p.Actions())
	}
	return st
}
