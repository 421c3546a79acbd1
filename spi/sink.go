package spi

import (
	"fmt"
	"io"
	"sync"

	"github.com/coreman2200/funtimes-dots/model"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
)

// SPISink collects one transmission and clocks it out in a single
// transaction when the strip flushes the frame.
type SPISink struct {
	c   conn.Conn
	buf []byte
}

func NewSPISink(p spi.Port, freq physic.Frequency) (*SPISink, error) {
	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("connect spi: %w", err)
	}
	return &SPISink{c: c}, nil
}

func (s *SPISink) WriteByte(b byte) error {
	s.buf = append(s.buf, b)
	return nil
}

func (s *SPISink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	err := s.c.Tx(s.buf, nil)
	s.buf = s.buf[:0]
	if err != nil {
		return fmt.Errorf("spi tx: %w", err)
	}
	return nil
}

func (s *SPISink) String() string { return "spi{" + s.c.String() + "}" }

// pixelSink decodes the pixel frames of a transmission and hands the colors
// to a device that takes packed RGB bytes.
type pixelSink struct {
	w   io.Writer
	buf []byte
	rgb []byte
}

func newPixelSink(w io.Writer, pixels int) pixelSink {
	return pixelSink{w: w, rgb: make([]byte, pixels*3)}
}

func (p *pixelSink) WriteByte(b byte) error {
	p.buf = append(p.buf, b)
	return nil
}

func (p *pixelSink) Flush() error {
	for i := range p.rgb {
		p.rgb[i] = 0
	}
	for i, c := range model.DecodeFrames(p.buf) {
		if i*3 >= len(p.rgb) {
			break
		}
		p.rgb[i*3], p.rgb[i*3+1], p.rgb[i*3+2] = c.R, c.G, c.B
	}
	p.buf = p.buf[:0]
	if _, err := p.w.Write(p.rgb); err != nil {
		return fmt.Errorf("write pixels: %w", err)
	}
	return nil
}

// NRZSink drives a WS281x strip from the same transmissions.
type NRZSink struct {
	pixelSink
	dev *nrzled.Dev
}

func NewNRZSink(p spi.Port, pixels int, freq physic.Frequency) (*NRZSink, error) {
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZSink{pixelSink: newPixelSink(d, pixels), dev: d}, nil
}

func (n *NRZSink) Halt() error { return n.dev.Halt() }

func (n *NRZSink) String() string { return n.dev.String() }

// ConsoleSink prints every frame to the terminal.
type ConsoleSink struct {
	pixelSink
	dev *screen.Dev
}

func NewConsoleSink(pixels int) *ConsoleSink {
	d := screen.New(pixels)
	return &ConsoleSink{pixelSink: newPixelSink(d, pixels), dev: d}
}

func (c *ConsoleSink) Halt() error { return c.dev.Halt() }

func (c *ConsoleSink) String() string { return "console" }

// SimSink discards output and keeps the last flushed transmission.
type SimSink struct {
	mu     sync.Mutex
	cur    []byte
	last   []byte
	frames uint64
}

func NewSimSink() *SimSink { return &SimSink{} }

func (s *SimSink) WriteByte(b byte) error {
	s.mu.Lock()
	s.cur = append(s.cur, b)
	s.mu.Unlock()
	return nil
}

func (s *SimSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = append(s.last[:0], s.cur...)
	s.cur = s.cur[:0]
	s.frames++
	return nil
}

// Last returns a copy of the most recent transmission.
func (s *SimSink) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

func (s *SimSink) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *SimSink) String() string { return "sim" }
