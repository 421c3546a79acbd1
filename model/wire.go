package model

import (
	"fmt"
	"io"
)

const (
	// LeaderLen zero bytes open every transmission.
	LeaderLen = 4
	// FrameSize is the size of one pixel frame on the wire.
	FrameSize = 4
	// FrameStart marks the first byte of every pixel frame.
	FrameStart byte = 0xFF
)

// Sink receives the transmitted bytes in order.
type Sink interface {
	io.ByteWriter
}

// Flusher is implemented by sinks that buffer a whole frame before sending.
type Flusher interface {
	Flush() error
}

// TrailerLen is the number of zero bytes needed to latch a strip of n pixels.
func TrailerLen(pixels int) int {
	return pixels/16 + 1
}

// levelFactor converts a 0-100 percentage into an 8.8 fixed-point multiplier.
func levelFactor(pct uint8) uint16 {
	if pct >= 100 {
		return 256
	}
	return uint16(pct) << 8 / 100
}

func scaleChannel(c uint8, f uint16) byte {
	return byte((uint16(c) * f) >> 8)
}

// PutFrame encodes one pixel as FF,B,G,R scaled by level into dst[:4].
func PutFrame(dst []byte, c RGB, level uint8) {
	f := levelFactor(level)
	_ = dst[3]
	dst[0] = FrameStart
	dst[1] = scaleChannel(c.B, f)
	dst[2] = scaleChannel(c.G, f)
	dst[3] = scaleChannel(c.R, f)
}

// DecodeFrames extracts pixel colors from consecutive wire frames. Bytes that
// do not start a frame are skipped, so leader and trailer bytes are ignored.
func DecodeFrames(b []byte) []RGB {
	out := make([]RGB, 0, len(b)/FrameSize)
	for i := 0; i+FrameSize <= len(b); {
		if b[i] != FrameStart {
			i++
			continue
		}
		out = append(out, RGB{R: b[i+3], G: b[i+2], B: b[i+1]})
		i += FrameSize
	}
	return out
}

func writeZeros(w io.ByteWriter, n int) error {
	for i := 0; i < n; i++ {
		if err := w.WriteByte(0); err != nil {
			return fmt.Errorf("write framing: %w", err)
		}
	}
	return nil
}
