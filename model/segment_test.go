package model_test

import (
	"strconv"
	"testing"

	. "github.com/coreman2200/funtimes-dots/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rainbow(n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		out[i] = RGB{uint8(i * 7), uint8(255 - i*3), uint8(i * 11)}
	}
	return out
}

func TestSegmentRender(t *testing.T) {
	s := NewSegment([]RGB{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}, 2, 100)
	require.Equal(t, 24, s.FrameLen())

	buf := make([]byte, s.FrameLen())
	n := s.Render(buf)
	assert.Equal(t, 24, n)
	one := []byte{0xFF, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0xFF, 0x00, 0x00}
	assert.Equal(t, append(append([]byte{}, one...), one...), buf)
}

func TestSegmentRenderScalesByLevel(t *testing.T) {
	s := NewSegment([]RGB{{200, 100, 50}}, 1, 50)
	buf := make([]byte, 4)
	s.Render(buf)
	assert.Equal(t, []byte{0xFF, 25, 50, 100}, buf)
	// the pixel buffer itself is untouched
	assert.Equal(t, RGB{200, 100, 50}, s.Color(0))

	s.SetLevel(0)
	s.Render(buf)
	assert.Equal(t, []byte{0xFF, 0, 0, 0}, buf)
}

func TestSegmentCopiesInput(t *testing.T) {
	in := []RGB{{1, 2, 3}}
	s := NewSegment(in, 1, 100)
	in[0] = Off
	assert.Equal(t, RGB{1, 2, 3}, s.First())
}

func TestSegmentRotateRoundTrip(t *testing.T) {
	orig := rainbow(9)
	for k := 0; k <= len(orig); k++ {
		t.Run("Rotate"+strconv.Itoa(k), func(t *testing.T) {
			s := NewSegment(orig, 1, 100)
			s.RotateLeft(k)
			s.RotateRight(k)
			assert.Equal(t, orig, s.Colors())
		})
	}
}

func TestSegmentRotate(t *testing.T) {
	a, b, c, d := RGB{1, 0, 0}, RGB{2, 0, 0}, RGB{3, 0, 0}, RGB{4, 0, 0}
	s := NewSegment([]RGB{a, b, c, d}, 1, 100)

	s.RotateLeft(1)
	assert.Equal(t, []RGB{b, c, d, a}, s.Colors())
	s.RotateRight(2)
	assert.Equal(t, []RGB{d, a, b, c}, s.Colors())
	s.RotateLeft(4)
	assert.Equal(t, []RGB{d, a, b, c}, s.Colors())
	s.RotateRight(0)
	assert.Equal(t, []RGB{d, a, b, c}, s.Colors())
	s.RotateLeft(5)
	assert.Equal(t, []RGB{a, b, c, d}, s.Colors())

	empty := NewSegment(nil, 1, 100)
	empty.RotateLeft(3)
	empty.RotateRight(3)
	assert.Empty(t, empty.Colors())
}

func TestSegmentFill(t *testing.T) {
	s := NewSegment(make([]RGB, 5), 1, 100)
	s.Fill(White, 1, 3)
	assert.Equal(t, []RGB{Off, White, White, White, Off}, s.Colors())
	s.Fill(RGB{9, 9, 9}, -1, -1)
	for _, c := range s.Colors() {
		assert.Equal(t, RGB{9, 9, 9}, c)
	}
}

func TestSegmentMergePix(t *testing.T) {
	dst := NewSegment(make([]RGB, 6), 1, 100)
	p1 := NewSegment([]RGB{{100, 0, 0}, {100, 50, 0}, {100, 0, 200}}, 1, 100)
	p2 := NewSegment([]RGB{{50, 80, 10}, {150, 10, 10}, {0, 0, 0}}, 1, 100)

	dst.MergePix(p1, 0, p2, 1)
	assert.Equal(t, []RGB{
		{100, 0, 0},
		{100, 80, 10},
		{150, 10, 200},
		{0, 0, 0},
		Off,
		Off,
	}, dst.Colors())

	// overflow past the destination is clipped
	dst.MergePix(p1, 4, p2, 5)
	assert.Equal(t, RGB{100, 0, 0}, dst.Color(4))
	assert.Equal(t, RGB{100, 80, 10}, dst.Color(5))
}

func TestSegmentFader(t *testing.T) {
	start := rainbow(6)
	end := []RGB{White, Off, {128, 64, 32}, {1, 2, 3}, {250, 5, 100}, {0, 255, 0}}

	for _, steps := range []int{1, 2, 3, 10, 64, 1000} {
		t.Run("Steps"+strconv.Itoa(steps), func(t *testing.T) {
			s := NewSegment(start, 1, 100)
			s.InitFader(end, steps)
			require.True(t, s.Fading())
			for i := 0; i < steps; i++ {
				s.StepFader()
			}
			for i, c := range s.Colors() {
				assert.InDelta(t, end[i].R, c.R, 1)
				assert.InDelta(t, end[i].G, c.G, 1)
				assert.InDelta(t, end[i].B, c.B, 1)
			}

			s.ResetFader()
			assert.Equal(t, start, s.Colors())
			s.StepFader()
			s.ResetFader()
			assert.Equal(t, start, s.Colors())
		})
	}
}

func TestSegmentFaderZeroSteps(t *testing.T) {
	s := NewSegment([]RGB{Off}, 1, 100)
	s.InitFader([]RGB{White}, 0)
	s.StepFader()
	assert.Equal(t, White, s.First())
}

func TestSegmentFaderClamps(t *testing.T) {
	s := NewSegment([]RGB{{250, 5, 0}}, 1, 100)
	s.InitFader([]RGB{{255, 0, 0}}, 2)
	for i := 0; i < 10; i++ {
		s.StepFader()
	}
	assert.Equal(t, RGB{255, 0, 0}, s.First())
}

func TestSegmentClearFader(t *testing.T) {
	s := NewSegment([]RGB{Off, Off}, 1, 100)
	s.InitFader([]RGB{White, White}, 4)
	s.StepFader()
	snapshot := append([]RGB{}, s.Colors()...)
	s.ClearFader()
	assert.False(t, s.Fading())

	s.StepFader()
	s.ResetFader()
	assert.Equal(t, snapshot, s.Colors())
}

func TestSegmentRamp(t *testing.T) {
	s := NewSegment(make([]RGB, 5), 1, 100)
	s.SetColor(0, RGB{0, 0, 0})
	s.SetColor(4, RGB{100, 200, 40})
	s.Ramp(-1, -1)
	assert.Equal(t, []RGB{
		{0, 0, 0},
		{25, 50, 10},
		{50, 100, 20},
		{75, 150, 30},
		{100, 200, 40},
	}, s.Colors())
}

func TestSegmentFadeNeighbors(t *testing.T) {
	s := NewSegment(make([]RGB, 3), 1, 100)
	next := RGB{0, 0, 200}
	s.FadeNeighbors(RGB{200, 0, 0}, &next)
	assert.Equal(t, []RGB{{200, 0, 0}, {100, 0, 100}, {0, 0, 200}}, s.Colors())

	s.FadeNeighbors(RGB{200, 0, 0}, nil)
	assert.Equal(t, []RGB{{200, 0, 0}, {100, 0, 0}, Off}, s.Colors())
}
