package scene_test

import (
	"testing"

	"github.com/coreman2200/funtimes-dots/internal/config"
	"github.com/coreman2200/funtimes-dots/internal/scene"
	"github.com/coreman2200/funtimes-dots/model"
	"github.com/coreman2200/funtimes-dots/spi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	sink := spi.NewSimSink()
	s := model.NewStrip(10, sink)
	sc, err := scene.Build(s, []config.Pattern{
		{Kind: "segment", Colors: []string{"red", "#0000ff"}, Reps: 2, Level: 100},
		{Kind: "ramp", From: "black", To: "#00c800", Reps: 3, Level: 100},
		{Kind: "segment", Colors: []string{"white"}, Reps: 1, Level: 50},
	}, 100)
	require.NoError(t, err)
	assert.Equal(t, 8, sc.Pixels())
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Render(true))
	assert.Equal(t, []model.RGB{
		{R: 255, G: 0, B: 0}, {R: 0, G: 0, B: 255}, {R: 255, G: 0, B: 0}, {R: 0, G: 0, B: 255},
		{R: 0, G: 0, B: 0}, {R: 0, G: 100, B: 0}, {R: 0, G: 200, B: 0},
		{R: 127, G: 127, B: 127},
	}, model.DecodeFrames(sink.Last()))
}

func TestBuildBrightnessAndDim(t *testing.T) {
	s := model.NewStrip(4, spi.NewSimSink())
	_, err := scene.Build(s, []config.Pattern{
		{Kind: "segment", Colors: []string{"white"}, Reps: 4, Level: 80, Dim: &config.Dim{To: 0, Ms: 100}},
	}, 50)
	require.NoError(t, err)

	p := s.Pattern(0)
	assert.Equal(t, uint8(40), p.Level())
	require.Len(t, p.Actions(), 1)
	s.Tick(100)
	assert.Equal(t, uint8(0), p.Level())
}

func TestBuildRotates(t *testing.T) {
	s := model.NewStrip(3, spi.NewSimSink())
	sc, err := scene.Build(s, []config.Pattern{
		{Kind: "segment", Colors: []string{"red", "lime", "blue"}, Reps: 1, Level: 100, Rotate: 1},
	}, 100)
	require.NoError(t, err)
	seg := s.Pattern(0).(*model.Segment)

	require.NoError(t, s.Render(false))
	assert.True(t, sc.Step(s, 0))
	assert.Equal(t, []model.RGB{{R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}, {R: 255, G: 0, B: 0}}, seg.Colors())

	// rotation invalidates the strip
	require.NoError(t, s.Render(false))
	assert.Zero(t, s.Stats().Skipped)
}

func TestBuildBlend(t *testing.T) {
	s := model.NewStrip(5, spi.NewSimSink())
	_, err := scene.Build(s, []config.Pattern{
		{Kind: "segment", Colors: []string{"#c80000"}, Reps: 1, Level: 100},
		{Kind: "segment", Colors: []string{"black", "black", "black"}, Reps: 1, Level: 100, Blend: true},
		{Kind: "segment", Colors: []string{"#0000c8"}, Reps: 1, Level: 100},
	}, 100)
	require.NoError(t, err)
	assert.Equal(t, []model.RGB{{R: 200, G: 0, B: 0}, {R: 100, G: 0, B: 100}, {R: 0, G: 0, B: 200}}, s.Pattern(1).(*model.Segment).Colors())
}

func TestBuildErrors(t *testing.T) {
	s := model.NewStrip(4, spi.NewSimSink())

	_, err := scene.Build(s, []config.Pattern{{Kind: "segment", Reps: 1}}, 100)
	assert.ErrorIs(t, err, scene.ErrNoColors)

	_, err = scene.Build(s, []config.Pattern{{Kind: "segment", Colors: []string{"white"}, Reps: 5}}, 100)
	assert.ErrorIs(t, err, scene.ErrTooLong)

	_, err = scene.Build(s, []config.Pattern{{Kind: "ramp", From: "nope", To: "red", Reps: 2}}, 100)
	assert.Error(t, err)

	assert.Zero(t, s.Len())
}

func TestBuildNegativeDimDuration(t *testing.T) {
	s := model.NewStrip(2, spi.NewSimSink())
	_, err := scene.Build(s, []config.Pattern{
		{Kind: "segment", Colors: []string{"white"}, Reps: 2, Level: 100, Dim: &config.Dim{To: 0, Ms: -1}},
	}, 100)
	require.NoError(t, err)

	s.Tick(model.MinDuration)
	p := s.Pattern(0)
	assert.Equal(t, uint8(0), p.Level())
	assert.True(t, p.Actions()[0].Done())
}

func TestBuildCountsExistingPatterns(t *testing.T) {
	s := model.NewStrip(4, spi.NewSimSink())
	s.AddSegment([]model.RGB{model.White}, 3, 100)

	_, err := scene.Build(s, []config.Pattern{{Kind: "segment", Colors: []string{"red"}, Reps: 2, Level: 100}}, 100)
	assert.ErrorIs(t, err, scene.ErrTooLong)
	assert.Equal(t, 1, s.Len())

	sc, err := scene.Build(s, []config.Pattern{{Kind: "segment", Colors: []string{"red"}, Reps: 1, Level: 100}}, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, sc.Pixels())
	assert.NotPanics(t, func() { _ = s.Render(true) })
}
