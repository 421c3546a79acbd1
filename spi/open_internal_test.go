package spi

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"
)

type stuckPort struct {
	*spitest.RecordRaw
	closeErr error
	closed   int
}

func (p *stuckPort) Close() error {
	p.closed++
	return p.closeErr
}

func TestAttachNRZ(t *testing.T) {
	var buf bytes.Buffer
	p := &stuckPort{RecordRaw: spitest.NewRecordRaw(&buf)}
	sink, c, err := attach(p, Options{Driver: DriverNRZ, Pixels: 2, Log: zerolog.Nop()})
	require.NoError(t, err)
	assert.IsType(t, &NRZSink{}, sink)

	require.NoError(t, c.Close())
	assert.Equal(t, 1, p.closed)
	assert.NotZero(t, buf.Len(), "halt sends the strip dark")
}

func TestAttachFailureClosesPort(t *testing.T) {
	closeErr := errors.New("port busy")
	p := &stuckPort{RecordRaw: spitest.NewRecordRaw(&bytes.Buffer{}), closeErr: closeErr}
	// a second Connect on the same port fails
	_, err := p.Connect(DefaultSpeed, 0, 8)
	require.NoError(t, err)

	_, _, err = attach(p, Options{Driver: DriverSPI, Pixels: 2, Log: zerolog.Nop()})
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.Contains(t, err.Error(), "Connect cannot be called twice")
	assert.Equal(t, 1, p.closed)
}
