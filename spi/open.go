package spi

import (
	"errors"
	"fmt"
	"io"

	"github.com/coreman2200/funtimes-dots/model"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	DriverSPI     = "spi"
	DriverNRZ     = "nrz"
	DriverConsole = "console"
	DriverSim     = "sim"
)

// DefaultSpeed is the SPI clock used when none is configured.
const DefaultSpeed = 4 * physic.MegaHertz

// NRZClock is the SPI clock nrzled needs: three SPI bits per 800kHz NRZ bit,
// rounded up.
const NRZClock = 2500 * physic.KiloHertz

var ErrUnknownDriver = errors.New("unknown output driver")

type Options struct {
	Driver  string
	Dev     string
	SpeedHz int64
	Pixels  int
	Log     zerolog.Logger
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open builds the output sink for o.Driver. When no SPI port can be found
// the console preview is used instead.
func Open(o Options) (model.Sink, io.Closer, error) {
	switch o.Driver {
	case DriverSim, "":
		return NewSimSink(), nopCloser, nil
	case DriverConsole:
		c := NewConsoleSink(o.Pixels)
		return c, closerFunc(c.Halt), nil
	case DriverSPI, DriverNRZ:
	default:
		return nil, nil, fmt.Errorf("%q: %w", o.Driver, ErrUnknownDriver)
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(o.Dev)
	if err != nil {
		o.Log.Warn().Err(err).Str("dev", o.Dev).Msg("no SPI port; printing at the console")
		c := NewConsoleSink(o.Pixels)
		return c, closerFunc(c.Halt), nil
	}
	return attach(p, o)
}

// attach starts the configured driver on p. p is closed if that fails.
func attach(p spi.PortCloser, o Options) (model.Sink, io.Closer, error) {
	sink, halt, err := openPort(p, o)
	if err != nil {
		if cerr := p.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", p, cerr))
		}
		return nil, nil, err
	}
	o.Log.Info().Str("driver", o.Driver).Str("port", p.String()).Msg("output ready")
	return sink, closerFunc(func() error {
		if err := halt(); err != nil {
			return errors.Join(err, p.Close())
		}
		return p.Close()
	}), nil
}

func openPort(p spi.Port, o Options) (model.Sink, func() error, error) {
	if o.Driver == DriverNRZ {
		n, err := NewNRZSink(p, o.Pixels, NRZClock)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Halt, nil
	}
	freq := DefaultSpeed
	if o.SpeedHz > 0 {
		freq = physic.Frequency(o.SpeedHz) * physic.Hertz
	}
	s, err := NewSPISink(p, freq)
	if err != nil {
		return nil, nil, err
	}
	return s, func() error { return nil }, nil
}
