package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/coreman2200/funtimes-dots/internal/config"
	"github.com/coreman2200/funtimes-dots/internal/monitor"
	"github.com/coreman2200/funtimes-dots/internal/scene"
	"github.com/coreman2200/funtimes-dots/internal/selftest"
	"github.com/coreman2200/funtimes-dots/model"
	"github.com/coreman2200/funtimes-dots/spi"
)

func main() {
	var (
		configPath string
		driver     string
		pixels     int
		fps        int
		debug      bool
		dump       bool
		testName   string
		monAddr    string
	)

	a := kingpin.New(filepath.Base(os.Args[0]), "drive an APA102 LED strip")
	a.HelpFlag.Short('h')
	a.Flag("config", "path to the YAML config").Short('c').Default("dots.yaml").StringVar(&configPath)
	a.Flag("driver", "output driver: spi | nrz | console | sim").StringVar(&driver)
	a.Flag("pixels", "number of pixels on the strip").IntVar(&pixels)
	a.Flag("fps", "target frames per second").IntVar(&fps)
	a.Flag("debug", "Log debug messages").Short('d').Default("false").BoolVar(&debug)
	a.Flag("dump", "print the strip state on exit").Default("false").BoolVar(&dump)
	a.Flag("selftest", "run a check instead of the scene: index_sweep | rgb_channels | fade").StringVar(&testName)
	a.Flag("monitor", "monitor listen address, e.g. :8080").StringVar(&monAddr)

	if _, err := a.Parse(os.Args[1:]); err != nil {
		a.Usage(os.Args[1:])
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("config load failed; proceeding with flags")
		cfg = config.Default()
	}
	if driver != "" {
		cfg.Driver = driver
	}
	if pixels > 0 {
		cfg.Pixels = pixels
	}
	if fps > 0 {
		cfg.FPS = fps
	}
	if monAddr != "" {
		cfg.Monitor.Addr = monAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Str("level", cfg.LogLevel).Msg("unknown log level; using info")
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	test := selftest.None
	if testName != "" {
		if test, err = selftest.Parse(testName); err != nil {
			log.Fatal().Err(err).Msg("invalid self test")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, test, dump); err != nil {
		log.Fatal().Err(err).Msg("dots failed")
	}
	log.Info().Msg("exiting")
}

func run(ctx context.Context, cfg *config.Config, test selftest.Kind, dump bool) error {
	sink, closer, err := spi.Open(spi.Options{
		Driver:  cfg.Driver,
		Dev:     cfg.SPI.Dev,
		SpeedHz: cfg.SPI.SpeedHz,
		Pixels:  cfg.Pixels,
		Log:     log.Logger,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	var (
		mon    *monitor.Server
		looper *spi.Looper
	)
	if cfg.Monitor.Addr != "" {
		mon = monitor.New(cfg.Pixels, cfg.Driver, func() model.Stats { return looper.Stats() }, log.Logger)
		sink = mon.Tee(sink)
	}

	strip := model.NewStrip(cfg.Pixels, sink,
		model.WithLogger(log.Logger),
		model.WithClock(spi.NewSystemClock()),
	)
	looper = spi.NewLooper(strip, spi.LoopConfig{
		FPS:        cfg.FPS,
		Heartbeat:  time.Duration(cfg.HeartbeatMs) * time.Millisecond,
		CleanEvery: cfg.CleanEvery,
	}, log.Logger)

	if test != selftest.None {
		log.Info().Str("test", string(test)).Msg("running self test")
		looper.Animate = selftest.NewRunner(test).Step
	} else {
		sc, err := scene.Build(strip, cfg.Scene, cfg.Brightness)
		if err != nil {
			return err
		}
		if strip.Len() == 0 {
			log.Warn().Msg("scene is empty; the strip stays dark")
		}
		log.Info().Int("patterns", strip.Len()).Int("pixels", sc.Pixels()).Msg("scene built")
		looper.Animate = sc.Step
	}

	if mon != nil {
		srv := &http.Server{
			Addr:         cfg.Monitor.Addr,
			Handler:      mon.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Monitor.Addr).Msg("monitor starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("monitor stopped")
			}
		}()
		defer srv.Close()
	}

	err = looper.Run(ctx)
	if ctx.Err() != nil {
		// shutdown requested
		err = nil
	}
	if dump {
		strip.Dump(os.Stderr)
	}
	if cerr := strip.ClearLights(model.Off); cerr != nil {
		log.Warn().Err(cerr).Msg("clear lights failed")
	}
	return err
}
