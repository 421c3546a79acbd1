package spi

import (
	"context"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-dots/model"
	"github.com/rs/zerolog"
)

const DefaultFPS = 30

type LoopConfig struct {
	FPS int
	// Heartbeat forces a full recomposition at least this often; zero disables it.
	Heartbeat time.Duration
	// CleanEvery drops completed actions every n ticks; zero disables it.
	CleanEvery int
}

// Looper drives a strip at a fixed frame rate. The strip must only be touched
// from Animate once Run has started.
type Looper struct {
	strip *model.Strip
	cfg   LoopConfig
	log   zerolog.Logger

	// Animate runs before every frame. Returning false ends the loop.
	Animate func(s *model.Strip, tick uint64) bool

	mu    sync.RWMutex
	stats model.Stats
	ticks uint64
}

func NewLooper(s *model.Strip, cfg LoopConfig, log zerolog.Logger) *Looper {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	return &Looper{strip: s, cfg: cfg, log: log}
}

// Run renders frames until ctx is done or Animate returns false.
func (l *Looper) Run(ctx context.Context) error {
	delta := time.Second / time.Duration(l.cfg.FPS)
	ticker := time.NewTicker(delta)
	defer ticker.Stop()

	l.log.Info().Int("fps", l.cfg.FPS).Dur("heartbeat", l.cfg.Heartbeat).Msg("render loop started")
	forced := time.Now()
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			l.log.Info().Uint64("ticks", tick).Msg("render loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			if l.Animate != nil && !l.Animate(l.strip, tick) {
				l.log.Info().Uint64("ticks", tick).Msg("animation finished")
				return nil
			}
			force := l.cfg.Heartbeat > 0 && now.Sub(forced) >= l.cfg.Heartbeat
			if force {
				forced = now
			}
			if err := l.strip.Show(force); err != nil {
				l.log.Warn().Err(err).Uint64("tick", tick).Msg("transmit failed")
			}
			tick++
			if l.cfg.CleanEvery > 0 && tick%uint64(l.cfg.CleanEvery) == 0 {
				l.strip.CleanActions()
			}
			l.publish(tick)
		}
	}
}

func (l *Looper) publish(tick uint64) {
	st := l.strip.Stats()
	l.mu.Lock()
	l.stats = st
	l.ticks = tick
	l.mu.Unlock()
}

// Stats returns the strip counters as of the last completed frame. Safe for
// use from other goroutines.
func (l *Looper) Stats() model.Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

func (l *Looper) Ticks() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ticks
}
