package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, empty picks the first port
	SpeedHz int64  `yaml:"speed_hz"` // e.g. 4000000
}

type Monitor struct {
	Addr string `yaml:"addr"` // e.g. :8080, empty disables the monitor
}

// Dim starts a brightness transition on a scene entry.
type Dim struct {
	To int `yaml:"to"`
	Ms int `yaml:"ms"`
}

// Pattern is one entry of the static scene. Kind is "segment" or "ramp".
type Pattern struct {
	Kind   string   `yaml:"kind"`
	Colors []string `yaml:"colors,omitempty"`
	From   string   `yaml:"from,omitempty"`
	To     string   `yaml:"to,omitempty"`
	Reps   int      `yaml:"reps"`
	Level  int      `yaml:"level"`
	Rotate int      `yaml:"rotate,omitempty"` // pixels per tick, negative rotates right
	Dim    *Dim     `yaml:"dim,omitempty"`
	Blend  bool     `yaml:"blend,omitempty"` // fade from the previous pattern into the next
}

// UnmarshalYAML fills omitted reps and level with 1 and 100.
func (p *Pattern) UnmarshalYAML(n *yaml.Node) error {
	type plain Pattern
	v := plain{Reps: 1, Level: 100}
	if err := n.Decode(&v); err != nil {
		return err
	}
	*p = Pattern(v)
	return nil
}

type Config struct {
	Pixels      int     `yaml:"pixels"`
	Driver      string  `yaml:"driver"` // "spi" | "nrz" | "console" | "sim"
	SPI         SPI     `yaml:"spi,omitempty"`
	FPS         int     `yaml:"fps"`
	HeartbeatMs int     `yaml:"heartbeat_ms"`
	CleanEvery  int     `yaml:"clean_every"`
	Brightness  int     `yaml:"brightness"`
	LogLevel    string  `yaml:"log_level"`
	Monitor     Monitor `yaml:"monitor,omitempty"`

	Scene []Pattern `yaml:"scene,omitempty"`
}

var (
	ErrNoPixels    = errors.New("pixels must be positive")
	ErrPatternKind = errors.New("unknown pattern kind")
)

func Default() *Config {
	return &Config{
		Pixels:      60,
		Driver:      "sim",
		SPI:         SPI{SpeedHz: 4000000},
		FPS:         30,
		HeartbeatMs: 1000,
		CleanEvery:  30,
		Brightness:  100,
		LogLevel:    "info",
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects what cannot be driven and normalises the rest.
func (c *Config) Validate() error {
	if c.Pixels <= 0 {
		return ErrNoPixels
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.HeartbeatMs < 0 {
		c.HeartbeatMs = 0
	}
	if c.CleanEvery < 0 {
		c.CleanEvery = 0
	}
	c.Brightness = clampPct(c.Brightness)
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Scene {
		p := &c.Scene[i]
		switch p.Kind {
		case "segment", "":
			p.Kind = "segment"
		case "ramp":
		default:
			return fmt.Errorf("scene[%d] %q: %w", i, p.Kind, ErrPatternKind)
		}
		if p.Reps <= 0 {
			p.Reps = 1
		}
		p.Level = clampPct(p.Level)
		if p.Dim != nil {
			p.Dim.To = clampPct(p.Dim.To)
			if p.Dim.Ms < 0 {
				p.Dim.Ms = 0
			}
		}
	}
	return nil
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
