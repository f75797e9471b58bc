// Package config loads the parameters of a dtnsim run from YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains all the parameters of a simulation run.
type Config struct {
	// Router names the forwarding strategy every node uses.
	Router string `yaml:"router"`

	// Nodes is the total number of nodes.
	Nodes int `yaml:"nodes"`

	// StationaryNodes is how many of the nodes never move. Their future
	// path is unknown to their neighbors.
	StationaryNodes int `yaml:"stationary_nodes"`

	Area AreaConfig `yaml:"area"`

	// RadioRange is the distance within which two nodes are connected.
	RadioRange float64 `yaml:"radio_range"`

	// Bandwidth is the link speed in bytes per second. Zero means transfers
	// complete at the next tick.
	Bandwidth float64 `yaml:"bandwidth"`

	// BufferSize is the buffer capacity of each node in bytes.
	BufferSize int `yaml:"buffer_size"`

	Mobility MobilityConfig `yaml:"mobility"`
	Messages MessageConfig  `yaml:"messages"`

	// TickFrequency is how many times per simulated second the world
	// updates.
	TickFrequency float64 `yaml:"tick_frequency"`

	// Duration is the simulated time in seconds.
	Duration float64 `yaml:"duration"`

	Seed uint64 `yaml:"seed"`

	// Output is the path of the SQLite recording, without extension. Empty
	// picks a unique name.
	Output string `yaml:"output"`

	Recorder RecorderConfig `yaml:"recorder"`
}

// RecorderConfig selects where the simulation records are stored.
type RecorderConfig struct {
	// Type is "sqlite" or "clickhouse".
	Type string `yaml:"type"`

	// DSN is the ClickHouse connection string, for example
	// clickhouse://default:@localhost:9000/dtnsim.
	DSN string `yaml:"dsn,omitempty"`

	// BatchSize is the number of entries buffered before a flush.
	BatchSize int `yaml:"batch_size,omitempty"`
}

// AreaConfig is the size of the simulated world.
type AreaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// MobilityConfig configures the random waypoint movement.
type MobilityConfig struct {
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`

	// Lookahead is the number of future waypoints that make up a node's
	// known path.
	Lookahead int `yaml:"lookahead"`
}

// MessageConfig configures the generated traffic.
type MessageConfig struct {
	// Interval is the time between two generated messages. Zero disables
	// traffic generation.
	Interval float64 `yaml:"interval"`
	MinSize  int     `yaml:"min_size"`
	MaxSize  int     `yaml:"max_size"`

	// TTL is the lifetime of a message in seconds. Zero means messages
	// never expire.
	TTL float64 `yaml:"ttl"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Router:          "distanceload",
		Nodes:           40,
		StationaryNodes: 0,
		Area:            AreaConfig{Width: 1000, Height: 1000},
		RadioRange:      50,
		Bandwidth:       250000,
		BufferSize:      5000000,
		Mobility: MobilityConfig{
			MinSpeed:  0.5,
			MaxSpeed:  1.5,
			Lookahead: 3,
		},
		Messages: MessageConfig{
			Interval: 30,
			MinSize:  500000,
			MaxSize:  1000000,
			TTL:      18000,
		},
		TickFrequency: 1,
		Duration:      43200,
		Seed:          1,
		Recorder: RecorderConfig{
			Type: "sqlite",
		},
	}
}

// LoadFile loads a configuration from a YAML file. Fields missing from the
// file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads the given dotenv files into the environment and applies the
// DTNSIM_* variables to cfg. Without files, a .env file in the working
// directory is loaded if it exists. Variables already set in the environment
// take precedence over the files.
func LoadEnv(cfg *Config, files ...string) error {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
	}

	return applyEnvOverrides(cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DTNSIM_ROUTER"); v != "" {
		cfg.Router = v
	}

	if v := os.Getenv("DTNSIM_OUTPUT"); v != "" {
		cfg.Output = v
	}

	if v := os.Getenv("DTNSIM_RECORDER"); v != "" {
		cfg.Recorder.Type = v
	}

	if v := os.Getenv("DTNSIM_CLICKHOUSE_DSN"); v != "" {
		cfg.Recorder.DSN = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"DTNSIM_NODES", &cfg.Nodes},
		{"DTNSIM_STATIONARY_NODES", &cfg.StationaryNodes},
		{"DTNSIM_BUFFER_SIZE", &cfg.BufferSize},
		{"DTNSIM_LOOKAHEAD", &cfg.Mobility.Lookahead},
		{"DTNSIM_MESSAGE_MIN_SIZE", &cfg.Messages.MinSize},
		{"DTNSIM_MESSAGE_MAX_SIZE", &cfg.Messages.MaxSize},
		{"DTNSIM_RECORDER_BATCH_SIZE", &cfg.Recorder.BatchSize},
	}
	for _, e := range ints {
		if v := os.Getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, e.name, v)
			}
			*e.dst = n
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"DTNSIM_AREA_WIDTH", &cfg.Area.Width},
		{"DTNSIM_AREA_HEIGHT", &cfg.Area.Height},
		{"DTNSIM_RADIO_RANGE", &cfg.RadioRange},
		{"DTNSIM_BANDWIDTH", &cfg.Bandwidth},
		{"DTNSIM_MIN_SPEED", &cfg.Mobility.MinSpeed},
		{"DTNSIM_MAX_SPEED", &cfg.Mobility.MaxSpeed},
		{"DTNSIM_MESSAGE_INTERVAL", &cfg.Messages.Interval},
		{"DTNSIM_MESSAGE_TTL", &cfg.Messages.TTL},
		{"DTNSIM_TICK_FREQUENCY", &cfg.TickFrequency},
		{"DTNSIM_DURATION", &cfg.Duration},
	}
	for _, e := range floats {
		if v := os.Getenv(e.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, e.name, v)
			}
			*e.dst = f
		}
	}

	if v := os.Getenv("DTNSIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: DTNSIM_SEED=%q", ErrInvalidConfig, v)
		}
		cfg.Seed = seed
	}

	return nil
}

// Validate checks that the configuration can be simulated.
func (c *Config) Validate() error {
	switch {
	case c.Router == "":
		return fmt.Errorf("%w: router must be set", ErrInvalidConfig)
	case c.Nodes < 1:
		return fmt.Errorf("%w: nodes must be positive, got %d",
			ErrInvalidConfig, c.Nodes)
	case c.StationaryNodes < 0 || c.StationaryNodes > c.Nodes:
		return fmt.Errorf("%w: stationary_nodes must be between 0 and %d, got %d",
			ErrInvalidConfig, c.Nodes, c.StationaryNodes)
	case c.Area.Width <= 0 || c.Area.Height <= 0:
		return fmt.Errorf("%w: area must have a positive size",
			ErrInvalidConfig)
	case c.RadioRange <= 0:
		return fmt.Errorf("%w: radio_range must be positive, got %g",
			ErrInvalidConfig, c.RadioRange)
	case c.Bandwidth < 0:
		return fmt.Errorf("%w: bandwidth must be non-negative, got %g",
			ErrInvalidConfig, c.Bandwidth)
	case c.BufferSize <= 0:
		return fmt.Errorf("%w: buffer_size must be positive, got %d",
			ErrInvalidConfig, c.BufferSize)
	case c.Mobility.MinSpeed < 0 || c.Mobility.MaxSpeed < c.Mobility.MinSpeed:
		return fmt.Errorf("%w: speeds must satisfy 0 <= min_speed <= max_speed",
			ErrInvalidConfig)
	case c.Messages.Interval < 0 || c.Messages.TTL < 0:
		return fmt.Errorf("%w: message interval and ttl must be non-negative",
			ErrInvalidConfig)
	case c.Messages.MinSize <= 0 || c.Messages.MaxSize < c.Messages.MinSize:
		return fmt.Errorf("%w: message sizes must satisfy 0 < min_size <= max_size",
			ErrInvalidConfig)
	case c.TickFrequency <= 0:
		return fmt.Errorf("%w: tick_frequency must be positive, got %g",
			ErrInvalidConfig, c.TickFrequency)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g",
			ErrInvalidConfig, c.Duration)
	}

	return c.Recorder.validate()
}

func (r RecorderConfig) validate() error {
	switch {
	case r.Type != "sqlite" && r.Type != "clickhouse":
		return fmt.Errorf("%w: recorder type must be sqlite or clickhouse, got %q",
			ErrInvalidConfig, r.Type)
	case r.Type == "clickhouse" && r.DSN == "":
		return fmt.Errorf("%w: clickhouse recorder requires a dsn",
			ErrInvalidConfig)
	case r.BatchSize < 0:
		return fmt.Errorf("%w: recorder batch_size must be non-negative",
			ErrInvalidConfig)
	}

	return nil
}
