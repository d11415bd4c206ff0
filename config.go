package scrollback

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a Config holds values that cannot be applied.
var ErrInvalidConfig = errors.New("scrollback: invalid config")

// Config describes a buffer and the screen laid over it.
//
// Example:
//
//	capacity: 5000
//	archive_rows: 10000
//	rows: 24
//	cols: 80
//	log_level: debug
type Config struct {
	// Capacity is the buffer row limit. 0 means DefaultCapacity.
	Capacity int `yaml:"capacity"`
	// ArchiveRows keeps evicted rows in a MemoryArchive of that size. 0 disables the archive.
	ArchiveRows int `yaml:"archive_rows"`
	// Rows and Cols are the screen dimensions. 0 means the defaults.
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
	// LogLevel is a slog level name (debug, info, warn, error). Empty disables logging.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		Rows:     DefaultRows,
		Cols:     DefaultCols,
	}
}

// LoadConfig reads a YAML config from r. Missing keys keep their defaults;
// unknown keys are rejected. An empty document yields DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field can be applied.
func (c Config) Validate() error {
	switch {
	case c.Capacity < 0:
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Capacity)
	case c.ArchiveRows < 0:
		return fmt.Errorf("%w: archive_rows %d", ErrInvalidConfig, c.ArchiveRows)
	case c.Rows < 0 || c.Cols < 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	}

	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return level, nil
}

// Logger returns a text logger writing to w at LogLevel, or nil when
// LogLevel is empty.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	if c.LogLevel == "" {
		return nil, nil
	}
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// BufferOptions converts the config into Buffer options. logger may be nil.
func (c Config) BufferOptions(logger *slog.Logger) []Option {
	opts := []Option{
		WithCapacity(c.Capacity),
		WithLogger(logger),
	}
	if c.ArchiveRows > 0 {
		opts = append(opts, WithArchive(NewMemoryArchive(c.ArchiveRows)))
	}
	return opts
}

// ScreenOptions converts the config into Screen options. logger may be nil.
func (c Config) ScreenOptions(logger *slog.Logger) []ScreenOption {
	return []ScreenOption{
		WithSize(c.Rows, c.Cols),
		WithScreenLogger(logger),
	}
}

// NewScreen builds a buffer and a screen over it. Log output goes to
// logOutput when LogLevel is set.
func (c Config) NewScreen(logOutput io.Writer) (*Screen, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := c.Logger(logOutput)
	if err != nil {
		return nil, err
	}

	buf := NewBuffer(c.BufferOptions(logger)...)
	return NewScreen(buf, c.ScreenOptions(logger)...), nil
}
