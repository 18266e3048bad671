package gen

import (
	"errors"
	"log/slog"
	"maps"
)

// DefaultHeader is the first line of every aggregated conformance file.
const DefaultHeader = "// auto-generated, do not edit"

// Config holds the generator configuration.
type Config struct {
	// Header is written at the top of each aggregated file.
	Header string
	// StrictEnums requires a property type that no other rule maps to be
	// a registered enumeration. Otherwise it is assumed to be one.
	StrictEnums bool
	// ModelDirs maps entity names to a custom subdirectory of the models
	// root, e.g. "/Admin" for Admin.
	ModelDirs map[string]string
	// Extensions generate additional per-entity artifacts.
	Extensions []Extension
	// Logger receives resolution diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each aggregated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithStrictEnums enables or disables the strict enumeration policy.
func WithStrictEnums(strict bool) Option {
	return func(c *Config) error {
		c.StrictEnums = strict
		return nil
	}
}

// WithModelDirs sets custom model subdirectories by entity name.
func WithModelDirs(dirs map[string]string) Option {
	return func(c *Config) error {
		if c.ModelDirs == nil {
			c.ModelDirs = make(map[string]string)
		}
		maps.Copy(c.ModelDirs, dirs)
		return nil
	}
}

// WithExtensions adds per-entity generators.
func WithExtensions(exts ...Extension) Option {
	return func(c *Config) error {
		for _, ext := range exts {
			if ext == nil {
				return NewConfigError("Extensions", nil, "extension cannot be nil")
			}
		}
		c.Extensions = append(c.Extensions, exts...)
		return nil
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// NewConfig creates a new Config with the given options. Every option is
// applied; the error joins all options that failed.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Header: DefaultHeader}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
