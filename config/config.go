// Package config loads the settings of the machan command line tool.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const EnvFile = "MACHAN_CONFIG"

const (
	DefaultPrompt      = "machan> "
	DefaultHeader      = "Machane!!"
	DefaultHistorySize = 500
	DefaultMaxDepth    = 1000
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Path string `yaml:"-"`

	MaxDepth    int    `yaml:"max_depth"`
	Prompt      string `yaml:"prompt"`
	History     string `yaml:"history"`
	HistorySize int    `yaml:"history_size"`
	Color       bool   `yaml:"color"`
	Header      string `yaml:"header"`
}

func Default() *Config {
	cfg := Config{
		MaxDepth:    DefaultMaxDepth,
		Prompt:      DefaultPrompt,
		HistorySize: DefaultHistorySize,
		Color:       true,
		Header:      DefaultHeader,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.History = filepath.Join(home, ".machan_history")
	}
	return &cfg
}

// Find loads the file given by path or, when empty, the one named by
// $MACHAN_CONFIG. Without any of them the defaults are returned.
func Find(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	r, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cfg, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// Decode reads a YAML document on top of the defaults. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative: %w", ErrInvalid)
	}
	if c.Header == "" {
		return fmt.Errorf("header must not be empty: %w", ErrInvalid)
	}
	return nil
}
