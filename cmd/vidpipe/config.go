package main

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/vidpipe"
)

// Config holds the transcode job configuration. Every field can also be set
// from the command line; flags win over the file.
type Config struct {
	Input  string `yaml:"input"`            // source stream path
	Output string `yaml:"output,omitempty"` // sink path, empty = discard

	Backend string `yaml:"backend,omitempty"` // engine backend, empty = best available

	Width  int `yaml:"width"`  // target frame width
	Height int `yaml:"height"` // target frame height

	BitrateKbps int    `yaml:"bitrate_kbps,omitempty"`
	FrameRateN  int    `yaml:"framerate_n,omitempty"`
	FrameRateD  int    `yaml:"framerate_d,omitempty"`
	AsyncDepth  int    `yaml:"async_depth,omitempty"`
	LUT         string `yaml:"lut,omitempty"` // 3D-LUT file (.cube or binary)
}

// LoadConfig reads a job configuration from a YAML file, rejecting unknown
// fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Width == 0 {
		c.Width = 640
	}
	if c.Height == 0 {
		c.Height = 480
	}
	if c.BitrateKbps == 0 {
		c.BitrateKbps = 4000
	}
	if c.FrameRateN == 0 {
		c.FrameRateN = 30
	}
	if c.FrameRateD == 0 {
		c.FrameRateD = 1
	}
	if c.AsyncDepth == 0 {
		c.AsyncDepth = vidpipe.DefaultAsyncDepth
	}
}

// validate checks the fields a transcode run requires.
func (c *Config) validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid target geometry %dx%d", c.Width, c.Height)
	}
	if c.AsyncDepth < 1 {
		return fmt.Errorf("async_depth must be at least 1")
	}
	return nil
}
