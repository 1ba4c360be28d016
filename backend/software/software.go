// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/surface"
)

// Name is the registry name of this backend.
const Name = "software"

// Priority is the registry priority: below hardware engines.
const Priority = 10

func init() {
	vidpipe.Register(Name, Priority, New, nil)
}

// Option configures the software engine set beyond what EngineConfig carries.
type Option func(*options)

type options struct {
	decodeDelay     int
	completionDelay time.Duration
	encodeBusyEvery int
	level           zstd.EncoderLevel
}

func defaultOptions() options {
	return options{level: zstd.SpeedFastest}
}

// WithDecodeDelay makes the decoder hold back n frames before its first
// output, like a reordering hardware decoder. The held frames come out during
// draining.
func WithDecodeDelay(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.decodeDelay = n
		}
	}
}

// WithCompletionDelay delays every operation's completion by d, so surfaces
// stay locked across subsequent submissions the way they do on real hardware.
func WithCompletionDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.completionDelay = d
		}
	}
}

// WithEncodeBusyEvery makes the encoder report a transient busy on every n-th
// submission. Zero disables injection.
func WithEncodeBusyEvery(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.encodeBusyEvery = n
		}
	}
}

// WithEncoderLevel selects the zstd compression level of the encode stage.
func WithEncoderLevel(level zstd.EncoderLevel) Option {
	return func(o *options) { o.level = level }
}

// New builds a software engine set from cfg. It is the registered factory.
func New(cfg vidpipe.EngineConfig) (*vidpipe.Engines, error) {
	return NewWithOptions(cfg)
}

// NewWithOptions builds a software engine set with backend-specific options.
func NewWithOptions(cfg vidpipe.EngineConfig, opts ...Option) (*vidpipe.Engines, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, fmt.Errorf("software: target: %w", err)
	}
	if cfg.Target.FourCC != surface.FourCCRGBA {
		return nil, fmt.Errorf("software: unsupported target layout %q", cfg.Target.FourCC.String())
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dec, err := newDecoder(o.decodeDelay)
	if err != nil {
		return nil, fmt.Errorf("software: %w", err)
	}
	ses := newSession(o.completionDelay)
	enc, err := newEncoder(ses, cfg.Target, o.level, o.encodeBusyEvery)
	if err != nil {
		dec.Close()
		ses.Close()
		return nil, fmt.Errorf("software: %w", err)
	}

	return &vidpipe.Engines{
		Decoder:     dec,
		Transformer: &transformer{out: cfg.Target, lut: cfg.LUT},
		Encoder:     enc,
		Session:     ses,
	}, nil
}
