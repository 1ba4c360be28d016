// Package vidpipe drives a fixed-topology, asynchronous media transcode
// pipeline: decode, pixel-format/scale transform, encode.
//
// # Overview
//
// vidpipe models the submission style of hardware video engines. Every stage
// call is non-blocking: it either accepts an operation and returns a
// completion handle, or reports a flow-control condition (more input needed,
// device momentarily busy) that the single control goroutine resolves by
// feeding, retrying, or waiting on the oldest outstanding operation. At most
// AsyncDepth encode operations are in flight at once, and output frames reach
// the sink in exactly source order even when the engines complete out of
// order.
//
// # Quick start
//
//	import (
//	    "github.com/gogpu/vidpipe"
//	    "github.com/gogpu/vidpipe/media"
//	    _ "github.com/gogpu/vidpipe/backend/software" // registers the software backend
//	)
//
//	eng, err := vidpipe.NewEngines(vidpipe.EngineConfig{
//	    Target: surface.Info{FourCC: surface.FourCCRGBA, Width: 1280, Height: 720},
//	})
//	// feed the first chunk, negotiate geometry, build the pipeline
//	p, err := vidpipe.New(eng)
//	frames, err := p.Run(media.NewReader(in), media.NewWriter(out))
//
// # Architecture
//
// The library is organized into:
//   - Public API: Pipeline, Engines, Status, functional options
//   - surface/: frame buffer arena and pools
//   - media/: bitstream buffers, source readers, sink writers
//   - lut/: 3D color lookup tables for the transform stage
//   - backend/: engine implementations (pure-Go software, optional hardware)
//
// Backends register themselves like surface backends in gg: by name, with a
// priority and an availability probe, via blank import.
package vidpipe
