package vidpipe

import (
	"time"

	"github.com/gogpu/vidpipe/lut"
	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"
)

// SyncPoint is an opaque token correlating one submitted operation with its
// eventual completion. Waiting happens through Session.SyncOperation; no two
// outstanding sync points may share a task slot.
type SyncPoint any

// Decoder is the first pipeline stage. Implementations are engine backends;
// the pipeline treats them as opaque.
type Decoder interface {
	// DecodeHeader parses the stream header from the front of bs and
	// returns the negotiated frame geometry. The pipeline calls it once,
	// with the first chunk of the stream, before sizing its pools.
	// Header bytes are not consumed.
	DecodeHeader(bs *media.Bitstream) (surface.Info, error)

	// SuggestedSurfaces returns how many output surfaces the decoder may
	// hold concurrently, excluding async depth.
	SuggestedSurfaces() int

	// DecodeFrameAsync submits one decode. bs is nil during draining.
	// work is the surface the decoder may write into; the returned surface
	// is the decoded frame in display order, which can differ from work
	// when the decoder reorders. A warning status with a non-nil sync
	// point is success; a warning without one means retry the identical
	// call.
	DecodeFrameAsync(bs *media.Bitstream, work *surface.Surface) (*surface.Surface, SyncPoint, Status)

	// Close releases decoder resources.
	Close() error
}

// Transformer is the middle stage: pixel format conversion, scaling, and
// optional 3D-LUT color mapping.
type Transformer interface {
	// OutputInfo returns the fixed output geometry.
	OutputInfo() surface.Info

	// SuggestedSurfaces returns how many input and output surfaces the
	// transform may hold concurrently, excluding async depth.
	SuggestedSurfaces() (in, out int)

	// RunFrameAsync submits one transform from in to out. in is nil
	// during draining.
	RunFrameAsync(in, out *surface.Surface) (SyncPoint, Status)

	// Close releases transform resources.
	Close() error
}

// Encoder is the final stage, producing sink-ready bytes.
type Encoder interface {
	// SuggestedSurfaces returns how many input surfaces the encoder may
	// hold concurrently, excluding async depth.
	SuggestedSurfaces() int

	// BufferSize returns the negotiated per-task output buffer capacity.
	BufferSize() int

	// EncodeFrameAsync submits one encode from in into out. in is nil
	// during draining. Output bytes are appended to out's valid window
	// when the operation completes.
	EncodeFrameAsync(in *surface.Surface, out *media.Bitstream) (SyncPoint, Status)

	// Close releases encoder resources.
	Close() error
}

// Session owns completion signaling for a set of engines.
type Session interface {
	// SyncOperation blocks until the operation behind sp completes or the
	// timeout elapses. StatusTimeout is fatal to the pipeline.
	SyncOperation(sp SyncPoint, timeout time.Duration) Status

	// Close releases session resources. Engines must be closed first;
	// their in-flight operations complete through the session.
	Close() error
}

// Engines bundles one backend's stage implementations with the session that
// signals their completions.
type Engines struct {
	Decoder     Decoder
	Transformer Transformer
	Encoder     Encoder
	Session     Session
}

// Close closes the engines in pipeline order, then the session.
func (e *Engines) Close() error {
	var first error
	for _, c := range []interface{ Close() error }{e.Decoder, e.Transformer, e.Encoder, e.Session} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// EngineConfig carries the parameters a backend needs to build its engine
// set. Geometry for the decode side comes from the stream header, not from
// the config.
type EngineConfig struct {
	// Target is the transform output (and encoder input) geometry.
	Target surface.Info

	// BitrateKbps is the encoder target bitrate.
	BitrateKbps int

	// FrameRate is the nominal frames per second, as a rational.
	FrameRateN, FrameRateD int

	// AsyncDepth is the bounded number of in-flight operations per stage.
	// Zero means DefaultAsyncDepth.
	AsyncDepth int

	// LUT is an optional 3D color lookup table applied by the transform
	// stage.
	LUT *lut.Table
}
