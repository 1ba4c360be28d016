package vidpipe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"
)

// SourceBufferSize is the capacity of the decoder input buffer.
const SourceBufferSize = 1 << 20

// ErrPoolExhausted is returned when no surface is free and nothing is in
// flight that could free one. It indicates an undersized pool: a correctly
// sized pipeline resolves surface exhaustion by waiting on the oldest
// in-flight task.
var ErrPoolExhausted = errors.New("vidpipe: surface pool exhausted with no operations in flight")

// phase identifies one step of the drain state machine. The same submission
// logic runs in every phase; the phase only selects which stage is still
// being fed and which is being drained with nil input.
type phase int

const (
	// phaseSteady feeds source bytes into decode while any remain.
	phaseSteady phase = iota

	// phaseDrainDecode drains frames buffered inside the decoder by
	// submitting decodes with a nil bitstream.
	phaseDrainDecode

	// phaseDrainTransform drains frames buffered inside the transform by
	// submitting transforms with a nil input surface.
	phaseDrainTransform

	// phaseDrainEncode drains frames buffered inside the encoder by
	// submitting encodes with a nil input surface.
	phaseDrainEncode
)

// String returns the phase name for logs.
func (ph phase) String() string {
	switch ph {
	case phaseSteady:
		return "steady"
	case phaseDrainDecode:
		return "drain-decode"
	case phaseDrainTransform:
		return "drain-transform"
	case phaseDrainEncode:
		return "drain-encode"
	default:
		return "unknown"
	}
}

// Pipeline is the transcode pipeline controller.
//
// A single control goroutine drives all submissions; parallelism comes from
// the engines executing accepted operations concurrently, up to the async
// depth. The controller blocks in exactly one place: waiting on the oldest
// in-flight task's completion. That is what bounds outstanding surfaces and
// buffers and what guarantees sink order equals source order.
//
// Pipeline is not safe for concurrent use.
type Pipeline struct {
	eng  *Engines
	drv  *stageDriver
	opts pipelineOptions
	log  *slog.Logger

	// Allocated at Run time, once the stream header has negotiated the
	// decode geometry.
	decPool *surface.Pool // decode output / transform input
	outPool *surface.Pool // transform output / encode input
	tasks   *taskPool
	bs      *media.Bitstream

	// Per-run state.
	src      media.Source
	sink     media.Sink
	needData bool
	frames   uint64
}

// New creates a pipeline over an engine set. Pools are sized and allocated
// on Run, after the stream header has been parsed.
func New(eng *Engines, opts ...Option) (*Pipeline, error) {
	if eng == nil || eng.Decoder == nil || eng.Transformer == nil || eng.Encoder == nil || eng.Session == nil {
		return nil, errors.New("vidpipe: engine set is incomplete")
	}

	o := defaultPipelineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := Logger()
	return &Pipeline{
		eng:  eng,
		drv:  &stageDriver{eng: eng, retry: o.retry, log: log},
		opts: o,
		log:  log,
	}, nil
}

// Frames returns the number of frames flushed to the sink so far.
func (p *Pipeline) Frames() uint64 { return p.frames }

// AsyncDepth returns the configured in-flight bound.
func (p *Pipeline) AsyncDepth() int { return p.opts.asyncDepth }

// Run transcodes src to sink and returns the number of frames flushed.
//
// On a fatal engine status or a completion-wait timeout, Run aborts all
// further submission and returns the error together with the count of frames
// already flushed; output produced so far remains valid.
func (p *Pipeline) Run(src media.Source, sink media.Sink) (uint64, error) {
	if src == nil || sink == nil {
		return 0, errors.New("vidpipe: source and sink are required")
	}
	p.src, p.sink = src, sink
	p.frames = 0
	p.needData = false

	bs, err := media.NewBitstream(SourceBufferSize)
	if err != nil {
		return 0, err
	}
	if err := src.Fill(bs); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("vidpipe: empty source stream")
		}
		return 0, fmt.Errorf("vidpipe: read source: %w", err)
	}
	decInfo, err := p.eng.Decoder.DecodeHeader(bs)
	if err != nil {
		return 0, fmt.Errorf("vidpipe: decode header: %w", err)
	}
	p.bs = bs

	if err := p.alloc(decInfo); err != nil {
		return 0, err
	}
	p.log.Info("pipeline start",
		"inWidth", decInfo.Width, "inHeight", decInfo.Height,
		"outWidth", p.outPool.Info().Width, "outHeight", p.outPool.Info().Height,
		"asyncDepth", p.opts.asyncDepth)

	for ph := phaseSteady; ph <= phaseDrainEncode; ph++ {
		p.log.Debug("phase enter", "phase", ph.String(), "frames", p.frames)
		if err := p.runPhase(ph); err != nil {
			return p.frames, err
		}
	}

	// Final synchronous drain: everything still in flight, oldest first.
	for {
		if _, ok := p.tasks.oldestInFlight(); !ok {
			break
		}
		if err := p.flushOldest(); err != nil {
			return p.frames, err
		}
	}

	p.log.Info("pipeline done", "frames", p.frames)
	return p.frames, nil
}

// alloc sizes and allocates the surface pools and the task ring from the
// negotiated geometry. Pool sizing follows the starvation-freedom invariant:
// each pool holds the frames its producer and consumer stages may retain
// concurrently, plus the async depth.
func (p *Pipeline) alloc(decInfo surface.Info) error {
	tIn, tOut := p.eng.Transformer.SuggestedSurfaces()

	nDec := p.eng.Decoder.SuggestedSurfaces() + tIn + p.opts.asyncDepth
	decPool, err := surface.NewPool(nDec, decInfo)
	if err != nil {
		return err
	}

	nOut := p.eng.Encoder.SuggestedSurfaces() + tOut + p.opts.asyncDepth
	outPool, err := surface.NewPool(nOut, p.eng.Transformer.OutputInfo())
	if err != nil {
		return err
	}

	tasks, err := newTaskPool(p.opts.asyncDepth, p.eng.Encoder.BufferSize())
	if err != nil {
		return err
	}

	p.decPool, p.outPool, p.tasks = decPool, outPool, tasks
	return nil
}

// runPhase runs one phase to exhaustion: repeatedly find a free task slot
// (waiting on the oldest in-flight one when the ring is full) and submit one
// decode/transform/encode chain into it. The phase ends when its stage
// reports it has nothing left.
func (p *Pipeline) runPhase(ph phase) error {
	for {
		idx, ok := p.tasks.findFree()
		if !ok {
			if err := p.flushOldest(); err != nil {
				return err
			}
			continue
		}
		done, err := p.submitChain(ph, idx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// submitChain drives one submission chain for the given phase, ending with
// an encode into task slot idx. It reports done=true when the phase's stage
// is exhausted and the chain submitted nothing.
func (p *Pipeline) submitChain(ph phase, idx int) (bool, error) {
	t := &p.tasks.tasks[idx]

	if ph == phaseDrainEncode {
		sp, st := p.drv.encode(nil, t.bs)
		switch st {
		case StatusOK:
			t.sp = sp
			return false, nil
		case StatusMoreInput:
			return true, nil // encoder empty
		default:
			return false, fatal(StageEncode, st)
		}
	}

	for {
		var decoded *surface.Surface
		if ph != phaseDrainTransform {
			out, done, err := p.decodeOne(ph)
			if done || err != nil {
				return done, err
			}
			decoded = out
		}

		oidx, err := p.acquireSurface(p.outPool)
		if err != nil {
			return false, err
		}
		_, st := p.drv.transform(decoded, p.outPool.At(oidx))
		switch st {
		case StatusOK:
		case StatusMoreInput:
			if ph == phaseDrainTransform {
				return true, nil // transform empty
			}
			continue // frame buffered inside the transform; decode another
		default:
			// StatusMoreOutput lands here as well: producing more
			// than one output per input is not supported by this
			// fixed 1:1 topology.
			return false, fatal(StageTransform, st)
		}

		sp, st := p.drv.encode(p.outPool.At(oidx), t.bs)
		switch st {
		case StatusOK:
			t.sp = sp
			return false, nil
		case StatusMoreInput:
			continue // encoder wants another frame before producing output
		default:
			return false, fatal(StageEncode, st)
		}
	}
}

// decodeOne submits decodes until one frame comes out, feeding the source
// whenever the decoder asks for more bytes. done=true means the stage this
// phase drains is exhausted: end of source in steady state, empty decoder
// during the decode drain.
func (p *Pipeline) decodeOne(ph phase) (*surface.Surface, bool, error) {
	for {
		var bsArg *media.Bitstream
		if ph == phaseSteady {
			if p.needData {
				err := p.src.Fill(p.bs)
				if errors.Is(err, io.EOF) {
					return nil, true, nil // source exhausted
				}
				if err != nil {
					return nil, false, fmt.Errorf("vidpipe: read source: %w", err)
				}
				p.needData = false
			}
			bsArg = p.bs
		}

		widx, err := p.acquireSurface(p.decPool)
		if err != nil {
			return nil, false, err
		}
		out, _, st := p.drv.decode(bsArg, p.decPool.At(widx))
		switch st {
		case StatusOK:
			return out, false, nil
		case StatusMoreInput:
			if ph == phaseDrainDecode {
				return nil, true, nil // decoder empty
			}
			p.needData = true
		default:
			return nil, false, fatal(StageDecode, st)
		}
	}
}

// acquireSurface returns a free surface index, resolving exhaustion by
// waiting on the oldest in-flight task: completed operations release the
// surfaces they were holding. Exhaustion with nothing in flight means the
// pool was undersized, which is fatal.
func (p *Pipeline) acquireSurface(pool *surface.Pool) (int, error) {
	for {
		if idx, ok := pool.AcquireFree(); ok {
			return idx, nil
		}
		if _, ok := p.tasks.oldestInFlight(); !ok {
			return 0, ErrPoolExhausted
		}
		if err := p.flushOldest(); err != nil {
			return 0, err
		}
	}
}

// flushOldest waits on the oldest in-flight task, writes its bytes to the
// sink, and recycles the slot. This is the controller's only blocking call,
// and always targeting the oldest slot is what makes sink order match source
// order regardless of hardware completion order.
func (p *Pipeline) flushOldest() error {
	idx, ok := p.tasks.oldestInFlight()
	if !ok {
		return nil
	}
	t := &p.tasks.tasks[idx]

	if st := p.eng.Session.SyncOperation(t.sp, p.opts.syncTimeout); st != StatusOK {
		return fatal(StageSync, st)
	}
	if err := p.sink.WriteFrame(t.bs); err != nil {
		return fmt.Errorf("vidpipe: write sink: %w", err)
	}
	p.tasks.recycle(idx)
	p.frames++

	if p.frames%100 == 0 {
		p.log.Debug("frames flushed", "count", p.frames)
	}
	return nil
}
