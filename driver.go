package vidpipe

import (
	"log/slog"
	"time"

	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"
)

// stageDriver wraps the three opaque engines with the uniform retry
// contract: a warning status with a sync point is success, a warning without
// one is retried with the identical call after a short yield, and everything
// else passes through for the controller to interpret.
//
// The driver never blocks on completion. Its only waiting is the bounded
// busy-retry yield; exhausting that budget surfaces StatusBusy to the
// controller, which treats it as fatal.
type stageDriver struct {
	eng   *Engines
	retry RetryPolicy
	log   *slog.Logger
}

// submit runs fn under the busy-retry policy and normalizes warnings.
func (d *stageDriver) submit(stage Stage, fn func() (SyncPoint, Status)) (SyncPoint, Status) {
	for attempt := 0; ; attempt++ {
		sp, st := fn()
		if st.Warning() {
			if sp != nil {
				// Output is available; the warning is informational.
				return sp, StatusOK
			}
			if attempt+1 < d.retry.MaxAttempts {
				time.Sleep(d.retry.Delay)
				continue
			}
			d.log.Warn("busy retry budget exhausted",
				"stage", string(stage), "attempts", d.retry.MaxAttempts)
			return nil, StatusBusy
		}
		return sp, st
	}
}

// decode submits one decode call. bs is nil while draining the decoder.
func (d *stageDriver) decode(bs *media.Bitstream, work *surface.Surface) (out *surface.Surface, sp SyncPoint, st Status) {
	sp, st = d.submit(StageDecode, func() (SyncPoint, Status) {
		var s Status
		out, sp, s = d.eng.Decoder.DecodeFrameAsync(bs, work)
		return sp, s
	})
	return out, sp, st
}

// transform submits one transform call. in is nil while draining the
// transform stage.
func (d *stageDriver) transform(in, out *surface.Surface) (SyncPoint, Status) {
	return d.submit(StageTransform, func() (SyncPoint, Status) {
		return d.eng.Transformer.RunFrameAsync(in, out)
	})
}

// encode submits one encode call. in is nil while draining the encoder.
func (d *stageDriver) encode(in *surface.Surface, out *media.Bitstream) (SyncPoint, Status) {
	return d.submit(StageEncode, func() (SyncPoint, Status) {
		return d.eng.Encoder.EncodeFrameAsync(in, out)
	})
}
