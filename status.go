package vidpipe

import "fmt"

// Status is the result code of an asynchronous engine call.
//
// Zero is success, positive values are warnings (the submission may still
// have produced a completion handle), negative values above the fatal band
// are flow-control conditions the pipeline resolves locally, and everything
// at or below StatusTimeout is fatal.
type Status int32

const (
	// StatusOK means the operation was accepted.
	StatusOK Status = 0

	// StatusBusy means the device could not accept the submission right
	// now. The caller retries the identical call after a short yield.
	StatusBusy Status = 1

	// StatusMoreInput means the stage cannot proceed without more source
	// data. This is the normal way a stage says "feed me" and, during a
	// drain phase, the signal that the stage is empty.
	StatusMoreInput Status = -1

	// StatusMoreOutput means the stage wants to produce more output than
	// one call models, e.g. frame-rate conversion producing two frames per
	// input. The fixed 1:1 topology of this pipeline does not support it;
	// the controller treats it as fatal. The code exists so that
	// frame-rate-converting topologies have a contract to build on.
	StatusMoreOutput Status = -2

	// StatusNotEnoughBuffer means the task's bitstream buffer is smaller
	// than the encoder's negotiated output size. Fatal: buffer sizes are
	// fixed at pool creation.
	StatusNotEnoughBuffer Status = -3

	// StatusTimeout means a completion wait exceeded its deadline.
	StatusTimeout Status = -100

	// StatusDeviceFailed means the engine reported an unrecoverable
	// failure.
	StatusDeviceFailed Status = -101
)

// Warning reports whether the status is a non-fatal notice. A warning
// accompanied by a completion handle is treated as success; without a handle
// the caller retries the identical call.
func (s Status) Warning() bool { return s > 0 }

// FlowControl reports whether the status is a feeding/draining signal rather
// than an error.
func (s Status) FlowControl() bool {
	return s == StatusMoreInput || s == StatusMoreOutput || s == StatusNotEnoughBuffer
}

// Fatal reports whether the status aborts the pipeline.
func (s Status) Fatal() bool { return s <= StatusTimeout }

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBusy:
		return "Busy"
	case StatusMoreInput:
		return "MoreInput"
	case StatusMoreOutput:
		return "MoreOutput"
	case StatusNotEnoughBuffer:
		return "NotEnoughBuffer"
	case StatusTimeout:
		return "Timeout"
	case StatusDeviceFailed:
		return "DeviceFailed"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// Stage names the pipeline stage an error originated from.
type Stage string

// Pipeline stages as they appear in errors and logs.
const (
	StageDecode    Stage = "decode"
	StageTransform Stage = "transform"
	StageEncode    Stage = "encode"
	StageSync      Stage = "sync"
)

// StageError wraps a fatal engine status with the stage it came from.
type StageError struct {
	Stage  Stage
	Status Status
}

func (e *StageError) Error() string {
	return fmt.Sprintf("vidpipe: %s: %s", e.Stage, e.Status)
}

// fatal builds the error for a fatal status at a stage.
func fatal(stage Stage, st Status) error {
	return &StageError{Stage: stage, Status: st}
}
