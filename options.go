package vidpipe

import "time"

// Defaults for pipeline construction.
const (
	// DefaultAsyncDepth is the number of encode operations that may be in
	// flight before the controller must wait on the oldest one. Four has
	// proven a good balance between engine utilization and latency.
	DefaultAsyncDepth = 4

	// DefaultSyncTimeout bounds a single completion wait. Exceeding it is
	// fatal: the hardware is considered wedged.
	DefaultSyncTimeout = 60 * time.Second
)

// RetryPolicy bounds the cooperative busy-retry loop for one submission.
// A busy engine is retried with the identical call after Delay, at most
// MaxAttempts times; exhausting the budget is fatal.
type RetryPolicy struct {
	Delay       time.Duration
	MaxAttempts int
}

// defaultRetryPolicy mirrors the traditional 1 ms yield, bounded so a wedged
// device cannot spin the control goroutine forever.
func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Delay: time.Millisecond, MaxAttempts: 1000}
}

// Option configures a Pipeline during creation.
//
// Example:
//
//	p, err := vidpipe.New(eng,
//	    vidpipe.WithAsyncDepth(8),
//	    vidpipe.WithSyncTimeout(10*time.Second),
//	)
type Option func(*pipelineOptions)

// pipelineOptions holds optional configuration for Pipeline creation.
type pipelineOptions struct {
	asyncDepth  int
	syncTimeout time.Duration
	retry       RetryPolicy
}

// defaultPipelineOptions returns the default pipeline options.
func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		asyncDepth:  DefaultAsyncDepth,
		syncTimeout: DefaultSyncTimeout,
		retry:       defaultRetryPolicy(),
	}
}

// WithAsyncDepth sets the bounded number of in-flight encode tasks.
// Values below one are ignored.
func WithAsyncDepth(n int) Option {
	return func(o *pipelineOptions) {
		if n >= 1 {
			o.asyncDepth = n
		}
	}
}

// WithSyncTimeout sets the per-wait completion deadline.
// Non-positive values are ignored.
func WithSyncTimeout(d time.Duration) Option {
	return func(o *pipelineOptions) {
		if d > 0 {
			o.syncTimeout = d
		}
	}
}

// WithRetryPolicy sets the busy-retry backoff policy.
// A zero MaxAttempts is ignored.
func WithRetryPolicy(rp RetryPolicy) Option {
	return func(o *pipelineOptions) {
		if rp.MaxAttempts > 0 {
			o.retry = rp
		}
	}
}
