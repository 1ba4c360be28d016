// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"time"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/surface"
)

// operation is the sync point handed back by the software engines.
// The worker closes done after running the completion side effects.
type operation struct {
	done    chan struct{}
	release *surface.Surface
}

// completedDone is shared by operations whose work already happened at
// submission time, so waiting on them returns immediately.
var completedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func completedOp() *operation {
	return &operation{done: completedDone}
}

// session signals operation completions from a worker goroutine.
//
// The pixel work of the software engines happens synchronously at submission;
// what the worker adds is the completion timing of a real device: surfaces
// stay locked until the operation completes, possibly after further
// submissions have happened.
type session struct {
	work  chan *operation
	idle  chan struct{}
	delay time.Duration
}

func newSession(delay time.Duration) *session {
	s := &session{
		work:  make(chan *operation, 64),
		idle:  make(chan struct{}),
		delay: delay,
	}
	go s.run()
	return s
}

func (s *session) run() {
	for op := range s.work {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		if op.release != nil {
			op.release.Release()
		}
		close(op.done)
	}
	close(s.idle)
}

// submit schedules completion of an operation holding surf. surf is released
// when the operation completes.
func (s *session) submit(surf *surface.Surface) *operation {
	op := &operation{done: make(chan struct{}), release: surf}
	s.work <- op
	return op
}

// SyncOperation blocks until the operation completes or timeout elapses.
func (s *session) SyncOperation(sp vidpipe.SyncPoint, timeout time.Duration) vidpipe.Status {
	op, ok := sp.(*operation)
	if !ok {
		return vidpipe.StatusDeviceFailed
	}
	select {
	case <-op.done:
		return vidpipe.StatusOK
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-op.done:
		return vidpipe.StatusOK
	case <-timer.C:
		return vidpipe.StatusTimeout
	}
}

// Close stops the worker after draining queued completions.
func (s *session) Close() error {
	close(s.work)
	<-s.idle
	return nil
}
