package vidpipe

import "github.com/gogpu/vidpipe/media"

// task is one slot of the in-flight encode ring. A slot is idle when its
// sync point is nil and in flight otherwise. The bitstream buffer is sized
// once, from the encoder's negotiated buffer size, and reused for the life
// of the pipeline.
type task struct {
	bs *media.Bitstream
	sp SyncPoint
}

// reset returns the slot to idle. The cursor pair must be zeroed before the
// slot can be reused; reuse without reset would emit stale bytes.
func (t *task) reset() {
	t.sp = nil
	t.bs.Reset()
}

// taskPool is a fixed ring of encode task slots. Its size is the pipeline's
// async depth: when no slot is free, the controller must wait on the oldest
// in-flight slot before submitting anything new.
//
// Hardware completes operations in arbitrary order, so the pool tracks the
// submission order itself: oldest is a ring cursor advanced on every flush.
// FIFO output holds because the controller only ever waits on the oldest
// slot, never on an arbitrary completed one.
type taskPool struct {
	tasks  []task
	oldest int
}

// newTaskPool allocates size slots with bufCap-byte bitstream buffers.
func newTaskPool(size, bufCap int) (*taskPool, error) {
	tp := &taskPool{tasks: make([]task, size)}
	for i := range tp.tasks {
		bs, err := media.NewBitstream(bufCap)
		if err != nil {
			return nil, err
		}
		tp.tasks[i].bs = bs
	}
	return tp, nil
}

// findFree returns the first idle slot in ring order, starting at the oldest
// cursor. Scanning in ring order keeps submissions aligned with the flush
// order even when the ring drains completely mid-stream.
func (tp *taskPool) findFree() (int, bool) {
	for k := range tp.tasks {
		i := (tp.oldest + k) % len(tp.tasks)
		if tp.tasks[i].sp == nil {
			return i, true
		}
	}
	return 0, false
}

// oldestInFlight returns the slot submitted longest ago, or false when
// nothing is in flight.
func (tp *taskPool) oldestInFlight() (int, bool) {
	if tp.tasks[tp.oldest].sp == nil {
		return 0, false
	}
	return tp.oldest, true
}

// recycle resets slot i and advances the oldest cursor past it.
// i must be the current oldest in-flight slot.
func (tp *taskPool) recycle(i int) {
	tp.tasks[i].reset()
	tp.oldest = (tp.oldest + 1) % len(tp.tasks)
}

// inFlight counts slots with an outstanding sync point.
func (tp *taskPool) inFlight() int {
	n := 0
	for i := range tp.tasks {
		if tp.tasks[i].sp != nil {
			n++
		}
	}
	return n
}
