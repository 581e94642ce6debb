package scanner

import (
	"context"
	"sync/atomic"
)

// State is the lifecycle state of a scan.
type State int32

const (
	StateRunning State = iota
	StateCancelRequested
	StateCancelled
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCancelRequested:
		return "cancel requested"
	case StateCancelled:
		return "cancelled"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Token is the cancellation handle of one scan. Transitions are
// Running -> CancelRequested -> Cancelled, or Running -> Completed.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
	state  atomic.Int32
	done   chan struct{}
}

func newToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Cancel requests cancellation. It reports whether the request was accepted,
// which is only the case while the scan is running.
func (t *Token) Cancel() bool {
	if t.state.CompareAndSwap(int32(StateRunning), int32(StateCancelRequested)) {
		t.cancel()
		return true
	}
	return false
}

// State returns the current state.
func (t *Token) State() State {
	return State(t.state.Load())
}

// Done is closed once the scan has reached Cancelled or Completed.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Context is cancelled when cancellation is requested or the scan ends.
func (t *Token) Context() context.Context {
	return t.ctx
}

// requested is the worker-side check. A cancelled parent context counts
// as a cancellation request.
func (t *Token) requested() bool {
	if t.ctx.Err() != nil {
		t.state.CompareAndSwap(int32(StateRunning), int32(StateCancelRequested))
		return true
	}
	return t.State() == StateCancelRequested
}

func (t *Token) finish(cancelled bool) State {
	if cancelled {
		t.state.Store(int32(StateCancelled))
	} else {
		t.state.Store(int32(StateCompleted))
	}
	t.cancel()
	close(t.done)
	return t.State()
}
