package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type stubPublisher struct {
	calls atomic.Int64
	count int64
	err   error
}

func (p *stubPublisher) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	p.calls.Add(1)
	return p.count, p.err
}

func TestSweepOnce(t *testing.T) {
	c := qt.New(t)

	pub := &stubPublisher{count: 3}
	s := New(pub, time.Minute)

	count, err := s.Sweep(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, int64(3))
	c.Assert(pub.calls.Load(), qt.Equals, int64(1))
}

func TestRunSweepsOnInterval(t *testing.T) {
	c := qt.New(t)

	pub := &stubPublisher{}
	s := New(pub, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	c.Assert(err, qt.ErrorIs, context.DeadlineExceeded)

	// One immediate pass plus at least one tick.
	c.Assert(pub.calls.Load() >= 2, qt.IsTrue)
}

func TestRunKeepsGoingAfterErrors(t *testing.T) {
	c := qt.New(t)

	pub := &stubPublisher{err: errors.New("store unavailable")}
	s := New(pub, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_ = s.Run(ctx)

	// Failed passes are retried on the next tick, not fatal.
	c.Assert(pub.calls.Load() >= 2, qt.IsTrue)
}
