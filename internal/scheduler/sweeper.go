package scheduler

import (
	"context"
	"log"
	"time"
)

// Publisher flips due scheduled posts to published.
type Publisher interface {
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper is the periodic time trigger for scheduled publishing. Nothing in
// the request path fires a scheduled post; this loop is the only thing that
// does. PublishDue is idempotent, so a failed pass is simply retried on the
// next tick.
type Sweeper struct {
	publisher Publisher
	interval  time.Duration
}

func New(publisher Publisher, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		publisher: publisher,
		interval:  interval,
	}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Sweep runs a single pass and returns the number of posts published.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.publisher.PublishDue(ctx, time.Now())
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.Sweep(ctx)
	if err != nil {
		log.Printf("ERROR publish sweep: %v", err)
		return
	}
	if count > 0 {
		log.Printf("publish sweep: %d post(s) published", count)
	}
}
