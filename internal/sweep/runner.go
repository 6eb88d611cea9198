// internal/sweep/runner.go
package sweep

import (
	"context"
	"time"
)

// Run emits one Result immediately and then one per tick on out. It
// returns, closing out, when ctx ends or a non-repeating sweep finishes.
// No overlap. No retries.
func (s *Sweeper) Run(ctx context.Context, out chan<- Result) {
	defer close(out)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case out <- s.Step():
		}

		if s.Done() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
