package app

import (
	"context"
	"log"
	"time"

	"depotrack/db"
)

// StartOverdueSweeper runs the overdue sweep on a ticker until the
// context is cancelled. The sweep is idempotent, so overlapping or
// repeated runs are harmless.
func StartOverdueSweeper(ctx context.Context, repo *db.Repo, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := repo.SweepOverdue(ctx, time.Now().UTC())
				if err != nil {
					log.Printf("overdue sweep: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("overdue sweep: marked %d transactions overdue", n)
				}
			}
		}
	}()
}
