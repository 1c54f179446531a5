package server

import (
	"context"
	"sync"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
)

// expiringStore deletes rows that expired before cutoff.
type expiringStore interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// startExpiredRowSweeper periodically purges expired sessions and login
// attempts. Lookups already ignore expired rows; this only bounds table growth.
func startExpiredRowSweeper(interval time.Duration, logger *logging.Logger, stores ...expiringStore) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepExpiredRows(ctx, logger, stores)
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

func sweepExpiredRows(ctx context.Context, logger *logging.Logger, stores []expiringStore) int64 {
	var total int64
	now := time.Now()
	for _, store := range stores {
		n, err := store.DeleteExpired(ctx, now)
		if err != nil {
			logger.Warn("Failed to delete expired rows", logging.WithField("error", err.Error()))
			continue
		}
		total += n
	}
	if total > 0 {
		logger.Debug("Deleted expired rows", logging.WithField("count", total))
	}
	return total
}
