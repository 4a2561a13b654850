package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunSweeper calls st.Sweep(idle) every interval until ctx is done.
// evicted, if non-nil, receives the IDs removed by each non-empty sweep.
func RunSweeper(ctx context.Context, st Store, idle, interval time.Duration, evicted func(ctx context.Context, ids []string)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			gone := st.Sweep(ctx, idle)
			if len(gone) == 0 {
				continue
			}
			log.Info().Int("sessions", len(gone)).Dur("idle", idle).Msg("swept idle sessions")
			if evicted != nil {
				evicted(ctx, gone)
			}
		}
	}
}
