package store

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper runs SweepExpired on a schedule, independent of any user action.
// Sweeps are fire-and-forget and must never block extraction calls; each run
// gets its own bounded context.
type Sweeper struct {
	store *Store
	cron  *cron.Cron
}

// sweepTimeout bounds a single sweep run.
const sweepTimeout = time.Minute

// NewSweeper schedules a sweep on the given cron spec (e.g. "@daily") and
// runs one immediately in the background to clear anything that expired
// while the process was down.
func NewSweeper(s *Store, spec string) (*Sweeper, error) {
	c := cron.New()
	sw := &Sweeper{store: s, cron: c}

	if _, err := c.AddFunc(spec, sw.run); err != nil {
		return nil, err
	}

	c.Start()
	go sw.run()
	return sw, nil
}

func (sw *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := sw.store.SweepExpired(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Scheduled sweep failed")
		return
	}
	log.Debug().Int("removed", removed).Msg("Scheduled sweep completed")
}

// Stop halts the schedule. In-flight sweeps finish on their own.
func (sw *Sweeper) Stop() {
	sw.cron.Stop()
}
