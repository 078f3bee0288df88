package checker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Ticker interface {
	Tick(ctx context.Context, now time.Time)
}

// Checker periodically asks the monitor to evaluate silence.
type Checker struct {
	// lifecycle
	interval time.Duration
	done     chan struct{}
	now      func() time.Time

	// services
	monitor Ticker

	// misc
	logger *zerolog.Logger
}

func NewChecker(interval time.Duration, monitor Ticker, logger *zerolog.Logger) *Checker {
	return &Checker{
		interval: interval,
		done:     make(chan struct{}),
		now:      time.Now,
		monitor:  monitor,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (c *Checker) Run(ctx context.Context) {
	if c.interval <= 0 {
		panic("check loop interval must be > 0")
	}
	c.logger.Info().Dur("interval", c.interval).Msg("Checker started")
	ticker := time.NewTicker(c.interval)
	defer func() {
		ticker.Stop()
		c.logger.Info().Msg("Checker stopped")
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			c.logger.Debug().Msg("CheckLoop Ticked")
			c.monitor.Tick(ctx, c.now())
		}
	}
}

// Done is closed once Run has returned.
func (c *Checker) Done() <-chan struct{} {
	return c.done
}
