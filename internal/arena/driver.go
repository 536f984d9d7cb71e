package arena

import (
	"context"
	"sync"
	"time"
)

// DriverOptions configures a Driver. Zero durations fall back to the session settings.
type DriverOptions struct {
	Period     time.Duration
	DeathGrace time.Duration
	EndGrace   time.Duration

	// OnTick is called after every step with the resulting snapshot.
	OnTick func(Snapshot)

	// OnEnd receives the final score exactly once per session.
	OnEnd func(score int)
}

// Driver advances a Session on a fixed-period timer until the game ends.
type Driver struct {
	session *Session
	opts    DriverOptions

	endChan  chan struct{}
	endOnce  sync.Once
	doneOnce sync.Once
	done     chan struct{}
}

// NewDriver creates a driver for the given session.
func NewDriver(session *Session, opts DriverOptions) *Driver {
	settings := session.Settings()
	if opts.Period <= 0 {
		opts.Period = settings.TickPeriod
	}
	if opts.DeathGrace <= 0 {
		opts.DeathGrace = settings.DeathGrace
	}
	if opts.EndGrace <= 0 {
		opts.EndGrace = settings.EndGrace
	}

	return &Driver{
		session: session,
		opts:    opts,
		endChan: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// End requests termination. Safe to call from any goroutine, any number of times.
func (d *Driver) End() {
	d.endOnce.Do(func() {
		close(d.endChan)
	})
}

// Done returns a channel closed once Run has returned.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Run ticks the session until the player dies, End is called or ctx is
// cancelled. Missed ticks are dropped, never caught up. The final score is
// reported after the matching grace delay; cancellation skips the report.
func (d *Driver) Run(ctx context.Context) error {
	defer d.doneOnce.Do(func() {
		close(d.done)
	})

	ticker := time.NewTicker(d.opts.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			out := d.session.Advance()
			if d.opts.OnTick != nil {
				d.opts.OnTick(d.session.Snapshot())
			}
			if out.PlayerDead {
				ticker.Stop()
				return d.report(ctx, d.opts.DeathGrace)
			}

		case <-d.endChan:
			ticker.Stop()
			if !d.session.End() {
				// Already stopped by a death in the same instant.
				return d.report(ctx, d.opts.DeathGrace)
			}
			return d.report(ctx, d.opts.EndGrace)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// report waits out the grace delay and delivers the score.
func (d *Driver) report(ctx context.Context, grace time.Duration) error {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	if d.opts.OnEnd != nil {
		d.opts.OnEnd(d.session.Score())
	}
	return nil
}
