package arena

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type endReport struct {
	score int
	at    time.Time
}

func runDriver(t *testing.T, ctx context.Context, d *Driver) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Run(ctx)
	}()
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not return")
		return nil
	}
}

func TestDriverReportsDeathAfterGrace(t *testing.T) {
	s := NewSessionWithRand(DefaultSettings(), "#39ff14", &scriptedRand{})
	// Eats and reverses onto its own neck in the same tick.
	s.board = board(Point{4, 5}, player(3, Left, Point{5, 5}, Point{4, 5}, Point{3, 5}))

	const grace = 40 * time.Millisecond
	var deathAt atomic.Value
	reports := make(chan endReport, 4)

	d := NewDriver(s, DriverOptions{
		Period:     5 * time.Millisecond,
		DeathGrace: grace,
		EndGrace:   time.Hour,
		OnTick: func(snap Snapshot) {
			if !snap.Running {
				deathAt.Store(time.Now())
			}
		},
		OnEnd: func(score int) {
			reports <- endReport{score: score, at: time.Now()}
		},
	})

	if err := waitErr(t, runDriver(t, context.Background(), d)); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if len(reports) != 1 {
		t.Fatalf("got %d reports, expected exactly one", len(reports))
	}
	r := <-reports
	if r.score != 10 {
		t.Errorf("reported score = %d, expected 10 from the fatal tick", r.score)
	}
	died, ok := deathAt.Load().(time.Time)
	if !ok {
		t.Fatal("no tick observed the death")
	}
	if wait := r.at.Sub(died); wait < grace {
		t.Errorf("report came %v after death, expected at least %v", wait, grace)
	}

	select {
	case <-d.Done():
	default:
		t.Error("Done should be closed after Run returns")
	}
}

func TestDriverEndSignalUsesEndGrace(t *testing.T) {
	s := NewSession(DefaultSettings(), "#39ff14", 7)

	const grace = 30 * time.Millisecond
	reports := make(chan endReport, 4)
	d := NewDriver(s, DriverOptions{
		Period:     time.Hour,
		DeathGrace: time.Hour,
		EndGrace:   grace,
		OnEnd: func(score int) {
			reports <- endReport{score: score, at: time.Now()}
		},
	})

	errCh := runDriver(t, context.Background(), d)
	sent := time.Now()
	d.End()
	d.End()

	if err := waitErr(t, errCh); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, expected exactly one", len(reports))
	}
	r := <-reports
	if r.score != 0 {
		t.Errorf("score = %d, expected 0", r.score)
	}
	if wait := r.at.Sub(sent); wait < grace {
		t.Errorf("report came %v after End, expected at least %v", wait, grace)
	}
	if got := s.Snapshot().Reason; got != EndSignal {
		t.Errorf("reason = %s, expected ended", got)
	}
}

func TestDriverNoTicksAfterEnd(t *testing.T) {
	s := NewSession(DefaultSettings(), "#39ff14", 7)

	var ticks atomic.Int64
	d := NewDriver(s, DriverOptions{
		Period:   2 * time.Millisecond,
		EndGrace: 30 * time.Millisecond,
		OnTick: func(Snapshot) {
			ticks.Add(1)
		},
	})

	errCh := runDriver(t, context.Background(), d)
	time.Sleep(10 * time.Millisecond)
	d.End()
	time.Sleep(5 * time.Millisecond)
	seen := ticks.Load()

	if err := waitErr(t, errCh); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if got := ticks.Load(); got != seen {
		t.Errorf("%d ticks ran after End", got-seen)
	}
	if s.Running() {
		t.Error("session should be stopped")
	}
}

func TestDriverCancelSkipsReport(t *testing.T) {
	tests := []struct {
		name  string
		abort func(d *Driver, cancel context.CancelFunc)
	}{
		{"while ticking", func(_ *Driver, cancel context.CancelFunc) {
			cancel()
		}},
		{"during grace", func(d *Driver, cancel context.CancelFunc) {
			d.End()
			time.Sleep(10 * time.Millisecond)
			cancel()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(DefaultSettings(), "#39ff14", 3)
			var reported atomic.Bool
			d := NewDriver(s, DriverOptions{
				Period:   time.Hour,
				EndGrace: time.Hour,
				OnEnd: func(int) {
					reported.Store(true)
				},
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			errCh := runDriver(t, ctx, d)
			tt.abort(d, cancel)

			err := waitErr(t, errCh)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run returned %v, expected context.Canceled", err)
			}
			if reported.Load() {
				t.Error("cancelled driver must not report")
			}
		})
	}
}

func TestDriverDefaultsFromSettings(t *testing.T) {
	settings := DefaultSettings()
	d := NewDriver(NewSession(settings, "#39ff14", 1), DriverOptions{})

	if d.opts.Period != settings.TickPeriod || d.opts.DeathGrace != settings.DeathGrace || d.opts.EndGrace != settings.EndGrace {
		t.Errorf("options = %+v, expected session settings", d.opts)
	}
}
