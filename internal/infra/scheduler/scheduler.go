package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// IntervalScheduler blocks between poll iterations until the next activation
// of a cron schedule. With a constant-delay schedule ("@every 10m" or a plain
// duration) the wait is exactly the interval, whatever the iteration outcome.
type IntervalScheduler struct {
	schedule cron.Schedule
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *logrus.Entry
}

// Option configures an IntervalScheduler.
type Option func(*IntervalScheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *IntervalScheduler) { s.now = now }
}

// WithSleep replaces the timer-based sleep.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *IntervalScheduler) { s.sleep = sleep }
}

// ParseSpec accepts a Go duration ("10m") or a standard cron spec, including
// descriptors such as "@every 10m" and "@hourly". A plain duration must be a
// whole number of seconds, at least one: cron cannot represent anything finer.
func ParseSpec(spec string) (cron.Schedule, error) {
	if d, err := time.ParseDuration(spec); err == nil {
		if d < time.Second {
			return nil, fmt.Errorf("poll interval must be at least 1s, got %s", d)
		}
		if d%time.Second != 0 {
			return nil, fmt.Errorf("poll interval must be a whole number of seconds, got %s", d)
		}
		return cron.Every(d), nil
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid poll schedule %q: %w", spec, err)
	}
	return schedule, nil
}

func NewIntervalScheduler(spec string, logger *logrus.Entry, opts ...Option) (*IntervalScheduler, error) {
	schedule, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	s := &IntervalScheduler{
		schedule: schedule,
		now:      time.Now,
		sleep:    sleepContext,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Wait sleeps until the next activation. Only ctx cancellation cuts it short.
func (s *IntervalScheduler) Wait(ctx context.Context) error {
	now := s.now()
	var d time.Duration
	if every, ok := s.schedule.(cron.ConstantDelaySchedule); ok {
		// Next truncates to whole seconds, which would shorten the interval.
		d = every.Delay
	} else {
		d = s.schedule.Next(now).Sub(now)
	}
	if d < 0 {
		d = 0
	}
	next := now.Add(d)
	s.logger.WithField("next_poll", next.Format(time.RFC3339)).Debugf("Sleeping for %s", d)
	return s.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
