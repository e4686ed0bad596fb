// Package dispatch runs the background loop that scans for events whose
// reminder window has arrived and hands them to notification delivery.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"ms-reminders/internal/events/window"
	"ms-reminders/internal/logger"
	"ms-reminders/internal/metric"
	"ms-reminders/internal/models"
	"ms-reminders/internal/notify"
)

// Store is the record-store slice the loop depends on: the pre-filter for
// events scheduled today whose start time has not passed.
type Store interface {
	ListDueToday(now time.Time) ([]models.Event, error)
}

// Loop alternates between idle (waiting for the next tick) and scanning
// (evaluating candidates). It has no shutdown of its own beyond ctx
// cancellation; it is built to run for the life of the process.
type Loop struct {
	Store     Store
	Deliverer notify.Deliverer
	Logger    *logger.Logger
	Loc       *time.Location
	Interval  time.Duration

	// Now supplies wall-clock time; swapped out in tests.
	Now func() time.Time
}

func NewLoop(store Store, deliverer notify.Deliverer, log *logger.Logger, loc *time.Location, interval time.Duration) *Loop {
	return &Loop{
		Store:     store,
		Deliverer: deliverer,
		Logger:    log,
		Loc:       loc,
		Interval:  interval,
		Now:       time.Now,
	}
}

// Run scans once immediately, then on every tick until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	l.Logger.Info("DISPATCH", fmt.Sprintf("Starting reminder dispatch loop (interval %s)", l.Interval))

	l.Tick()

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", l.Interval), l.Tick); err != nil {
		return fmt.Errorf("failed to schedule dispatch tick: %w", err)
	}
	c.Start()

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	l.Logger.Info("DISPATCH", "Dispatch loop stopped")
	return nil
}

// Tick evaluates one scan. No failure inside a tick stops the remaining
// candidates or the loop itself.
func (l *Loop) Tick() {
	now := l.Now()

	candidates, err := l.Store.ListDueToday(now)
	if err != nil {
		l.Logger.Error("DISPATCH", fmt.Sprintf("Failed to query candidate events: %v", err))
		return
	}

	matched := 0
	for i := range candidates {
		event := candidates[i]
		settings := event.ReminderSettings
		if settings == nil {
			// no reminder settings means no methods selected
			continue
		}

		instant, err := event.Instant(l.Loc)
		if err != nil {
			l.Logger.Error("DISPATCH", fmt.Sprintf("Event %s has an unparsable schedule: %v", event.ID, err))
			continue
		}
		if !window.IsDueForReminder(now, instant, settings) {
			continue
		}

		matched++
		l.Logger.LogDispatch(event.ID, fmt.Sprintf("Sending notifications for event: %s", event.Title))

		for _, method := range settings.NotificationMethods {
			if err := l.Deliverer.Deliver(method, event, *settings); err != nil {
				metric.DeliveryFailures.WithLabelValues(string(method)).Inc()
				l.Logger.Error("DISPATCH", fmt.Sprintf("Delivery of %s notification for event %s failed: %v", method, event.ID, err))
				continue
			}
			metric.RemindersDispatched.WithLabelValues(string(method)).Inc()
		}
	}

	metric.DispatchTicks.Inc()
	l.Logger.Debug("DISPATCH", fmt.Sprintf("Scan complete: %d candidates, %d due", len(candidates), matched))
}
