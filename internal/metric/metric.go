package metric

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/uptrace/bun"

	"ms-reminders/internal/models"
)

var (
	DispatchTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_dispatch_ticks_total",
		Help: "Number of dispatch-loop scans completed",
	})

	RemindersDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_dispatched_total",
		Help: "Number of reminder notifications handed to a transport",
	}, []string{"method"})

	DeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_delivery_failures_total",
		Help: "Number of failed notification deliveries",
	}, []string{"method"})

	databaseEmptyRead = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reminders_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
)

// WatchDatabase periodically samples the latency of an empty read and
// exposes it as a gauge. It returns when ctx is canceled.
func WatchDatabase(ctx context.Context, bunDB *bun.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if _, err := bunDB.NewSelect().
				Model((*models.Event)(nil)).
				Where("id = ?", "").
				Exists(ctx); err != nil {
				continue
			}
			databaseEmptyRead.Set(float64(time.Since(start).Microseconds()))
		}
	}
}
