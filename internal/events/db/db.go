package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-reminders/internal/models"
)

// DB is the record store for events and their reminder settings. Loc is the
// process-wide timezone used to translate instants into the split
// event_date/event_time columns.
type DB struct {
	Bun *bun.DB
	Loc *time.Location
}

// ---------------- EVENTS ----------------

// CreateEvent inserts a new event, and its reminder settings when present.
func (d *DB) CreateEvent(event *models.Event) error {
	ctx := context.Background()
	if _, err := d.Bun.NewInsert().Model(event).Exec(ctx); err != nil {
		return err
	}
	if event.ReminderSettings != nil {
		event.ReminderSettings.EventID = event.ID
		if _, err := d.Bun.NewInsert().Model(event.ReminderSettings).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// GetEventByID fetches one event with its reminder settings attached.
func (d *DB) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("ReminderSettings").
		Where("event.id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent rewrites the mutable columns of an event.
func (d *DB) UpdateEvent(event *models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(event).
		Column("title", "description", "category", "event_date", "event_time", "is_canceled", "updated_at").
		Where("id = ?", event.ID).
		Exec(context.Background())
	return err
}

// DeleteEvent removes an event and cascades to its reminder settings.
// It returns the number of event rows deleted.
func (d *DB) DeleteEvent(id string) (int64, error) {
	ctx := context.Background()
	if _, err := d.Bun.NewDelete().
		Model((*models.ReminderSettings)(nil)).
		Where("event_id = ?", id).
		Exec(ctx); err != nil {
		return 0, err
	}
	res, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListEvents returns all events in (event_date, event_time) order.
func (d *DB) ListEvents() ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Relation("ReminderSettings").
		Order("event.event_date ASC", "event.event_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListByCategory returns all events with an exact category match.
func (d *DB) ListByCategory(category models.Category) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Relation("ReminderSettings").
		Where("event.category = ?", category).
		Order("event.event_date ASC", "event.event_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// WindowFilter selects events whose instant lies in [Start, End], both
// boundaries inclusive.
type WindowFilter struct {
	Start           time.Time
	End             time.Time
	Category        models.Category
	IncludeCanceled bool
}

// ListWindow returns the events inside the filter window. The comparison is
// done on the split date/time columns so the boundary days need the
// OR-combined predicates rather than a plain range.
func (d *DB) ListWindow(f WindowFilter) ([]models.Event, error) {
	startDate := f.Start.In(d.Loc).Format(models.DateLayout)
	startTime := f.Start.In(d.Loc).Format(models.TimeLayout)
	endDate := f.End.In(d.Loc).Format(models.DateLayout)
	endTime := f.End.In(d.Loc).Format(models.TimeLayout)

	var events []models.Event
	q := d.Bun.NewSelect().
		Model(&events).
		Relation("ReminderSettings").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("event.event_date > ?", startDate).
				WhereOr("(event.event_date = ? AND event.event_time >= ?)", startDate, startTime)
		}).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("event.event_date < ?", endDate).
				WhereOr("(event.event_date = ? AND event.event_time <= ?)", endDate, endTime)
		})

	if f.Category != "" {
		q = q.Where("event.category = ?", f.Category)
	}
	if !f.IncludeCanceled {
		q = q.Where("event.is_canceled = ?", false)
	}

	err := q.
		Order("event.event_date ASC", "event.event_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListDueToday is the dispatch loop's pre-filter: events scheduled today
// whose start time has not passed yet. Canceled events are excluded.
func (d *DB) ListDueToday(now time.Time) ([]models.Event, error) {
	today := now.In(d.Loc).Format(models.DateLayout)
	clock := now.In(d.Loc).Format(models.TimeLayout)

	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Relation("ReminderSettings").
		Where("event.event_date = ?", today).
		Where("event.event_time > ?", clock).
		Where("event.is_canceled = ?", false).
		Order("event.event_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ---------------- REMINDER SETTINGS ----------------

// GetReminderSettings fetches the reminder settings attached to an event.
func (d *DB) GetReminderSettings(eventID string) (*models.ReminderSettings, error) {
	var settings models.ReminderSettings
	err := d.Bun.NewSelect().
		Model(&settings).
		Where("event_id = ?", eventID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertReminderSettings creates or replaces an event's reminder settings.
func (d *DB) UpsertReminderSettings(settings *models.ReminderSettings) error {
	_, err := d.Bun.NewInsert().
		Model(settings).
		On("CONFLICT (event_id) DO UPDATE").
		Set("notification_methods = EXCLUDED.notification_methods").
		Set("reminder_time = EXCLUDED.reminder_time").
		Set("reminder_note = EXCLUDED.reminder_note").
		Exec(context.Background())
	return err
}
