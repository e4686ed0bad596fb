package db_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	eventdb "ms-reminders/internal/events/db"
	"ms-reminders/internal/models"
)

func newTestDB(t *testing.T) *eventdb.DB {
	t.Helper()

	// one named in-memory database per test keeps tests isolated
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	require.NoError(t, eventdb.CreateSchema(bunDB))
	return &eventdb.DB{Bun: bunDB, Loc: time.UTC}
}

func makeEvent(id, title string, category models.Category, date, clock string) *models.Event {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Event{
		ID:          id,
		Title:       title,
		Description: "test event",
		Category:    category,
		EventDate:   date,
		EventTime:   clock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetEventWithSettings(t *testing.T) {
	store := newTestDB(t)

	event := makeEvent("event1", "Dentist", models.CategoryHealth, "2024-01-01", "10:00:00")
	event.ReminderSettings = &models.ReminderSettings{
		NotificationMethods: models.MethodSet{models.MethodEmail, models.MethodSMS},
		ReminderNote:        "bring insurance card",
	}
	require.NoError(t, store.CreateEvent(event))

	got, err := store.GetEventByID("event1")
	require.NoError(t, err)
	assert.Equal(t, "Dentist", got.Title)
	require.NotNil(t, got.ReminderSettings)
	assert.Equal(t, models.MethodSet{models.MethodEmail, models.MethodSMS}, got.ReminderSettings.NotificationMethods)
	assert.Equal(t, "bring insurance card", got.ReminderSettings.ReminderNote)
}

func TestGetEventByIDMissing(t *testing.T) {
	store := newTestDB(t)

	_, err := store.GetEventByID("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteEventCascades(t *testing.T) {
	store := newTestDB(t)

	event := makeEvent("event1", "Dentist", models.CategoryHealth, "2024-01-01", "10:00:00")
	event.ReminderSettings = &models.ReminderSettings{
		NotificationMethods: models.MethodSet{models.MethodEmail},
	}
	require.NoError(t, store.CreateEvent(event))

	rows, err := store.DeleteEvent("event1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = store.GetReminderSettings("event1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	rows, err = store.DeleteEvent("event1")
	require.NoError(t, err)
	assert.Zero(t, rows, "second delete removes nothing")
}

func TestListEventsOrdering(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.CreateEvent(makeEvent("e2", "Later", models.CategoryWork, "2024-01-02", "09:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("e1", "Sooner", models.CategoryWork, "2024-01-01", "18:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("e3", "Same day later", models.CategoryWork, "2024-01-01", "20:00:00")))

	list, err := store.ListEvents()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"e1", "e3", "e2"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestListWindowBoundariesAreInclusive(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.CreateEvent(makeEvent("start", "At start", models.CategoryWork, "2024-01-01", "10:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("end", "At end", models.CategoryWork, "2024-01-02", "10:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("before", "Too early", models.CategoryWork, "2024-01-01", "09:59:59")))
	require.NoError(t, store.CreateEvent(makeEvent("after", "Too late", models.CategoryWork, "2024-01-02", "10:00:01")))

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	list, err := store.ListWindow(eventdb.WindowFilter{
		Start: start,
		End:   start.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "start", list[0].ID)
	assert.Equal(t, "end", list[1].ID)
}

func TestListWindowFiltersCategoryAndCanceled(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.CreateEvent(makeEvent("health", "Checkup", models.CategoryHealth, "2024-01-01", "12:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("work", "Standup", models.CategoryWork, "2024-01-01", "12:00:00")))

	canceled := makeEvent("gone", "Canceled gig", models.CategoryHealth, "2024-01-01", "13:00:00")
	canceled.IsCanceled = true
	require.NoError(t, store.CreateEvent(canceled))

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	filter := eventdb.WindowFilter{
		Start:    start,
		End:      start.Add(24 * time.Hour),
		Category: models.CategoryHealth,
	}

	list, err := store.ListWindow(filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "health", list[0].ID)

	filter.IncludeCanceled = true
	list, err = store.ListWindow(filter)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListByCategory(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.CreateEvent(makeEvent("e1", "Checkup", models.CategoryHealth, "2024-01-01", "12:00:00")))

	list, err := store.ListByCategory(models.CategoryHealth)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = store.ListByCategory(models.CategoryFinance)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListDueTodayPrefilter(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.CreateEvent(makeEvent("later-today", "Soon", models.CategoryWork, "2024-01-01", "15:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("passed", "Already started", models.CategoryWork, "2024-01-01", "09:00:00")))
	require.NoError(t, store.CreateEvent(makeEvent("tomorrow", "Next day", models.CategoryWork, "2024-01-02", "08:00:00")))

	canceled := makeEvent("canceled", "Called off", models.CategoryWork, "2024-01-01", "16:00:00")
	canceled.IsCanceled = true
	require.NoError(t, store.CreateEvent(canceled))

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	list, err := store.ListDueToday(now)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "later-today", list[0].ID)
}

func TestUpsertReminderSettings(t *testing.T) {
	store := newTestDB(t)

	require.NoError(t, store.CreateEvent(makeEvent("event1", "Dentist", models.CategoryHealth, "2024-01-01", "10:00:00")))

	settings := &models.ReminderSettings{
		EventID:             "event1",
		NotificationMethods: models.MethodSet{models.MethodSMS},
	}
	require.NoError(t, store.UpsertReminderSettings(settings))

	reminderAt := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	settings.ReminderTime = &reminderAt
	settings.NotificationMethods = models.MethodSet{models.MethodSMS, models.MethodPush}
	require.NoError(t, store.UpsertReminderSettings(settings))

	got, err := store.GetReminderSettings("event1")
	require.NoError(t, err)
	assert.Equal(t, models.MethodSet{models.MethodSMS, models.MethodPush}, got.NotificationMethods)
	require.NotNil(t, got.ReminderTime)
	assert.True(t, got.ReminderTime.Equal(reminderAt))
}

func TestUpdateEventRewritesColumns(t *testing.T) {
	store := newTestDB(t)

	event := makeEvent("event1", "Dentist", models.CategoryHealth, "2024-01-01", "10:00:00")
	require.NoError(t, store.CreateEvent(event))

	event.Title = "Dentist (moved)"
	event.EventTime = "11:30:00"
	event.IsCanceled = true
	require.NoError(t, store.UpdateEvent(event))

	got, err := store.GetEventByID("event1")
	require.NoError(t, err)
	assert.Equal(t, "Dentist (moved)", got.Title)
	assert.Equal(t, "11:30:00", got.EventTime)
	assert.True(t, got.IsCanceled)
}
