package window_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ms-reminders/internal/events/window"
	"ms-reminders/internal/models"
)

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsUpcomingBoundaries(t *testing.T) {
	now := at("2024-01-01 10:00:00")

	assert.True(t, window.IsUpcoming(now, now), "an event starting right now is upcoming")
	assert.True(t, window.IsUpcoming(now, at("2024-01-02 10:00:00")), "exactly 24h out is upcoming")
	assert.False(t, window.IsUpcoming(now, at("2024-01-02 10:00:01")), "24h0m1s out is not upcoming")
	assert.False(t, window.IsUpcoming(now, at("2024-01-01 09:59:59")), "events in the past are not upcoming")
}

func TestIsExpired(t *testing.T) {
	now := at("2024-01-01 10:00:00")

	assert.True(t, window.IsExpired(now, at("2024-01-01 09:59:59")))
	assert.False(t, window.IsExpired(now, now), "the boundary instant is not expired")
	assert.False(t, window.IsExpired(now, at("2024-01-01 10:00:01")))
}

func TestInWindowMonotonic(t *testing.T) {
	now := at("2024-01-01 10:00:00")
	instant := at("2024-01-01 13:30:00")

	assert.True(t, window.InWindow(now, instant, 0, 4*time.Hour))

	// widening the window never removes a previously included event
	assert.True(t, window.InWindow(now, instant, 0, 8*time.Hour))
	assert.True(t, window.InWindow(now, instant, -time.Hour, 4*time.Hour))

	assert.False(t, window.InWindow(now, instant, 0, 3*time.Hour))
}

func TestReminderInstantDefaultsToFiveMinuteLead(t *testing.T) {
	instant := at("2024-01-01 10:00:00")

	assert.Equal(t, at("2024-01-01 09:55:00"), window.ReminderInstant(instant, nil))
	assert.Equal(t, at("2024-01-01 09:55:00"), window.ReminderInstant(instant, &models.ReminderSettings{}))

	explicit := at("2024-01-01 08:00:00")
	settings := &models.ReminderSettings{ReminderTime: &explicit}
	assert.Equal(t, explicit, window.ReminderInstant(instant, settings))
}

func TestIsDueForReminderScenario(t *testing.T) {
	instant := at("2024-01-01 10:00:00")
	settings := &models.ReminderSettings{
		NotificationMethods: models.MethodSet{models.MethodSMS},
	}

	assert.True(t, window.IsDueForReminder(at("2024-01-01 09:56:00"), instant, settings))
	assert.False(t, window.IsDueForReminder(at("2024-01-01 09:54:00"), instant, settings), "not due earlier than 5 minutes before")
	assert.False(t, window.IsDueForReminder(at("2024-01-01 10:00:00"), instant, settings), "past the event instant")

	assert.True(t, window.IsDueForReminder(at("2024-01-01 09:55:00"), instant, settings), "due exactly at the reminder instant")
	assert.False(t, window.IsDueForReminder(at("2024-01-01 09:54:59"), instant, settings))
}

func TestIsDueForReminderIsIdempotent(t *testing.T) {
	now := at("2024-01-01 09:56:00")
	instant := at("2024-01-01 10:00:00")
	settings := &models.ReminderSettings{
		NotificationMethods: models.MethodSet{models.MethodEmail},
	}

	first := window.IsDueForReminder(now, instant, settings)
	second := window.IsDueForReminder(now, instant, settings)
	assert.Equal(t, first, second)
}

func TestIsDueForReminderWithExplicitReminderTime(t *testing.T) {
	instant := at("2024-01-01 18:00:00")
	reminderAt := at("2024-01-01 09:00:00")
	settings := &models.ReminderSettings{
		NotificationMethods: models.MethodSet{models.MethodPush},
		ReminderTime:        &reminderAt,
	}

	assert.False(t, window.IsDueForReminder(at("2024-01-01 08:59:59"), instant, settings))
	assert.True(t, window.IsDueForReminder(at("2024-01-01 09:00:00"), instant, settings))
	assert.True(t, window.IsDueForReminder(at("2024-01-01 17:59:59"), instant, settings))
	assert.False(t, window.IsDueForReminder(at("2024-01-01 18:00:00"), instant, settings))
}
