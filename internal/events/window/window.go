// Package window holds the time-window predicates used to classify events
// as upcoming, expired or due for a reminder. All functions are pure: they
// take "now" as an argument and keep no state between calls.
package window

import (
	"time"

	"ms-reminders/internal/models"
)

// DefaultLead is how long before the event instant a reminder fires when
// no explicit reminder time is set.
const DefaultLead = 5 * time.Minute

// UpcomingHorizon is the width of the default "upcoming" window.
const UpcomingHorizon = 24 * time.Hour

// InWindow reports whether instant falls inside [now+start, now+end].
// Both boundaries are inclusive.
func InWindow(now, instant time.Time, start, end time.Duration) bool {
	lo := now.Add(start)
	hi := now.Add(end)
	return !instant.Before(lo) && !instant.After(hi)
}

// IsUpcoming reports whether instant is within the next 24 hours,
// boundaries included.
func IsUpcoming(now, instant time.Time) bool {
	return InWindow(now, instant, 0, UpcomingHorizon)
}

// IsExpired reports whether instant is strictly in the past.
func IsExpired(now, instant time.Time) bool {
	return instant.Before(now)
}

// ReminderInstant returns the point in time the reminder for an event fires:
// the explicit reminder time when one is set, otherwise DefaultLead before
// the event instant. settings may be nil.
func ReminderInstant(instant time.Time, settings *models.ReminderSettings) time.Time {
	if settings != nil && settings.ReminderTime != nil {
		return *settings.ReminderTime
	}
	return instant.Add(-DefaultLead)
}

// IsDueForReminder reports whether the reminder instant R satisfies
// R <= now < instant. The event boundary is exclusive: once the event has
// started there is nothing left to remind about.
func IsDueForReminder(now, instant time.Time, settings *models.ReminderSettings) bool {
	r := ReminderInstant(instant, settings)
	return !now.Before(r) && now.Before(instant)
}
