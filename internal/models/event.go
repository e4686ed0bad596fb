package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	// DateLayout is the storage format of the event_date column.
	DateLayout = "2006-01-02"
	// TimeLayout is the storage format of the event_time column.
	TimeLayout = "15:04:05"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,notnull" json:"description"`
	Category    Category  `bun:"category,notnull" json:"category"`
	EventDate   string    `bun:"event_date,notnull" json:"event_date"`
	EventTime   string    `bun:"event_time,notnull" json:"event_time"`
	IsCanceled  bool      `bun:"is_canceled,notnull,default:false" json:"is_canceled"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updated_at"`

	ReminderSettings *ReminderSettings `bun:"rel:has-one,join:id=event_id" json:"reminder_settings,omitempty"`
}

// Instant combines event_date and event_time with the given timezone into
// the single point in time the event is scheduled at.
func (e *Event) Instant(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, e.EventDate+" "+e.EventTime, loc)
}

type ReminderSettings struct {
	bun.BaseModel `bun:"table:reminder_settings"`

	EventID             string     `bun:"event_id,pk" json:"-"`
	NotificationMethods MethodSet  `bun:"notification_methods,notnull" json:"notification_methods"`
	ReminderTime        *time.Time `bun:"reminder_time,nullzero" json:"reminder_time,omitempty"`
	ReminderNote        string     `bun:"reminder_note,nullzero" json:"reminder_note,omitempty"`
}

// EventUpdate is a partial update payload. Nil fields are left untouched.
type EventUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	EventDate   *string   `json:"event_date,omitempty"`
	EventTime   *string   `json:"event_time,omitempty"`

	ReminderSettings *ReminderSettingsUpdate `json:"reminder_settings,omitempty"`
}

// ReminderSettingsUpdate merge-updates an event's reminder settings, creating
// them when the event has none yet.
type ReminderSettingsUpdate struct {
	NotificationMethods *MethodSet `json:"notification_methods,omitempty"`
	ReminderTime        *time.Time `json:"reminder_time,omitempty"`
	ReminderNote        *string    `json:"reminder_note,omitempty"`
}
