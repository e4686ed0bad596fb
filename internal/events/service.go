package events

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-reminders/internal/events/db"
	"ms-reminders/internal/models"
)

// DBLayer is the record store contract the service depends on.
type DBLayer interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id string) (*models.Event, error)
	UpdateEvent(event *models.Event) error
	DeleteEvent(id string) (int64, error)
	ListEvents() ([]models.Event, error)
	ListByCategory(category models.Category) ([]models.Event, error)
	ListWindow(f db.WindowFilter) ([]models.Event, error)
	GetReminderSettings(eventID string) (*models.ReminderSettings, error)
	UpsertReminderSettings(settings *models.ReminderSettings) error
}

// Service implements the event CRUD and windowed read operations.
type Service struct {
	DB  DBLayer
	Loc *time.Location

	// Now supplies wall-clock time; swapped out in tests.
	Now func() time.Time
}

func NewService(dbLayer DBLayer, loc *time.Location) *Service {
	return &Service{
		DB:  dbLayer,
		Loc: loc,
		Now: time.Now,
	}
}

// CreateEvent validates and stores a new event, with optional nested
// reminder settings. The id and timestamps are assigned here.
func (s *Service) CreateEvent(event *models.Event) (*models.Event, error) {
	if err := s.validateEvent(event); err != nil {
		return nil, err
	}
	if event.ReminderSettings != nil {
		if err := validateSettings(event.ReminderSettings); err != nil {
			return nil, err
		}
		event.ReminderSettings.NotificationMethods = event.ReminderSettings.NotificationMethods.Normalize()
	}

	now := s.Now()
	event.ID = uuid.NewString()
	event.IsCanceled = false
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.DB.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// GetEvent fetches one event by id.
func (s *Service) GetEvent(id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return event, nil
}

// UpdateEvent applies a partial update. A nested reminder-settings payload
// creates the settings when the event has none, otherwise merge-updates them.
func (s *Service) UpdateEvent(id string, upd models.EventUpdate) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Category != nil {
		event.Category = *upd.Category
	}
	if upd.EventDate != nil {
		event.EventDate = *upd.EventDate
	}
	if upd.EventTime != nil {
		event.EventTime = *upd.EventTime
	}
	if err := s.validateEvent(event); err != nil {
		return nil, err
	}

	event.UpdatedAt = s.Now()
	if err := s.DB.UpdateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}

	if upd.ReminderSettings != nil {
		settings := event.ReminderSettings
		if settings == nil {
			settings = &models.ReminderSettings{EventID: event.ID}
		}
		if upd.ReminderSettings.NotificationMethods != nil {
			settings.NotificationMethods = *upd.ReminderSettings.NotificationMethods
		}
		if upd.ReminderSettings.ReminderTime != nil {
			settings.ReminderTime = upd.ReminderSettings.ReminderTime
		}
		if upd.ReminderSettings.ReminderNote != nil {
			settings.ReminderNote = *upd.ReminderSettings.ReminderNote
		}
		if err := validateSettings(settings); err != nil {
			return nil, err
		}
		settings.NotificationMethods = settings.NotificationMethods.Normalize()
		if err := s.DB.UpsertReminderSettings(settings); err != nil {
			return nil, fmt.Errorf("failed to update reminder settings for event %s: %w", id, err)
		}
		event.ReminderSettings = settings
	}

	return event, nil
}

// CancelEvent sets the soft-cancel flag. The flag is monotonic: there is no
// un-cancel operation.
func (s *Service) CancelEvent(id string) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event.IsCanceled {
		return nil, ErrAlreadyCanceled
	}

	event.IsCanceled = true
	event.UpdatedAt = s.Now()
	if err := s.DB.UpdateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to cancel event %s: %w", id, err)
	}
	return event, nil
}

// DeleteEvent hard-deletes an event, cascading to its reminder settings.
func (s *Service) DeleteEvent(id string) error {
	rows, err := s.DB.DeleteEvent(id)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvents returns every event in (event_date, event_time) order.
func (s *Service) ListEvents() ([]models.Event, error) {
	return s.DB.ListEvents()
}

// ListUpcoming returns events whose instant lies in the next nextHours
// hours, boundaries included. Canceled events are excluded unless
// showCanceled is set.
func (s *Service) ListUpcoming(nextHours int, category models.Category, showCanceled bool) ([]models.Event, error) {
	now := s.Now()
	return s.DB.ListWindow(db.WindowFilter{
		Start:           now,
		End:             now.Add(time.Duration(nextHours) * time.Hour),
		Category:        category,
		IncludeCanceled: showCanceled,
	})
}

// ListByCategory returns events with an exact category match. An empty
// result is a client error, not an empty page.
func (s *Service) ListByCategory(category models.Category) ([]models.Event, error) {
	events, err := s.DB.ListByCategory(category)
	if err != nil {
		return nil, fmt.Errorf("failed to list category %s: %w", category, err)
	}
	if len(events) == 0 {
		return nil, ErrNoResults
	}
	return events, nil
}

// GetReminderInfo returns the reminder settings attached to an event.
func (s *Service) GetReminderInfo(id string) (*models.ReminderSettings, error) {
	settings, err := s.DB.GetReminderSettings(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reminder settings for event %s: %w", id, err)
	}
	return settings, nil
}

func (s *Service) validateEvent(event *models.Event) error {
	if event.Title == "" {
		return invalidField("title", "must not be empty")
	}
	if event.Description == "" {
		return invalidField("description", "must not be empty")
	}
	if !event.Category.Valid() {
		return invalidField("category", fmt.Sprintf("%q is not a known category", event.Category))
	}
	if _, err := time.ParseInLocation(models.DateLayout, event.EventDate, s.Loc); err != nil {
		return invalidField("event_date", "must be formatted as "+models.DateLayout)
	}
	normalized, err := normalizeTime(event.EventTime)
	if err != nil {
		return invalidField("event_time", "must be formatted as "+models.TimeLayout)
	}
	event.EventTime = normalized
	return nil
}

func validateSettings(settings *models.ReminderSettings) error {
	if len(settings.NotificationMethods) == 0 {
		return invalidField("notification_methods", "must not be empty")
	}
	for _, m := range settings.NotificationMethods {
		if !m.Valid() {
			return invalidField("notification_methods", fmt.Sprintf("%q is not a known method", m))
		}
	}
	return nil
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeTime(raw string) (string, error) {
	if t, err := time.Parse(models.TimeLayout, raw); err == nil {
		return t.Format(models.TimeLayout), nil
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return "", err
	}
	return t.Format(models.TimeLayout), nil
}
