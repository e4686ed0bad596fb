// Package notify is the delivery side of reminders: a Deliverer takes a
// notification method, an event and its reminder settings, and
// fire-and-forgets the notification over some transport.
package notify

import (
	"fmt"

	"ms-reminders/internal/logger"
	"ms-reminders/internal/models"
)

// Deliverer sends one notification. A non-nil error marks the delivery as
// failed; the caller decides whether to care.
type Deliverer interface {
	Deliver(method models.NotificationMethod, event models.Event, settings models.ReminderSettings) error
}

// Payload is the wire form of a notification, shared by all transports.
type Payload struct {
	EventID      string          `json:"event_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     models.Category `json:"category"`
	EventDate    string          `json:"event_date"`
	EventTime    string          `json:"event_time"`
	ReminderNote string          `json:"reminder_note,omitempty"`
	QRCode       string          `json:"qr_code,omitempty"`
}

func NewPayload(event models.Event, settings models.ReminderSettings) Payload {
	return Payload{
		EventID:      event.ID,
		Title:        event.Title,
		Description:  event.Description,
		Category:     event.Category,
		EventDate:    event.EventDate,
		EventTime:    event.EventTime,
		ReminderNote: settings.ReminderNote,
	}
}

// Router fans deliveries out to per-method transports, falling back to the
// default deliverer for methods with no transport configured.
type Router struct {
	routes   map[models.NotificationMethod]Deliverer
	fallback Deliverer
}

func NewRouter(fallback Deliverer) *Router {
	return &Router{
		routes:   make(map[models.NotificationMethod]Deliverer),
		fallback: fallback,
	}
}

// Route directs a method to a transport.
func (r *Router) Route(method models.NotificationMethod, d Deliverer) {
	r.routes[method] = d
}

func (r *Router) Deliver(method models.NotificationMethod, event models.Event, settings models.ReminderSettings) error {
	if d, ok := r.routes[method]; ok {
		return d.Deliver(method, event, settings)
	}
	return r.fallback.Deliver(method, event, settings)
}

// LogDeliverer simulates delivery by logging the notification. It is the
// default transport when neither Kafka nor Redis is configured.
type LogDeliverer struct {
	Logger *logger.Logger
}

func (d *LogDeliverer) Deliver(method models.NotificationMethod, event models.Event, settings models.ReminderSettings) error {
	d.Logger.LogDelivery(string(method), event.ID,
		fmt.Sprintf("Simulated %s notification for: %s", method, event.Title))
	return nil
}
