package notify

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"

	"ms-reminders/internal/config"
	"ms-reminders/internal/models"
)

// Publisher is the slice of the Kafka producer the deliverer needs.
type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

// KafkaDeliverer publishes notification payloads to per-method topics.
// Email payloads carry a QR code of the event so the downstream mailer can
// embed it.
type KafkaDeliverer struct {
	Producer Publisher
	Topics   config.TopicConfig
}

func NewKafkaDeliverer(producer Publisher, topics config.TopicConfig) *KafkaDeliverer {
	return &KafkaDeliverer{Producer: producer, Topics: topics}
}

func (d *KafkaDeliverer) Deliver(method models.NotificationMethod, event models.Event, settings models.ReminderSettings) error {
	topic, err := d.topicFor(method)
	if err != nil {
		return err
	}

	payload := NewPayload(event, settings)
	if method == models.MethodEmail {
		qr, err := eventQR(event)
		if err != nil {
			return fmt.Errorf("failed to render event QR: %w", err)
		}
		payload.QRCode = qr
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	if err := d.Producer.Publish(topic, event.ID, value); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", method, err)
	}
	return nil
}

func (d *KafkaDeliverer) topicFor(method models.NotificationMethod) (string, error) {
	switch method {
	case models.MethodEmail:
		return d.Topics.Email, nil
	case models.MethodSMS:
		return d.Topics.SMS, nil
	case models.MethodPush:
		return d.Topics.Push, nil
	default:
		return "", fmt.Errorf("no kafka topic for method %q", method)
	}
}

func eventQR(event models.Event) (string, error) {
	summary := fmt.Sprintf("%s @ %s %s", event.Title, event.EventDate, event.EventTime)
	png, err := qrcode.Encode(summary, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
