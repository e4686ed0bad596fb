package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ms-reminders/internal/models"
)

// RedisDeliverer publishes in-app notifications on a Redis pub/sub channel
// that an app frontend subscribes to.
type RedisDeliverer struct {
	Client  *redis.Client
	Channel string
}

func NewRedisDeliverer(client *redis.Client, channel string) *RedisDeliverer {
	return &RedisDeliverer{Client: client, Channel: channel}
}

func (d *RedisDeliverer) Deliver(method models.NotificationMethod, event models.Event, settings models.ReminderSettings) error {
	value, err := json.Marshal(NewPayload(event, settings))
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	if err := d.Client.Publish(context.Background(), d.Channel, value).Err(); err != nil {
		return fmt.Errorf("failed to publish in-app notification: %w", err)
	}
	return nil
}
