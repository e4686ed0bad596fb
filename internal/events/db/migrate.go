package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"ms-reminders/internal/models"
)

// CreateSchema creates the events and reminder_settings tables when they do
// not exist yet. The SQL migrations under migrations/ are the production
// path; this is used by tests and by fresh sqlite files.
func CreateSchema(bunDB *bun.DB) error {
	ctx := context.Background()

	if _, err := bunDB.NewCreateTable().
		Model((*models.Event)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	if _, err := bunDB.NewCreateTable().
		Model((*models.ReminderSettings)(nil)).
		IfNotExists().
		ForeignKey(`("event_id") REFERENCES "events" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return err
	}

	return nil
}

// Seed inserts a batch of sample events spread over the coming days. It is
// a no-op when the events table already has rows.
func Seed(bunDB *bun.DB, loc *time.Location, count int) error {
	ctx := context.Background()

	exists, err := bunDB.NewSelect().Model((*models.Event)(nil)).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	now := time.Now().In(loc)
	for i := 0; i < count; i++ {
		category := models.AllCategories[rand.Intn(len(models.AllCategories))]
		start := now.Add(time.Duration(rand.Intn(72)) * time.Hour)

		event := &models.Event{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("Sample %s event %d", category, i+1),
			Description: "Seeded event for local development.",
			Category:    category,
			EventDate:   start.Format(models.DateLayout),
			EventTime:   start.Format(models.TimeLayout),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := bunDB.NewInsert().Model(event).Exec(ctx); err != nil {
			return err
		}

		settings := &models.ReminderSettings{
			EventID:             event.ID,
			NotificationMethods: models.MethodSet{models.MethodSMS},
			ReminderNote:        "Don't forget!",
		}
		if _, err := bunDB.NewInsert().Model(settings).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
