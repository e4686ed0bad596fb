package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-reminders/internal/models"
)

func TestMethodSetRoundTrip(t *testing.T) {
	set := models.MethodSet{models.MethodEmail, models.MethodInApp}

	value, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "Email,In-App", value)

	var scanned models.MethodSet
	require.NoError(t, scanned.Scan("Email,In-App"))
	assert.Equal(t, set, scanned)
}

func TestMethodSetScanEmpty(t *testing.T) {
	var scanned models.MethodSet
	require.NoError(t, scanned.Scan(""))
	assert.Empty(t, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}

func TestMethodSetNormalizeCollapsesDuplicates(t *testing.T) {
	set := models.MethodSet{models.MethodSMS, models.MethodEmail, models.MethodSMS}
	assert.Equal(t, models.MethodSet{models.MethodSMS, models.MethodEmail}, set.Normalize())
}

func TestEventInstant(t *testing.T) {
	event := models.Event{EventDate: "2024-01-01", EventTime: "10:00:00"}

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant, err := event.Instant(loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:00:00-05:00", instant.Format("2006-01-02T15:04:05-07:00"))
}
