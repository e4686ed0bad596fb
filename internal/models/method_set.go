package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// NotificationMethod is one way a reminder can be delivered.
type NotificationMethod string

const (
	MethodEmail NotificationMethod = "Email"
	MethodSMS   NotificationMethod = "SMS"
	MethodInApp NotificationMethod = "In-App"
	MethodPush  NotificationMethod = "Push"
)

var AllNotificationMethods = []NotificationMethod{
	MethodEmail,
	MethodSMS,
	MethodInApp,
	MethodPush,
}

func (m NotificationMethod) Valid() bool {
	for _, known := range AllNotificationMethods {
		if m == known {
			return true
		}
	}
	return false
}

// MethodSet is the set of notification methods selected on an event's
// reminder settings. It marshals as a JSON array and is stored as a single
// comma-joined column.
type MethodSet []NotificationMethod

// Value implements driver.Valuer.
func (s MethodSet) Value() (driver.Value, error) {
	parts := make([]string, len(s))
	for i, m := range s {
		parts[i] = string(m)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (s *MethodSet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into MethodSet", src)
	}

	if raw == "" {
		*s = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(MethodSet, 0, len(parts))
	for _, p := range parts {
		out = append(out, NotificationMethod(strings.TrimSpace(p)))
	}
	*s = out
	return nil
}

// Normalize collapses duplicates while keeping the first occurrence order.
func (s MethodSet) Normalize() MethodSet {
	seen := make(map[NotificationMethod]bool, len(s))
	out := make(MethodSet, 0, len(s))
	for _, m := range s {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func (s MethodSet) Contains(m NotificationMethod) bool {
	for _, have := range s {
		if have == m {
			return true
		}
	}
	return false
}
