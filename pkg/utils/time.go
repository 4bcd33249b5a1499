package utils

import (
	"fmt"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const dateLayout = "2006-01-02"

// ParseTime accepts RFC 3339 and zone-less date/time forms; zone-less values are UTC.
// dateOnly reports that the input carried no time of day.
func ParseTime(value string) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), false, nil
		}
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognised time %q", value)
}

// ParseBool reads query-string flags: 1, true, yes and on are true.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
