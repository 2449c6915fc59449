package dto

import (
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// ParseTimestamp interpreta RFC3339 (con o sin fracción) o YYYY-MM-DD en UTC.
// Con endOfDay, una fecha sin hora se lleva al último instante de ese día para
// que el límite superior sea inclusivo.
func ParseTimestamp(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: use RFC3339 o YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
