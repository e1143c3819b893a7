package text

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"
)

// DateError reports a value that could not be coerced to a date.
type DateError struct {
	Value any
}

func (e *DateError) Error() string {
	return fmt.Sprintf("unparseable date %q (%T)", fmt.Sprint(e.Value), e.Value)
}

// ParseDate coerces value to a calendar date at midnight UTC.
// It accepts time.Time, *time.Time and strings shaped YYYY-MM-DDTHH:MM:SSZ or YYYY-MM-DD.
// Nil and empty strings are absent values: (nil, nil).
func ParseDate(value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return dateOf(v), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return dateOf(*v), nil
	case string:
		if v == "" {
			return nil, nil
		}
		layout := dateLayout
		if strings.Contains(v, "T") {
			layout = timestampLayout
		}
		t, err := time.Parse(layout, v)
		if err != nil {
			return nil, &DateError{Value: v}
		}
		return dateOf(t), nil
	default:
		return nil, &DateError{Value: v}
	}
}

// NormalizeDate is ParseDate with failures logged and mapped to nil. It never panics.
func NormalizeDate(value any) *time.Time {
	t, err := ParseDate(value)
	if err != nil {
		slog.Warn("date coercion failed, field left empty", slog.Any("error", err))
		return nil
	}
	return t
}

func dateOf(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
