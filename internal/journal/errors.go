// Package journal implements the trade and idea operations on top of the
// owner-scoped tables and the chart asset manager.
package journal

import (
	"fmt"
	"strings"

	"trading-journal-go/internal/models"
)

// ValidationError is a rejected input, reported before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var errNoFields = &ValidationError{Message: "no fields provided for update"}

// header is the validated date/day/pair envelope of a new record.
type header struct {
	date string
	day  string
	pair string
}

func validateHeader(date, pair string) (header, error) {
	if strings.TrimSpace(date) == "" {
		return header{}, invalid("date", "date is required")
	}
	d, day, err := validateDate(date)
	if err != nil {
		return header{}, err
	}
	p, err := validatePair(pair)
	if err != nil {
		return header{}, err
	}
	return header{date: d, day: day, pair: p}, nil
}

// validateDate normalises date and derives its weekday.
func validateDate(date string) (string, string, error) {
	t, err := models.ParseDate(date)
	if err != nil {
		return "", "", invalid("date", "%v", err)
	}
	return t.Format(models.DateLayout), t.Weekday().String(), nil
}

func validatePair(pair string) (string, error) {
	p := strings.TrimSpace(pair)
	if p == "" {
		return "", invalid("pair", "pair is required")
	}
	return p, nil
}
