package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestLogRecord_Validate(t *testing.T) {
	if err := (LogRecord{Timestamp: "ts", Reading: "1"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	atLimit := strings.Repeat("x", MaxFieldLength)
	if err := (LogRecord{Timestamp: atLimit, Reading: atLimit}).Validate(); err != nil {
		t.Errorf("fields at the limit must be valid: %v", err)
	}

	tooLong := strings.Repeat("x", MaxFieldLength+1)
	if err := (LogRecord{Timestamp: tooLong}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for timestamp, got %v", err)
	}
	if err := (LogRecord{Reading: tooLong}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for reading, got %v", err)
	}
}

func TestSensorID_Validate(t *testing.T) {
	for _, id := range []SensorID{"", "A1", "..", "temp.kitchen"} {
		if err := id.Validate(); err != nil {
			t.Errorf("%q: unexpected error: %v", id, err)
		}
	}
	for _, id := range []SensorID{"../etc", "a/b", `a\b`, "a\x00b"} {
		if err := id.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected validation error, got %v", id, err)
		}
	}
}
