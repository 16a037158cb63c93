package domain

import (
	"fmt"
	"math"
	"strings"
)

// MaxFieldLength is the largest timestamp or reading a LogRecord can hold;
// lengths are persisted in a 2-byte unsigned field.
const MaxFieldLength = math.MaxUint16

// LogRecord is one reading of a sensor as persisted in its log.
type LogRecord struct {
	Timestamp string
	Reading   string
}

// Validate checks that both fields fit the persisted length prefix.
func (r LogRecord) Validate() error {
	if len(r.Timestamp) > MaxFieldLength {
		return fmt.Errorf("%w: timestamp is too long: %d bytes", ErrValidation, len(r.Timestamp))
	}
	if len(r.Reading) > MaxFieldLength {
		return fmt.Errorf("%w: reading is too long: %d bytes", ErrValidation, len(r.Reading))
	}
	return nil
}

// SensorID identifies a sensor on the wire and names its log file.
type SensorID string

// Validate rejects ids that could escape the data directory.
// The empty id is valid.
func (id SensorID) Validate() error {
	if strings.ContainsAny(string(id), "/\\\x00") {
		return fmt.Errorf("%w: sensor id contains a path separator: %q", ErrValidation, string(id))
	}
	return nil
}
