package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Wire tokens and separators of the line protocol.
const (
	IngestToken     = "LOG"
	QueryToken      = "GET"
	FieldSeparator  = "|"
	RecordSeparator = ";"
	FrameDelimiter  = "\r\n"
)

// CommandKind tags the variant held by a Command.
type CommandKind int

const (
	// CommandUnknown is any message whose leading token is not recognized.
	CommandUnknown CommandKind = iota
	// CommandIngest appends a record and never produces a reply.
	CommandIngest
	// CommandQuery reads the tail of a sensor log and always produces a reply.
	CommandQuery
)

// String returns the wire token of the kind.
func (k CommandKind) String() string {
	switch k {
	case CommandIngest:
		return IngestToken
	case CommandQuery:
		return QueryToken
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed protocol message.
type Command struct {
	Kind     CommandKind
	SensorID SensorID
	// Record is set for CommandIngest.
	Record LogRecord
	// Count is the requested tail length for CommandQuery.
	Count int
	// Raw is the message as received, without the frame delimiter.
	Raw string
}

// Size returns the number of bytes the command occupied on the wire.
func (c *Command) Size() int {
	return len(c.Raw) + len(FrameDelimiter)
}

// ParseCommand turns one decoded message into a Command.
//
// LOG takes sensor id, timestamp and reading; missing fields are read as
// empty strings and the reading keeps any further separators. GET takes a
// sensor id and a non-negative decimal count. The returned Command carries
// its Kind even when an error is returned so callers can tell whether the
// peer expects a reply.
func ParseCommand(message string) (Command, error) {
	token, rest, _ := strings.Cut(message, FieldSeparator)

	switch token {
	case IngestToken:
		fields := strings.SplitN(rest, FieldSeparator, 3)
		return Command{
			Kind:     CommandIngest,
			SensorID: SensorID(fieldAt(fields, 0)),
			Record: LogRecord{
				Timestamp: fieldAt(fields, 1),
				Reading:   fieldAt(fields, 2),
			},
			Raw: message,
		}, nil

	case QueryToken:
		cmd := Command{Kind: CommandQuery, Raw: message}
		fields := strings.SplitN(rest, FieldSeparator, 2)
		if len(fields) < 2 {
			return cmd, fmt.Errorf("%w: %s requires a sensor id and a count", ErrMalformedCommand, QueryToken)
		}
		cmd.SensorID = SensorID(fields[0])

		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return cmd, fmt.Errorf("%w: count is not a number: %q", ErrValidation, fields[1])
		}
		if count < 0 {
			return cmd, fmt.Errorf("%w: count is negative: %d", ErrValidation, count)
		}
		cmd.Count = count
		return cmd, nil

	default:
		return Command{Kind: CommandUnknown, Raw: message}, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
	}
}

func fieldAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
