package domain

import (
	"strconv"
	"strings"
)

// Error reply texts sent to the peer for query failures.
const (
	ReplyLogNotFound   = "Log file not found"
	ReplyInvalid       = "Invalid request"
	ReplyRateLimited   = "Rate limit exceeded"
	ReplyStorageFailed = "Failed to read log file"
)

// FormatQueryReply renders the answer to a query: the requested count, a
// record separator, then every record as "timestamp|reading" joined by the
// record separator, terminated by the frame delimiter. The header echoes the
// requested count, not the number of records returned.
func FormatQueryReply(requested int, records []LogRecord) string {
	rendered := make([]string, len(records))
	for i, record := range records {
		rendered[i] = record.Timestamp + FieldSeparator + record.Reading
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(requested))
	b.WriteString(RecordSeparator)
	b.WriteString(strings.Join(rendered, RecordSeparator))
	b.WriteString(FrameDelimiter)
	return b.String()
}

// FormatErrorReply renders an error reply such as "ERROR: Log file not found\r\n".
func FormatErrorReply(message string) string {
	return "ERROR: " + message + FrameDelimiter
}
