package domain

import "testing"

func TestFormatQueryReply(t *testing.T) {
	records := []LogRecord{
		{Timestamp: "2024-01-01T00:00:00", Reading: "23.5"},
		{Timestamp: "2024-01-01T00:01:00", Reading: "23.7"},
	}

	t.Run("joins records without a trailing separator", func(t *testing.T) {
		got := FormatQueryReply(5, records)
		want := "5;2024-01-01T00:00:00|23.5;2024-01-01T00:01:00|23.7\r\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("echoes the requested count", func(t *testing.T) {
		got := FormatQueryReply(1, records[1:])
		want := "1;2024-01-01T00:01:00|23.7\r\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("empty result is well formed", func(t *testing.T) {
		if got := FormatQueryReply(0, nil); got != "0;\r\n" {
			t.Errorf("expected %q, got %q", "0;\r\n", got)
		}
		if got := FormatQueryReply(3, []LogRecord{}); got != "3;\r\n" {
			t.Errorf("expected %q, got %q", "3;\r\n", got)
		}
	})

	t.Run("empty fields keep their separators", func(t *testing.T) {
		got := FormatQueryReply(1, []LogRecord{{}})
		if got != "1;|\r\n" {
			t.Errorf("expected %q, got %q", "1;|\r\n", got)
		}
	})
}

func TestFormatErrorReply(t *testing.T) {
	if got := FormatErrorReply(ReplyLogNotFound); got != "ERROR: Log file not found\r\n" {
		t.Errorf("unexpected reply %q", got)
	}
}
