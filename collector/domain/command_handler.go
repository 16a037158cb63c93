// Package domain contains the core business logic and domain models
// for the sensor log collector: the line protocol commands, their replies,
// and the dispatch of commands to a sensor log store.
package domain

import (
	"context"
	"errors"
)

// SensorLogStore defines the persistence contract for per-sensor logs.
type SensorLogStore interface {
	// Write appends one record to the log of the sensor, creating it if needed.
	Write(ctx context.Context, id SensorID, record LogRecord) error

	// ReadTail returns at most count of the most recent records, oldest first.
	// It returns ErrSensorNotFound if the sensor has no log.
	ReadTail(ctx context.Context, id SensorID, count int) ([]LogRecord, error)
}

// CommandHandler parses protocol messages, runs them through the interceptor
// chain and executes them against the store. One handler serves one session,
// so stateful interceptors are never shared between connections.
type CommandHandler struct {
	store        SensorLogStore
	interceptors *Interceptors[Command]
	logger       Logger
}

// Handle processes one message and returns the reply to send back to the
// peer, or an empty string when no reply is due. Ingest never replies;
// query always does; unknown and malformed commands are only logged.
func (h *CommandHandler) Handle(ctx context.Context, message string) string {
	cmd, err := ParseCommand(message)
	if err == nil {
		err = h.interceptors.Apply(&cmd)
	}
	if err != nil {
		return h.reject(cmd, err)
	}

	switch cmd.Kind {
	case CommandIngest:
		h.ingest(ctx, cmd)
		return ""
	case CommandQuery:
		return h.query(ctx, cmd)
	default:
		return ""
	}
}

func (h *CommandHandler) ingest(ctx context.Context, cmd Command) {
	if err := h.store.Write(ctx, cmd.SensorID, cmd.Record); err != nil {
		h.logger.Error("error on writing record of sensor %q: %s", cmd.SensorID, err.Error())
	}
}

func (h *CommandHandler) query(ctx context.Context, cmd Command) string {
	records, err := h.store.ReadTail(ctx, cmd.SensorID, cmd.Count)
	if err != nil {
		if errors.Is(err, ErrSensorNotFound) {
			h.logger.Error("sensor log not found: %q", cmd.SensorID)
			return FormatErrorReply(ReplyLogNotFound)
		}
		h.logger.Error("error on reading log of sensor %q: %s", cmd.SensorID, err.Error())
		return FormatErrorReply(ReplyStorageFailed)
	}

	return FormatQueryReply(cmd.Count, records)
}

// reject logs a command that failed parsing or interception and builds the
// error reply if the peer is waiting for one.
func (h *CommandHandler) reject(cmd Command, err error) string {
	var rateLimitError *RateLimitError

	switch {
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrMalformedCommand):
		h.logger.Error("%s", err.Error())
		return ""
	case errors.As(err, &rateLimitError):
		h.logger.Error("%s command dropped: %s", cmd.Kind, err.Error())
		if cmd.Kind == CommandQuery {
			return FormatErrorReply(ReplyRateLimited)
		}
		return ""
	case errors.Is(err, ErrValidation):
		h.logger.Error("%s command rejected: %s", cmd.Kind, err.Error())
		if cmd.Kind == CommandQuery {
			return FormatErrorReply(ReplyInvalid)
		}
		return ""
	default:
		h.logger.Error("interceptors return unknown error: %s", err.Error())
		if cmd.Kind == CommandQuery {
			return FormatErrorReply(ReplyInvalid)
		}
		return ""
	}
}

// NewCommandHandler creates a new CommandHandler. The interceptor chain may be nil.
func NewCommandHandler(store SensorLogStore, interceptors *Interceptors[Command], logger Logger) *CommandHandler {
	return &CommandHandler{
		store:        store,
		interceptors: interceptors,
		logger:       logger,
	}
}
