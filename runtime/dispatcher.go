package runtime

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/errors"
	"consultoria-tcp/protocol"
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

var _ contract.Dispatcher = (*Dispatcher)(nil)

// Dispatcher is the boundary between the wire and the handlers: every error
// raised below it becomes an error Response here and nowhere else.
type Dispatcher struct {
	registry *Registry
	sessions contract.SessionValidator
	log      *slog.Logger
}

func NewDispatcher(registry *Registry, sessions contract.SessionValidator, log *slog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, sessions: sessions, log: log}
}

// Dispatch decodes, validates, routes and runs one request line.
func (d *Dispatcher) Dispatch(ctx context.Context, line []byte) protocol.Response {
	message, err := protocol.Decode(line)
	if err != nil {
		requestID := protocol.RequestIDHint(line)
		d.log.Warn("Undecodable message", "request_id", requestID, "error", err)
		return protocol.FromError(requestID, err)
	}
	if !protocol.IsValid(&message) {
		d.log.Warn("Invalid message", "request_id", message.RequestID, "type", message.Type)
		return protocol.FromError(message.RequestID, errors.ErrInvalidMessage)
	}

	handler, ok := d.registry.Resolve(message.Type)
	if !ok {
		d.log.Warn("Unknown command", "request_id", message.RequestID, "type", message.Type)
		return protocol.FromError(message.RequestID, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, message.Type))
	}

	start := time.Now()
	result, err := d.invoke(ctx, handler, message)
	log := d.log.With("request_id", message.RequestID, "type", message.Type, "action", message.Action())
	log.Debug("Command handled", "duration", time.Since(start), "success", err == nil)
	if err != nil {
		if errors.KindOf(err) == errors.KindInternal {
			log.Error("Command failed", "error", err)
		} else {
			log.Warn("Command rejected", "kind", errors.KindOf(err).String(), "error", err)
		}
		return protocol.FromError(message.RequestID, err)
	}
	return protocol.CreateSuccess(message.RequestID, result.Message, result.Data)
}

// invoke shields the connection from a panicking handler.
func (d *Dispatcher) invoke(ctx context.Context, handler contract.CommandHandler, message protocol.Message) (result protocol.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Handler panic", "type", message.Type, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", errors.ErrHandlerPanic, r)
		}
	}()
	return handler.Handle(ctx, message, d.sessions)
}
