package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/protocol"
	"context"
	"time"
)

const CommandPing = "PING"

var _ contract.CommandHandler = (*PingHandler)(nil)

// PingHandler answers without a session so clients can check the server is up.
type PingHandler struct {
	now func() time.Time
}

func NewPingHandler() *PingHandler {
	return &PingHandler{now: time.Now}
}

func (h *PingHandler) CommandType() string {
	return CommandPing
}

func (h *PingHandler) Handle(context.Context, protocol.Message, contract.SessionValidator) (protocol.Result, error) {
	return protocol.Result{
		Message: "pong",
		Data:    map[string]any{"serverTime": formatTime(h.now())},
	}, nil
}
