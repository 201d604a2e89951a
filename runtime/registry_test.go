package runtime

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/mocks"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mockHandler(ctrl *gomock.Controller, commandType string) *mocks.MockCommandHandler {
	handler := mocks.NewMockCommandHandler(ctrl)
	handler.EXPECT().CommandType().Return(commandType).AnyTimes()
	return handler
}

func TestRegistry_Resolve(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mockHandler(ctrl, "CHAT")
	ping := mockHandler(ctrl, "PING")

	// Given a registry built with two handlers
	registry := NewRegistry(logs.GetLoggerFromString("DEBUG"), chat, ping)

	// When the command types are resolved
	resolvedChat, okChat := registry.Resolve("CHAT")
	resolvedPing, okPing := registry.Resolve("PING")
	_, okUnknown := registry.Resolve("FOOBAR")

	// Then each type reaches its own handler
	req.True(okChat)
	req.Equal(contract.CommandHandler(chat), resolvedChat)
	req.True(okPing)
	req.Equal(contract.CommandHandler(ping), resolvedPing)
	req.False(okUnknown)
	req.Equal([]string{"CHAT", "PING"}, registry.CommandTypes())
}

func TestRegistry_Resolve_Is_Case_Sensitive(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	registry := NewRegistry(logs.GetLoggerFromString("DEBUG"), mockHandler(ctrl, "CHAT"))

	_, ok := registry.Resolve("chat")
	req.False(ok)
}

func TestRegistry_Duplicate_Type_Keeps_Last_Handler(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	first := mockHandler(ctrl, "CHAT")
	second := mockHandler(ctrl, "CHAT")

	// Given two handlers claiming the same command type
	registry := NewRegistry(logs.GetLoggerFromString("DEBUG"), first, second)

	// When the type is resolved
	resolved, ok := registry.Resolve("CHAT")

	// Then the last registration wins
	req.True(ok)
	req.Same(second, resolved)
	req.Len(registry.CommandTypes(), 1)
}

func TestRegistry_Empty(t *testing.T) {
	req := require.New(t)

	registry := NewRegistry(logs.GetLoggerFromString("DEBUG"))

	_, ok := registry.Resolve("CHAT")
	req.False(ok)
	req.Empty(registry.CommandTypes())
}
