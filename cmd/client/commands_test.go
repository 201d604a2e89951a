package main

import (
	"consultoria-tcp/handlers"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		line        string
		commandType string
		data        map[string]any
	}{
		{line: "ping", commandType: handlers.CommandPing},
		{line: "login ana@cliente.com S3nha-Forte!2026", commandType: handlers.CommandAuth, data: map[string]any{
			"action": handlers.ActionLogin, "email": "ana@cliente.com", "password": "S3nha-Forte!2026",
		}},
		{line: "accept 42", commandType: handlers.CommandChat, data: map[string]any{
			"action": handlers.ActionAcceptProject, "projectId": int64(42),
		}},
		{line: "send 42 bom dia a todos", commandType: handlers.CommandChat, data: map[string]any{
			"action": handlers.ActionSendMessage, "projectId": int64(42), "content": "bom dia a todos",
		}},
		{line: "create ERP high", commandType: handlers.CommandProject, data: map[string]any{
			"action": handlers.ActionCreate, "name": "ERP", "priority": "high",
		}},
		{line: "profile 7", commandType: handlers.CommandProfile, data: map[string]any{
			"action": handlers.ActionGet, "userId": int64(7),
		}},
		{line: "rename Bruno Souza", commandType: handlers.CommandProfile, data: map[string]any{
			"action": handlers.ActionUpdate, "name": "Bruno Souza",
		}},
		{line: "roadmaps", commandType: handlers.CommandRoadmap, data: map[string]any{
			"action": handlers.ActionList,
		}},
		{line: "sharemap 5", commandType: handlers.CommandRoadmap, data: map[string]any{
			"action": handlers.ActionSend, "roadmapId": int64(5),
		}},
		{line: "newroadmap 42 Migração | Inventário | Piloto", commandType: handlers.CommandRoadmap, data: map[string]any{
			"action": handlers.ActionCreate, "projectId": int64(42), "title": "Migração",
			"steps": []any{map[string]any{"title": "Inventário"}, map[string]any{"title": "Piloto"}},
		}},
		{line: `raw {"requestId":"r-1","type":"PING"}`, data: map[string]any{
			"line": `{"requestId":"r-1","type":"PING"}`,
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			req := require.New(t)

			parsed, err := parseCommand(tc.line)

			req.NoError(err)
			req.Equal(tc.commandType, parsed.commandType)
			req.Equal(tc.data, parsed.data)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"", "accept abc", "accept -1", "send 42", "login only-email", "dance", "profile x", "roadmap", "delroadmap 0", "rename", "photo"} {
		t.Run(line, func(t *testing.T) {
			_, err := parseCommand(line)
			require.Error(t, err)
		})
	}
	_, err := parseCommand("quit")
	require.ErrorIs(t, err, errQuit)
}

func TestParseCommand_Photo(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "me.png")
	req.NoError(os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	parsed, err := parseCommand("photo " + path)

	req.NoError(err)
	req.Equal(handlers.CommandProfile, parsed.commandType)
	req.Equal("me.png", parsed.data["fileName"])
	req.Equal(base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n")), parsed.data["photoData"])

	_, err = parseCommand("photo " + filepath.Join(t.TempDir(), "missing.png"))
	req.Error(err)
}
