package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatSuite struct {
	BaseTCPSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) register(ctx context.Context, conn *Conn, name, role string) string {
	response := conn.Send(ctx, "AUTH", map[string]any{
		"action":   "REGISTER",
		"name":     name,
		"email":    fmt.Sprintf("%s-%s@e2e.test", name, uuid.NewString()[:8]),
		"password": "S3nha-Forte!2026",
		"role":     role,
	})
	s.Require().True(response.Success, response.Message)
	sessionID, ok := response.Data["sessionId"].(string)
	s.Require().True(ok)
	return sessionID
}

func (s *testChatSuite) TestFullChatFlow() {
	var projectID json.Number

	s.WithConn("Client and consultant chat on a project", func(ctx context.Context, conn *Conn) {
		clientSession := s.register(ctx, conn, "cliente", "CLIENT")
		consultantSession := s.register(ctx, conn, "consultor", "CONSULTANT")

		s.Run("Step 1: client opens a project", func() {
			conn.Session = clientSession
			response := conn.Send(ctx, "PROJECT", map[string]any{"action": "CREATE", "name": "ERP migration", "priority": "HIGH"})
			s.Require().True(response.Success, response.Message)
			projectID = response.Data["projectId"].(json.Number)
			s.Equal("PENDING", response.Data["status"])
		})

		s.Run("Step 2: client cannot accept its own project", func() {
			conn.Session = clientSession
			response := conn.Send(ctx, "CHAT", map[string]any{"action": "ACCEPT_PROJECT", "projectId": projectID})
			s.False(response.Success)
			s.Contains(response.Message, "consultores")
		})

		s.Run("Step 3: consultant accepts it", func() {
			conn.Session = consultantSession
			response := conn.Send(ctx, "CHAT", map[string]any{"action": "ACCEPT_PROJECT", "projectId": projectID})
			s.Require().True(response.Success, response.Message)
			s.Equal("IN_PROGRESS", response.Data["status"])
		})

		s.Run("Step 4: both parties exchange messages", func() {
			conn.Session = clientSession
			s.Require().True(conn.Send(ctx, "CHAT", map[string]any{"action": "SEND_MESSAGE", "projectId": projectID, "content": "Bom dia, quando começamos?"}).Success)
			conn.Session = consultantSession
			s.Require().True(conn.Send(ctx, "CHAT", map[string]any{"action": "SEND_MESSAGE", "projectId": projectID, "content": "Segunda-feira às nove horas."}).Success)

			empty := conn.Send(ctx, "CHAT", map[string]any{"action": "SEND_MESSAGE", "projectId": projectID, "content": ""})
			s.False(empty.Success)
			s.Equal("content must not be empty", empty.Message)

			conn.Session = clientSession
			response := conn.Send(ctx, "CHAT", map[string]any{"action": "GET_MESSAGES", "projectId": projectID})
			s.Require().True(response.Success, response.Message)
			messages := response.Data["messages"].([]any)
			s.Require().Len(messages, 2)
			s.Equal("Bom dia, quando começamos?", messages[0].(map[string]any)["content"])
		})
	})
}

func (s *testChatSuite) TestProtocolErrorsKeepConnectionOpen() {
	s.WithConn("Malformed input", func(ctx context.Context, conn *Conn) {
		garbage := conn.SendRaw(ctx, "definitely not json")
		s.False(garbage.Success)
		s.Equal("unknown", garbage.RequestID)

		unknown := conn.Send(ctx, "FOOBAR", nil)
		s.False(unknown.Success)
		s.Contains(unknown.Message, "unknown")

		unauthenticated := conn.Send(ctx, "CHAT", map[string]any{"action": "GET_MESSAGES", "projectId": 1})
		s.False(unauthenticated.Success)
		s.Equal("invalid or expired session", unauthenticated.Message)

		pong := conn.Send(ctx, "PING", nil)
		s.True(pong.Success)
	})
}
