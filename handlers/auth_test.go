package handlers

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/mocks"
	"consultoria-tcp/protocol"
	"consultoria-tcp/session"
	"context"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func authMessage(sessionID string, data map[string]any) protocol.Message {
	return protocol.Message{RequestID: "req-1", Type: CommandAuth, SessionID: sessionID, Data: data}
}

func TestAuthHandler(t *testing.T) {
	carla := domain.Identity{UserID: 7, Name: "Carla", Email: "carla@consultoria.com", Role: domain.RoleConsultant}
	opened := session.Session{Token: "tok-A", Identity: carla, ExpiresAt: fixedNow.Add(time.Hour)}

	t.Run("register opens a session", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockIAuthService(ctrl)
		handler := NewAuthHandler(svc, logs.GetLoggerFromString("DEBUG"))

		// Given a valid registration
		svc.EXPECT().Register("Carla", "carla@consultoria.com", "S3nha-Forte!2026", "CONSULTANT").Return(opened, nil)

		// When it is submitted without session
		result, err := handler.Handle(context.Background(), authMessage("", map[string]any{
			"action":   ActionRegister,
			"name":     "Carla",
			"email":    "carla@consultoria.com",
			"password": "S3nha-Forte!2026",
			"role":     "CONSULTANT",
		}), session.NewStore(nil))

		// Then the session token is returned with the user
		req.NoError(err)
		req.Equal("tok-A", result.Data["sessionId"])
		req.Equal("CONSULTANT", result.Data["user"].(map[string]any)["role"])
	})

	t.Run("login failure is reported as invalid credentials", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockIAuthService(ctrl)
		handler := NewAuthHandler(svc, logs.GetLoggerFromString("DEBUG"))

		svc.EXPECT().Login("carla@consultoria.com", "wrong").Return(session.Session{}, errors.ErrInvalidCredentials)

		_, err := handler.Handle(context.Background(), authMessage("", map[string]any{
			"action": ActionLogin, "email": "carla@consultoria.com", "password": "wrong",
		}), session.NewStore(nil))

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("login requires both fields", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		handler := NewAuthHandler(mocks.NewMockIAuthService(ctrl), logs.GetLoggerFromString("DEBUG"))

		_, err := handler.Handle(context.Background(), authMessage("", map[string]any{
			"action": ActionLogin, "email": "carla@consultoria.com",
		}), session.NewStore(nil))

		req.ErrorIs(err, errors.ErrInvalidPayload)
		req.Contains(err.Error(), "password")
	})

	t.Run("logout closes a live session", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockIAuthService(ctrl)
		handler := NewAuthHandler(svc, logs.GetLoggerFromString("DEBUG"))
		sessions := session.NewStore(nil)
		sessions.Put(opened)

		svc.EXPECT().Logout("tok-A").Return(carla, nil)

		result, err := handler.Handle(context.Background(), authMessage("tok-A", map[string]any{"action": ActionLogout}), sessions)

		req.NoError(err)
		req.Equal(int64(7), result.Data["user"].(map[string]any)["id"])
	})

	t.Run("logout without session", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		handler := NewAuthHandler(mocks.NewMockIAuthService(ctrl), logs.GetLoggerFromString("DEBUG"))

		_, err := handler.Handle(context.Background(), authMessage("tok-Z", map[string]any{"action": ActionLogout}), session.NewStore(nil))

		req.ErrorIs(err, errors.ErrInvalidSession)
	})

	t.Run("unknown action", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		handler := NewAuthHandler(mocks.NewMockIAuthService(ctrl), logs.GetLoggerFromString("DEBUG"))

		_, err := handler.Handle(context.Background(), authMessage("", map[string]any{"action": "RESET"}), session.NewStore(nil))

		req.ErrorIs(err, errors.ErrInvalidAction)
	})
}
