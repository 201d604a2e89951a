package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/domain"
	"consultoria-tcp/protocol"
	"consultoria-tcp/services"
	"consultoria-tcp/session"
	"context"
	"log/slog"
)

const (
	CommandAuth = "AUTH"

	ActionRegister = "REGISTER"
	ActionLogin    = "LOGIN"
	ActionLogout   = "LOGOUT"
)

var _ contract.CommandHandler = (*AuthHandler)(nil)

// Field rules for REGISTER live in auth.ValidateRegister.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler opens and closes sessions. REGISTER and LOGIN are the only
// actions of the protocol served without a session.
type AuthHandler struct {
	auth services.IAuthService
	log  *slog.Logger
}

func NewAuthHandler(auth services.IAuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) CommandType() string {
	return CommandAuth
}

func (h *AuthHandler) Handle(_ context.Context, message protocol.Message, sessions contract.SessionValidator) (protocol.Result, error) {
	switch action := message.Action(); action {
	case ActionRegister:
		var req registerRequest
		if err := protocol.Bind(message.Data, &req); err != nil {
			return protocol.Result{}, err
		}
		sess, err := h.auth.Register(req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			return protocol.Result{}, err
		}
		h.log.Info("User registered", "user_id", sess.Identity.UserID, "role", sess.Identity.Role)
		return protocol.Result{Message: "user registered", Data: sessionData(sess)}, nil

	case ActionLogin:
		var req loginRequest
		if err := protocol.Bind(message.Data, &req); err != nil {
			return protocol.Result{}, err
		}
		sess, err := h.auth.Login(req.Email, req.Password)
		if err != nil {
			h.log.Warn("Login refused", "request_id", message.RequestID)
			return protocol.Result{}, err
		}
		h.log.Info("User logged in", "user_id", sess.Identity.UserID)
		return protocol.Result{Message: "login successful", Data: sessionData(sess)}, nil

	case ActionLogout:
		if _, err := authenticate(message, sessions); err != nil {
			return protocol.Result{}, err
		}
		identity, err := h.auth.Logout(message.SessionID)
		if err != nil {
			return protocol.Result{}, err
		}
		h.log.Info("User logged out", "user_id", identity.UserID)
		return protocol.Result{Message: "logged out", Data: map[string]any{"user": userData(identity)}}, nil

	default:
		return protocol.Result{}, invalidAction(action)
	}
}

func sessionData(sess session.Session) map[string]any {
	return map[string]any{
		"sessionId": sess.Token,
		"expiresAt": formatTime(sess.ExpiresAt),
		"user":      userData(sess.Identity),
	}
}

func userData(identity domain.Identity) map[string]any {
	return map[string]any{
		"id":    identity.UserID,
		"name":  identity.Name,
		"email": identity.Email,
		"role":  string(identity.Role),
	}
}
