//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"consultoria-tcp/auth"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/repositories"
	"consultoria-tcp/session"
	"fmt"
	"time"
)

type IAuthService interface {
	Register(name, email, password, role string) (session.Session, error)
	Login(email, password string) (session.Session, error)
	Logout(token string) (domain.Identity, error)
}

type ITokenIssuer interface {
	GenerateToken(identity domain.Identity) (string, time.Time, error)
	ValidateToken(token string) (domain.Identity, error)
}

// SessionWriter is the part of the session store the login flow writes to.
type SessionWriter interface {
	Put(sess session.Session)
	Invalidate(token string) bool
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         ITokenIssuer
	sessions       SessionWriter
}

func NewAuthService(repo repositories.IUserRepository, tokens ITokenIssuer, sessions SessionWriter) *AuthService {
	return &AuthService{userRepository: repo, tokens: tokens, sessions: sessions}
}

func (s *AuthService) Register(name, email, password, role string) (session.Session, error) {
	// Cheap checks first: hashing is deliberately slow.
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}); err != nil {
		return session.Session{}, err
	}
	parsedRole, ok := domain.ParseRole(role)
	if !ok {
		return session.Session{}, fmt.Errorf("%w: unknown role %s", errors.ErrInvalidPayload, role)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return session.Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(name, email, hashedPassword, parsedRole)
	if err != nil {
		return session.Session{}, err
	}

	return s.open(user.Identity())
}

func (s *AuthService) Login(email, password string) (session.Session, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Same answer for unknown users and wrong passwords.
		return session.Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return session.Session{}, errors.ErrInvalidCredentials
	}

	return s.open(user.Identity())
}

// Logout closes the session identified by token.
func (s *AuthService) Logout(token string) (domain.Identity, error) {
	identity, err := s.tokens.ValidateToken(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrInvalidSession, err)
	}
	if !s.sessions.Invalidate(token) {
		return domain.Identity{}, errors.ErrInvalidSession
	}
	return identity, nil
}

func (s *AuthService) open(identity domain.Identity) (session.Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(identity)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	sess := session.Session{Token: token, Identity: identity, ExpiresAt: expiresAt}
	s.sessions.Put(sess)
	return sess, nil
}
