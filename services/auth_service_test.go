package services

import (
	"consultoria-tcp/auth"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/mocks"
	"consultoria-tcp/session"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	store := session.NewStore(nil)
	tokens := auth.NewTokenIssuer("test-secret", 24*time.Hour)
	svc := NewAuthService(mockRepo, tokens, store)

	t.Run("should register and open a session when input is valid", func(t *testing.T) {
		req := require.New(t)
		email := "ana@consult.io"
		password := "ComplexPass123!"

		// The repository only ever sees the hash
		mockRepo.EXPECT().
			CreateUser("Ana", email, gomock.Not(password), domain.RoleConsultant).
			Return(domain.User{ID: 7, Name: "Ana", Email: email, Role: domain.RoleConsultant}, nil).
			Times(1)

		sess, err := svc.Register("Ana", email, password, "consultant")

		req.NoError(err)
		req.NotEmpty(sess.Token)
		req.Equal(int64(7), sess.Identity.UserID)

		identity, ok := store.ValidateSession(sess.Token)
		req.True(ok)
		req.Equal(domain.RoleConsultant, identity.Role)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		sess, err := svc.Register("Ana", "ana@consult.io", "simplepassword", "CLIENT")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(sess.Token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser("Bia", "bia@client.io", gomock.Any(), domain.RoleClient).
			Return(domain.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register("Bia", "bia@client.io", "ComplexPass123!", "CLIENT")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	store := session.NewStore(nil)
	svc := NewAuthService(mockRepo, auth.NewTokenIssuer("test-secret", time.Hour), store)

	password := "Secret123456!"
	hashedPassword, err := auth.HashPassword(password)
	require.NoError(t, err)
	storedUser := domain.User{ID: 3, Name: "Bia", Email: "bia@client.io", PasswordHash: hashedPassword, Role: domain.RoleClient}

	t.Run("should login and logout with correct credentials", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByEmail(storedUser.Email).Return(storedUser, nil).Times(1)

		sess, err := svc.Login(storedUser.Email, password)
		req.NoError(err)
		req.Equal(storedUser.Identity(), sess.Identity)

		_, ok := store.ValidateSession(sess.Token)
		req.True(ok)

		identity, err := svc.Logout(sess.Token)
		req.NoError(err)
		req.Equal(int64(3), identity.UserID)

		_, ok = store.ValidateSession(sess.Token)
		req.False(ok)

		// A second logout finds nothing to close
		_, err = svc.Logout(sess.Token)
		req.ErrorIs(err, errors.ErrInvalidSession)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByEmail(storedUser.Email).Return(storedUser, nil).Times(1)

		_, err := svc.Login(storedUser.Email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByEmail("unknown@example.com").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)

		_, err := svc.Login("unknown@example.com", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should reject a forged token on logout", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.Logout("forged.token.value")

		req.ErrorIs(err, errors.ErrInvalidSession)
	})
}

func TestAuthService_Token_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	req := require.New(t)

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := mocks.NewMockITokenIssuer(ctrl)
	sessions := mocks.NewMockSessionWriter(ctrl)
	svc := NewAuthService(mockRepo, tokens, sessions)

	hashedPassword, err := auth.HashPassword("Secret123456!")
	req.NoError(err)
	mockRepo.EXPECT().GetUserByEmail("bia@client.io").Return(domain.User{ID: 3, PasswordHash: hashedPassword, Role: domain.RoleClient}, nil)
	tokens.EXPECT().GenerateToken(gomock.Any()).Return("", time.Time{}, errors.New("signing key unavailable"))
	sessions.EXPECT().Put(gomock.Any()).Times(0)

	_, err = svc.Login("bia@client.io", "Secret123456!")

	req.ErrorIs(err, errors.ErrTokenGeneration)
}
