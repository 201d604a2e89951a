package repositories

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_And_Find(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	// When two users register
	ana, err := repository.CreateUser("Ana", "Ana@Consult.io", "$argon2id$hash", domain.RoleConsultant)
	req.NoError(err)
	bia, err := repository.CreateUser("Bia", "bia@client.io", "$argon2id$hash", domain.RoleClient)
	req.NoError(err)

	// Then they get distinct positive ids
	req.Positive(ana.ID)
	req.NotEqual(ana.ID, bia.ID)

	// And they can be found by id and by email, whatever its casing
	byID, err := repository.FindByID(ana.ID)
	req.NoError(err)
	req.Equal("Ana", byID.Name)
	req.Equal(domain.RoleConsultant, byID.Role)
	req.True(ana.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := repository.GetUserByEmail("ana@consult.io")
	req.NoError(err)
	req.Equal(ana.ID, byEmail.ID)
	req.Equal("$argon2id$hash", byEmail.PasswordHash)
}

func TestUserRepository_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	_, err = repository.CreateUser("Ana", "ana@consult.io", "h", domain.RoleConsultant)
	req.NoError(err)

	_, err = repository.CreateUser("Other Ana", "ANA@consult.io", "h", domain.RoleClient)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	_, err = repository.FindByID(404)
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repository.GetUserByEmail("nobody@nowhere.io")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_UpdateName(t *testing.T) {
	req := require.New(t)
	repository, err := NewUserRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	ana, err := repository.CreateUser("Ana", "ana@consult.io", "h", domain.RoleConsultant)
	req.NoError(err)

	// When Ana is renamed
	renamed, err := repository.UpdateName(ana.ID, "Ana Paula")

	// Then the new name is stored and the email still resolves to her
	req.NoError(err)
	req.Equal("Ana Paula", renamed.Name)
	byEmail, err := repository.GetUserByEmail("ana@consult.io")
	req.NoError(err)
	req.Equal("Ana Paula", byEmail.Name)
	req.Equal("h", byEmail.PasswordHash)

	// And an unknown user is reported
	_, err = repository.UpdateName(ana.ID+100, "Ghost")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
