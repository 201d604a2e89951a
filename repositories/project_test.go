package repositories

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProjectRepository_Save_And_Find(t *testing.T) {
	req := require.New(t)
	repository, err := NewProjectRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	now := time.Now().UTC()
	project := domain.NewProject(1, "Site institucional", "Landing page", domain.PriorityHigh, now)

	// When a new project is saved
	saved, err := repository.Save(project)
	req.NoError(err)
	req.Positive(saved.ID)

	// Then it reads back unchanged and without consultant
	found, err := repository.FindByID(saved.ID)
	req.NoError(err)
	req.Equal(saved.Name, found.Name)
	req.Equal(domain.StatusPending, found.Status)
	req.Equal(domain.PriorityHigh, found.Priority)
	req.Nil(found.ConsultantID)
	req.True(now.Equal(found.CreatedAt))

	// When a consultant is assigned and the project saved again
	found.AssignConsultant(7, now.Add(time.Minute))
	_, err = repository.Save(found)
	req.NoError(err)

	// Then the same record is updated
	updated, err := repository.FindByID(saved.ID)
	req.NoError(err)
	req.NotNil(updated.ConsultantID)
	req.Equal(int64(7), *updated.ConsultantID)
	req.Equal(domain.StatusInProgress, updated.Status)
}

func TestProjectRepository_Not_Found(t *testing.T) {
	req := require.New(t)
	repository, err := NewProjectRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	_, err = repository.FindByID(99)
	req.ErrorIs(err, errors.ErrProjectNotFound)
}

func TestProjectRepository_FindByParticipant(t *testing.T) {
	req := require.New(t)
	repository, err := NewProjectRepository(openDB(t))
	req.NoError(err)
	defer repository.Close()

	now := time.Now().UTC()
	owned, err := repository.Save(domain.NewProject(1, "owned", "", domain.PriorityLow, now))
	req.NoError(err)
	consulted := domain.NewProject(2, "consulted", "", domain.PriorityLow, now)
	consulted.AssignConsultant(1, now)
	consulted, err = repository.Save(consulted)
	req.NoError(err)
	_, err = repository.Save(domain.NewProject(3, "foreign", "", domain.PriorityLow, now))
	req.NoError(err)

	projects, err := repository.FindByParticipant(1)
	req.NoError(err)
	req.Len(projects, 2)
	req.Equal(owned.ID, projects[0].ID)
	req.Equal(consulted.ID, projects[1].ID)
}
