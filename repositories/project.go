//go:generate go run go.uber.org/mock/mockgen -source=project.go -destination=../mocks/mock_project_repository.go -package=mocks
package repositories

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IProjectRepository interface {
	FindByID(id int64) (domain.Project, error)
	Save(project domain.Project) (domain.Project, error)
	FindByParticipant(userID int64) ([]domain.Project, error)
}

type ProjectRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewProjectRepository(db *badger.DB) (*ProjectRepository, error) {
	seq, err := db.GetSequence([]byte("seq:project"), 16)
	if err != nil {
		return nil, err
	}
	return &ProjectRepository{db: db, seq: seq}, nil
}

func (p *ProjectRepository) Close() error {
	return p.seq.Release()
}

const projectPrefix = "project:"

func projectKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", projectPrefix, id))
}

func (p *ProjectRepository) FindByID(id int64) (domain.Project, error) {
	var project domain.Project
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(projectKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			project, err = decodeProject(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Project{}, fmt.Errorf("%w: %d", errors.ErrProjectNotFound, id)
	}
	return project, err
}

// Save inserts a project when its ID is zero and overwrites it otherwise.
func (p *ProjectRepository) Save(project domain.Project) (domain.Project, error) {
	if project.ID == 0 {
		id, err := nextID(p.seq)
		if err != nil {
			return domain.Project{}, err
		}
		project.ID = id
	}
	data, err := marshalRecord(fromProject(project))
	if err != nil {
		return domain.Project{}, err
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(projectKey(project.ID), data)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return project, nil
}

// FindByParticipant returns, by ascending id, the projects userID owns or consults on.
func (p *ProjectRepository) FindByParticipant(userID int64) ([]domain.Project, error) {
	var projects []domain.Project
	err := p.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(projectPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				project, err := decodeProject(val)
				if err != nil {
					return err
				}
				projects = append(projects, project)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Filter(projects, func(project domain.Project, _ int) bool {
		return project.CanAccess(userID)
	}), nil
}

func decodeProject(val []byte) (domain.Project, error) {
	r, err := unmarshalRecord(val)
	if err != nil {
		return domain.Project{}, err
	}
	return toProject(r)
}

func fromProject(project domain.Project) map[string]any {
	fields := map[string]any{
		"id":          project.ID,
		"owner_id":    project.OwnerID,
		"name":        project.Name,
		"description": project.Description,
		"status":      string(project.Status),
		"priority":    string(project.Priority),
		"progress":    project.Progress,
		"created_at":  formatTime(project.CreatedAt),
		"updated_at":  formatTime(project.UpdatedAt),
	}
	if project.ConsultantID != nil {
		fields["consultant_id"] = *project.ConsultantID
	}
	return fields
}

func toProject(r record) (domain.Project, error) {
	createdAt, err := r.time("created_at")
	if err != nil {
		return domain.Project{}, err
	}
	updatedAt, err := r.time("updated_at")
	if err != nil {
		return domain.Project{}, err
	}
	return domain.Project{
		ID:           r.int64("id"),
		OwnerID:      r.int64("owner_id"),
		ConsultantID: r.optionalInt64("consultant_id"),
		Name:         r.str("name"),
		Description:  r.str("description"),
		Status:       domain.ProjectStatus(r.str("status")),
		Priority:     domain.Priority(r.str("priority")),
		Progress:     int(r.int64("progress")),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}
