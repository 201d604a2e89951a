//go:generate go run go.uber.org/mock/mockgen -source=roadmap.go -destination=../mocks/mock_roadmap_repository.go -package=mocks
package repositories

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"
)

type IRoadmapRepository interface {
	Save(roadmap domain.Roadmap) (domain.Roadmap, error)
	FindByID(id int64) (domain.Roadmap, error)
	FindByProject(projectID int64) ([]domain.Roadmap, error)
	FindByCreator(userID int64) ([]domain.Roadmap, error)
	Delete(id int64) error
}

type RoadmapRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewRoadmapRepository(db *badger.DB) (*RoadmapRepository, error) {
	seq, err := db.GetSequence([]byte("seq:roadmap"), 16)
	if err != nil {
		return nil, err
	}
	return &RoadmapRepository{db: db, seq: seq}, nil
}

func (r *RoadmapRepository) Close() error {
	return r.seq.Release()
}

const roadmapPrefix = "roadmap:"

func roadmapKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", roadmapPrefix, id))
}

// Save inserts a roadmap when its ID is zero and overwrites it otherwise.
func (r *RoadmapRepository) Save(roadmap domain.Roadmap) (domain.Roadmap, error) {
	if roadmap.ID == 0 {
		id, err := nextID(r.seq)
		if err != nil {
			return domain.Roadmap{}, err
		}
		roadmap.ID = id
	}
	data, err := marshalRecord(fromRoadmap(roadmap))
	if err != nil {
		return domain.Roadmap{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roadmapKey(roadmap.ID), data)
	})
	if err != nil {
		return domain.Roadmap{}, err
	}
	return roadmap, nil
}

func (r *RoadmapRepository) FindByID(id int64) (domain.Roadmap, error) {
	var roadmap domain.Roadmap
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roadmapKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			roadmap, err = decodeRoadmap(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Roadmap{}, fmt.Errorf("%w: %d", errors.ErrRoadmapNotFound, id)
	}
	return roadmap, err
}

func (r *RoadmapRepository) FindByProject(projectID int64) ([]domain.Roadmap, error) {
	return r.filter(func(roadmap domain.Roadmap) bool { return roadmap.ProjectID == projectID })
}

func (r *RoadmapRepository) FindByCreator(userID int64) ([]domain.Roadmap, error) {
	return r.filter(func(roadmap domain.Roadmap) bool { return roadmap.CreatedBy == userID })
}

// Delete removes a roadmap. Deleting an unknown id reports ErrRoadmapNotFound.
func (r *RoadmapRepository) Delete(id int64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(roadmapKey(id)); err != nil {
			return err
		}
		return txn.Delete(roadmapKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %d", errors.ErrRoadmapNotFound, id)
	}
	return err
}

// filter scans every roadmap by ascending id.
func (r *RoadmapRepository) filter(keep func(domain.Roadmap) bool) ([]domain.Roadmap, error) {
	var roadmaps []domain.Roadmap
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(roadmapPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				roadmap, err := decodeRoadmap(val)
				if err != nil {
					return err
				}
				roadmaps = append(roadmaps, roadmap)
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
	return lo.Filter(roadmaps, func(roadmap domain.Roadmap, _ int) bool {
		return keep(roadmap)
	}), nil
}

func decodeRoadmap(val []byte) (domain.Roadmap, error) {
	r, err := unmarshalRecord(val)
	if err != nil {
		return domain.Roadmap{}, err
	}
	return toRoadmap(r)
}

func fromRoadmap(roadmap domain.Roadmap) map[string]any {
	steps := lo.Map(roadmap.Steps, func(step domain.RoadmapStep, _ int) any {
		return map[string]any{
			"title":          step.Title,
			"description":    step.Description,
			"estimated_time": step.EstimatedTime,
		}
	})
	return map[string]any{
		"id":          roadmap.ID,
		"project_id":  roadmap.ProjectID,
		"created_by":  roadmap.CreatedBy,
		"title":       roadmap.Title,
		"description": roadmap.Description,
		"steps":       steps,
		"created_at":  formatTime(roadmap.CreatedAt),
		"updated_at":  formatTime(roadmap.UpdatedAt),
	}
}

func toRoadmap(r record) (domain.Roadmap, error) {
	createdAt, err := r.time("created_at")
	if err != nil {
		return domain.Roadmap{}, err
	}
	updatedAt, err := r.time("updated_at")
	if err != nil {
		return domain.Roadmap{}, err
	}
	steps := lo.Map(r["steps"].GetListValue().GetValues(), func(v *structpb.Value, _ int) domain.RoadmapStep {
		step := record(v.GetStructValue().GetFields())
		return domain.RoadmapStep{
			Title:         step.str("title"),
			Description:   step.str("description"),
			EstimatedTime: step.str("estimated_time"),
		}
	})
	return domain.Roadmap{
		ID:          r.int64("id"),
		ProjectID:   r.int64("project_id"),
		CreatedBy:   r.int64("created_by"),
		Title:       r.str("title"),
		Description: r.str("description"),
		Steps:       steps,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
