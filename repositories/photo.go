//go:generate go run go.uber.org/mock/mockgen -source=photo.go -destination=../mocks/mock_photo_repository.go -package=mocks
package repositories

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"encoding/base64"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type IPhotoRepository interface {
	SavePhoto(photo domain.Photo) error
	FindPhoto(userID int64) (domain.Photo, error)
}

// PhotoRepository keeps one profile photo per user under photo:{user}.
type PhotoRepository struct {
	db *badger.DB
}

func NewPhotoRepository(db *badger.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func photoKey(userID int64) []byte {
	return []byte(fmt.Sprintf("photo:%020d", userID))
}

// SavePhoto replaces any previous photo of the user.
func (p *PhotoRepository) SavePhoto(photo domain.Photo) error {
	data, err := marshalRecord(map[string]any{
		"user_id":     photo.UserID,
		"mime_type":   photo.MimeType,
		"file_name":   photo.FileName,
		"data":        base64.StdEncoding.EncodeToString(photo.Data),
		"uploaded_at": formatTime(photo.UploadedAt),
	})
	if err != nil {
		return err
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(photoKey(photo.UserID), data)
	})
}

func (p *PhotoRepository) FindPhoto(userID int64) (domain.Photo, error) {
	var photo domain.Photo
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(photoKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err := unmarshalRecord(val)
			if err != nil {
				return err
			}
			photo, err = toPhoto(r)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Photo{}, fmt.Errorf("%w: user %d", errors.ErrPhotoNotFound, userID)
	}
	return photo, err
}

func toPhoto(r record) (domain.Photo, error) {
	uploadedAt, err := r.time("uploaded_at")
	if err != nil {
		return domain.Photo{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(r.str("data"))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("field data: %w", err)
	}
	return domain.Photo{
		UserID:     r.int64("user_id"),
		MimeType:   r.str("mime_type"),
		FileName:   r.str("file_name"),
		Data:       raw,
		UploadedAt: uploadedAt,
	}, nil
}
