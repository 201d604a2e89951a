//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(name, email, hashedPassword string, role domain.Role) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	FindByID(id int64) (domain.User, error)
	UpdateName(id int64, name string) (domain.User, error)
}

type UserRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	seq, err := db.GetSequence([]byte("seq:user"), 16)
	if err != nil {
		return nil, err
	}
	return &UserRepository{db: db, seq: seq, now: time.Now}, nil
}

// Close hands the unused part of the id lease back to badger.
func (u *UserRepository) Close() error {
	return u.seq.Release()
}

func userKey(id int64) []byte {
	return []byte(fmt.Sprintf("user:id:%020d", id))
}

// Emails are matched case-insensitively.
func userEmailKey(email string) []byte {
	return []byte("user:email:" + strings.ToLower(strings.TrimSpace(email)))
}

// CreateUser persists the user and its email index in one transaction.
func (u *UserRepository) CreateUser(name, email, hashedPassword string, role domain.Role) (domain.User, error) {
	id, err := nextID(u.seq)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:           id,
		Name:         name,
		Email:        strings.TrimSpace(email),
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    u.now().UTC(),
	}
	data, err := marshalRecord(fromUser(user))
	if err != nil {
		return domain.User{}, err
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		indexKey := userEmailKey(email)
		if _, err := txn.Get(indexKey); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte(strconv.FormatInt(id, 10)))
	})
	if errors.Is(err, badger.ErrConflict) {
		return domain.User{}, errors.ErrUserAlreadyExists
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupted email index for %s: %w", email, err)
		}
		user, err = readUser(txn, id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

func (u *UserRepository) FindByID(id int64) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = readUser(txn, id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

// UpdateName renames a user. The email index is untouched.
func (u *UserRepository) UpdateName(id int64, name string) (domain.User, error) {
	var user domain.User
	err := u.db.Update(func(txn *badger.Txn) error {
		var err error
		user, err = readUser(txn, id)
		if err != nil {
			return err
		}
		user.Name = name
		data, err := marshalRecord(fromUser(user))
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func readUser(txn *badger.Txn, id int64) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	err = item.Value(func(val []byte) error {
		r, err := unmarshalRecord(val)
		if err != nil {
			return err
		}
		user, err = toUser(r)
		return err
	})
	return user, err
}

func fromUser(user domain.User) map[string]any {
	return map[string]any{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"created_at":    formatTime(user.CreatedAt),
	}
}

func toUser(r record) (domain.User, error) {
	createdAt, err := r.time("created_at")
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           r.int64("id"),
		Name:         r.str("name"),
		Email:        r.str("email"),
		PasswordHash: r.str("password_hash"),
		Role:         domain.Role(r.str("role")),
		CreatedAt:    createdAt,
	}, nil
}
