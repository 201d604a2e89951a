//go:generate go run go.uber.org/mock/mockgen -source=idempotency.go -destination=../mocks/mock_idempotency_repository.go -package=mocks
package repositories

import (
	"consultoria-tcp/errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// IIdempotencyRepository remembers the outcome of a request so a retry with
// the same requestId can be answered without doing the work twice.
type IIdempotencyRepository interface {
	Lookup(userID int64, requestID string) (RememberedResult, bool, error)
	Remember(userID int64, requestID string, result RememberedResult) error
}

// RememberedResult is the answer given to a request, tagged with a
// fingerprint of the payload that produced it. A retry is only the same
// request when its fingerprint matches.
type RememberedResult struct {
	Fingerprint string
	Data        map[string]any
}

type IdempotencyRepository struct {
	db  *badger.DB
	ttl time.Duration
}

func NewIdempotencyRepository(db *badger.DB, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{db: db, ttl: ttl}
}

func idempotencyKey(userID int64, requestID string) []byte {
	return []byte(fmt.Sprintf("idem:%020d:%s", userID, requestID))
}

func (i *IdempotencyRepository) Lookup(userID int64, requestID string) (RememberedResult, bool, error) {
	var result RememberedResult
	err := i.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idempotencyKey(userID, requestID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err := unmarshalRecord(val)
			if err != nil {
				return err
			}
			result = RememberedResult{
				Fingerprint: r.str("fingerprint"),
				Data:        r["data"].GetStructValue().AsMap(),
			}
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return RememberedResult{}, false, nil
	}
	if err != nil {
		return RememberedResult{}, false, err
	}
	return result, true, nil
}

// Remember stores the result under the key; badger drops it once the TTL has elapsed.
func (i *IdempotencyRepository) Remember(userID int64, requestID string, result RememberedResult) error {
	bytes, err := marshalRecord(map[string]any{
		"fingerprint": result.Fingerprint,
		"data":        result.Data,
	})
	if err != nil {
		return err
	}
	return i.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(idempotencyKey(userID, requestID), bytes).WithTTL(i.ttl)
		return txn.SetEntry(entry)
	})
}
