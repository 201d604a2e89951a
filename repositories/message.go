//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"consultoria-tcp/domain"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(message domain.ChatMessage) error
	GetMessages(projectID int64) ([]domain.ChatMessage, error)
}

type MessageRepository struct {
	db            *badger.DB
	seq           *badger.Sequence
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte("seq:chat"), 256)
	if err != nil {
		return nil, err
	}
	return &MessageRepository{db: db, seq: seq, log: log, limitMessages: limitMessages}, nil
}

func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

func chatPrefix(projectID int64) string {
	return fmt.Sprintf("chat:%020d:", projectID)
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "chat:{project_id}:{timestamp_padded}:{seq}":
// the 19-digit timestamp gives chronological order and the insertion
// sequence keeps messages with the same timestamp in arrival order.
func (m *MessageRepository) StoreMessage(message domain.ChatMessage) error {
	seq, err := nextID(m.seq)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%019d:%020d", chatPrefix(message.ProjectID), message.Timestamp.UnixNano(), seq)
	bytes, err := marshalRecord(fromChatMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages returns a project's messages oldest first. When a limit is
// configured only the most recent messages are kept.
func (m *MessageRepository) GetMessages(projectID int64) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(chatPrefix(projectID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration starts from the last key of the prefix.
		for it.Seek(append(prefix, 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(val []byte) error {
				r, err := unmarshalRecord(val)
				if err != nil {
					return err
				}
				message, err := toChatMessage(r)
				if err != nil {
					return err
				}
				messages = append(messages, message)
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
	return lo.Reverse(messages), nil
}

func fromChatMessage(message domain.ChatMessage) map[string]any {
	return map[string]any{
		"id":         message.ID.String(),
		"project_id": message.ProjectID,
		"sender_id":  message.SenderID,
		"content":    message.Content,
		"lang":       message.Lang,
		"timestamp":  formatTime(message.Timestamp),
	}
}

func toChatMessage(r record) (domain.ChatMessage, error) {
	id, err := uuid.Parse(r.str("id"))
	if err != nil {
		return domain.ChatMessage{}, err
	}
	timestamp, err := r.time("timestamp")
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return domain.ChatMessage{
		ID:        id,
		ProjectID: r.int64("project_id"),
		SenderID:  r.int64("sender_id"),
		Content:   r.str("content"),
		Lang:      r.str("lang"),
		Timestamp: timestamp,
	}, nil
}
