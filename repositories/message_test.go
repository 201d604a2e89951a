package repositories

import (
	"consultoria-tcp/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessageRepository(t *testing.T, db *badger.DB, limit *int) *MessageRepository {
	repository, err := NewMessageRepository(db, slog.Default(), limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func chatMessage(projectID, senderID int64, content string, at time.Time) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.New(),
		ProjectID: projectID,
		SenderID:  senderID,
		Content:   content,
		Lang:      "por",
		Timestamp: at,
	}
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	repository := newMessageRepository(t, openDB(t), nil)

	at := time.Now().UTC()
	messages := []domain.ChatMessage{
		chatMessage(42, 1, "bom dia", at),
		chatMessage(42, 7, "bom dia, tudo certo?", at.Add(time.Minute)),
		chatMessage(42, 1, "sim, vamos começar", at.Add(2*time.Minute)),
	}
	// Stored out of order, read back by timestamp
	for _, i := range []int{2, 0, 1} {
		req.NoError(repository.StoreMessage(messages[i]))
	}
	// Another project's chat is not visible
	req.NoError(repository.StoreMessage(chatMessage(43, 1, "outro projeto", at)))

	fetched, err := repository.GetMessages(42)
	req.NoError(err)
	req.Equal(messages, fetched)
}

func Test_Same_Timestamp_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository := newMessageRepository(t, openDB(t), nil)

	at := time.Now().UTC()
	first := chatMessage(5, 1, "first", at)
	second := chatMessage(5, 2, "second", at)
	third := chatMessage(5, 1, "third", at)
	for _, m := range []domain.ChatMessage{first, second, third} {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.GetMessages(5)
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("first", fetched[0].Content)
	req.Equal("second", fetched[1].Content)
	req.Equal("third", fetched[2].Content)
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := newMessageRepository(t, openDB(t), &limit)

	at := time.Now().UTC()
	for i, content := range []string{"one", "two", "three"} {
		req.NoError(repository.StoreMessage(chatMessage(9, 1, content, at.Add(time.Duration(i)*time.Second))))
	}

	// Then only the most recent messages are returned, oldest first
	fetched, err := repository.GetMessages(9)
	req.NoError(err)
	req.Len(fetched, limit)
	req.Equal("two", fetched[0].Content)
	req.Equal("three", fetched[1].Content)
}

func Test_Empty_Chat(t *testing.T) {
	req := require.New(t)
	repository := newMessageRepository(t, openDB(t), nil)

	fetched, err := repository.GetMessages(1)
	req.NoError(err)
	req.Empty(fetched)
}
