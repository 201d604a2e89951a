//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"consultoria-tcp/domain"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	fieldProject   = "project"
	fieldSender    = "sender"
	fieldContent   = "content"
	fieldLang      = "lang"
	fieldTimestamp = "timestamp"
)

type IMessageIndex interface {
	Index(message domain.ChatMessage) error
	Search(ctx context.Context, projectID int64, query string, limit int) ([]SearchHit, error)
}

// SearchHit is a chat message matched by a full-text query.
type SearchHit struct {
	Message domain.ChatMessage
	Score   float64
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// OpenMessageIndexWriter opens the bluge index at path, or an in-memory one
// when path is empty.
func OpenMessageIndexWriter(path string) (*bluge.Writer, error) {
	config := bluge.InMemoryOnlyConfig()
	if path != "" {
		config = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	return writer, nil
}

func (i *MessageIndex) Index(message domain.ChatMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField(fieldProject, strconv.FormatInt(message.ProjectID, 10))).
		AddField(bluge.NewKeywordField(fieldSender, strconv.FormatInt(message.SenderID, 10)).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewKeywordField(fieldLang, message.Lang).StoreValue()).
		AddField(bluge.NewKeywordField(fieldTimestamp, formatTime(message.Timestamp)).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query on the content of one project's messages, best
// score first.
func (i *MessageIndex) Search(ctx context.Context, projectID int64, query string, limit int) ([]SearchHit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(strconv.FormatInt(projectID, 10)).SetField(fieldProject)).
		AddMust(bluge.NewMatchQuery(query).SetField(fieldContent))
	request := bluge.NewTopNSearch(limit, q).SortBy([]string{"-_score"})

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	match, err := matches.Next()
	for err == nil && match != nil {
		hit := SearchHit{Score: match.Score, Message: domain.ChatMessage{ProjectID: projectID}}
		var fieldErr error
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.Message.ID, fieldErr = uuid.ParseBytes(value)
			case fieldSender:
				hit.Message.SenderID, fieldErr = strconv.ParseInt(string(value), 10, 64)
			case fieldContent:
				hit.Message.Content = string(value)
			case fieldLang:
				hit.Message.Lang = string(value)
			case fieldTimestamp:
				hit.Message.Timestamp, fieldErr = parseTime(string(value))
			}
			return fieldErr == nil
		})
		if visitErr != nil {
			return nil, visitErr
		}
		if fieldErr != nil {
			i.log.Warn("Skipping unreadable search hit", "error", fieldErr)
		} else {
			hits = append(hits, hit)
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
