//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/repositories"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IChatService interface {
	SendMessage(ctx context.Context, projectID, userID int64, content string) (domain.ChatMessage, error)
	GetMessagesByProjectID(ctx context.Context, projectID, userID int64) ([]domain.ChatMessage, error)
	SearchMessages(ctx context.Context, projectID int64, query string, limit int) ([]repositories.SearchHit, error)
}

// Censor rewrites forbidden words in a message.
type Censor interface {
	Censor(content string) (string, []string)
}

type ChatService struct {
	messages repositories.IMessageRepository
	index    repositories.IMessageIndex
	censor   Censor
	log      *slog.Logger
	now      func() time.Time
}

func NewChatService(messages repositories.IMessageRepository, index repositories.IMessageIndex,
	censor Censor, log *slog.Logger) *ChatService {
	return &ChatService{messages: messages, index: index, censor: censor, log: log, now: time.Now}
}

// SendMessage censors, tags and stores a message. Access to the project has
// already been checked by the caller.
func (s *ChatService) SendMessage(ctx context.Context, projectID, userID int64, content string) (domain.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return domain.ChatMessage{}, errors.ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return domain.ChatMessage{}, err
	}

	sanitized, censoredWords := s.censor.Censor(content)
	if len(censoredWords) > 0 {
		s.log.Warn("Message censored", "project_id", projectID, "sender_id", userID, "words", len(censoredWords))
	}

	message := domain.ChatMessage{
		ID:        uuid.New(),
		ProjectID: projectID,
		SenderID:  userID,
		Content:   sanitized,
		Lang:      detectLang(sanitized),
		Timestamp: s.now().UTC(),
	}
	if err := s.messages.StoreMessage(message); err != nil {
		return domain.ChatMessage{}, err
	}
	// The chat history is the source of truth; a message missing from the
	// search index is only logged.
	if err := s.index.Index(message); err != nil {
		s.log.Error("Failed to index message", "message_id", message.ID, "error", err)
	}
	return message, nil
}

func (s *ChatService) GetMessagesByProjectID(ctx context.Context, projectID, userID int64) ([]domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages, err := s.messages.GetMessages(projectID)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Messages loaded", "project_id", projectID, "user_id", userID, "count", len(messages))
	return messages, nil
}

func (s *ChatService) SearchMessages(ctx context.Context, projectID int64, query string, limit int) ([]repositories.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.ErrInvalidPayload
	}
	return s.index.Search(ctx, projectID, query, limit)
}

// detectLang returns the ISO 639-1 code of content, empty when unsure.
func detectLang(content string) string {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
