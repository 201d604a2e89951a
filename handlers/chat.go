package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/protocol"
	"consultoria-tcp/repositories"
	"consultoria-tcp/services"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	CommandChat = "CHAT"

	ActionSendMessage         = "SEND_MESSAGE"
	ActionSend                = "SEND"
	ActionGetMessages         = "GET_MESSAGES"
	ActionAcceptProject       = "ACCEPT_PROJECT"
	ActionGetProjectsWithChat = "GET_PROJECTS_WITH_CHAT"
	ActionSearchMessages      = "SEARCH_MESSAGES"

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

var _ contract.CommandHandler = (*ChatHandler)(nil)

type sendMessageRequest struct {
	ProjectID int64  `json:"projectId" validate:"required,gt=0"`
	Content   string `json:"content"`
}

type searchMessagesRequest struct {
	ProjectID int64  `json:"projectId" validate:"required,gt=0"`
	Query     string `json:"query" validate:"required"`
	Limit     int    `json:"limit" validate:"gte=0"`
}

// ChatHandler serves the project chat: sending and reading messages and
// letting a consultant take a project, which opens its chat.
type ChatHandler struct {
	projects    repositories.IProjectRepository
	users       repositories.IUserRepository
	chat        services.IChatService
	idempotency repositories.IIdempotencyRepository
	log         *slog.Logger
	now         func() time.Time
}

func NewChatHandler(
	projects repositories.IProjectRepository,
	users repositories.IUserRepository,
	chat services.IChatService,
	idempotency repositories.IIdempotencyRepository,
	log *slog.Logger) *ChatHandler {
	return &ChatHandler{
		projects:    projects,
		users:       users,
		chat:        chat,
		idempotency: idempotency,
		log:         log,
		now:         time.Now,
	}
}

func (h *ChatHandler) CommandType() string {
	return CommandChat
}

func (h *ChatHandler) Handle(ctx context.Context, message protocol.Message, sessions contract.SessionValidator) (protocol.Result, error) {
	identity, err := authenticate(message, sessions)
	if err != nil {
		return protocol.Result{}, err
	}

	switch action := message.Action(); action {
	case ActionSendMessage, ActionSend:
		return h.sendMessage(ctx, message, identity)
	case ActionGetMessages:
		return h.getMessages(ctx, message, identity)
	case ActionAcceptProject:
		return h.acceptProject(message, identity)
	case ActionGetProjectsWithChat:
		return h.getProjectsWithChat(identity)
	case ActionSearchMessages:
		return h.searchMessages(ctx, message, identity)
	default:
		return protocol.Result{}, invalidAction(action)
	}
}

func (h *ChatHandler) sendMessage(ctx context.Context, message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req sendMessageRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return protocol.Result{}, errors.ErrEmptyContent
	}

	fingerprint := sendFingerprint(req.ProjectID, req.Content)
	previous, found, err := h.idempotency.Lookup(identity.UserID, message.RequestID)
	if err != nil {
		return protocol.Result{}, err
	}
	if found {
		if previous.Fingerprint != fingerprint {
			h.log.Warn("Request id reused with another payload", "request_id", message.RequestID, "user_id", identity.UserID)
			return protocol.Result{}, fmt.Errorf("%w: %s", errors.ErrRequestIDReused, message.RequestID)
		}
		h.log.Info("Replaying message already sent", "request_id", message.RequestID, "user_id", identity.UserID)
		return protocol.Result{Message: "message sent", Data: previous.Data}, nil
	}

	if _, err := accessibleProject(h.projects, req.ProjectID, identity, h.log); err != nil {
		return protocol.Result{}, err
	}

	sent, err := h.chat.SendMessage(ctx, req.ProjectID, identity.UserID, req.Content)
	if err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Message sent", "project_id", req.ProjectID, "sender_id", identity.UserID, "message_id", sent.ID)

	data := map[string]any{
		"messageId":  sent.ID.String(),
		"projectId":  sent.ProjectID,
		"senderName": identity.Name,
		"content":    sent.Content,
		"timestamp":  formatTime(sent.Timestamp),
	}
	remembered := repositories.RememberedResult{Fingerprint: fingerprint, Data: data}
	if err := h.idempotency.Remember(identity.UserID, message.RequestID, remembered); err != nil {
		h.log.Warn("Failed to remember request", "request_id", message.RequestID, "error", err)
	}
	return protocol.Result{Message: "message sent", Data: data}, nil
}

// sendFingerprint identifies what a SEND_MESSAGE asked for, so a reused
// requestId is only replayed for the very same project and content.
func sendFingerprint(projectID int64, content string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d\x00%s", projectID, content)))
	return hex.EncodeToString(sum[:])
}

func (h *ChatHandler) getMessages(ctx context.Context, message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req projectRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	project, err := accessibleProject(h.projects, req.ProjectID, identity, h.log)
	if err != nil {
		return protocol.Result{}, err
	}

	messages, err := h.chat.GetMessagesByProjectID(ctx, project.ID, identity.UserID)
	if err != nil {
		return protocol.Result{}, err
	}

	senders := h.lookupUsers(lo.Uniq(lo.Map(messages, func(m domain.ChatMessage, _ int) int64 {
		return m.SenderID
	})))
	items := lo.Map(messages, func(m domain.ChatMessage, _ int) any {
		sender := senders[m.SenderID]
		return map[string]any{
			"id":          m.ID.String(),
			"senderId":    m.SenderID,
			"senderName":  sender.Name,
			"senderEmail": sender.Email,
			"content":     m.Content,
			"lang":        m.Lang,
			"timestamp":   formatTime(m.Timestamp),
		}
	})

	return protocol.Result{
		Message: "messages retrieved",
		Data: map[string]any{
			"projectId":     project.ID,
			"projectStatus": string(project.Status),
			"hasConsultant": project.HasConsultant(),
			"totalMessages": len(items),
			"messages":      items,
		},
	}, nil
}

func (h *ChatHandler) acceptProject(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	if !identity.Role.IsConsultant() {
		return protocol.Result{}, errors.ErrConsultantOnly
	}
	var req projectRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	project, err := h.projects.FindByID(req.ProjectID)
	if err != nil {
		return protocol.Result{}, err
	}

	if !project.AssignableTo(identity.UserID) {
		h.log.Warn("Project already taken by another consultant",
			"project_id", project.ID, "consultant_id", identity.UserID, "holder_id", *project.ConsultantID)
		return protocol.Result{}, errors.ErrAlreadyAssigned
	}

	project.AssignConsultant(identity.UserID, h.now().UTC())
	saved, err := h.projects.Save(project)
	if err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Project accepted", "project_id", saved.ID, "consultant_id", identity.UserID, "status", saved.Status)

	return protocol.Result{Message: "project accepted", Data: projectData(saved)}, nil
}

func (h *ChatHandler) getProjectsWithChat(identity domain.Identity) (protocol.Result, error) {
	projects, err := h.projects.FindByParticipant(identity.UserID)
	if err != nil {
		return protocol.Result{}, err
	}
	withChat := lo.Filter(projects, func(p domain.Project, _ int) bool {
		return p.HasConsultant()
	})

	items := make([]any, 0, len(withChat))
	for _, project := range withChat {
		otherPartyID := project.OwnerID
		if project.OwnerID == identity.UserID {
			otherPartyID = *project.ConsultantID
		}
		otherParty, err := h.users.FindByID(otherPartyID)
		if err != nil && !errors.Is(err, errors.ErrUserNotFound) {
			return protocol.Result{}, err
		}
		items = append(items, map[string]any{
			"projectId":      project.ID,
			"projectName":    project.Name,
			"status":         string(project.Status),
			"otherPartyId":   otherPartyID,
			"otherPartyName": otherParty.Name,
		})
	}

	return protocol.Result{
		Message: "projects retrieved",
		Data:    map[string]any{"projects": items, "totalProjects": len(items)},
	}, nil
}

func (h *ChatHandler) searchMessages(ctx context.Context, message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req searchMessagesRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	if _, err := accessibleProject(h.projects, req.ProjectID, identity, h.log); err != nil {
		return protocol.Result{}, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	hits, err := h.chat.SearchMessages(ctx, req.ProjectID, req.Query, limit)
	if err != nil {
		return protocol.Result{}, err
	}
	items := lo.Map(hits, func(hit repositories.SearchHit, _ int) any {
		return map[string]any{
			"id":        hit.Message.ID.String(),
			"senderId":  hit.Message.SenderID,
			"content":   hit.Message.Content,
			"lang":      hit.Message.Lang,
			"timestamp": formatTime(hit.Message.Timestamp),
			"score":     hit.Score,
		}
	})

	return protocol.Result{
		Message: fmt.Sprintf("%d messages found", len(items)),
		Data:    map[string]any{"projectId": req.ProjectID, "query": req.Query, "results": items},
	}, nil
}

// lookupUsers resolves sender ids. Unknown senders are left out and logged.
func (h *ChatHandler) lookupUsers(ids []int64) map[int64]domain.User {
	users := make(map[int64]domain.User, len(ids))
	for _, id := range ids {
		user, err := h.users.FindByID(id)
		if err != nil {
			h.log.Warn("Message sender not found", "user_id", id, "error", err)
			continue
		}
		users[id] = user
	}
	return users
}
