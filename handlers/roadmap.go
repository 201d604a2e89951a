package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/protocol"
	"consultoria-tcp/repositories"
	"consultoria-tcp/services"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	CommandRoadmap = "ROADMAP"

	ActionDelete = "DELETE"
)

var _ contract.CommandHandler = (*RoadmapHandler)(nil)

type roadmapStepRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	EstimatedTime string `json:"estimatedTime" validate:"max=100"`
}

type writeRoadmapRequest struct {
	ProjectID   int64                `json:"projectId"`
	RoadmapID   int64                `json:"roadmapId"`
	Title       string               `json:"title" validate:"required,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	Steps       []roadmapStepRequest `json:"steps" validate:"max=50,dive"`
}

type roadmapRequest struct {
	RoadmapID int64 `json:"roadmapId" validate:"required,gt=0"`
}

type listRoadmapsRequest struct {
	ProjectID int64 `json:"projectId" validate:"gte=0"`
}

// RoadmapHandler manages the step-by-step plans a consultant writes for a
// project. Participants read them; only the project's consultant writes.
type RoadmapHandler struct {
	roadmaps repositories.IRoadmapRepository
	projects repositories.IProjectRepository
	chat     services.IChatService
	log      *slog.Logger
	now      func() time.Time
}

func NewRoadmapHandler(
	roadmaps repositories.IRoadmapRepository,
	projects repositories.IProjectRepository,
	chat services.IChatService,
	log *slog.Logger) *RoadmapHandler {
	return &RoadmapHandler{roadmaps: roadmaps, projects: projects, chat: chat, log: log, now: time.Now}
}

func (h *RoadmapHandler) CommandType() string {
	return CommandRoadmap
}

func (h *RoadmapHandler) Handle(ctx context.Context, message protocol.Message, sessions contract.SessionValidator) (protocol.Result, error) {
	identity, err := authenticate(message, sessions)
	if err != nil {
		return protocol.Result{}, err
	}

	switch action := message.Action(); action {
	case ActionCreate:
		return h.create(message, identity)
	case ActionGet:
		return h.get(message, identity)
	case ActionList:
		return h.list(message, identity)
	case ActionUpdate:
		return h.update(message, identity)
	case ActionDelete:
		return h.delete(message, identity)
	case ActionSend:
		return h.share(ctx, message, identity)
	default:
		return protocol.Result{}, invalidAction(action)
	}
}

func (h *RoadmapHandler) create(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	req, err := bindRoadmap(message)
	if err != nil {
		return protocol.Result{}, err
	}
	if req.ProjectID <= 0 {
		return protocol.Result{}, fmt.Errorf("%w: projectId failed on required", errors.ErrInvalidPayload)
	}
	project, err := accessibleProject(h.projects, req.ProjectID, identity, h.log)
	if err != nil {
		return protocol.Result{}, err
	}
	if !project.CanWriteRoadmap(identity.UserID) {
		return protocol.Result{}, errors.ErrRoadmapDenied
	}

	now := h.now().UTC()
	saved, err := h.roadmaps.Save(domain.Roadmap{
		ProjectID:   project.ID,
		CreatedBy:   identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Steps:       toSteps(req.Steps),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Roadmap created", "roadmap_id", saved.ID, "project_id", project.ID, "steps", len(saved.Steps))
	return protocol.Result{Message: "roadmap created", Data: roadmapData(saved)}, nil
}

func (h *RoadmapHandler) get(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	roadmap, err := h.readable(message, identity)
	if err != nil {
		return protocol.Result{}, err
	}
	return protocol.Result{Message: "roadmap retrieved", Data: roadmapData(roadmap)}, nil
}

// list returns the roadmaps of a project when projectId is given, otherwise
// the ones the caller wrote.
func (h *RoadmapHandler) list(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req listRoadmapsRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}

	var roadmaps []domain.Roadmap
	var err error
	if req.ProjectID > 0 {
		if _, err := accessibleProject(h.projects, req.ProjectID, identity, h.log); err != nil {
			return protocol.Result{}, err
		}
		roadmaps, err = h.roadmaps.FindByProject(req.ProjectID)
	} else {
		roadmaps, err = h.roadmaps.FindByCreator(identity.UserID)
	}
	if err != nil {
		return protocol.Result{}, err
	}

	items := lo.Map(roadmaps, func(r domain.Roadmap, _ int) any {
		return roadmapData(r)
	})
	return protocol.Result{
		Message: "roadmaps retrieved",
		Data:    map[string]any{"roadmaps": items, "totalRoadmaps": len(items)},
	}, nil
}

func (h *RoadmapHandler) update(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	req, err := bindRoadmap(message)
	if err != nil {
		return protocol.Result{}, err
	}
	if req.RoadmapID <= 0 {
		return protocol.Result{}, fmt.Errorf("%w: roadmapId failed on required", errors.ErrInvalidPayload)
	}
	roadmap, err := h.writable(req.RoadmapID, identity)
	if err != nil {
		return protocol.Result{}, err
	}

	roadmap.Title = req.Title
	roadmap.Description = req.Description
	roadmap.Steps = toSteps(req.Steps)
	roadmap.UpdatedAt = h.now().UTC()
	saved, err := h.roadmaps.Save(roadmap)
	if err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Roadmap updated", "roadmap_id", saved.ID, "steps", len(saved.Steps))
	return protocol.Result{Message: "roadmap updated", Data: roadmapData(saved)}, nil
}

func (h *RoadmapHandler) delete(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req roadmapRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	if _, err := h.writable(req.RoadmapID, identity); err != nil {
		return protocol.Result{}, err
	}
	if err := h.roadmaps.Delete(req.RoadmapID); err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Roadmap deleted", "roadmap_id", req.RoadmapID, "user_id", identity.UserID)
	return protocol.Result{Message: "roadmap deleted", Data: map[string]any{"roadmapId": req.RoadmapID}}, nil
}

// share posts a summary of the roadmap in the project chat, as its author.
func (h *RoadmapHandler) share(ctx context.Context, message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	var req roadmapRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	roadmap, err := h.writable(req.RoadmapID, identity)
	if err != nil {
		return protocol.Result{}, err
	}

	sent, err := h.chat.SendMessage(ctx, roadmap.ProjectID, identity.UserID, roadmapSummary(roadmap))
	if err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Roadmap shared", "roadmap_id", roadmap.ID, "project_id", roadmap.ProjectID, "message_id", sent.ID)
	return protocol.Result{
		Message: "roadmap sent",
		Data: map[string]any{
			"roadmapId": roadmap.ID,
			"projectId": roadmap.ProjectID,
			"messageId": sent.ID.String(),
			"content":   sent.Content,
		},
	}, nil
}

func (h *RoadmapHandler) readable(message protocol.Message, identity domain.Identity) (domain.Roadmap, error) {
	var req roadmapRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return domain.Roadmap{}, err
	}
	roadmap, err := h.roadmaps.FindByID(req.RoadmapID)
	if err != nil {
		return domain.Roadmap{}, err
	}
	if _, err := accessibleProject(h.projects, roadmap.ProjectID, identity, h.log); err != nil {
		return domain.Roadmap{}, err
	}
	return roadmap, nil
}

// writable loads a roadmap its caller may change: the author, while still
// consultant of the project.
func (h *RoadmapHandler) writable(roadmapID int64, identity domain.Identity) (domain.Roadmap, error) {
	roadmap, err := h.roadmaps.FindByID(roadmapID)
	if err != nil {
		return domain.Roadmap{}, err
	}
	project, err := accessibleProject(h.projects, roadmap.ProjectID, identity, h.log)
	if err != nil {
		return domain.Roadmap{}, err
	}
	if roadmap.CreatedBy != identity.UserID || !project.CanWriteRoadmap(identity.UserID) {
		h.log.Warn("Roadmap write denied", "roadmap_id", roadmapID, "user_id", identity.UserID)
		return domain.Roadmap{}, errors.ErrRoadmapDenied
	}
	return roadmap, nil
}

func bindRoadmap(message protocol.Message) (writeRoadmapRequest, error) {
	var req writeRoadmapRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return writeRoadmapRequest{}, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return writeRoadmapRequest{}, fmt.Errorf("%w: title must not be blank", errors.ErrInvalidPayload)
	}
	return req, nil
}

func toSteps(steps []roadmapStepRequest) []domain.RoadmapStep {
	return lo.Map(steps, func(s roadmapStepRequest, _ int) domain.RoadmapStep {
		return domain.RoadmapStep{
			Title:         strings.TrimSpace(s.Title),
			Description:   s.Description,
			EstimatedTime: s.EstimatedTime,
		}
	})
}

func roadmapData(roadmap domain.Roadmap) map[string]any {
	steps := lo.Map(roadmap.Steps, func(s domain.RoadmapStep, _ int) any {
		return map[string]any{
			"title":         s.Title,
			"description":   s.Description,
			"estimatedTime": s.EstimatedTime,
		}
	})
	return map[string]any{
		"roadmapId":   roadmap.ID,
		"projectId":   roadmap.ProjectID,
		"createdBy":   roadmap.CreatedBy,
		"title":       roadmap.Title,
		"description": roadmap.Description,
		"steps":       steps,
		"createdAt":   formatTime(roadmap.CreatedAt),
		"updatedAt":   formatTime(roadmap.UpdatedAt),
	}
}

func roadmapSummary(roadmap domain.Roadmap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Roadmap: %s", roadmap.Title)
	for i, step := range roadmap.Steps {
		fmt.Fprintf(&b, "\n%d. %s", i+1, step.Title)
		if step.EstimatedTime != "" {
			fmt.Fprintf(&b, " (%s)", step.EstimatedTime)
		}
	}
	return b.String()
}
