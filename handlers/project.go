package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/protocol"
	"consultoria-tcp/repositories"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	CommandProject = "PROJECT"

	ActionCreate = "CREATE"
	ActionGet    = "GET"
	ActionList   = "LIST"
)

var _ contract.CommandHandler = (*ProjectHandler)(nil)

type createProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Priority    string `json:"priority"`
}

// ProjectHandler lets clients open projects and participants read them.
type ProjectHandler struct {
	projects repositories.IProjectRepository
	log      *slog.Logger
	now      func() time.Time
}

func NewProjectHandler(projects repositories.IProjectRepository, log *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, log: log, now: time.Now}
}

func (h *ProjectHandler) CommandType() string {
	return CommandProject
}

func (h *ProjectHandler) Handle(_ context.Context, message protocol.Message, sessions contract.SessionValidator) (protocol.Result, error) {
	identity, err := authenticate(message, sessions)
	if err != nil {
		return protocol.Result{}, err
	}

	switch action := message.Action(); action {
	case ActionCreate:
		return h.create(message, identity)
	case ActionGet:
		var req projectRequest
		if err := protocol.Bind(message.Data, &req); err != nil {
			return protocol.Result{}, err
		}
		project, err := accessibleProject(h.projects, req.ProjectID, identity, h.log)
		if err != nil {
			return protocol.Result{}, err
		}
		return protocol.Result{Message: "project retrieved", Data: projectData(project)}, nil
	case ActionList:
		projects, err := h.projects.FindByParticipant(identity.UserID)
		if err != nil {
			return protocol.Result{}, err
		}
		items := lo.Map(projects, func(p domain.Project, _ int) any {
			return projectData(p)
		})
		return protocol.Result{
			Message: "projects retrieved",
			Data:    map[string]any{"projects": items, "totalProjects": len(items)},
		}, nil
	default:
		return protocol.Result{}, invalidAction(action)
	}
}

func (h *ProjectHandler) create(message protocol.Message, identity domain.Identity) (protocol.Result, error) {
	if !identity.Role.IsClient() {
		return protocol.Result{}, errors.ErrClientOnly
	}
	var req createProjectRequest
	if err := protocol.Bind(message.Data, &req); err != nil {
		return protocol.Result{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return protocol.Result{}, fmt.Errorf("%w: name must not be blank", errors.ErrInvalidPayload)
	}
	priority, ok := domain.ParsePriority(req.Priority)
	if !ok {
		return protocol.Result{}, fmt.Errorf("%w: unknown priority %s", errors.ErrInvalidPayload, req.Priority)
	}

	project := domain.NewProject(identity.UserID, name, req.Description, priority, h.now().UTC())
	saved, err := h.projects.Save(project)
	if err != nil {
		return protocol.Result{}, err
	}
	h.log.Info("Project created", "project_id", saved.ID, "owner_id", identity.UserID)
	return protocol.Result{Message: "project created", Data: projectData(saved)}, nil
}
