// Package handlers holds the command handlers served over the TCP protocol.
// Each handler authenticates the caller through the session store it is
// given, authorizes the action and delegates to services and repositories.
package handlers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/domain"
	"consultoria-tcp/errors"
	"consultoria-tcp/protocol"
	"consultoria-tcp/repositories"
	"fmt"
	"log/slog"
	"time"
)

type projectRequest struct {
	ProjectID int64 `json:"projectId" validate:"required,gt=0"`
}

// authenticate resolves the caller of a message. Every failure looks the same.
func authenticate(message protocol.Message, sessions contract.SessionValidator) (domain.Identity, error) {
	identity, ok := sessions.ValidateSession(message.SessionID)
	if !ok {
		return domain.Identity{}, errors.ErrInvalidSession
	}
	return identity, nil
}

// accessibleProject loads a project the caller owns or consults on.
func accessibleProject(projects repositories.IProjectRepository, projectID int64, identity domain.Identity, log *slog.Logger) (domain.Project, error) {
	project, err := projects.FindByID(projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if !project.CanAccess(identity.UserID) {
		log.Warn("Project access denied", "project_id", projectID, "user_id", identity.UserID)
		return domain.Project{}, errors.ErrAccessDenied
	}
	return project, nil
}

func invalidAction(action string) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidAction, action)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func projectData(project domain.Project) map[string]any {
	data := map[string]any{
		"projectId":     project.ID,
		"name":          project.Name,
		"description":   project.Description,
		"status":        string(project.Status),
		"priority":      string(project.Priority),
		"progress":      project.Progress,
		"ownerId":       project.OwnerID,
		"hasConsultant": project.HasConsultant(),
		"createdAt":     formatTime(project.CreatedAt),
		"updatedAt":     formatTime(project.UpdatedAt),
	}
	if project.ConsultantID != nil {
		data["consultantId"] = *project.ConsultantID
	}
	return data
}
