package domain

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	StatusPending    ProjectStatus = "PENDING"
	StatusInProgress ProjectStatus = "IN_PROGRESS"
	StatusCompleted  ProjectStatus = "COMPLETED"
	StatusCancelled  ProjectStatus = "CANCELLED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority defaults to MEDIUM for an empty value.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, true
	case string(PriorityLow):
		return PriorityLow, true
	case string(PriorityMedium):
		return PriorityMedium, true
	case string(PriorityHigh):
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Project is the unit a client opens and a consultant works on.
// Its chat is only visible to the owner and the assigned consultant.
type Project struct {
	ID           int64
	OwnerID      int64
	ConsultantID *int64
	Name         string
	Description  string
	Status       ProjectStatus
	Priority     Priority
	Progress     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewProject(ownerID int64, name, description string, priority Priority, now time.Time) Project {
	return Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Status:      StatusPending,
		Priority:    priority,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p Project) HasConsultant() bool {
	return p.ConsultantID != nil
}

// CanAccess reports whether userID is the owner or the assigned consultant.
func (p Project) CanAccess(userID int64) bool {
	if p.OwnerID == userID {
		return true
	}
	return p.ConsultantID != nil && *p.ConsultantID == userID
}

// CanWriteRoadmap is true only for the consultant assigned to the project.
func (p Project) CanWriteRoadmap(userID int64) bool {
	return p.ConsultantID != nil && *p.ConsultantID == userID
}

// AssignableTo reports whether consultantID may accept the project: nobody
// holds it yet, or the same consultant accepts it again.
func (p Project) AssignableTo(consultantID int64) bool {
	return p.ConsultantID == nil || *p.ConsultantID == consultantID
}

// AssignConsultant sets the consultant and moves a PENDING project to
// IN_PROGRESS. Any other status is left untouched.
func (p *Project) AssignConsultant(consultantID int64, now time.Time) {
	p.ConsultantID = &consultantID
	if p.Status == StatusPending {
		p.Status = StatusInProgress
	}
	p.UpdatedAt = now
}
