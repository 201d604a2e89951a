package domain

import "time"

// RoadmapStep is one stage of the plan a consultant lays out for a project.
type RoadmapStep struct {
	Title         string
	Description   string
	EstimatedTime string
}

type Roadmap struct {
	ID          int64
	ProjectID   int64
	CreatedBy   int64
	Title       string
	Description string
	Steps       []RoadmapStep
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
