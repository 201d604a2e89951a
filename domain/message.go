// Package domain contains core concepts of the consulting platform.
// This file defines chat messages exchanged inside a project.
// Messages are immutable once persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a message posted in a project's chat.
type ChatMessage struct {
	ID        uuid.UUID
	ProjectID int64
	SenderID  int64
	Content   string
	Lang      string
	Timestamp time.Time
}
