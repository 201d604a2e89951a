// Package domain contains core concepts of the consulting platform.
// This file defines users, their roles and the identity attached to a session.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleConsultant Role = "CONSULTANT"
)

// ParseRole accepts any casing of a known role.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleClient):
		return RoleClient, true
	case string(RoleConsultant):
		return RoleConsultant, true
	default:
		return "", false
	}
}

func (r Role) IsConsultant() bool {
	return strings.EqualFold(string(r), string(RoleConsultant))
}

func (r Role) IsClient() bool {
	return strings.EqualFold(string(r), string(RoleClient))
}

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity is what a session proves about the caller.
type Identity struct {
	UserID int64
	Email  string
	Name   string
	Role   Role
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
