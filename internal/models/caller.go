package models

import "github.com/google/uuid"

// Caller is the authenticated identity of a request. It is passed by value so
// downstream code cannot mutate what the session middleware resolved.
type Caller struct {
	ID    uuid.UUID
	Email string
	Role  UserRole
}

func (c Caller) IsZero() bool {
	return c.ID == uuid.Nil
}

func (c Caller) HasRole(roles ...UserRole) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}
