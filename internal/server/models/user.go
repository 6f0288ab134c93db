package models

import "github.com/google/uuid"

// User is a backoffice user entries can be assigned to.
// Users are owned by an external directory.
type User struct {
	ID    int
	Key   uuid.UUID
	Name  string
	Email string
}
