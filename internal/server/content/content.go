// Package content declares the external collaborators the feedback core
// consumes (content tree, user directory, localization) and provides a
// YAML-backed implementation of all three.
package content

import (
	"context"

	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// Node is an addressable item of the content hierarchy: a site root or a page.
type Node struct {
	ID          int
	Key         uuid.UUID
	Name        string
	ContentType string

	// Domains lists the hostnames bound to the node. A node serves as a
	// site root only when at least one is bound.
	Domains []string

	// Ratings and Statuses override the default feedback configuration
	// for a site node. Nil means "use the defaults".
	Ratings  []models.Rating
	Statuses []models.Status
}

// HasDomains reports whether any hostname is bound to the node.
func (n *Node) HasDomains() bool { return len(n.Domains) > 0 }

// Provider gives read access to the content hierarchy.
type Provider interface {
	// GetNodeByKey returns common.ErrPageNotFound for unknown keys.
	GetNodeByKey(ctx context.Context, key uuid.UUID) (*Node, error)
	// GetAncestors returns node followed by its ancestors, root last.
	GetAncestors(ctx context.Context, node *Node) ([]Node, error)
}

// UserDirectory lists the backoffice users entries may be assigned to.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Localizer resolves a dictionary string for a culture.
type Localizer interface {
	Localize(area, alias, culture string) (string, bool)
}
