package entries

import (
	"context"

	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists feedback entries.
//
// Update, Delete and GetByKey return common.ErrEntryNotFound when no entry
// has the given key.
type Repository interface {
	// Insert stores a new entry and sets its ID.
	Insert(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, key uuid.UUID) error
	GetByKey(ctx context.Context, key uuid.UUID) (*models.Entry, error)
	// Query returns one page of matching entries and the total match count.
	Query(ctx context.Context, opts models.GetEntriesOptions) ([]*models.Entry, int, error)
}
