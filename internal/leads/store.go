package leads

import (
	"context"

	"github.com/lotesmx/leadbot/internal/models"
)

// Store is the append-only lead log. It exists for operator bookkeeping;
// the dialogue never reads it back.
type Store interface {
	// AddLead appends a lead record.
	AddLead(ctx context.Context, lead models.Lead) error

	// ListLeads returns the stored leads, newest first, up to limit.
	ListLeads(ctx context.Context, limit int) ([]models.Lead, error)

	// Close releases the underlying database handle.
	Close() error
}
