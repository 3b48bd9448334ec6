package classification

import (
	"context"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// Repository defines the persistence contract for batches, items, and
// results.
type Repository interface {
	// Batch
	CreateBatch(ctx context.Context, b *Batch) error
	GetBatch(ctx context.Context, id common.ID) (*Batch, error)
	UpdateBatch(ctx context.Context, b *Batch) error

	// Items
	CreateItems(ctx context.Context, items []*Item) error
	ListItems(ctx context.Context, batchID common.ID) ([]*Item, error)

	// Results
	SaveResult(ctx context.Context, r *Result) error
	GetResult(ctx context.Context, itemID common.ID) (*Result, error)
	ListResults(ctx context.Context, batchID common.ID, p common.Pagination) ([]*Result, int, error)
}

// ReferenceRepository supplies the tariff-code reference catalog.
type ReferenceRepository interface {
	ListEntries(ctx context.Context) ([]classify.ReferenceEntry, error)
	ReplaceEntries(ctx context.Context, entries []classify.ReferenceEntry) error
	Count(ctx context.Context) (int, error)
}

// ResearchProvider retrieves ranked web evidence for a query.  The returned
// sources keep provider rank order; the slice may be empty when the provider
// finds nothing, which is a valid (unevaluable) outcome, not an error.
type ResearchProvider interface {
	Search(ctx context.Context, query string, maxSources int) ([]classify.EvidenceSource, error)
}

// ResultCache persists verdicts across batches keyed by the consistency
// cache key, so re-submissions of the same product skip research entirely.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, r *Result) error
}

//Personal.AI order the ending
