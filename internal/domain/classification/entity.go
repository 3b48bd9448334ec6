// Package classification implements the classification bounded context:
// the Item and Batch aggregates, their status machines, and the persistence
// and research-provider contracts.  The matching and scoring mathematics
// lives in the classify package; this package owns the lifecycle around it.
package classification

import (
	"strings"
	"time"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// BatchStatus tracks a batch through its lifecycle.
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

// batchTransitions defines the valid next states reachable from each status.
var batchTransitions = map[BatchStatus][]BatchStatus{
	BatchStatusPending: {BatchStatusRunning, BatchStatusFailed},
	BatchStatusRunning: {BatchStatusCompleted, BatchStatusFailed},
	// Terminal states: no outgoing transitions.
	BatchStatusCompleted: {},
	BatchStatusFailed:    {},
}

// Item is one declaration line to classify: a product name, optionally the
// maker that produced it, and free-form extra description.
type Item struct {
	ID          common.ID `json:"id"`
	BatchID     common.ID `json:"batch_id,omitempty"`
	ProductName string    `json:"product_name"`
	MakerName   string    `json:"maker_name,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the structural invariants of an item.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ProductName) == "" {
		return errors.New(errors.ErrCodeValidation, "product name is required")
	}
	return nil
}

// QueryText is the text an item is researched and tokenized by: the product
// name plus any extra description.
func (i *Item) QueryText() string {
	if i.Description == "" {
		return i.ProductName
	}
	return i.ProductName + " " + i.Description
}

// CacheKey is the consistency-cache identity of the item; variant rows of the
// same maker/product pair share it.
func (i *Item) CacheKey() string {
	return classify.CacheKey(i.MakerName, i.QueryText())
}

// Result is the classification verdict for one item.
type Result struct {
	ItemID      common.ID                 `json:"item_id"`
	BatchID     common.ID                 `json:"batch_id,omitempty"`
	CacheKey    string                    `json:"cache_key"`
	Tokens      []string                  `json:"tokens,omitempty"`
	Candidates  []classify.Candidate      `json:"candidates,omitempty"`
	Score       *int                      `json:"score"`
	NeedsReview bool                      `json:"needs_review"`
	Reasons     []string                  `json:"reasons,omitempty"`
	RiskLevel   classify.RiskLevel        `json:"risk_level"`
	Evidence    classify.EvidenceMetrics  `json:"evidence"`
	Sources     []classify.EvidenceSource `json:"sources,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// Shared reports whether this result was served from the batch consistency
// cache rather than computed for the item itself.
func (r *Result) Shared(computedFor common.ID) bool {
	return r.ItemID != computedFor
}

// Batch groups items submitted together; items of one batch share a
// consistency cache so identical products get identical verdicts.
type Batch struct {
	ID          common.ID   `json:"id"`
	Status      BatchStatus `json:"status"`
	TotalItems  int         `json:"total_items"`
	DoneItems   int         `json:"done_items"`
	FailedItems int         `json:"failed_items"`
	ObjectKey   string      `json:"object_key,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
}

// NewBatch constructs a pending batch for the given item count.
func NewBatch(totalItems int) *Batch {
	return &Batch{
		ID:         common.NewID(),
		Status:     BatchStatusPending,
		TotalItems: totalItems,
		CreatedAt:  time.Now().UTC(),
	}
}

// Transition moves the batch to the next status, enforcing the state machine.
func (b *Batch) Transition(next BatchStatus) error {
	for _, allowed := range batchTransitions[b.Status] {
		if allowed == next {
			now := time.Now().UTC()
			switch next {
			case BatchStatusRunning:
				b.StartedAt = &now
			case BatchStatusCompleted, BatchStatusFailed:
				b.FinishedAt = &now
			}
			b.Status = next
			return nil
		}
	}
	return errors.New(errors.ErrCodeBatchAlreadyClosed,
		"illegal batch transition from "+string(b.Status)+" to "+string(next))
}

// Progress returns the completed fraction in [0,1].
func (b *Batch) Progress() float64 {
	if b.TotalItems == 0 {
		return 1
	}
	return float64(b.DoneItems+b.FailedItems) / float64(b.TotalItems)
}

//Personal.AI order the ending
