// Package kafka carries classification work between the API server and the
// background workers: submitted items flow through the items topic, finished
// verdicts are announced on the results topic.
package kafka

import (
	"time"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// Default topic names; overridable through configuration.
const (
	DefaultItemsTopic   = "classification.items"
	DefaultResultsTopic = "classification.results"
)

// ItemMessage is the wire form of one item enqueued for classification.
// Messages are keyed by batch ID so one batch lands on one partition and its
// consistency cache stays effective within a single worker.
type ItemMessage struct {
	BatchID     common.ID `json:"batch_id"`
	ItemID      common.ID `json:"item_id"`
	ProductName string    `json:"product_name"`
	MakerName   string    `json:"maker_name,omitempty"`
	Description string    `json:"description,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// ResultMessage announces a finished verdict on the results topic.
type ResultMessage struct {
	BatchID     common.ID          `json:"batch_id"`
	ItemID      common.ID          `json:"item_id"`
	Score       *int               `json:"score"`
	NeedsReview bool               `json:"needs_review"`
	RiskLevel   classify.RiskLevel `json:"risk_level"`
	FinishedAt  time.Time          `json:"finished_at"`
}

//Personal.AI order the ending
