package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// ClassificationRepository is the PostgreSQL implementation of the
// classification persistence contract.  Variable-shape verdict fields
// (tokens, candidates, evidence, sources) are stored as JSONB; the fields the
// API filters on (batch, score, review flag, risk) are proper columns.
type ClassificationRepository struct {
	db     queryExecutor
	logger logging.Logger
}

// NewClassificationRepository constructs a ready-to-use repository.
func NewClassificationRepository(db *sql.DB, logger logging.Logger) *ClassificationRepository {
	return &ClassificationRepository{db: db, logger: logger.Named("classification_repo")}
}

// CreateBatch inserts a new batch row.
func (r *ClassificationRepository) CreateBatch(ctx context.Context, b *classification.Batch) error {
	const q = `
		INSERT INTO batches (id, status, total_items, done_items, failed_items, object_key, created_at, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, q,
		string(b.ID), string(b.Status), b.TotalItems, b.DoneItems, b.FailedItems,
		b.ObjectKey, b.CreatedAt, b.StartedAt, b.FinishedAt)
	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert batch")
}

// GetBatch fetches a batch by ID; (nil, nil) when absent.
func (r *ClassificationRepository) GetBatch(ctx context.Context, id common.ID) (*classification.Batch, error) {
	const q = `
		SELECT id, status, total_items, done_items, failed_items, object_key, created_at, started_at, finished_at
		FROM batches WHERE id = $1`

	var (
		b      classification.Batch
		bid    string
		status string
	)
	err := r.db.QueryRowContext(ctx, q, string(id)).Scan(
		&bid, &status, &b.TotalItems, &b.DoneItems, &b.FailedItems,
		&b.ObjectKey, &b.CreatedAt, &b.StartedAt, &b.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to fetch batch")
	}
	b.ID = common.ID(bid)
	b.Status = classification.BatchStatus(status)
	return &b, nil
}

// UpdateBatch persists batch status and progress counters.
func (r *ClassificationRepository) UpdateBatch(ctx context.Context, b *classification.Batch) error {
	const q = `
		UPDATE batches
		SET status = $2, done_items = $3, failed_items = $4, started_at = $5, finished_at = $6
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q,
		string(b.ID), string(b.Status), b.DoneItems, b.FailedItems, b.StartedAt, b.FinishedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update batch")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New(errors.ErrCodeBatchNotFound, "batch not found").WithDetail(string(b.ID))
	}
	return nil
}

// CreateItems inserts the batch's items.
func (r *ClassificationRepository) CreateItems(ctx context.Context, items []*classification.Item) error {
	const q = `
		INSERT INTO items (id, batch_id, product_name, maker_name, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range items {
		_, err := r.db.ExecContext(ctx, q,
			string(item.ID), nullableID(item.BatchID), item.ProductName,
			item.MakerName, item.Description, item.CreatedAt)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert item")
		}
	}
	return nil
}

// ListItems returns a batch's items in insertion order.
func (r *ClassificationRepository) ListItems(ctx context.Context, batchID common.ID) ([]*classification.Item, error) {
	const q = `
		SELECT id, batch_id, product_name, maker_name, description, created_at
		FROM items WHERE batch_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q, string(batchID))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query items")
	}
	defer rows.Close()

	var items []*classification.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate items")
	}
	return items, nil
}

// SaveResult upserts the verdict for an item.
func (r *ClassificationRepository) SaveResult(ctx context.Context, res *classification.Result) error {
	tokens, err := json.Marshal(res.Tokens)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode tokens")
	}
	candidates, err := json.Marshal(res.Candidates)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode candidates")
	}
	reasons, err := json.Marshal(res.Reasons)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode reasons")
	}
	evidence, err := json.Marshal(res.Evidence)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode evidence metrics")
	}
	sources, err := json.Marshal(res.Sources)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode sources")
	}

	const q = `
		INSERT INTO results (item_id, batch_id, cache_key, tokens, candidates, score, needs_review, reasons, risk_level, evidence, sources, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (item_id) DO UPDATE
		SET cache_key = EXCLUDED.cache_key,
		    tokens = EXCLUDED.tokens,
		    candidates = EXCLUDED.candidates,
		    score = EXCLUDED.score,
		    needs_review = EXCLUDED.needs_review,
		    reasons = EXCLUDED.reasons,
		    risk_level = EXCLUDED.risk_level,
		    evidence = EXCLUDED.evidence,
		    sources = EXCLUDED.sources`

	_, err = r.db.ExecContext(ctx, q,
		string(res.ItemID), nullableID(res.BatchID), res.CacheKey,
		tokens, candidates, res.Score, res.NeedsReview, reasons,
		string(res.RiskLevel), evidence, sources, res.CreatedAt)
	return errors.Wrap(err, errors.ErrCodeRecordPersistFailed, "failed to upsert result")
}

// GetResult fetches the verdict for one item; (nil, nil) when absent.
func (r *ClassificationRepository) GetResult(ctx context.Context, itemID common.ID) (*classification.Result, error) {
	const q = resultSelect + ` WHERE item_id = $1`
	res, err := scanResult(r.db.QueryRowContext(ctx, q, string(itemID)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return res, err
}

// ListResults pages through a batch's results with a total count.
func (r *ClassificationRepository) ListResults(ctx context.Context, batchID common.ID, p common.Pagination) ([]*classification.Result, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE batch_id = $1`, string(batchID)).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count results")
	}

	const q = resultSelect + `
		WHERE batch_id = $1
		ORDER BY created_at, item_id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, q, string(batchID), p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query results")
	}
	defer rows.Close()

	var results []*classification.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate results")
	}
	return results, total, nil
}

const resultSelect = `
	SELECT item_id, batch_id, cache_key, tokens, candidates, score, needs_review, reasons, risk_level, evidence, sources, created_at
	FROM results`

func scanItem(s scanner) (*classification.Item, error) {
	var (
		item    classification.Item
		id      string
		batchID sql.NullString
	)
	if err := s.Scan(&id, &batchID, &item.ProductName, &item.MakerName, &item.Description, &item.CreatedAt); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan item")
	}
	item.ID = common.ID(id)
	if batchID.Valid {
		item.BatchID = common.ID(batchID.String)
	}
	return &item, nil
}

func scanResult(s scanner) (*classification.Result, error) {
	var (
		res       classification.Result
		itemID    string
		batchID   sql.NullString
		score     sql.NullInt64
		riskLevel string

		tokens, candidates, reasons, evidence, sources []byte
	)
	err := s.Scan(&itemID, &batchID, &res.CacheKey, &tokens, &candidates,
		&score, &res.NeedsReview, &reasons, &riskLevel, &evidence, &sources, &res.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan result")
	}

	res.ItemID = common.ID(itemID)
	if batchID.Valid {
		res.BatchID = common.ID(batchID.String)
	}
	if score.Valid {
		v := int(score.Int64)
		res.Score = &v
	}
	res.RiskLevel = classify.RiskLevel(riskLevel)

	if err := json.Unmarshal(tokens, &res.Tokens); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode tokens")
	}
	if err := json.Unmarshal(candidates, &res.Candidates); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode candidates")
	}
	if err := json.Unmarshal(reasons, &res.Reasons); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode reasons")
	}
	if err := json.Unmarshal(evidence, &res.Evidence); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode evidence metrics")
	}
	if err := json.Unmarshal(sources, &res.Sources); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode sources")
	}
	return &res, nil
}

// nullableID maps an empty ID to SQL NULL.
func nullableID(id common.ID) interface{} {
	if id == "" {
		return nil
	}
	return string(id)
}

//Personal.AI order the ending
