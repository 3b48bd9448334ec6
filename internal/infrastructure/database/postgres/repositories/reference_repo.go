package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// ReferenceRepository is the PostgreSQL implementation of the reference
// catalog store.  The catalog is replaced wholesale on import; lookups read
// the whole table since the in-process cache sits in front of it.
type ReferenceRepository struct {
	db     queryExecutor
	logger logging.Logger
}

// NewReferenceRepository constructs a ready-to-use ReferenceRepository.
func NewReferenceRepository(db *sql.DB, logger logging.Logger) *ReferenceRepository {
	return &ReferenceRepository{db: db, logger: logger.Named("reference_repo")}
}

// ListEntries returns every catalog row in stable code order.
func (r *ReferenceRepository) ListEntries(ctx context.Context) ([]classify.ReferenceEntry, error) {
	const q = `
		SELECT code, description, heading_description
		FROM reference_entries
		ORDER BY code`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to query reference entries")
	}
	defer rows.Close()

	var entries []classify.ReferenceEntry
	for rows.Next() {
		var e classify.ReferenceEntry
		if err := rows.Scan(&e.Code, &e.Description, &e.HeadingDescription); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to scan reference entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "failed to iterate reference entries")
	}
	return entries, nil
}

// ReplaceEntries swaps the whole catalog in a single transaction.  Rows with
// empty codes are skipped up front so a partially broken import file cannot
// plant unusable rows.
func (r *ReferenceRepository) ReplaceEntries(ctx context.Context, entries []classify.ReferenceEntry) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return errors.Internal("ReplaceEntries requires a transactional connection")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin catalog replace")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_entries`); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to clear reference entries")
	}

	const ins = `
		INSERT INTO reference_entries (code, description, heading_description)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
		SET description = EXCLUDED.description,
		    heading_description = EXCLUDED.heading_description`

	kept := 0
	for _, e := range entries {
		if strings.TrimSpace(e.Code) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, ins, e.Code, e.Description, e.HeadingDescription); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert reference entry")
		}
		kept++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit catalog replace")
	}

	r.logger.Info("reference catalog replaced",
		logging.Int("rows", kept),
		logging.Int("skipped", len(entries)-kept),
	)
	return nil
}

// Count returns the number of catalog rows.
func (r *ReferenceRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reference_entries`).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count reference entries")
	}
	return n, nil
}

//Personal.AI order the ending
