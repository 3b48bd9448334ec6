// Package classification wires the classification pipeline together: tokenize
// the item, rank reference codes against the catalog, research the product on
// the web, score the evidence, and persist the verdict.  The package owns
// batch orchestration (bounded concurrency, per-batch consistency cache) and
// leaves all matching mathematics to the domain layer.
package classification

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/HSCode-Intelligence/internal/config"
	domain "github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

const (
	defaultConcurrency = 8
	defaultMaxSources  = 5
)

// Service orchestrates item and batch classification.
type Service struct {
	repo     domain.Repository
	catalog  *classify.Catalog
	research domain.ResearchProvider
	results  domain.ResultCache // optional cross-batch cache; may be nil

	scoreCfg    classify.ScoreConfig
	matchLimit  int
	maxSources  int
	concurrency int

	logger logging.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithResultCache attaches a cross-batch result cache; identical products
// re-submitted later skip research entirely.
func WithResultCache(cache domain.ResultCache) Option {
	return func(s *Service) { s.results = cache }
}

// WithConcurrency overrides the batch worker fan-out.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService constructs the classification service.
func NewService(
	repo domain.Repository,
	catalog *classify.Catalog,
	research domain.ResearchProvider,
	cfg config.ClassifyConfig,
	maxSources int,
	logger logging.Logger,
	opts ...Option,
) *Service {
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}
	s := &Service{
		repo:        repo,
		catalog:     catalog,
		research:    research,
		scoreCfg:    buildScoreConfig(cfg),
		matchLimit:  cfg.MatchLimit,
		maxSources:  maxSources,
		concurrency: defaultConcurrency,
		logger:      logger.Named("classification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// buildScoreConfig converts the configuration section into scorer knobs.
// Zero values pass through untouched; the scorer replaces them with its own
// defaults per knob.
func buildScoreConfig(cfg config.ClassifyConfig) classify.ScoreConfig {
	return classify.ScoreConfig{
		MatchThreshold:           cfg.MatchThreshold,
		RequireMaker:             cfg.RequireMaker,
		MinSourcesForReview:      cfg.MinSourcesForReview,
		ReviewLowScore:           cfg.ReviewLowScore,
		MinDistinctiveTokens:     cfg.MinDistinctiveTokens,
		NegativeThreshold:        cfg.NegativeThreshold,
		RequireNegativeForReview: cfg.RequireNegativeForReview,
		ProductDomains:           cfg.ProductDomainAllowlist,
	}
}

// ClassifyItem classifies a single standalone item and persists the result.
func (s *Service) ClassifyItem(ctx context.Context, item *domain.Item) (*domain.Result, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ID == "" {
		item.ID = common.NewID()
	}

	result, err := s.classify(ctx, item)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveResult(ctx, result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRecordPersistFailed, "failed to persist classification result")
	}
	return result, nil
}

// ClassifyBatch persists the batch and its items, classifies every item with
// bounded concurrency, and completes the batch.  Items sharing one
// maker/product identity are computed once through the batch consistency
// cache; every item still gets its own persisted result row.
//
// A failed item does not abort the batch: it is counted and skipped.  The
// batch fails only when batch-level persistence itself fails.
func (s *Service) ClassifyBatch(ctx context.Context, items []*domain.Item) (*domain.Batch, error) {
	return s.ClassifyUploadedBatch(ctx, items, "")
}

// ClassifyUploadedBatch is ClassifyBatch for items parsed from a stored upload;
// objectKey records where the raw file lives so workers can re-read it.
func (s *Service) ClassifyUploadedBatch(ctx context.Context, items []*domain.Item, objectKey string) (*domain.Batch, error) {
	batch, err := s.startBatch(ctx, items, objectKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch classification started",
		logging.String("batch_id", string(batch.ID)),
		logging.Int("items", len(items)),
		logging.Int("concurrency", s.concurrency),
	)

	cache := classify.NewBatchCache()

	var (
		done   int
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	type outcome struct {
		result *domain.Result
		err    error
	}
	outcomes := make([]outcome, len(items))

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			result, err := s.classifyCached(gctx, cache, item)
			outcomes[i] = outcome{result: result, err: err}
			// Item failures are recorded, never propagated: one bad item
			// must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	for i, item := range items {
		oc := outcomes[i]
		if oc.err != nil {
			failed++
			s.logger.Warn("item classification failed",
				logging.String("item_id", string(item.ID)),
				logging.Err(oc.err),
			)
			continue
		}
		if err := s.repo.SaveResult(ctx, oc.result); err != nil {
			failed++
			s.logger.Error("failed to persist item result",
				logging.String("item_id", string(item.ID)),
				logging.Err(err),
			)
			continue
		}
		done++
	}

	batch.DoneItems = done
	batch.FailedItems = failed

	next := domain.BatchStatusCompleted
	if done == 0 && failed > 0 {
		next = domain.BatchStatusFailed
	}
	if err := batch.Transition(next); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBatch(ctx, batch); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to finalize batch")
	}

	s.logger.Info("batch classification finished",
		logging.String("batch_id", string(batch.ID)),
		logging.String("status", string(batch.Status)),
		logging.Int("done", done),
		logging.Int("failed", failed),
		logging.Int("distinct_products", cache.Len()),
	)
	return batch, nil
}

// startBatch validates the items, persists the batch shell, and moves it to
// running.
func (s *Service) startBatch(ctx context.Context, items []*domain.Item, objectKey string) (*domain.Batch, error) {
	if len(items) == 0 {
		return nil, errors.InvalidParam("batch contains no items")
	}

	batch := domain.NewBatch(len(items))
	batch.ObjectKey = objectKey
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid item in batch")
		}
		if item.ID == "" {
			item.ID = common.NewID()
		}
		item.BatchID = batch.ID
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create batch")
	}
	if err := s.repo.CreateItems(ctx, items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to persist batch items")
	}
	if err := batch.Transition(domain.BatchStatusRunning); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBatch(ctx, batch); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update batch")
	}
	return batch, nil
}

// SubmitBatch persists a batch and its items without classifying anything.
// The caller is expected to enqueue the items for asynchronous processing;
// HandleQueuedItem picks them up on the worker side.
func (s *Service) SubmitBatch(ctx context.Context, items []*domain.Item, objectKey string) (*domain.Batch, error) {
	batch, err := s.startBatch(ctx, items, objectKey)
	if err != nil {
		return nil, err
	}
	s.logger.Info("batch submitted for asynchronous classification",
		logging.String("batch_id", string(batch.ID)),
		logging.Int("items", len(items)),
	)
	return batch, nil
}

// HandleQueuedItem classifies one item dequeued by a worker, persists the
// result, and advances its batch's progress counters.  Queue partitioning is
// keyed by batch, so one batch's counters are only ever touched by a single
// worker and the read-modify-write below needs no coordination.
func (s *Service) HandleQueuedItem(ctx context.Context, item *domain.Item) (*domain.Result, error) {
	if err := item.Validate(); err != nil {
		s.recordQueuedOutcome(ctx, item.BatchID, false)
		return nil, err
	}
	if item.ID == "" {
		item.ID = common.NewID()
	}

	result, err := s.classify(ctx, item)
	if err == nil {
		if saveErr := s.repo.SaveResult(ctx, result); saveErr != nil {
			err = errors.Wrap(saveErr, errors.ErrCodeRecordPersistFailed, "failed to persist classification result")
		}
	}

	s.recordQueuedOutcome(ctx, item.BatchID, err == nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recordQueuedOutcome bumps batch counters for one processed item and closes
// the batch once every item is accounted for.
func (s *Service) recordQueuedOutcome(ctx context.Context, batchID common.ID, ok bool) {
	if batchID == "" {
		return
	}
	batch, err := s.repo.GetBatch(ctx, batchID)
	if err != nil || batch == nil {
		s.logger.Warn("failed to load batch for progress update",
			logging.String("batch_id", string(batchID)),
			logging.Err(err),
		)
		return
	}

	if ok {
		batch.DoneItems++
	} else {
		batch.FailedItems++
	}

	if batch.DoneItems+batch.FailedItems >= batch.TotalItems {
		next := domain.BatchStatusCompleted
		if batch.DoneItems == 0 && batch.FailedItems > 0 {
			next = domain.BatchStatusFailed
		}
		if err := batch.Transition(next); err != nil {
			s.logger.Warn("failed to close batch", logging.Err(err))
		}
	}

	if err := s.repo.UpdateBatch(ctx, batch); err != nil {
		s.logger.Error("failed to persist batch progress",
			logging.String("batch_id", string(batchID)),
			logging.Err(err),
		)
	}
}

// classifyCached resolves an item through the batch consistency cache, so
// variant rows of one product share a single research and scoring pass.
func (s *Service) classifyCached(ctx context.Context, cache *classify.BatchCache, item *domain.Item) (*domain.Result, error) {
	key := item.CacheKey()
	v, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) (interface{}, error) {
		return s.classify(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	shared := v.(*domain.Result)
	if shared.ItemID == item.ID {
		return shared, nil
	}
	return rebind(shared, item), nil
}

// classify runs the full pipeline for one item: tokenize, match reference
// codes, look up the cross-batch cache, research, score.
func (s *Service) classify(ctx context.Context, item *domain.Item) (*domain.Result, error) {
	key := item.CacheKey()

	if s.results != nil {
		cached, ok, err := s.results.Get(ctx, key)
		if err != nil {
			s.logger.Warn("result cache lookup failed", logging.Err(err))
		} else if ok {
			return rebind(cached, item), nil
		}
	}

	tokens := classify.FilterDistinctive(classify.Tokenize(item.QueryText()))

	candidates, err := s.catalog.Match(ctx, tokens, s.matchLimit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogLoadFailed, "reference catalog unavailable")
	}

	query := item.QueryText()
	if item.MakerName != "" {
		query = item.MakerName + " " + query
	}
	sources, err := s.research.Search(ctx, query, s.maxSources)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeResearchProviderError, "evidence research failed")
	}

	verdict := classify.ScoreEvidence(item.MakerName, item.ProductName, sources, s.scoreCfg)

	result := &domain.Result{
		ItemID:      item.ID,
		BatchID:     item.BatchID,
		CacheKey:    key,
		Tokens:      tokens,
		Candidates:  candidates,
		Score:       verdict.Score,
		NeedsReview: verdict.NeedsReview,
		Reasons:     verdict.Reasons,
		RiskLevel:   verdict.RiskLevel,
		Evidence:    verdict.Evidence,
		Sources:     sources,
		CreatedAt:   time.Now().UTC(),
	}

	if s.results != nil {
		if err := s.results.Set(ctx, key, result); err != nil {
			s.logger.Warn("result cache store failed", logging.Err(err))
		}
	}
	return result, nil
}

// GetBatch returns batch progress.
func (s *Service) GetBatch(ctx context.Context, id common.ID) (*domain.Batch, error) {
	batch, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, errors.New(errors.ErrCodeBatchNotFound, "batch not found").WithDetail(string(id))
	}
	return batch, nil
}

// ListResults pages through a batch's results.
func (s *Service) ListResults(ctx context.Context, batchID common.ID, p common.Pagination) ([]*domain.Result, int, error) {
	p.Normalize()
	return s.repo.ListResults(ctx, batchID, p)
}

// rebind clones a shared verdict for another item of the same identity.
func rebind(shared *domain.Result, item *domain.Item) *domain.Result {
	clone := *shared
	clone.ItemID = item.ID
	clone.BatchID = item.BatchID
	clone.CreatedAt = time.Now().UTC()
	return &clone
}

//Personal.AI order the ending
