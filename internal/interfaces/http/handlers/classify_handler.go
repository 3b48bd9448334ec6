package handlers

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// ClassificationService is the application-layer contract this handler
// drives.
type ClassificationService interface {
	ClassifyItem(ctx context.Context, item *domain.Item) (*domain.Result, error)
	ClassifyUploadedBatch(ctx context.Context, items []*domain.Item, objectKey string) (*domain.Batch, error)
	SubmitBatch(ctx context.Context, items []*domain.Item, objectKey string) (*domain.Batch, error)
	GetBatch(ctx context.Context, id common.ID) (*domain.Batch, error)
	ListResults(ctx context.Context, batchID common.ID, p common.Pagination) ([]*domain.Result, int, error)
}

// UploadStore persists raw batch upload files.
type UploadStore interface {
	Put(ctx context.Context, batchID common.ID, reader io.Reader, size int64, contentType string) (string, error)
}

// ItemQueue enqueues items for asynchronous classification.
type ItemQueue interface {
	PublishItems(ctx context.Context, msgs []kafka.ItemMessage) error
}

// ClassifyHandler serves single-item and batch classification endpoints.
// Uploads, queue, and metrics are optional collaborators; a nil value
// disables the corresponding behavior.
type ClassifyHandler struct {
	service ClassificationService
	uploads UploadStore
	queue   ItemQueue
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewClassifyHandler constructs the classification handler.
func NewClassifyHandler(
	service ClassificationService,
	uploads UploadStore,
	queue ItemQueue,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) *ClassifyHandler {
	return &ClassifyHandler{
		service: service,
		uploads: uploads,
		queue:   queue,
		metrics: metrics,
		logger:  logger.Named("classify_handler"),
	}
}

// itemRequest is the wire form of one item to classify.
type itemRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	MakerName   string `json:"maker_name"`
	Description string `json:"description"`
}

func (r itemRequest) toItem() *domain.Item {
	return &domain.Item{
		ProductName: r.ProductName,
		MakerName:   r.MakerName,
		Description: r.Description,
		CreatedAt:   time.Now().UTC(),
	}
}

// ClassifyItem handles POST /classify/item: synchronous single-item
// classification.
func (h *ClassifyHandler) ClassifyItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body").WithCause(err))
		return
	}

	result, err := h.service.ClassifyItem(c.Request.Context(), req.toItem())
	if err != nil {
		h.observeOutcome("failed")
		respondError(c, err)
		return
	}
	h.observeResult(result)
	c.JSON(http.StatusOK, result)
}

// batchRequest is the wire form of a JSON batch submission.
type batchRequest struct {
	Items []itemRequest `json:"items" binding:"required"`
	// Async submits the batch to the work queue instead of classifying
	// inline; poll the batch endpoint for progress.
	Async bool `json:"async"`
}

// ClassifyBatch handles POST /classify/batches: classify a JSON list of
// items, inline or queued.
func (h *ClassifyHandler) ClassifyBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body").WithCause(err))
		return
	}
	items := make([]*domain.Item, 0, len(req.Items))
	for _, ir := range req.Items {
		items = append(items, ir.toItem())
	}

	if req.Async && h.queue != nil {
		h.submitAsync(c, items, "")
		return
	}

	batch, err := h.service.ClassifyUploadedBatch(c.Request.Context(), items, "")
	if err != nil {
		respondError(c, err)
		return
	}
	h.observeBatch(batch)
	c.JSON(http.StatusCreated, batch)
}

// UploadBatch handles POST /classify/batches/upload: a multipart CSV of
// items.  The raw file is archived to object storage before classification
// starts, so the batch can be replayed.
func (h *ClassifyHandler) UploadBatch(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidParam("multipart field \"file\" is required").WithCause(err))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(c, errors.New(errors.ErrCodeUploadFormatUnsupported,
			"only CSV uploads are supported"))
		return
	}

	items, err := parseItemsCSV(file)
	if err != nil {
		respondError(c, err)
		return
	}

	objectKey := ""
	if h.uploads != nil {
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			key, putErr := h.uploads.Put(c.Request.Context(), common.NewID(), file, header.Size, "text/csv")
			if putErr != nil {
				respondError(c, putErr)
				return
			}
			objectKey = key
		}
	}

	if c.Query("async") == "true" && h.queue != nil {
		h.submitAsync(c, items, objectKey)
		return
	}

	batch, err := h.service.ClassifyUploadedBatch(c.Request.Context(), items, objectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	h.observeBatch(batch)
	c.JSON(http.StatusCreated, batch)
}

// submitAsync persists the batch and hands its items to the work queue.
func (h *ClassifyHandler) submitAsync(c *gin.Context, items []*domain.Item, objectKey string) {
	batch, err := h.service.SubmitBatch(c.Request.Context(), items, objectKey)
	if err != nil {
		respondError(c, err)
		return
	}

	msgs := make([]kafka.ItemMessage, 0, len(items))
	now := time.Now().UTC()
	for _, item := range items {
		msgs = append(msgs, kafka.ItemMessage{
			BatchID:     item.BatchID,
			ItemID:      item.ID,
			ProductName: item.ProductName,
			MakerName:   item.MakerName,
			Description: item.Description,
			EnqueuedAt:  now,
		})
	}
	if err := h.queue.PublishItems(c.Request.Context(), msgs); err != nil {
		h.logger.Error("failed to enqueue batch items",
			logging.String("batch_id", string(batch.ID)),
			logging.Err(err),
		)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, batch)
}

// GetBatch handles GET /batches/:batchID.
func (h *ClassifyHandler) GetBatch(c *gin.Context) {
	batch, err := h.service.GetBatch(c.Request.Context(), common.ID(c.Param("batchID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// batchResultsResponse pages through a batch's verdicts.
type batchResultsResponse struct {
	Results    []*domain.Result  `json:"results"`
	Pagination common.Pagination `json:"pagination"`
}

// ListResults handles GET /batches/:batchID/results.
func (h *ClassifyHandler) ListResults(c *gin.Context) {
	batchID := common.ID(c.Param("batchID"))
	p := parsePagination(c)

	results, total, err := h.service.ListResults(c.Request.Context(), batchID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	p.Total = int64(total)
	c.JSON(http.StatusOK, batchResultsResponse{Results: results, Pagination: p})
}

func (h *ClassifyHandler) observeResult(r *domain.Result) {
	if h.metrics == nil {
		return
	}
	h.metrics.ItemsClassified.WithLabelValues("done").Inc()
	if r.Score != nil {
		h.metrics.EvidenceScore.Observe(float64(*r.Score))
	}
	if r.NeedsReview {
		h.metrics.NeedsReview.Inc()
	}
}

func (h *ClassifyHandler) observeOutcome(outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ItemsClassified.WithLabelValues(outcome).Inc()
}

func (h *ClassifyHandler) observeBatch(b *domain.Batch) {
	if h.metrics == nil || b.StartedAt == nil || b.FinishedAt == nil {
		return
	}
	h.metrics.BatchDuration.Observe(b.FinishedAt.Sub(*b.StartedAt).Seconds())
	h.metrics.ItemsClassified.WithLabelValues("done").Add(float64(b.DoneItems))
	h.metrics.ItemsClassified.WithLabelValues("failed").Add(float64(b.FailedItems))
}

// Item CSV columns.  product_name is required; the rest are optional.
const (
	itemColumnProduct     = "product_name"
	itemColumnMaker       = "maker_name"
	itemColumnDescription = "description"
)

// parseItemsCSV reads batch items from CSV data with a header row.
func parseItemsCSV(r io.Reader) ([]*domain.Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.InvalidParam("upload is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUploadFormatUnsupported, "failed to read upload header")
	}

	productIdx, makerIdx, descIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case itemColumnProduct:
			productIdx = i
		case itemColumnMaker:
			makerIdx = i
		case itemColumnDescription:
			descIdx = i
		}
	}
	if productIdx < 0 {
		return nil, errors.New(errors.ErrCodeUploadFormatUnsupported,
			"upload header must contain a product_name column")
	}

	now := time.Now().UTC()
	var items []*domain.Item
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeUploadFormatUnsupported, "failed to read upload row")
		}
		item := &domain.Item{
			ProductName: strings.TrimSpace(csvField(record, productIdx)),
			MakerName:   strings.TrimSpace(csvField(record, makerIdx)),
			Description: strings.TrimSpace(csvField(record, descIdx)),
			CreatedAt:   now,
		}
		if item.ProductName == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, errors.InvalidParam("upload contains no usable rows")
	}
	return items, nil
}

func csvField(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

//Personal.AI order the ending
