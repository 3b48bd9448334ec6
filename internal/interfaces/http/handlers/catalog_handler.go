package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// CatalogHandler administers the tariff-code reference catalog.
type CatalogHandler struct {
	refs    domain.ReferenceRepository
	cache   *classify.Catalog
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewCatalogHandler constructs the catalog administration handler.
func NewCatalogHandler(
	refs domain.ReferenceRepository,
	cache *classify.Catalog,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		refs:    refs,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("catalog_handler"),
	}
}

// importResponse reports the outcome of a catalog import.
type importResponse struct {
	Imported int `json:"imported"`
}

// Import handles PUT /catalog: replace the reference catalog from a CSV body
// (multipart "file" field or raw CSV request body) and invalidate the
// in-process cache so the next match sees the new data.
func (h *CatalogHandler) Import(c *gin.Context) {
	body := c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			respondError(c, errors.InvalidParam("multipart field \"file\" is required").WithCause(err))
			return
		}
		defer file.Close()
		body = file
	}

	entries, err := catalog.ParseCSV(body)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.refs.ReplaceEntries(c.Request.Context(), entries); err != nil {
		respondError(c, err)
		return
	}
	h.cache.Invalidate()

	if h.metrics != nil {
		h.metrics.CatalogReloads.Inc()
		h.metrics.CatalogSize.Set(float64(len(entries)))
	}
	h.logger.Info("reference catalog replaced", logging.Int("entries", len(entries)))
	c.JSON(http.StatusOK, importResponse{Imported: len(entries)})
}

// candidatesResponse carries a keyword lookup result.
type candidatesResponse struct {
	Keywords   []string             `json:"keywords"`
	Candidates []classify.Candidate `json:"candidates"`
}

// Candidates handles GET /candidates?q=<product text>: tokenize the text,
// keep distinctive keywords, and rank catalog codes without running the full
// classification pipeline.
func (h *CatalogHandler) Candidates(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, errors.InvalidParam("query parameter \"q\" is required"))
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, errors.InvalidParam("limit must be a positive integer"))
			return
		}
		limit = n
	}

	keywords := classify.FilterDistinctive(classify.Tokenize(query))
	candidates, err := h.cache.Match(c.Request.Context(), keywords, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if candidates == nil {
		candidates = []classify.Candidate{}
	}
	c.JSON(http.StatusOK, candidatesResponse{Keywords: keywords, Candidates: candidates})
}

// Reload handles POST /catalog/reload: drop the in-process catalog cache so
// the next match reloads from the configured source.  Used after out-of-band
// edits to the source file or table.
func (h *CatalogHandler) Reload(c *gin.Context) {
	h.cache.Invalidate()
	if h.metrics != nil {
		h.metrics.CatalogReloads.Inc()
	}
	h.logger.Info("reference catalog cache invalidated")
	c.Status(http.StatusNoContent)
}

// statsResponse reports catalog size.
type statsResponse struct {
	Entries int  `json:"entries"`
	Cached  bool `json:"cached"`
}

// Stats handles GET /catalog/stats.
func (h *CatalogHandler) Stats(c *gin.Context) {
	count, err := h.refs.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	_, cached := h.cache.Size()
	c.JSON(http.StatusOK, statsResponse{Entries: count, Cached: cached})
}

//Personal.AI order the ending
