package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/HSCode-Intelligence/internal/interfaces/http"
	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// fakeReferenceRepo backs catalog handler tests with in-memory entries.
type fakeReferenceRepo struct {
	entries  []classify.ReferenceEntry
	replaced []classify.ReferenceEntry
}

func (f *fakeReferenceRepo) ListEntries(_ context.Context) ([]classify.ReferenceEntry, error) {
	return f.entries, nil
}

func (f *fakeReferenceRepo) ReplaceEntries(_ context.Context, entries []classify.ReferenceEntry) error {
	f.replaced = entries
	f.entries = entries
	return nil
}

func (f *fakeReferenceRepo) Count(_ context.Context) (int, error) {
	return len(f.entries), nil
}

func newCatalogRouter(repo *fakeReferenceRepo) (*gin.Engine, *classify.Catalog) {
	cache := classify.NewCatalog(repo.ListEntries)
	h := handlers.NewCatalogHandler(repo, cache, nil, logging.NewNopLogger())
	return httpapi.NewRouter(httpapi.RouterConfig{CatalogHandler: h}), cache
}

func TestCandidatesEndpoint(t *testing.T) {
	repo := &fakeReferenceRepo{entries: []classify.ReferenceEntry{
		{Code: "3301.29", Description: "沈香油及びその抽出物", HeadingDescription: "精油"},
		{Code: "3303.00", Description: "香水及びオーデコロン", HeadingDescription: "調製香料"},
		{Code: "9503.00", Description: "玩具"},
	}}
	router, _ := newCatalogRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates?q="+url.QueryEscape("沈香 香水"), nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Keywords   []string             `json:"keywords"`
		Candidates []classify.Candidate `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Keywords, "沈香")
	require.Len(t, resp.Candidates, 2)
	for _, c := range resp.Candidates {
		assert.NotEqual(t, "9503.00", c.Code)
	}
}

func TestCandidatesRequiresQuery(t *testing.T) {
	router, _ := newCatalogRouter(&fakeReferenceRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeInvalidParam.String(), resp.Code)
}

func TestCatalogImportReplacesEntriesAndCache(t *testing.T) {
	repo := &fakeReferenceRepo{entries: []classify.ReferenceEntry{{Code: "old", Description: "stale"}}}
	router, cache := newCatalogRouter(repo)

	// Warm the cache so the import has something to invalidate.
	_, err := cache.Entries(context.Background())
	require.NoError(t, err)

	body := "code,description,heading_description\n3303.00,香水及びオーデコロン,調製香料\n"
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/catalog", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.replaced, 1)
	assert.Equal(t, "3303.00", repo.replaced[0].Code)

	// The cache reloads from the replaced repository on next use.
	entries, err := cache.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "3303.00", entries[0].Code)
}

func TestCatalogReloadInvalidatesCache(t *testing.T) {
	repo := &fakeReferenceRepo{entries: []classify.ReferenceEntry{{Code: "3303.00", Description: "香水"}}}
	router, cache := newCatalogRouter(repo)

	_, err := cache.Entries(context.Background())
	require.NoError(t, err)
	_, loaded := cache.Size()
	require.True(t, loaded)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	_, loaded = cache.Size()
	assert.False(t, loaded)
}

func TestCatalogStats(t *testing.T) {
	repo := &fakeReferenceRepo{entries: []classify.ReferenceEntry{
		{Code: "3303.00", Description: "香水"},
		{Code: "3301.29", Description: "沈香油"},
	}}
	router, _ := newCatalogRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/stats", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Entries int  `json:"entries"`
		Cached  bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Entries)
	assert.False(t, resp.Cached)
}

//Personal.AI order the ending
