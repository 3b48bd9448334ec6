// Package research implements the web-research provider client.  The provider
// exposes a simple JSON search API; this client turns a product query into the
// ranked evidence sources the scorer consumes.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/HSCode-Intelligence/internal/config"
	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxSources = 5

	// maxResponseBytes bounds how much of a provider response is read;
	// a well-formed result page is a few KB.
	maxResponseBytes = 1 << 20
)

// httpDoer abstracts http.Client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the research provider's search endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	maxSources int
	http       httpDoer
	logger     logging.Logger
}

// NewClient constructs a provider client from the research config section.
func NewClient(cfg config.ResearchConfig, log logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxSources := cfg.MaxSources
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxSources: maxSources,
		http:       &http.Client{Timeout: timeout},
		logger:     log.Named("research"),
	}
}

// newClientWithDoer injects an HTTP transport (for testing).
func newClientWithDoer(baseURL string, maxSources int, doer httpDoer, log logging.Logger) *Client {
	return &Client{baseURL: baseURL, maxSources: maxSources, http: doer, logger: log}
}

// searchResponse is the provider's wire format.
type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}

// Search returns up to maxSources ranked evidence sources for the query.
// Provider rank order is preserved; an empty result list is returned as-is,
// never promoted to an error.
func (c *Client) Search(ctx context.Context, query string, maxSources int) ([]classify.EvidenceSource, error) {
	if maxSources <= 0 || maxSources > c.maxSources {
		maxSources = c.maxSources
	}

	endpoint := c.baseURL + "/v1/search?" + url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(maxSources)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeResearchProviderError, "failed to build search request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeResearchProviderError, "search request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.New(errors.ErrCodeResearchQuotaExceeded, "research provider quota exceeded")
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeResearchProviderError,
			fmt.Sprintf("research provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeResearchProviderError, "failed to read search response")
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeResearchResponseInvalid, "failed to decode search response")
	}

	sources := make([]classify.EvidenceSource, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		sources = append(sources, classify.EvidenceSource{Title: r.Title, URI: r.URL})
	}
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}

	c.logger.Debug("research search completed",
		logging.Int("sources", len(sources)),
	)
	return sources, nil
}

//Personal.AI order the ending
