package classify

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"
)

// DefaultMatchLimit is the number of candidates returned when the caller does
// not request a specific limit.
const DefaultMatchLimit = 10

// ReferenceEntry is one row of the tariff-code reference catalog.
type ReferenceEntry struct {
	Code               string `json:"code"`
	Description        string `json:"description"`
	HeadingDescription string `json:"heading_description"`
}

// Candidate is one ranked reference-code match.
type Candidate struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Score       int    `json:"score"`
}

// MatchReferenceCodes ranks catalog entries against the supplied keywords.
//
// For every entry the searchable text is the lowercased description plus
// heading description.  Each keyword contributes occurrences × keyword
// rune-length to the entry's score, so longer, more specific keywords and
// repeated occurrence both raise the rank.  This is a deliberate substring
// scheme: a keyword that happens to be a substring of an unrelated longer
// word still matches.
//
// Entries scoring zero are discarded; the rest are sorted descending with
// ties keeping original catalog order; at most limit candidates are returned
// (DefaultMatchLimit when limit ≤ 0).  An empty keyword list or catalog
// yields an empty result, never an error.
func MatchReferenceCodes(entries []ReferenceEntry, keywords []string, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	if len(entries) == 0 || len(keywords) == 0 {
		return nil
	}

	needles := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k != "" {
			needles = append(needles, k)
		}
	}
	if len(needles) == 0 {
		return nil
	}

	type scoredEntry struct {
		entry ReferenceEntry
		score int
	}
	scored := make([]scoredEntry, 0, len(entries))
	for _, e := range entries {
		text := strings.ToLower(e.Description + " " + e.HeadingDescription)
		score := 0
		for _, k := range needles {
			if n := strings.Count(text, k); n > 0 {
				score += n * utf8.RuneCountInString(k)
			}
		}
		if score > 0 {
			scored = append(scored, scoredEntry{entry: e, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]Candidate, 0, len(scored))
	for _, s := range scored {
		out = append(out, Candidate{
			Code:        s.entry.Code,
			Description: s.entry.Description,
			Score:       s.score,
		})
	}
	return out
}

// CatalogLoader supplies the reference rows from whatever source the process
// is configured with (database table, imported spreadsheet, test fixture).
type CatalogLoader func(ctx context.Context) ([]ReferenceEntry, error)

// Catalog is the process-wide reference-code cache.  It loads lazily on first
// use, serves reads lock-free-ish afterwards, and is rebuilt on the next use
// after Invalidate.  Ownership is explicit — the caller constructs it, hands
// it to whoever matches, and controls its lifecycle — rather than hidden
// package-level state, so tests can exercise load/invalidate deterministically.
type Catalog struct {
	loader CatalogLoader

	mu      sync.RWMutex
	entries []ReferenceEntry
	loaded  bool

	group singleflight.Group
}

// NewCatalog constructs an empty catalog around the given loader.
func NewCatalog(loader CatalogLoader) *Catalog {
	return &Catalog{loader: loader}
}

// Entries returns the cached reference rows, loading them through the loader
// on first use.  Rows with an empty or whitespace-only code are discarded at
// load time; the retained slice is immutable until Invalidate.  Concurrent
// first uses collapse into a single loader call.
func (c *Catalog) Entries(ctx context.Context) ([]ReferenceEntry, error) {
	c.mu.RLock()
	if c.loaded {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("load", func() (interface{}, error) {
		// Re-check: another flight may have completed between the RUnlock
		// and the Do.
		c.mu.RLock()
		if c.loaded {
			entries := c.entries
			c.mu.RUnlock()
			return entries, nil
		}
		c.mu.RUnlock()

		rows, err := c.loader(ctx)
		if err != nil {
			return nil, err
		}
		kept := make([]ReferenceEntry, 0, len(rows))
		for _, row := range rows {
			if strings.TrimSpace(row.Code) == "" {
				continue
			}
			kept = append(kept, row)
		}

		c.mu.Lock()
		c.entries = kept
		c.loaded = true
		c.mu.Unlock()
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ReferenceEntry), nil
}

// Match ranks the cached catalog against the keywords; see MatchReferenceCodes.
func (c *Catalog) Match(ctx context.Context, keywords []string, limit int) ([]Candidate, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return MatchReferenceCodes(entries, keywords, limit), nil
}

// Invalidate clears the cache; the next Entries call reloads from the source.
// Call it whenever the underlying catalog data changes.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.entries = nil
	c.loaded = false
	c.mu.Unlock()
}

// Size returns the number of cached rows and whether the catalog is loaded,
// without triggering a load.
func (c *Catalog) Size() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), c.loaded
}

//Personal.AI order the ending
