package classify

import (
	"math"
	"net/url"
	"strings"
)

// EvidenceSource is one retrieved research result, in rank order as returned
// by the research provider.
type EvidenceSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Hostname extracts the lowercased host of the source URI.  Unparseable or
// host-less URIs yield "", never an error: a bad URI simply contributes no
// domain signal.
func (s EvidenceSource) Hostname() string {
	u, err := url.Parse(s.URI)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// RiskLevel grades how likely it is that the evidence describes something
// other than the product being classified.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Evidence-weight constants.  Tuning happens here, never inline in the
// scoring loop.
const (
	// maxEvidenceSources is how many top-ranked sources participate in
	// scoring; anything past rank five barely reflects the query.
	maxEvidenceSources = 5

	// makerHitPoints is the full-weight contribution of finding a maker
	// token in a source.
	makerHitPoints = 50

	// productHitPoints is the full-weight contribution per distinct product
	// token found in a source, capped at productHitCap per source.
	productHitPoints = 20
	productHitCap    = 40

	// negativeHitPenalty is the full-weight deduction for a source carrying
	// a place/travel/encyclopedia signal.
	negativeHitPenalty = 25
)

// Default scoring knobs; ScoreConfig zero values fall back to these.
const (
	DefaultMatchThreshold       = 60
	DefaultMinSourcesForReview  = 3
	DefaultReviewLowScore       = 10
	DefaultMinDistinctiveTokens = 3
	DefaultNegativeThreshold    = 2
)

// ScoreConfig carries the tunable thresholds of the evidence scorer.  The
// zero value is usable: sanitized() swaps every unset or out-of-range knob
// for its default, so a partially populated config never breaks scoring.
type ScoreConfig struct {
	// MatchThreshold is the score below which risk is at least medium.
	MatchThreshold int

	// RequireMaker, when true (the default), raises risk to high if the
	// item names a maker and no maker token appears in any source.
	RequireMaker *bool

	// MinSourcesForReview is the minimum number of sources before a
	// needs-review verdict can be issued; with fewer sources the evidence
	// is too thin to distrust confidently.
	MinSourcesForReview int

	// ReviewLowScore is the score at or below which the low-score arm of
	// the needs-review rule fires.
	ReviewLowScore int

	// MinDistinctiveTokens is the distinct-token floor under which a
	// product-token miss alone cannot raise risk to high.
	MinDistinctiveTokens int

	// NegativeThreshold is how many negative-signal sources make the
	// negative arm of needs-review fire.
	NegativeThreshold int

	// RequireNegativeForReview, when true (the default), demands both a
	// negative/non-product signal AND a low score for needs-review; when
	// false either alone suffices.
	RequireNegativeForReview *bool

	// ProductDomains and NonProductDomains override the built-in hostname
	// fragment lists when non-empty.
	ProductDomains    []string
	NonProductDomains []string
}

// DefaultScoreConfig returns the configuration every knob at its default.
func DefaultScoreConfig() ScoreConfig {
	t := true
	return ScoreConfig{
		MatchThreshold:           DefaultMatchThreshold,
		RequireMaker:             &t,
		MinSourcesForReview:      DefaultMinSourcesForReview,
		ReviewLowScore:           DefaultReviewLowScore,
		MinDistinctiveTokens:     DefaultMinDistinctiveTokens,
		NegativeThreshold:        DefaultNegativeThreshold,
		RequireNegativeForReview: &t,
		ProductDomains:           defaultProductDomains,
		NonProductDomains:        defaultNonProductDomains,
	}
}

// sanitized returns a copy with every invalid knob replaced by its default.
// Each knob self-heals independently so one bad value never disables the rest.
func (c ScoreConfig) sanitized() ScoreConfig {
	out := c
	if out.MatchThreshold <= 0 || out.MatchThreshold > 100 {
		out.MatchThreshold = DefaultMatchThreshold
	}
	if out.RequireMaker == nil {
		t := true
		out.RequireMaker = &t
	}
	if out.MinSourcesForReview <= 0 {
		out.MinSourcesForReview = DefaultMinSourcesForReview
	}
	if out.ReviewLowScore < 0 || out.ReviewLowScore > 100 {
		out.ReviewLowScore = DefaultReviewLowScore
	}
	if out.MinDistinctiveTokens <= 0 {
		out.MinDistinctiveTokens = DefaultMinDistinctiveTokens
	}
	if out.NegativeThreshold <= 0 {
		out.NegativeThreshold = DefaultNegativeThreshold
	}
	if out.RequireNegativeForReview == nil {
		t := true
		out.RequireNegativeForReview = &t
	}
	if len(out.ProductDomains) == 0 {
		out.ProductDomains = defaultProductDomains
	}
	if len(out.NonProductDomains) == 0 {
		out.NonProductDomains = defaultNonProductDomains
	}
	return out
}

// EvidenceMetrics is the raw signal breakdown behind a score, kept for audit
// and for the risk/review rules.
type EvidenceMetrics struct {
	SourcesEvaluated       int  `json:"sources_evaluated"`
	MakerFound             bool `json:"maker_found"`
	MakerTokenCount        int  `json:"maker_token_count"`
	ProductTokenCount      int  `json:"product_token_count"`
	ProductTokensFound     int  `json:"product_tokens_found"`
	DistinctiveTokenCount  int  `json:"distinctive_token_count"`
	DistinctiveTokensFound int  `json:"distinctive_tokens_found"`
	NegativeSourceCount    int  `json:"negative_source_count"`
	NegativeHit            bool `json:"negative_hit"`
	ProductDomainHit       bool `json:"product_domain_hit"`
	NonProductDomainHit    bool `json:"non_product_domain_hit"`
	StrongProductMismatch  bool `json:"strong_product_mismatch"`
}

// ScoreResult is the scorer's verdict for one item.
type ScoreResult struct {
	// Score is the evidence-match score in [0,100]; nil means the item was
	// not evaluable (no evidence sources at all).
	Score *int `json:"score"`

	NeedsReview bool            `json:"needs_review"`
	Reasons     []string        `json:"reasons,omitempty"`
	RiskLevel   RiskLevel       `json:"risk_level"`
	Evidence    EvidenceMetrics `json:"evidence"`
}

// Human-readable verdict reasons.  At most two appear on a result, most
// severe first.
const (
	ReasonNoEvidence     = "no evidence sources"
	ReasonMakerNotFound  = "maker not found in evidence"
	ReasonTokensAbsent   = "product's distinctive terms absent from evidence"
	ReasonTourismSources = "tourism/place-oriented sources ranked high"
	ReasonConsistent     = "evidence broadly consistent"
)

// makerTokens derives the token set identifying a maker: the union of the
// tokens of the raw name and of the name with corporate suffixes stripped,
// minus residual legal-entity stopwords.  "山田産業株式会社" and
// "Yamada Sangyo Co., Ltd." both reduce to their identity-bearing tokens.
func makerTokens(maker string) []string {
	if strings.TrimSpace(maker) == "" {
		return nil
	}

	stripped := strings.ToLower(maker)
	for _, suffix := range corporateSuffixes {
		stripped = strings.ReplaceAll(stripped, suffix, " ")
	}

	seen := make(map[string]struct{})
	var out []string
	for _, tok := range append(Tokenize(maker), Tokenize(stripped)...) {
		if _, stop := makerStopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// containsAnyFragment reports whether host contains any of the fragments.
func containsAnyFragment(host string, fragments []string) bool {
	if host == "" {
		return false
	}
	for _, f := range fragments {
		if f != "" && strings.Contains(host, f) {
			return true
		}
	}
	return false
}

// ScoreEvidence scores how well the retrieved evidence matches the product
// identified by maker and productName.  The full product-token set drives hit
// scoring, so variant tokens (colors, sizes) found in evidence still count;
// the distinctive subset alone decides the strong-mismatch verdict.
//
// Only the first maxEvidenceSources sources are evaluated, each weighted by
// rank decay (N−idx)/N so the top hit counts fully and the last counts 1/N.
// A source's searchable text is its normalized title, hostname, and
// lowercased URI.  Per source, full-weight points are:
//
//	+makerHitPoints                    if any maker token appears
//	+productHitPoints × distinct hits  capped at productHitCap
//	−negativeHitPenalty                if any negative-signal term appears
//
// The weighted sum is rounded half away from zero, then clamped to [0,100].
// An item with no sources is unevaluable: nil score, RiskNone,
// ReasonNoEvidence, and no review flag — absence of evidence is not
// treated as evidence of mismatch.
//
// ScoreEvidence is deterministic and never returns an error.
func ScoreEvidence(maker, productName string, sources []EvidenceSource, cfg ScoreConfig) ScoreResult {
	cfg = cfg.sanitized()

	mTokens := makerTokens(maker)
	productTokens := Tokenize(productName)
	distinctive := FilterDistinctive(productTokens)
	distinctiveSet := make(map[string]struct{}, len(distinctive))
	for _, tok := range distinctive {
		distinctiveSet[tok] = struct{}{}
	}

	if len(sources) == 0 {
		return ScoreResult{
			Score:     nil,
			RiskLevel: RiskNone,
			Reasons:   []string{ReasonNoEvidence},
			Evidence: EvidenceMetrics{
				MakerTokenCount:       len(mTokens),
				ProductTokenCount:     len(productTokens),
				DistinctiveTokenCount: len(distinctive),
			},
		}
	}

	evaluated := sources
	if len(evaluated) > maxEvidenceSources {
		evaluated = evaluated[:maxEvidenceSources]
	}
	n := len(evaluated)

	var (
		total            float64
		makerFound       bool
		foundTokens      = make(map[string]struct{})
		foundDistinctive = make(map[string]struct{})
		negativeCount    int
		productDomain    bool
		nonProdDomain    bool
	)

	for idx, src := range evaluated {
		w := float64(n-idx) / float64(n)
		host := src.Hostname()
		haystack := Normalize(src.Title) + " " + host + " " + strings.ToLower(src.URI)

		if makerFoundIn(haystack, mTokens) {
			makerFound = true
			total += w * makerHitPoints
		}

		hits := 0
		for _, tok := range productTokens {
			if tok == "" {
				continue
			}
			if strings.Contains(haystack, tok) {
				hits++
				foundTokens[tok] = struct{}{}
				if _, ok := distinctiveSet[tok]; ok {
					foundDistinctive[tok] = struct{}{}
				}
			}
		}
		if hits > 0 {
			pts := hits * productHitPoints
			if pts > productHitCap {
				pts = productHitCap
			}
			total += w * float64(pts)
		}

		for _, term := range negativeSignalTerms {
			if strings.Contains(haystack, term) {
				negativeCount++
				total -= w * negativeHitPenalty
				break
			}
		}

		// Domain verdicts look at the top three hosts only; a marketplace
		// link buried at rank five says little about what the query found.
		if idx < 3 {
			if containsAnyFragment(host, cfg.ProductDomains) {
				productDomain = true
			}
			if containsAnyFragment(host, cfg.NonProductDomains) {
				nonProdDomain = true
			}
		}
	}

	// A maker-less item vacuously satisfies the maker requirement.
	if len(mTokens) == 0 {
		makerFound = true
	}

	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	strongMismatch := len(distinctive) >= cfg.MinDistinctiveTokens &&
		len(foundDistinctive) == 0 && !productDomain
	negativeHit := negativeCount >= cfg.NegativeThreshold

	metrics := EvidenceMetrics{
		SourcesEvaluated:       n,
		MakerFound:             makerFound,
		MakerTokenCount:        len(mTokens),
		ProductTokenCount:      len(productTokens),
		ProductTokensFound:     len(foundTokens),
		DistinctiveTokenCount:  len(distinctive),
		DistinctiveTokensFound: len(foundDistinctive),
		NegativeSourceCount:    negativeCount,
		NegativeHit:            negativeHit,
		ProductDomainHit:       productDomain,
		NonProductDomainHit:    nonProdDomain,
		StrongProductMismatch:  strongMismatch,
	}

	requireMaker := *cfg.RequireMaker
	makerMissing := requireMaker && len(mTokens) > 0 && !makerFound

	// A strong product mismatch alone is the top risk tier; everything the
	// evidence found points at something else entirely.
	risk := RiskLow
	switch {
	case strongMismatch:
		risk = RiskVeryHigh
	case makerMissing:
		risk = RiskHigh
	case score < cfg.MatchThreshold:
		risk = RiskMedium
	}

	// The review gate fires only with enough sources to distrust
	// confidently, and only when the distinctive terms were entirely absent.
	// The two strong-signal arms — a negative/non-product signal and a
	// floor-level score — combine with AND by default, OR when
	// RequireNegativeForReview is disabled.
	needsReview := false
	if n >= cfg.MinSourcesForReview && strongMismatch {
		negativeSignal := negativeHit || nonProdDomain
		lowScore := score <= cfg.ReviewLowScore
		if *cfg.RequireNegativeForReview {
			needsReview = negativeSignal && lowScore
		} else {
			needsReview = negativeSignal || lowScore
		}
	}

	var reasons []string
	if makerMissing {
		reasons = append(reasons, ReasonMakerNotFound)
	}
	if strongMismatch {
		reasons = append(reasons, ReasonTokensAbsent)
	}
	if negativeHit {
		reasons = append(reasons, ReasonTourismSources)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonConsistent)
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}

	return ScoreResult{
		Score:       &score,
		NeedsReview: needsReview,
		Reasons:     reasons,
		RiskLevel:   risk,
		Evidence:    metrics,
	}
}

func makerFoundIn(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" && strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
