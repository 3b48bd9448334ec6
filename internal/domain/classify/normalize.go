// Package classify implements the deterministic matching and scoring core of
// the HSCode-Intelligence platform: text normalization, tokenization of
// script-dense product names, variant-attribute filtering, keyword-weighted
// reference-code ranking, and the heuristic evidence-match scorer that decides
// whether retrieved web evidence actually describes the product being
// classified.
//
// Everything in this package is pure computation over in-memory data.  No
// function performs I/O, none returns an error across the package boundary —
// every edge case resolves to a defined result value — and identical inputs
// always produce byte-identical outputs, so calls may be parallelized freely
// by an external batch driver.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// quoteStripper removes straight and curly quote characters so that
// "L'Occitane" and "L’Occitane" normalize identically.
var quoteStripper = strings.NewReplacer(
	"'", "",
	"’", "",
	"‘", "",
	`"`, "",
	"“", "",
	"”", "",
)

// Normalize canonicalizes arbitrary free text: Unicode compatibility form
// (NFKC, which also folds full-width Latin and half-width kana), lowercase,
// quote stripping, every maximal run of non-letter/digit characters replaced
// by a single space, and surrounding whitespace trimmed.
//
// Normalize is pure and total: it never fails, and empty input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	s = quoteStripper.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

//Personal.AI order the ending
