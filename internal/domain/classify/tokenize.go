package classify

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// minTokenLen is the minimum token length in runes; shorter fragments
	// carry no identity.
	minTokenLen = 2

	// scriptSplitMinLen is the rune length at which a base token is also
	// broken into script runs to recover glued sub-words.
	scriptSplitMinLen = 8
)

// scriptClass buckets a rune into one of the fixed script categories used for
// run splitting.  The categories use fixed code-point ranges, never a
// locale-dependent segmentation facility, so tokenization is exactly
// reproducible everywhere.
type scriptClass uint8

const (
	scriptOther scriptClass = iota
	scriptDigit
	scriptLatin
	scriptKana
	scriptHan
)

func classifyRune(r rune) scriptClass {
	switch {
	case r >= '0' && r <= '9':
		return scriptDigit
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return scriptLatin
	case (r >= 0x3040 && r <= 0x309F) || // hiragana
		(r >= 0x30A0 && r <= 0x30FF) || // katakana
		(r >= 0x31F0 && r <= 0x31FF): // katakana phonetic extensions
		return scriptKana
	case (r >= 0x4E00 && r <= 0x9FFF) || // CJK unified ideographs
		(r >= 0x3400 && r <= 0x4DBF): // CJK extension A
		return scriptHan
	default:
		return scriptOther
	}
}

// splitScriptRuns merges maximal runs of the same script class into substrings
// and keeps runs of at least minTokenLen runes.  This recovers sub-words from
// script-dense text with no explicit boundaries, e.g. "天然沈香aromawood" →
// "天然沈香", "aromawood".
func splitScriptRuns(token string) []string {
	runes := []rune(token)
	if len(runes) == 0 {
		return nil
	}

	var runs []string
	start := 0
	current := classifyRune(runes[0])
	for i := 1; i <= len(runes); i++ {
		var cls scriptClass
		if i < len(runes) {
			cls = classifyRune(runes[i])
		}
		if i == len(runes) || cls != current {
			if i-start >= minTokenLen {
				runs = append(runs, string(runes[start:i]))
			}
			start = i
			current = cls
		}
	}
	return runs
}

// Tokenize splits free text into a deduplicated set of candidate tokens:
//
//  1. Known compound attribute keywords are surrounded with spaces in the
//     lowercased, compatibility-normalized text so they separate from glued
//     neighbours.
//  2. The result is normalized (see Normalize) and split on spaces; tokens
//     shorter than two runes are dropped.
//  3. Base tokens of eight runes or more are additionally split into script
//     runs, and runs of two runes or more join the set.
//
// The returned slice is sorted so identical input always yields identical
// output; set semantics make the order insignificant to callers.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	pre := strings.ToLower(norm.NFKC.String(text))
	for _, kw := range compoundKeywords {
		if strings.Contains(pre, kw) {
			pre = strings.ReplaceAll(pre, kw, " "+kw+" ")
		}
	}

	normalized := Normalize(pre)
	if normalized == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, tok := range strings.Split(normalized, " ") {
		n := utf8.RuneCountInString(tok)
		if n < minTokenLen {
			continue
		}
		seen[tok] = struct{}{}
		if n >= scriptSplitMinLen {
			for _, run := range splitScriptRuns(tok) {
				seen[run] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
