package classify

// isVariantToken reports whether a token describes a product variant
// (who it is for, its size, quantity, or color) rather than the product
// itself.
func isVariantToken(token string) bool {
	if _, ok := genderAgeTokens[token]; ok {
		return true
	}
	if sizeCodePattern.MatchString(token) {
		return true
	}
	if quantityPattern.MatchString(token) {
		return true
	}
	if _, ok := colorTokens[token]; ok {
		return true
	}
	return false
}

// FilterDistinctive removes variant-attribute tokens (gender/age category
// words, size codes, quantity tokens, color names) and short ASCII
// letter/digit noise from a token set, leaving only the identity-bearing
// tokens that distinguish the product from everything else in a catalog.
//
// The input is treated as a set; relative order of survivors is preserved, so
// feeding it Tokenize output keeps the deterministic sorted order.
func FilterDistinctive(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if isVariantToken(tok) {
			continue
		}
		if noiseTokenPattern.MatchString(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

//Personal.AI order the ending
