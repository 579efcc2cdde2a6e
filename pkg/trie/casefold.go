package trie

import "unicode"

// caseFoldVariants returns every string obtainable by independently replacing
// each rune of s with its uppercase or lowercase form. Runes whose upper and
// lower forms coincide (digits, punctuation, already-folded runes in scripts
// without case) contribute a single option instead of two, so the result set
// never grows needlessly for prefixes that are mostly case-invariant.
func caseFoldVariants(s string) []string {
	runes := []rune(s)
	options := make([][]rune, len(runes))
	for i, r := range runes {
		upper, lower := unicode.ToUpper(r), unicode.ToLower(r)
		if upper == lower {
			options[i] = []rune{r}
		} else {
			options[i] = []rune{upper, lower}
		}
	}

	variants := []string{""}
	for _, opts := range options {
		next := make([]string, 0, len(variants)*len(opts))
		for _, v := range variants {
			for _, r := range opts {
				next = append(next, v+string(r))
			}
		}
		variants = next
	}
	return variants
}
