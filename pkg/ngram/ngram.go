// Package ngram extracts contiguous substrings of a string up to a fixed width.
package ngram

// Generator produces n-grams no wider than Max.
type Generator struct {
	max int
}

// NewGenerator returns a Generator capped at max. A cap below 1 is treated as 1.
func NewGenerator(max int) *Generator {
	if max < 1 {
		max = 1
	}
	return &Generator{max: max}
}

// Max returns the configured width cap.
func (g *Generator) Max() int {
	return g.max
}

// GenerateAll returns every distinct substring of s whose length is in
// [1, min(max, len(s))]. Used at build time so partial queries still match.
//
// For max = 3 and s = "good": g, o, d, go, oo, od, goo, ood.
func (g *Generator) GenerateAll(s string) []string {
	if s == "" {
		return []string{}
	}

	width := min(g.max, len(s))
	seen := make(map[string]struct{}, len(s)*width)
	ngrams := make([]string, 0, len(s)*width)

	for start := 0; start < len(s); start++ {
		for n := 1; n <= width && start+n <= len(s); n++ {
			gram := s[start : start+n]
			if _, ok := seen[gram]; ok {
				continue
			}
			seen[gram] = struct{}{}
			ngrams = append(ngrams, gram)
		}
	}
	return ngrams
}

// Generate returns the distinct substrings of s of length exactly
// min(max, len(s)). Used at query time: only the widest window is looked up.
//
// For max = 3 and s = "good": goo, ood. For max = 5: good.
func (g *Generator) Generate(s string) []string {
	if s == "" {
		return []string{}
	}

	width := min(g.max, len(s))
	seen := make(map[string]struct{}, len(s)-width+1)
	ngrams := make([]string, 0, len(s)-width+1)

	for start := 0; start+width <= len(s); start++ {
		gram := s[start : start+width]
		if _, ok := seen[gram]; ok {
			continue
		}
		seen[gram] = struct{}{}
		ngrams = append(ngrams, gram)
	}
	return ngrams
}
