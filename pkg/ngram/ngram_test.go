package ngram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAll(t *testing.T) {
	g := NewGenerator(3)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single char", "g", []string{"g"}},
		{"less than max", "go", []string{"g", "o", "go"}},
		{"equal to max", "goo", []string{"g", "o", "go", "oo", "goo"}},
		{"more than max", "good", []string{"g", "o", "d", "go", "oo", "od", "goo", "ood"}},
		{"repeated windows", "aaaa", []string{"a", "aa", "aaa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.GenerateAll(tt.input)
			assert.ElementsMatch(t, tt.want, got)
			assertDistinct(t, got)
		})
	}
}

func TestGenerate(t *testing.T) {
	g := NewGenerator(3)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single char", "g", []string{"g"}},
		{"less than max", "go", []string{"go"}},
		{"equal to max", "goo", []string{"goo"}},
		{"more than max", "good", []string{"goo", "ood"}},
		{"repeated windows", "abcabc", []string{"abc", "bca", "cab"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Generate(tt.input)
			assert.ElementsMatch(t, tt.want, got)
			assertDistinct(t, got)
		})
	}
}

// Every substring of every length up to the cap, and nothing else.
func TestGenerateAllCoversEverySubstring(t *testing.T) {
	inputs := []string{"endogeny", "amidogen", "mississippi", "x", "quiz"}
	for max := 1; max <= 9; max++ {
		g := NewGenerator(max)
		for _, s := range inputs {
			want := map[string]struct{}{}
			for n := 1; n <= min(max, len(s)); n++ {
				for i := 0; i+n <= len(s); i++ {
					want[s[i:i+n]] = struct{}{}
				}
			}

			got := g.GenerateAll(s)
			assert.Len(t, got, len(want), "max=%d s=%s", max, s)
			for _, gram := range got {
				assert.Contains(t, want, gram)
			}

			width := min(max, len(s))
			for _, gram := range g.Generate(s) {
				assert.Len(t, gram, width)
				assert.Contains(t, s, gram)
			}
		}
	}
}

func TestNewGeneratorClampsMax(t *testing.T) {
	assert.Equal(t, 1, NewGenerator(0).Max())
	assert.Equal(t, 1, NewGenerator(-4).Max())
	assert.Equal(t, 4, NewGenerator(4).Max())
}

func assertDistinct(t *testing.T, grams []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, g := range grams {
		assert.False(t, seen[g], "duplicate n-gram %q", g)
		seen[g] = true
	}
}
