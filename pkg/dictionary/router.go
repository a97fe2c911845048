package dictionary

import (
	"fmt"
	"unicode/utf16"

	"github.com/cespare/xxhash/v2"
)

// HashKind names the string hash used to route n-grams to buckets.
type HashKind string

const (
	// HashJava is the 31-multiplier string hash over UTF-16 code units. It
	// matches the bucket placement of indexes built by the original Java tools.
	HashJava HashKind = "java"
	// HashXX routes with xxhash64.
	HashXX HashKind = "xxhash"
)

// ParseHashKind validates a configured hash name. Empty means HashJava.
func ParseHashKind(s string) (HashKind, error) {
	switch HashKind(s) {
	case "", HashJava:
		return HashJava, nil
	case HashXX:
		return HashXX, nil
	}
	return "", fmt.Errorf("unknown bucket hash %q (expected %q or %q)", s, HashJava, HashXX)
}

// JavaHash computes s[0]*31^(n-1) + ... + s[n-1] over UTF-16 code units with
// 32-bit wraparound. The result may be negative.
func JavaHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h = 31*h + int32(hi)
			h = 31*h + int32(lo)
			continue
		}
		h = 31*h + int32(r)
	}
	return h
}

// Router maps an n-gram to one of a fixed number of buckets. Placement is a
// pure function of the n-gram, the hash kind and the bucket count.
type Router struct {
	buckets int
	hash    HashKind
}

// NewRouter returns a Router over buckets buckets.
func NewRouter(buckets int, hash HashKind) (*Router, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("bucket count must be at least 1, got %d", buckets)
	}
	if _, err := ParseHashKind(string(hash)); err != nil {
		return nil, err
	}
	if hash == "" {
		hash = HashJava
	}
	return &Router{buckets: buckets, hash: hash}, nil
}

// Buckets returns the bucket count.
func (r *Router) Buckets() int {
	return r.buckets
}

// Hash returns the hash kind.
func (r *Router) Hash() HashKind {
	return r.hash
}

// Bucket returns the bucket id of ngram, always in [0, Buckets()).
func (r *Router) Bucket(ngram string) int {
	if r.hash == HashXX {
		return int(xxhash.Sum64String(ngram) % uint64(r.buckets))
	}
	return normalize(int64(JavaHash(ngram)), r.buckets)
}

// Group collects ngrams by bucket id so each bucket is read at most once.
func (r *Router) Group(ngrams []string) map[int][]string {
	groups := make(map[int][]string)
	for _, g := range ngrams {
		id := r.Bucket(g)
		groups[id] = append(groups[id], g)
	}
	return groups
}

func normalize(h int64, n int) int {
	m := int64(n)
	return int(((h % m) + m) % m)
}
