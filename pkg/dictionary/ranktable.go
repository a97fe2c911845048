package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// RankTable is the rank <-> word bijection of an indexed vocabulary.
// Ranks are dense in [1, Len()]; rank Len() is the best word.
type RankTable struct {
	byRank []string // byRank[r-1] is the word of rank r
	ranks  map[string]uint32
}

// NewRankTable builds a table from words in descending total order: the first
// word receives rank len(words), the last rank 1.
func NewRankTable(descending []string) *RankTable {
	n := len(descending)
	rt := &RankTable{
		byRank: make([]string, n),
		ranks:  make(map[string]uint32, n),
	}
	for i, w := range descending {
		rank := n - i
		rt.byRank[rank-1] = w
		rt.ranks[w] = uint32(rank)
	}
	return rt
}

// Len returns the vocabulary size.
func (rt *RankTable) Len() int {
	return len(rt.byRank)
}

// Word returns the word holding rank.
func (rt *RankTable) Word(rank uint32) (string, bool) {
	if rank < 1 || int(rank) > len(rt.byRank) {
		return "", false
	}
	return rt.byRank[rank-1], true
}

// Rank returns the rank of word.
func (rt *RankTable) Rank(word string) (uint32, bool) {
	r, ok := rt.ranks[word]
	return r, ok
}

// Descending returns the words from rank Len() down to rank 1.
func (rt *RankTable) Descending() []string {
	words := make([]string, len(rt.byRank))
	for i := range rt.byRank {
		words[i] = rt.byRank[len(rt.byRank)-1-i]
	}
	return words
}

// Encode writes the table as "<count>,<word_N>,...,<word_1>," to w.
func (rt *RankTable) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strconv.Itoa(rt.Len()))
	bw.WriteByte(',')
	for i := len(rt.byRank) - 1; i >= 0; i-- {
		bw.WriteString(rt.byRank[i])
		bw.WriteByte(',')
	}
	return bw.Flush()
}

// WriteRankTable persists rt to path.
func WriteRankTable(path string, rt *RankTable) error {
	var buf bytes.Buffer
	if err := rt.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode rank table: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write rank table %s: %w", path, err)
	}
	return nil
}

// DecodeRankTable reads a table in the format produced by Encode. The
// trailing comma is optional. The declared count must match the number of
// listed words.
func DecodeRankTable(r io.Reader) (*RankTable, error) {
	reader := bufio.NewReader(r)

	head, err := reader.ReadString(',')
	if err != nil && (err != io.EOF || head == "") {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty", ErrMalformedRankTable)
		}
		return nil, fmt.Errorf("failed to read rank table header: %w", err)
	}
	count, convErr := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(head, ",")))
	if convErr != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad count %q", ErrMalformedRankTable, head)
	}

	words := make([]string, 0, count)
	for {
		token, err := reader.ReadString(',')
		token = strings.TrimSuffix(token, ",")
		if err == io.EOF {
			// last token may be a trailing newline or nothing at all
			if token = strings.TrimSpace(token); token != "" {
				words = append(words, token)
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rank table: %w", err)
		}
		if token == "" {
			return nil, fmt.Errorf("%w: empty word after %d entries", ErrMalformedRankTable, len(words))
		}
		words = append(words, token)
	}

	if len(words) != count {
		return nil, fmt.Errorf("%w: header declares %d words, found %d", ErrMalformedRankTable, count, len(words))
	}

	rt := NewRankTable(words)
	if len(rt.ranks) != count {
		return nil, fmt.Errorf("%w: duplicate words", ErrMalformedRankTable)
	}
	return rt, nil
}

// ReadRankTable loads the table stored at path.
func ReadRankTable(path string) (*RankTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rank table %s: %w", path, err)
	}
	defer file.Close()

	rt, err := DecodeRankTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Rank table %s loaded: %d words", path, rt.Len())
	return rt, nil
}
