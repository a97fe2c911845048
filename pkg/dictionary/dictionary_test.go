package dictionary

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTableRoundTrip(t *testing.T) {
	descending := []string{"endogeny", "fogdog", "firedog", "amidogen", "hotdog"}
	rt := NewRankTable(descending)

	var sb strings.Builder
	require.NoError(t, rt.Encode(&sb))
	assert.Equal(t, "5,endogeny,fogdog,firedog,amidogen,hotdog,", sb.String())

	path := filepath.Join(t.TempDir(), WordsFile)
	require.NoError(t, WriteRankTable(path, rt))

	loaded, err := ReadRankTable(path)
	require.NoError(t, err)
	assert.Equal(t, rt.Len(), loaded.Len())
	assert.Equal(t, descending, loaded.Descending())

	for i, w := range descending {
		wantRank := uint32(len(descending) - i)
		rank, ok := loaded.Rank(w)
		require.True(t, ok)
		assert.Equal(t, wantRank, rank)

		word, ok := loaded.Word(wantRank)
		require.True(t, ok)
		assert.Equal(t, w, word)
	}

	_, ok := loaded.Word(0)
	assert.False(t, ok)
	_, ok = loaded.Word(6)
	assert.False(t, ok)
}

func TestDecodeRankTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"trailing comma", "2,b,a,", []string{"b", "a"}, false},
		{"no trailing comma", "2,b,a", []string{"b", "a"}, false},
		{"trailing newline", "2,b,a,\n", []string{"b", "a"}, false},
		{"empty vocabulary", "0,", []string{}, false},
		{"empty file", "", nil, true},
		{"bad count", "x,a,", nil, true},
		{"negative count", "-1,", nil, true},
		{"count too large", "3,b,a,", nil, true},
		{"count too small", "1,b,a,", nil, true},
		{"empty word", "2,b,,a,", nil, true},
		{"duplicate word", "2,a,a,", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := DecodeRankTable(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedRankTable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt.Descending())
		})
	}
}

func TestReadRankTableMissing(t *testing.T) {
	_, err := ReadRankTable(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestJavaHash(t *testing.T) {
	// reference values of java.lang.String#hashCode
	assert.Equal(t, int32(0), JavaHash(""))
	assert.Equal(t, int32(97), JavaHash("a"))
	assert.Equal(t, int32(99644), JavaHash("dog"))
	assert.Equal(t, int32(99162322), JavaHash("hello"))
	assert.Equal(t, int32(math.MinInt32), JavaHash("polygenelubricants"))
}

func TestRouterNormalizesNegativeHashes(t *testing.T) {
	r, err := NewRouter(7, HashJava)
	require.NoError(t, err)

	h := JavaHash("polygenelubricants")
	require.Negative(t, h)

	b := r.Bucket("polygenelubricants")
	assert.GreaterOrEqual(t, b, 0)
	assert.Less(t, b, 7)
	assert.Equal(t, int(((int64(h)%7)+7)%7), b)
}

func TestRouterIsPure(t *testing.T) {
	for _, kind := range []HashKind{HashJava, HashXX} {
		a, err := NewRouter(50, kind)
		require.NoError(t, err)
		b, err := NewRouter(50, kind)
		require.NoError(t, err)

		for _, g := range []string{"d", "do", "dog", "ogen", "zzzz", "polygenelubricants"} {
			assert.Equal(t, a.Bucket(g), b.Bucket(g), "%s %s", kind, g)
			assert.Less(t, a.Bucket(g), 50)
			assert.GreaterOrEqual(t, a.Bucket(g), 0)
		}
	}
}

func TestRouterGroup(t *testing.T) {
	r, err := NewRouter(3, HashJava)
	require.NoError(t, err)

	grams := []string{"abc", "bcd", "cde", "def", "efg"}
	groups := r.Group(grams)

	total := 0
	for id, gs := range groups {
		total += len(gs)
		for _, g := range gs {
			assert.Equal(t, id, r.Bucket(g))
		}
	}
	assert.Equal(t, len(grams), total)
}

func TestNewRouterRejectsBadInput(t *testing.T) {
	_, err := NewRouter(0, HashJava)
	assert.Error(t, err)
	_, err = NewRouter(10, HashKind("md5"))
	assert.Error(t, err)

	r, err := NewRouter(10, "")
	require.NoError(t, err)
	assert.Equal(t, HashJava, r.Hash())
}

func TestBucketRoundTrip(t *testing.T) {
	dir := t.TempDir()

	var buf []byte
	buf = AppendPosting(buf, "dog", []uint32{10, 9, 3, 1})
	buf = AppendPosting(buf, "og", []uint32{7})
	buf = AppendPosting(buf, "do", []uint32{10, 2})
	assert.Equal(t, "dog=10,9,3,1\nog=7\ndo=10,2\n", string(buf))

	require.NoError(t, WriteBuckets(dir, [][]byte{buf, nil}))

	empty, err := os.ReadFile(BucketPath(dir, 1))
	require.NoError(t, err)
	assert.Empty(t, empty)

	got := map[string][]uint32{}
	wanted := map[string]struct{}{"dog": {}, "do": {}, "missing": {}}
	err = ScanBucket(BucketPath(dir, 0), wanted, func(ngram string, ranks []uint32) {
		got[ngram] = ranks
	})
	require.NoError(t, err)
	assert.Equal(t, map[string][]uint32{
		"dog": {10, 9, 3, 1},
		"do":  {10, 2},
	}, got)
}

func TestScanBucketSkipsUnwantedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ngrams_0")
	// the unwanted line is malformed; it must not be decoded
	require.NoError(t, os.WriteFile(path, []byte("zz=1,x,3\nab=4,2\n"), 0o644))

	var got []uint32
	err := ScanBucket(path, map[string]struct{}{"ab": {}}, func(_ string, ranks []uint32) {
		got = ranks
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{4, 2}, got)
}

func TestScanBucketErrors(t *testing.T) {
	dir := t.TempDir()

	err := ScanBucket(filepath.Join(dir, "ngrams_9"), map[string]struct{}{"a": {}}, func(string, []uint32) {})
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "ngrams_0")
	require.NoError(t, os.WriteFile(path, []byte("ab=4,x\n"), 0o644))
	err = ScanBucket(path, map[string]struct{}{"ab": {}}, func(string, []uint32) {})
	assert.ErrorIs(t, err, ErrMalformedBucket)

	require.NoError(t, os.WriteFile(path, []byte("no separator\n"), 0o644))
	err = ScanBucket(path, map[string]struct{}{"ab": {}}, func(string, []uint32) {})
	assert.ErrorIs(t, err, ErrMalformedBucket)
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	m := Manifest{MaxNGram: 3, Buckets: 50, Hash: HashJava, Words: 10, NGrams: 99, LongestWord: "endogeny"}
	require.NoError(t, WriteManifest(dir, m))

	loaded, ok, err := ReadManifest(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m, loaded)

	assert.NoError(t, loaded.Check(3, 50, HashJava))
	assert.NoError(t, loaded.Check(2, 50, HashJava))
	assert.ErrorIs(t, loaded.Check(3, 700, HashJava), ErrIndexMismatch)
	assert.ErrorIs(t, loaded.Check(3, 50, HashXX), ErrIndexMismatch)
	assert.ErrorIs(t, loaded.Check(4, 50, HashJava), ErrIndexMismatch)
}

func TestValidateIndexDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteRankTable(WordsPath(dir), NewRankTable([]string{"a"})))
	require.NoError(t, WriteBuckets(dir, make([][]byte, 3)))

	assert.NoError(t, ValidateIndexDir(dir, 3))
	assert.ErrorIs(t, ValidateIndexDir(dir, 4), ErrIndexMismatch)
	assert.ErrorIs(t, ValidateIndexDir(dir, 2), ErrIndexMismatch)
	assert.Error(t, ValidateIndexDir(filepath.Join(dir, "missing"), 3))

	require.NoError(t, os.WriteFile(WordsPath(dir), nil, 0o644))
	assert.ErrorIs(t, ValidateIndexDir(dir, 3), ErrMalformedRankTable)
}

func TestReadWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("dog\r\n\n  hotdog \nbandog"), 0o644))

	var words []string
	var lines []int
	err := ReadWordList(path, func(word string, line int) error {
		words = append(words, word)
		lines = append(lines, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "hotdog", "bandog"}, words)
	assert.Equal(t, []int{1, 3, 4}, lines)

	err = ReadWordList(filepath.Join(t.TempDir(), "missing.txt"), func(string, int) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}
