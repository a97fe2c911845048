package suggest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/scrabbler/internal/logger"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/bastiangx/scrabbler/pkg/index"
	"github.com/bastiangx/scrabbler/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var dogWords = []string{
	"dog", "hotdog", "bandog", "gundog", "cantdog",
	"dogbane", "firedog", "fogdog", "amidogen", "endogeny",
}

// 1 point: a e i l n o r s t u, 2: d g, 3: b c m p, 4: f h v w y, 5: k,
// 8: j x, 10: q z
var expectedDog = []score.Word{
	{Text: "endogeny", Score: 13},
	{Text: "fogdog", Score: 12},
	{Text: "firedog", Score: 12},
	{Text: "amidogen", Score: 12},
	{Text: "hotdog", Score: 11},
	{Text: "dogbane", Score: 11},
	{Text: "cantdog", Score: 11},
	{Text: "bandog", Score: 10},
	{Text: "gundog", Score: 9},
	{Text: "dog", Score: 5},
}

func buildIndex(t testing.TB, words []string, maxNGram, buckets int, hash dictionary.HashKind) string {
	t.Helper()
	tmp := t.TempDir()
	list := filepath.Join(tmp, "words.txt")
	data := ""
	for _, w := range words {
		data += w + "\n"
	}
	require.NoError(t, os.WriteFile(list, []byte(data), 0o644))

	dir := filepath.Join(tmp, "index")
	ix, err := index.New(index.Options{
		Dir:      dir,
		MaxNGram: maxNGram,
		Buckets:  buckets,
		Hash:     hash,
		Logger:   logger.Discard(),
	})
	require.NoError(t, err)
	require.NoError(t, ix.Index(list))
	return dir
}

func loadSuggester(t testing.TB, dir string, maxNGram, buckets int, hash dictionary.HashKind) *Suggester {
	t.Helper()
	s, err := Load(Options{
		Dir:      dir,
		MaxNGram: maxNGram,
		Buckets:  buckets,
		Hash:     hash,
		Logger:   logger.Discard(),
	})
	require.NoError(t, err)
	return s
}

func dogSuggester(t *testing.T) *Suggester {
	t.Helper()
	dir := buildIndex(t, dogWords, 3, 50, dictionary.HashJava)
	return loadSuggester(t, dir, 3, 50, dictionary.HashJava)
}

func TestSuggest(t *testing.T) {
	s := dogSuggester(t)
	assert.Equal(t, len(dogWords), s.Words())

	tests := []struct {
		name  string
		query string
		top   int
		want  []score.Word
	}{
		{"top more than matches", "dog", 100, expectedDog},
		{"top equals matches", "dog", 10, expectedDog},
		{"top less than matches", "dog", 5, expectedDog[:5]},
		{"exactly one", "endogeny", 5, []score.Word{{Text: "endogeny", Score: 13}}},
		{"no suggestion", "nosuggestion", 5, []score.Word{}},
		{"zero top", "dog", 0, []score.Word{}},
		{"negative top", "dog", -1, []score.Word{}},
		{"empty query", "", 5, []score.Word{}},
		{"single letter", "f", 10, []score.Word{{Text: "fogdog", Score: 12}, {Text: "firedog", Score: 12}}},
		{"longer than max n-gram", "dogban", 10, []score.Word{{Text: "dogbane", Score: 11}}},
		{"substring filter", "ogdo", 10, []score.Word{{Text: "fogdog", Score: 12}}},
		{"case sensitive", "DOG", 10, []score.Word{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Suggest(tt.query, tt.top)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestAcrossBucketCounts(t *testing.T) {
	for _, hash := range []dictionary.HashKind{dictionary.HashJava, dictionary.HashXX} {
		for _, buckets := range []int{1, 3, 50, 700} {
			for _, maxNGram := range []int{1, 2, 3, 4, 8} {
				t.Run(fmt.Sprintf("%s/%d/%d", hash, buckets, maxNGram), func(t *testing.T) {
					dir := buildIndex(t, dogWords, maxNGram, buckets, hash)
					s := loadSuggester(t, dir, maxNGram, buckets, hash)

					got, err := s.Suggest("dog", 10)
					require.NoError(t, err)
					assert.Equal(t, expectedDog, got)
				})
			}
		}
	}
}

// Every suggestion must contain the query and the list must follow the
// descending total order.
func TestSuggestResultsAreFilteredAndOrdered(t *testing.T) {
	words := []string{
		"aback", "abacas", "abacuses", "abaca", "abacus", "abaci",
		"cab", "scab", "scabs", "jacuzzi", "quiz", "quizzes", "abc",
	}
	dir := buildIndex(t, words, 2, 4, dictionary.HashJava)
	s := loadSuggester(t, dir, 2, 4, dictionary.HashJava)

	for _, q := range []string{"a", "ab", "aba", "abac", "cab", "qu", "zz", "s"} {
		got, err := s.Suggest(q, 4)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), 4)
		for i, w := range got {
			assert.Contains(t, w.Text, q)
			if i > 0 {
				assert.Negative(t, score.Descending(got[i-1], w), "%v before %v", got[i-1], w)
			}
		}
	}
}

func TestResolveBuckets(t *testing.T) {
	s := dogSuggester(t)

	grams := []string{"dog", "end", "ndo", "oge", "gen", "eny"}
	files := s.ResolveBuckets(grams)

	total := 0
	for path, gs := range files {
		total += len(gs)
		for _, g := range gs {
			assert.Equal(t, dictionary.BucketPath(s.dir, s.router.Bucket(g)), path)
		}
	}
	assert.Equal(t, len(grams), total)
}

func TestLoadPostings(t *testing.T) {
	s := dogSuggester(t)

	postings, err := s.LoadPostings(s.ResolveBuckets([]string{"dog", "gen", "zzz"}))
	require.NoError(t, err)

	assert.Equal(t, []uint32{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, postings["dog"])
	// amidogen (rank 7) and endogeny (rank 10)
	assert.Equal(t, []uint32{10, 7}, postings["gen"])
	assert.NotContains(t, postings, "zzz")
}

func TestSuggestFailsOnUnreadableBucket(t *testing.T) {
	dir := buildIndex(t, dogWords, 3, 50, dictionary.HashJava)
	s := loadSuggester(t, dir, 3, 50, dictionary.HashJava)

	require.NoError(t, os.Remove(dictionary.BucketPath(dir, s.router.Bucket("dog"))))

	got, err := s.Suggest("dog", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, got)
}

func TestSuggestFailsOnUnknownRank(t *testing.T) {
	dir := buildIndex(t, dogWords, 3, 1, dictionary.HashJava)
	s := loadSuggester(t, dir, 3, 1, dictionary.HashJava)

	require.NoError(t, os.WriteFile(dictionary.BucketPath(dir, 0), []byte("dog=42,1\n"), 0o644))

	_, err := s.Suggest("dog", 10)
	assert.True(t, IsIndexMismatch(err), "got %v", err)
}

func TestLoadDetectsMismatch(t *testing.T) {
	dir := buildIndex(t, dogWords, 3, 50, dictionary.HashJava)

	tests := []struct {
		name string
		opts Options
	}{
		{"more buckets", Options{Dir: dir, MaxNGram: 3, Buckets: 700}},
		{"fewer buckets", Options{Dir: dir, MaxNGram: 3, Buckets: 49}},
		{"other hash", Options{Dir: dir, MaxNGram: 3, Buckets: 50, Hash: dictionary.HashXX}},
		{"wider n-grams", Options{Dir: dir, MaxNGram: 4, Buckets: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = logger.Discard()
			_, err := Load(tt.opts)
			assert.ErrorIs(t, err, ErrIndexMismatch)
		})
	}
}

// Indexes without a manifest still load; a wrong bucket count is then caught
// by the bucket files present on disk.
func TestLoadWithoutManifest(t *testing.T) {
	dir := buildIndex(t, dogWords, 3, 50, dictionary.HashJava)
	require.NoError(t, os.Remove(dictionary.ManifestPath(dir)))

	s := loadSuggester(t, dir, 3, 50, dictionary.HashJava)
	got, err := s.Suggest("dog", 3)
	require.NoError(t, err)
	assert.Equal(t, expectedDog[:3], got)

	_, err = Load(Options{Dir: dir, MaxNGram: 3, Buckets: 700, Logger: logger.Discard()})
	assert.ErrorIs(t, err, ErrIndexMismatch)
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := Load(Options{Dir: filepath.Join(t.TempDir(), "nope"), MaxNGram: 3, Buckets: 5, Logger: logger.Discard()})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty rank table", func(t *testing.T) {
		dir := buildIndex(t, dogWords, 3, 5, dictionary.HashJava)
		require.NoError(t, os.WriteFile(dictionary.WordsPath(dir), nil, 0o644))
		_, err := Load(Options{Dir: dir, MaxNGram: 3, Buckets: 5, Logger: logger.Discard()})
		assert.ErrorIs(t, err, dictionary.ErrMalformedRankTable)
	})

	t.Run("malformed rank table", func(t *testing.T) {
		dir := buildIndex(t, dogWords, 3, 5, dictionary.HashJava)
		require.NoError(t, os.WriteFile(dictionary.WordsPath(dir), []byte("3,dog,"), 0o644))
		_, err := Load(Options{Dir: dir, MaxNGram: 3, Buckets: 5, Logger: logger.Discard()})
		assert.ErrorIs(t, err, dictionary.ErrMalformedRankTable)
	})

	t.Run("rank table disagrees with manifest", func(t *testing.T) {
		dir := buildIndex(t, dogWords, 3, 5, dictionary.HashJava)
		require.NoError(t, os.WriteFile(dictionary.WordsPath(dir), []byte("1,dog,"), 0o644))
		_, err := Load(Options{Dir: dir, MaxNGram: 3, Buckets: 5, Logger: logger.Discard()})
		assert.ErrorIs(t, err, ErrIndexMismatch)
	})

	t.Run("bad options", func(t *testing.T) {
		_, err := Load(Options{Dir: t.TempDir(), MaxNGram: 0, Buckets: 5})
		assert.Error(t, err)
		_, err = Load(Options{Dir: t.TempDir(), MaxNGram: 3, Buckets: 0})
		assert.Error(t, err)
	})
}

func TestConcurrentQueries(t *testing.T) {
	s := dogSuggester(t)

	queries := []string{"dog", "endogeny", "nosuggestion", "og", "f", "dogban"}
	want := make(map[string][]score.Word, len(queries))
	for _, q := range queries {
		got, err := s.Suggest(q, 10)
		require.NoError(t, err)
		want[q] = got
	}

	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < 200; i++ {
		q := queries[i%len(queries)]
		g.Go(func() error {
			got, err := s.Suggest(q, 10)
			if err != nil {
				return err
			}
			if !assert.ObjectsAreEqual(want[q], got) {
				return fmt.Errorf("query %q: got %v, want %v", q, got, want[q])
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
