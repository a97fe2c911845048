package dictionary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest records the parameters an index directory was built with.
type Manifest struct {
	MaxNGram    int      `toml:"max_ngram"`
	Buckets     int      `toml:"buckets"`
	Hash        HashKind `toml:"hash"`
	Words       int      `toml:"words"`
	NGrams      int      `toml:"ngrams"`
	LongestWord string   `toml:"longest_word"`
}

// WriteManifest saves m under dir.
func WriteManifest(dir string, m Manifest) error {
	path := ManifestPath(dir)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", path, err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads the manifest under dir. The bool is false when the
// directory has none, which is the case for indexes built by older tools.
func ReadManifest(dir string) (Manifest, bool, error) {
	var m Manifest
	path := ManifestPath(dir)
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, false, nil
		}
		return Manifest{}, false, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	if m.Hash == "" {
		m.Hash = HashJava
	}
	return m, true, nil
}

// Check fails with ErrIndexMismatch if the index was built with different
// routing parameters. A query-side maxNGram larger than the indexed one
// would look up n-grams that were never written.
func (m Manifest) Check(maxNGram, buckets int, hash HashKind) error {
	if m.Buckets != buckets {
		return fmt.Errorf("%w: index has %d buckets, reader expects %d", ErrIndexMismatch, m.Buckets, buckets)
	}
	if m.Hash != hash {
		return fmt.Errorf("%w: index routed with %q, reader uses %q", ErrIndexMismatch, m.Hash, hash)
	}
	if maxNGram > m.MaxNGram {
		return fmt.Errorf("%w: index holds n-grams up to %d, reader asks for %d", ErrIndexMismatch, m.MaxNGram, maxNGram)
	}
	return nil
}
