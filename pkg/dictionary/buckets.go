package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
)

const (
	keySep  = '='
	rankSep = ','
)

// AppendPosting appends the line "<ngram>=<r1>,<r2>,...\n" to dst. ranks must
// already be in descending order.
func AppendPosting(dst []byte, ngram string, ranks []uint32) []byte {
	dst = append(dst, ngram...)
	dst = append(dst, keySep)
	for i, r := range ranks {
		if i > 0 {
			dst = append(dst, rankSep)
		}
		dst = strconv.AppendUint(dst, uint64(r), 10)
	}
	return append(dst, '\n')
}

// WriteBuckets writes one file per bucket under dir. A bucket without
// postings still gets an empty file.
func WriteBuckets(dir string, buckets [][]byte) error {
	for id, data := range buckets {
		path := BucketPath(dir, id)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write bucket %s: %w", path, err)
		}
	}
	return nil
}

// ScanBucket reads the bucket file at path and calls fn for every line whose
// n-gram is in wanted, with its ranks in on-disk order. Other lines are
// skipped without decoding their rank lists.
func ScanBucket(path string, wanted map[string]struct{}, fn func(ngram string, ranks []uint32)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open bucket %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	remaining := len(wanted)
	lineNo := 0
	for remaining > 0 && scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		sep := bytes.IndexByte(line, keySep)
		if sep < 0 {
			return fmt.Errorf("%w: %s:%d: missing %q", ErrMalformedBucket, path, lineNo, keySep)
		}
		if _, ok := wanted[string(line[:sep])]; !ok {
			continue
		}

		ranks, err := parseRanks(line[sep+1:])
		if err != nil {
			return fmt.Errorf("%w: %s:%d: %v", ErrMalformedBucket, path, lineNo, err)
		}
		fn(string(line[:sep]), ranks)
		remaining--
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read bucket %s: %w", path, err)
	}
	return nil
}

func parseRanks(b []byte) ([]uint32, error) {
	if len(b) == 0 {
		return []uint32{}, nil
	}
	ranks := make([]uint32, 0, bytes.Count(b, []byte{rankSep})+1)
	for len(b) > 0 {
		end := bytes.IndexByte(b, rankSep)
		field := b
		if end >= 0 {
			field, b = b[:end], b[end+1:]
		} else {
			b = nil
		}
		r, err := strconv.ParseUint(string(field), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad rank %q", field)
		}
		ranks = append(ranks, uint32(r))
	}
	return ranks, nil
}
