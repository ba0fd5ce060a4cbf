package bucket

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// Store reads and writes bucket artifacts: one newline-delimited lemma list
// per (class, bucket index), named "{nouns|adj}-{i}.txt".
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the artifact path for a class and bucket index.
func (s *Store) Path(class domain.WordClass, index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%d.txt", class.ArtifactPrefix(), index))
}

// WriteAll writes every bucket to its artifact.
func (s *Store) WriteAll(buckets []domain.Bucket) error {
	for _, b := range buckets {
		if err := s.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// Write replaces the artifact of a single bucket. An empty bucket produces
// an empty file.
func (s *Store) Write(b domain.Bucket) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create bucket dir: %w", err)
	}

	path := s.Path(b.Class, b.Index)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create bucket file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, lemma := range b.Lemmas {
		w.WriteString(lemma)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write bucket %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bucket %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename bucket %s: %w", path, err)
	}
	return nil
}

// ReadAll reads the domain.BucketCount buckets of a class.
func (s *Store) ReadAll(class domain.WordClass) ([]domain.Bucket, error) {
	buckets := make([]domain.Bucket, domain.BucketCount)
	for i := range buckets {
		b, err := s.Read(class, i)
		if err != nil {
			return nil, err
		}
		buckets[i] = b
	}
	return buckets, nil
}

// Read loads one bucket. A missing artifact yields an empty bucket. Blank
// lines are skipped and a repeated lemma is kept only once, in the position
// of its first occurrence.
func (s *Store) Read(class domain.WordClass, index int) (domain.Bucket, error) {
	b := domain.Bucket{Class: class, Index: index}

	path := s.Path(class, index)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return b, fmt.Errorf("open bucket %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		b.Lemmas = append(b.Lemmas, line)
	}
	if err := sc.Err(); err != nil {
		return b, fmt.Errorf("read bucket %s: %w", path, err)
	}
	return b, nil
}
