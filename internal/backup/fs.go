package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// validHash matches a lowercase hex-encoded SHA256 hash (64 characters).
var validHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

// FSStore implements Archive using the local filesystem.
// Snapshots are stored in a two-level directory structure using the first
// two characters of the hash as a prefix directory. The file modification
// time is the snapshot time.
type FSStore struct {
	root string
	now  func() time.Time
}

var _ Archive = (*FSStore)(nil)

// NewFSStore creates a filesystem-backed archive rooted at the given directory.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create backup root: %w", err)
	}
	return &FSStore{root: root, now: time.Now}, nil
}

// Root returns the archive directory.
func (s *FSStore) Root() string {
	return s.root
}

// Has checks whether a snapshot exists.
func (s *FSStore) Has(_ context.Context, hash string) (bool, error) {
	if !validHash.MatchString(hash) {
		return false, nil
	}
	_, err := os.Stat(s.dataPath(hash))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat backup %s: %w", hash, err)
	}
	return true, nil
}

// Get opens a snapshot for reading.
// Returns ErrNotFound if the snapshot does not exist.
func (s *FSStore) Get(_ context.Context, hash string) (io.ReadCloser, Entry, error) {
	if !validHash.MatchString(hash) {
		return nil, Entry{}, ErrNotFound
	}
	entry, err := s.entry(hash)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Entry{}, ErrNotFound
		}
		return nil, Entry{}, fmt.Errorf("stat backup %s: %w", hash, err)
	}

	f, err := os.Open(s.dataPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Entry{}, ErrNotFound
		}
		return nil, Entry{}, fmt.Errorf("open backup %s: %w", hash, err)
	}
	return f, entry, nil
}

// Put stores a snapshot read from r. The hash is computed while writing.
func (s *FSStore) Put(_ context.Context, r io.Reader, snippets int) (Entry, error) {
	// Write to temp file in the root, hashing as we go
	tmpFile, err := os.CreateTemp(s.root, ".backup-*")
	if err != nil {
		return Entry{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmpFile, hasher), r)
	if err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return Entry{}, fmt.Errorf("write backup data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return Entry{}, fmt.Errorf("close temp file: %w", err)
	}

	hash := hex.EncodeToString(hasher.Sum(nil))
	dataPath := s.dataPath(hash)
	now := s.now()

	// Already archived: keep one copy and mark it as the newest.
	if _, err := os.Stat(dataPath); err == nil {
		os.Remove(tmpPath)
		if err := os.Chtimes(dataPath, now, now); err != nil {
			return Entry{}, fmt.Errorf("touch backup %s: %w", hash, err)
		}
		return s.entry(hash)
	}

	if err := os.MkdirAll(filepath.Dir(dataPath), 0755); err != nil {
		os.Remove(tmpPath)
		return Entry{}, fmt.Errorf("create backup dir: %w", err)
	}

	// Meta first, so a visible snapshot always has its count
	if err := os.WriteFile(s.metaPath(hash), []byte(strconv.Itoa(snippets)), 0644); err != nil {
		os.Remove(tmpPath)
		return Entry{}, fmt.Errorf("write backup meta: %w", err)
	}

	if err := os.Rename(tmpPath, dataPath); err != nil {
		os.Remove(tmpPath)
		return Entry{}, fmt.Errorf("rename backup: %w", err)
	}
	if err := os.Chtimes(dataPath, now, now); err != nil {
		return Entry{}, fmt.Errorf("touch backup %s: %w", hash, err)
	}

	return Entry{Hash: hash, Size: size, Snippets: snippets, CreatedAt: now}, nil
}

// Delete removes a snapshot and its metadata file.
func (s *FSStore) Delete(_ context.Context, hash string) error {
	if !validHash.MatchString(hash) {
		return nil
	}
	if err := os.Remove(s.dataPath(hash)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove backup %s: %w", hash, err)
	}
	os.Remove(s.metaPath(hash))
	return nil
}

// List returns all snapshots by scanning the directory tree, newest first.
func (s *FSStore) List(_ context.Context) ([]Entry, error) {
	var entries []Entry

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasSuffix(path, ".meta") || strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		// Reconstruct hash from path: root/ab/cd... -> abcd...
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) != 2 || !validHash.MatchString(parts[0]+parts[1]) {
			return nil
		}
		entries = append(entries, Entry{
			Hash:      parts[0] + parts[1],
			Size:      info.Size(),
			Snippets:  s.readCount(parts[0] + parts[1]),
			CreatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan backups: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Hash < entries[j].Hash
	})
	return entries, nil
}

// Resolve finds a snapshot by full hash or unique prefix.
func (s *FSStore) Resolve(ctx context.Context, prefix string) (Entry, error) {
	if validHash.MatchString(prefix) {
		ok, err := s.Has(ctx, prefix)
		if err != nil {
			return Entry{}, err
		}
		if !ok {
			return Entry{}, ErrNotFound
		}
		return s.entry(prefix)
	}

	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	var match *Entry
	for i := range entries {
		if prefix != "" && strings.HasPrefix(entries[i].Hash, prefix) {
			if match != nil {
				return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return *match, nil
}

func (s *FSStore) entry(hash string) (Entry, error) {
	info, err := os.Stat(s.dataPath(hash))
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Hash:      hash,
		Size:      info.Size(),
		Snippets:  s.readCount(hash),
		CreatedAt: info.ModTime(),
	}, nil
}

// dataPath returns the filesystem path for a snapshot.
func (s *FSStore) dataPath(hash string) string {
	return filepath.Join(s.root, hash[:2], hash[2:])
}

// metaPath returns the filesystem path for a snapshot's metadata.
func (s *FSStore) metaPath(hash string) string {
	return s.dataPath(hash) + ".meta"
}

// readCount reads the snippet count from a metadata file, or -1 if unknown.
func (s *FSStore) readCount(hash string) int {
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return -1
	}
	return n
}
