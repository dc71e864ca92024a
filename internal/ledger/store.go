package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"

	"scribe/internal/fileutil"
)

// Store is the injected persistence backend for a ledger. File-backed in
// production, in-memory for tests, so stage logic is testable without
// touching a filesystem.
type Store interface {
	// Load returns the persisted ledger file, or a zero File when none
	// exists yet.
	Load() (File, error)
	// Save durably persists the full ledger file.
	Save(File) error
}

// FileStore persists the ledger as an indented JSON file. Construction
// acquires an advisory lock next to the ledger so two stage instances can
// never write the same ledger concurrently.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore creates a file-backed store for path and takes the writer
// lock. Callers must Close the store when the run finishes.
func NewFileStore(path string) (*FileStore, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("ledger %s is in use by another process", path)
	}
	return &FileStore{path: path, lock: lock}, nil
}

// Path returns the ledger file path.
func (s *FileStore) Path() string {
	return s.path
}

// Close releases the writer lock.
func (s *FileStore) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Load reads the ledger file. Absence is not an error.
func (s *FileStore) Load() (File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read ledger %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return File{}, nil
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse ledger %s: %w", s.path, err)
	}
	return file, nil
}

// Save rewrites the whole ledger file atomically.
func (s *FileStore) Save(file File) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("persist ledger %s: %w", s.path, err)
	}
	return nil
}

// Inspect reads a ledger file without taking the writer lock, for read-only
// status reporting while a run may be in progress.
func Inspect(path string) (File, error) {
	store := &FileStore{path: path}
	return store.Load()
}

// MemoryStore keeps the ledger in memory. Tests inject it to observe every
// flush; SaveCount exposes how many flushes occurred.
type MemoryStore struct {
	file      File
	saves     int
	failAfter int
	failErr   error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{failAfter: -1}
}

// Seed replaces the stored file, simulating a pre-existing ledger.
func (s *MemoryStore) Seed(file File) {
	s.file = file
}

// FailAfter makes the nth subsequent Save return err, simulating a crash
// between an artifact write and the ledger flush.
func (s *MemoryStore) FailAfter(n int, err error) {
	s.failAfter = n
	s.failErr = err
}

// Load returns the stored file.
func (s *MemoryStore) Load() (File, error) {
	return s.file, nil
}

// Save stores the file.
func (s *MemoryStore) Save(file File) error {
	if s.failAfter >= 0 {
		if s.failAfter == 0 {
			s.failAfter = -1
			return s.failErr
		}
		s.failAfter--
	}
	s.file = file
	s.saves++
	return nil
}

// SaveCount returns the number of successful saves.
func (s *MemoryStore) SaveCount() int {
	return s.saves
}

// Snapshot returns the last saved file.
func (s *MemoryStore) Snapshot() File {
	return s.file
}
