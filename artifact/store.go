package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andybalholm/lz77"
)

// A Store saves and loads one token sequence.
type Store interface {
	Save(tokens []lz77.Token) error
	Load() ([]lz77.Token, error)
}

// MemStore is a Store that keeps the artifact in memory.
type MemStore struct {
	// Options is used by Save. If it is nil, DefaultOptions is used.
	Options *Options

	data []byte
}

// NewMemStore returns a MemStore holding the artifact b.
func NewMemStore(b []byte) *MemStore {
	return &MemStore{data: b}
}

func (m *MemStore) Save(tokens []lz77.Token) error {
	b, err := Marshal(tokens, m.Options)
	if err != nil {
		return err
	}
	m.data = b
	return nil
}

func (m *MemStore) Load() ([]lz77.Token, error) {
	return Unmarshal(m.data)
}

// Bytes returns the artifact most recently saved.
func (m *MemStore) Bytes() []byte {
	return m.data
}

// FileStore is a Store backed by a file.
type FileStore struct {
	Path string

	// Options is used by Save. If it is nil, DefaultOptions is used.
	Options *Options
}

// Save writes the artifact to a temporary file next to Path and renames it
// into place, so a failed Save leaves any previous artifact intact.
func (f *FileStore) Save(tokens []lz77.Token) error {
	b, err := Marshal(tokens, f.Options)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (f *FileStore) Load() ([]lz77.Token, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	tokens, err := Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return tokens, nil
}
