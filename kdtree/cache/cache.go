// Package cache provides stores for serialized kd-trees.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/JerryBerry12/glare-core-sub000/log"
	"github.com/klauspost/compress/zstd"
)

const entryExt = ".kdtree.zst"

// A store that keeps zstd-compressed entries as files in a directory.
type Dir struct {
	path   string
	logger log.Logger
}

// Open a directory store, creating the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("cache: could not create %s: %w", path, err)
	}
	return &Dir{
		path:   path,
		logger: log.New("kdtree dir cache"),
	}, nil
}

// The file holding the entry for checksum.
func (d *Dir) EntryPath(checksum uint32) string {
	return filepath.Join(d.path, fmt.Sprintf("%08x%s", checksum, entryExt))
}

// Load and decompress the entry for checksum.
func (d *Dir) Load(checksum uint32) ([]byte, error) {
	f, err := os.Open(d.EntryPath(checksum))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %08x", kdtree.ErrCacheMiss, checksum)
		}
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("cache: could not decompress %s: %w", d.EntryPath(checksum), err)
	}
	return data, nil
}

// Compress and store the entry for checksum. The entry is written to a
// temporary file first and renamed into place.
func (d *Dir) Store(checksum uint32, entry []byte) error {
	tmp, err := os.CreateTemp(d.path, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		tmp.Close()
		return fmt.Errorf("cache: %w", err)
	}
	if _, err = enc.Write(entry); err != nil {
		enc.Close()
		tmp.Close()
		return fmt.Errorf("cache: %w", err)
	}
	if err = enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if err = os.Rename(tmp.Name(), d.EntryPath(checksum)); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	d.logger.Debugf("stored %d byte entry for %08x", len(entry), checksum)
	return nil
}

// An in-memory store. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[uint32][]byte
}

// Create an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[uint32][]byte),
	}
}

// Load a copy of the entry for checksum.
func (m *Memory) Load(checksum uint32) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[checksum]
	if !ok {
		return nil, fmt.Errorf("%w: %08x", kdtree.ErrCacheMiss, checksum)
	}
	return append([]byte(nil), entry...), nil
}

// Store a copy of the entry for checksum.
func (m *Memory) Store(checksum uint32, entry []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[checksum] = append([]byte(nil), entry...)
	return nil
}

// The number of stored entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
