package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

var ErrSlotEmpty = errors.New("session slot empty")

// Storage keeps one opaque value per role slot.
type Storage interface {
	Load(slot string) ([]byte, error)
	Save(slot string, data []byte) error
	Delete(slot string) error
}

// FileStorage writes each slot to its own file under Dir.
type FileStorage struct {
	Dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{Dir: dir}
}

func (f *FileStorage) path(slot string) string {
	return filepath.Join(f.Dir, slot+".session")
}

func (f *FileStorage) Load(slot string) ([]byte, error) {
	data, err := os.ReadFile(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	return data, err
}

func (f *FileStorage) Save(slot string, data []byte) error {
	if err := os.MkdirAll(f.Dir, 0o700); err != nil {
		return err
	}
	tmp := f.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(slot))
}

func (f *FileStorage) Delete(slot string) error {
	err := os.Remove(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStorage) Save(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Delete(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}
