package securestore

import (
	"encoding/json"
	"os"
	"sync"
)

// FileBackend persists entries as a single JSON file, mirroring what local
// storage gives a browser client. Writes are flushed immediately.
type FileBackend struct {
	path string
	mu   sync.Mutex
	m    map[string]string
}

func NewFileBackend(path string) (*FileBackend, error) {
	b := &FileBackend{path: path, m: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &b.m); err != nil {
		// A mangled file is treated as an empty store rather than an error,
		// consistent with tamper handling.
		b.m = make(map[string]string)
	}
	return b, nil
}

func (b *FileBackend) Get(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	return v, ok
}

func (b *FileBackend) Set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = value
	b.flush()
}

func (b *FileBackend) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, key)
	b.flush()
}

func (b *FileBackend) flush() {
	data, err := json.Marshal(b.m)
	if err != nil {
		return
	}
	_ = os.WriteFile(b.path, data, 0o600)
}
