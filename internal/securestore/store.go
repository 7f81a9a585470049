// Package securestore is the client-side cache wrapper for balance and streak
// values. Stored payloads are XOR-obfuscated against a configured key and
// paired with a rolling-hash checksum of the plaintext so casual edits are
// detected on load.
//
// This is obfuscation plus integrity, not cryptography: the key ships with
// the client, so it offers no confidentiality against anyone willing to read
// the binary. It only raises the cost of naive tampering.
package securestore

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
)

const checksumSuffix = "_checksum"

// Backend is the persistent byte store underneath, typically local storage
// on the client or a small file on disk.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

type Store struct {
	backend Backend
	key     []byte
	log     *zap.Logger
}

func New(backend Backend, obfuscationKey string, log *zap.Logger) *Store {
	return &Store{backend: backend, key: []byte(obfuscationKey), log: log}
}

// Save serializes value, obfuscates it and writes it together with a checksum
// of the plaintext under key+"_checksum".
func (s *Store) Save(key string, value any) error {
	plain, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.backend.Set(key, base64.StdEncoding.EncodeToString(s.xor(plain)))
	s.backend.Set(key+checksumSuffix, checksum(plain))
	return nil
}

// Load reverses the obfuscation and unmarshals into out. It reports false
// when the key is absent or the checksum does not match the recovered
// plaintext; tampering is logged and the value silently discarded so a
// corrupted cache never crashes the caller.
func (s *Store) Load(key string, out any) bool {
	encoded, ok := s.backend.Get(key)
	if !ok {
		return false
	}
	storedSum, ok := s.backend.Get(key + checksumSuffix)
	if !ok {
		return false
	}

	obfuscated, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.log.Warn("cache entry not decodable, discarding", zap.String("key", key))
		return false
	}

	plain := s.xor(obfuscated)
	if checksum(plain) != storedSum {
		s.log.Warn("data tampering detected, discarding cache entry", zap.String("key", key))
		return false
	}

	if err := json.Unmarshal(plain, out); err != nil {
		s.log.Warn("cache entry not parseable, discarding", zap.String("key", key))
		return false
	}
	return true
}

// Clear removes the value and its checksum.
func (s *Store) Clear(key string) {
	s.backend.Delete(key)
	s.backend.Delete(key + checksumSuffix)
}

func (s *Store) xor(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ s.key[i%len(s.key)]
	}
	return out
}

// checksum is a rolling hash (h = h*31 + c over signed 32 bits) of the
// serialized plaintext, rendered in base 36.
func checksum(data []byte) string {
	var h int32
	for _, c := range data {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 36)
}

// MemoryBackend is an in-process Backend, used in tests and as a default for
// short-lived tooling.
type MemoryBackend struct {
	m map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{m: make(map[string]string)}
}

func (b *MemoryBackend) Get(key string) (string, bool) {
	v, ok := b.m[key]
	return v, ok
}

func (b *MemoryBackend) Set(key, value string) { b.m[key] = value }

func (b *MemoryBackend) Delete(key string) { delete(b.m, key) }
