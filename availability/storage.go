// Package availability implements the data-availability collaborators
// the dispute core treats as opaque contracts: content-addressed
// storage, a placeholder erasure code, and Merkle-path sampling.
package availability

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/wienerlabs/archimedes/log"
)

var storageLogger = log.Default().Module("availability.storage")

// Storage errors.
var (
	ErrContentNotFound = errors.New("availability: content not found")
	ErrStorageFull     = errors.New("availability: storage full")
)

// ContentId is the SHA-256 digest of stored content, used as its
// address.
type ContentId [32]byte

// ContentIdFromData derives the content id of data.
func ContentIdFromData(data []byte) ContentId {
	return ContentId(sha256.Sum256(data))
}

// Hex returns the lowercase hex encoding of the content id.
func (c ContentId) Hex() string {
	return hex.EncodeToString(c[:])
}

type storedContent struct {
	data           []byte
	timestamp      uint64
	referenceCount uint32
}

// Storage is reference-counted content-addressed storage bounded by a
// total byte budget. Every method takes the store's internal lock, so it
// is safe to call from more than one goroutine.
type Storage struct {
	mu          sync.RWMutex
	entries     map[ContentId]*storedContent
	maxSize     int
	currentSize int
}

// NewStorage creates an empty store bounded by maxSize bytes.
func NewStorage(maxSize int) *Storage {
	return &Storage{entries: make(map[ContentId]*storedContent), maxSize: maxSize}
}

// Store content-addresses data and inserts it, or bumps the reference
// count if identical content is already present. Fails with
// ErrStorageFull if the insert would exceed the size budget; a
// reference-count bump on existing content never fails on size.
func (s *Storage) Store(data []byte, timestamp uint64) (ContentId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ContentIdFromData(data)
	if existing, ok := s.entries[id]; ok {
		existing.referenceCount++
		return id, nil
	}

	if s.currentSize+len(data) > s.maxSize {
		storageLogger.Warn("store rejected: budget exceeded", "id", id.Hex(), "size", len(data))
		return ContentId{}, ErrStorageFull
	}

	s.entries[id] = &storedContent{data: data, timestamp: timestamp, referenceCount: 1}
	s.currentSize += len(data)
	return id, nil
}

// Retrieve returns the stored bytes for id.
func (s *Storage) Retrieve(id ContentId) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.entries[id]
	if !ok {
		return nil, ErrContentNotFound
	}
	return content.data, nil
}

// Exists reports whether id is currently stored.
func (s *Storage) Exists(id ContentId) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Remove decrements id's reference count, freeing the entry and its
// budget once the count reaches zero. Removing an absent id is a no-op.
func (s *Storage) Remove(id ContentId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.entries[id]
	if !ok {
		return nil
	}
	if content.referenceCount > 0 {
		content.referenceCount--
	}
	if content.referenceCount == 0 {
		s.currentSize -= len(content.data)
		delete(s.entries, id)
	}
	return nil
}

// Size returns the current total stored byte count.
func (s *Storage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}
