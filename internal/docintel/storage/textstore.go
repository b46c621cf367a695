package storage

import (
	"context"
	"sync"
	"time"
)

// TextStore provides in-memory storage for intake text, keyed by document ID.
// Raw text is kept only long enough to support processing and reprocessing;
// entries are automatically cleaned up after a TTL. Once an entry expires,
// a reprocess run fails at the text intake stage.
type TextStore struct {
	mu    sync.RWMutex
	texts map[string]entry
	ttl   time.Duration
}

type entry struct {
	text     string
	storedAt time.Time
}

// NewTextStore creates a new in-memory text store with the given TTL
func NewTextStore(ttl time.Duration) *TextStore {
	s := &TextStore{
		texts: make(map[string]entry),
		ttl:   ttl,
	}
	go s.cleanupLoop()
	return s
}

// Put stores the intake text for a document
func (s *TextStore) Put(documentID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[documentID] = entry{text: text, storedAt: time.Now()}
}

// Text returns the stored text for a document, or empty when absent.
// Implements the pipeline text intake contract: empty means failure.
func (s *TextStore) Text(ctx context.Context, documentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.texts[documentID].text, nil
}

// Delete removes the stored text for a document
func (s *TextStore) Delete(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.texts, documentID)
}

// cleanupLoop periodically removes expired entries
func (s *TextStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

func (s *TextStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	for id, e := range s.texts {
		if e.storedAt.Before(cutoff) {
			delete(s.texts, id)
		}
	}
}
