package claim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// MemStore is an in-memory Store. It backs tests and the --memory serve mode;
// records do not survive the process.
type MemStore struct {
	mu     sync.RWMutex
	claims map[string]Claim
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{claims: make(map[string]Claim)}
}

// newID generates a string ULID for a freshly inserted record.
func newID() string {
	now := time.Now()
	entropy := rand.New(rand.NewSource(now.UnixNano()))
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Insert validates and stores a new claim under a fresh ULID.
func (s *MemStore) Insert(_ context.Context, c Claim) (Claim, error) {
	if err := c.Validate(); err != nil {
		return Claim{}, fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = newID()
	for {
		if _, exists := s.claims[c.ID]; !exists {
			break
		}
		c.ID = newID()
	}
	s.claims[c.ID] = c
	return c, nil
}

// FindBySubject returns all claims whose subject matches to.
func (s *MemStore) FindBySubject(_ context.Context, to string) ([]Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Claim{}
	for _, c := range s.claims {
		if c.To == to {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindByAttester returns all claims whose attester matches attester.
func (s *MemStore) FindByAttester(_ context.Context, attester string) ([]Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Claim{}
	for _, c := range s.claims {
		if c.Attester == attester {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindByID returns the claim with the given ID, or nil if absent.
func (s *MemStore) FindByID(_ context.Context, id string) (*Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.claims[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// DeleteByID removes the claim and reports whether it existed.
func (s *MemStore) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[id]; !ok {
		return false, nil
	}
	delete(s.claims, id)
	return true, nil
}

// Len reports the number of stored claims. Test helper.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims)
}
