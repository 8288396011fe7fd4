// Package replay tracks accepted transaction hashes so a single
// on-chain payment can never be redeemed twice.
package replay

import (
	"strings"
	"sync"
)

// Guard is the replay-protection store. Entries never expire; Clear is
// an administrative escape hatch for recovery and tests.
type Guard interface {
	// Has reports whether the hash was already accepted.
	Has(txHash string) (bool, error)

	// CheckAndInsert atomically records the hash and reports
	// whether this call inserted it. Exactly one of any set of
	// concurrent callers for the same hash observes true.
	CheckAndInsert(txHash string) (bool, error)

	// Clear removes a recorded hash.
	Clear(txHash string) error

	Close() error
}

// MemoryGuard is the single-process Guard. Acceptance state is lost on
// restart; multi-instance deployments need the durable variant.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ Guard = (*MemoryGuard)(nil)

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

func (g *MemoryGuard) Has(txHash string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[normalize(txHash)]
	return ok, nil
}

func (g *MemoryGuard) CheckAndInsert(txHash string) (bool, error) {
	key := normalize(txHash)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = struct{}{}
	return true, nil
}

func (g *MemoryGuard) Clear(txHash string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, normalize(txHash))
	return nil
}

func (g *MemoryGuard) Close() error {
	return nil
}

// Hash comparisons are case-insensitive; nodes and wallets disagree on
// hex casing.
func normalize(txHash string) string {
	return strings.ToLower(strings.TrimSpace(txHash))
}
