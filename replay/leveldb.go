package replay

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	lderrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// bits per key of the bloom filter; too small raises the false
// positive rate.
const bitsPerKey = 10

var acceptedPrefix = []byte("accepted/")

// LevelGuard is the durable Guard, backed by LevelDB. Acceptance
// survives process restarts, which production deployments require.
type LevelGuard struct {
	db *leveldb.DB

	// LevelDB has no compare-and-set; the mutex makes
	// CheckAndInsert atomic across goroutines of this process.
	mu sync.Mutex
}

var _ Guard = (*LevelGuard)(nil)

// NewLevelGuard opens (or creates) the store at the given path,
// recovering from a corrupted database when possible.
func NewLevelGuard(path string) (*LevelGuard, error) {
	o := opt.Options{
		NoSync: false,
		Filter: filter.NewBloomFilter(bitsPerKey),
	}

	db, err := leveldb.OpenFile(path, &o)
	if _, corrupted := err.(*lderrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}

	return &LevelGuard{db: db}, nil
}

func (g *LevelGuard) Has(txHash string) (bool, error) {
	return g.db.Has(key(txHash), nil)
}

func (g *LevelGuard) CheckAndInsert(txHash string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key(txHash)
	exists, err := g.db.Has(k, nil)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := g.db.Put(k, []byte{1}, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (g *LevelGuard) Clear(txHash string) error {
	return g.db.Delete(key(txHash), nil)
}

func (g *LevelGuard) Close() error {
	return g.db.Close()
}

func key(txHash string) []byte {
	return append(append([]byte{}, acceptedPrefix...), normalize(txHash)...)
}
