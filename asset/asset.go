// Package asset classifies payment assets as native coin or ERC-20
// token and resolves the fixed-point scale to verify amounts at.
package asset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gocache "github.com/patrickmn/go-cache"

	"github.com/artfusion/paygate/chain"
	"github.com/artfusion/paygate/logger"
)

// NativeDecimals is the protocol-fixed scale of the native coin.
const NativeDecimals uint8 = 18

// nativePlaceholder is the conventional 0xeee...eee marker some
// integrations use for the native coin.
const nativePlaceholder = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

var nativeMarkers = map[string]struct{}{
	"":                {},
	"native":          {},
	nativePlaceholder: {},
	"0x0000000000000000000000000000000000000000": {},
}

// IsNative reports whether an asset identifier refers to the chain's
// native coin. Absent input is native: the cheaper, simpler path is
// the fail-safe default.
func IsNative(addr string) bool {
	_, ok := nativeMarkers[Normalize(addr)]
	return ok
}

// Normalize trims and lowercases an asset identifier for comparison.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Resolver resolves asset decimals, caching token lookups.
type Resolver struct {
	client chain.Client
	cache  *gocache.Cache
	strict bool
	log    logger.Logger
}

// NewResolver builds a resolver. With strict disabled any failing
// decimals() lookup falls back to 18; a token with genuinely non-18
// decimals and a broken decimals() call will then be verified against
// the wrong scale, which is the documented trade-off of that mode.
func NewResolver(client chain.Client, cacheTTL time.Duration, strict bool, log logger.Logger) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Resolver{
		client: client,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
		strict: strict,
		log:    log,
	}
}

// Decimals returns the scale for an asset. The native coin resolves
// without any network call.
func (r *Resolver) Decimals(ctx context.Context, addr string) (uint8, error) {
	if IsNative(addr) {
		return NativeDecimals, nil
	}

	key := Normalize(addr)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(uint8), nil
	}

	if !common.IsHexAddress(key) {
		return r.fallback(key, fmt.Errorf("not a hex address"))
	}

	dec, err := r.client.TokenDecimals(ctx, common.HexToAddress(key))
	if err != nil {
		return r.fallback(key, err)
	}

	r.cache.SetDefault(key, dec)
	return dec, nil
}

func (r *Resolver) fallback(token string, cause error) (uint8, error) {
	if r.strict {
		return 0, fmt.Errorf("resolve decimals for %s: %w", token, cause)
	}
	r.log.Warn("token decimals unavailable, assuming 18", logger.Fields{
		"token": token,
		"error": cause.Error(),
	})
	return NativeDecimals, nil
}
