// Package chain wraps the JSON-RPC endpoint behind the small read-only
// capability set payment verification needs: fetching transactions,
// waiting for confirmed receipts, and reading token decimals.
package chain

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ErrNotFound marks a transaction that is unknown to the node, or that
// failed to reach the required confirmation depth within the wait
// window. Callers treat it as a retryable business negative, distinct
// from transport failures.
var ErrNotFound = errors.New("transaction not found")

// Client is the chain capability set consumed by the verification
// packages. Implementations are read-only oracles; nothing here writes
// chain state.
type Client interface {
	// TransactionByHash fetches the full transaction object. The
	// value and recipient of a native transfer live here, not on
	// the receipt.
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *ethtypes.Transaction, isPending bool, err error)

	// WaitForReceipt blocks until the transaction is mined with at
	// least the given number of confirmations, or the timeout
	// elapses (ErrNotFound). The wait suspends on the context and
	// never busy-loops.
	WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64, timeout time.Duration) (*ethtypes.Receipt, error)

	// TokenDecimals issues the read-only decimals() call on an
	// ERC-20 contract.
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)

	Close()
}
