package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/artfusion/paygate/logger"
)

const erc20ABI = `
[
  {
    "name": "decimals",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{ "name": "", "type": "uint8" }]
  }
]
`

var _ Client = (*EVMClient)(nil)

// EVMClient implements Client over an ethclient connection.
type EVMClient struct {
	rpcURL       string
	client       *ethclient.Client
	tokenABI     abi.ABI
	pollInterval time.Duration
	log          logger.Logger
}

func NewEVMClient(rpcURL string, pollInterval time.Duration, log logger.Logger) (*EVMClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain RPC: %w", err)
	}

	tokenABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}

	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if log == nil {
		log = logger.NoopLogger{}
	}

	return &EVMClient{
		rpcURL:       rpcURL,
		client:       client,
		tokenABI:     tokenABI,
		pollInterval: pollInterval,
		log:          log,
	}, nil
}

func (e *EVMClient) TransactionByHash(ctx context.Context, hash common.Hash) (*ethtypes.Transaction, bool, error) {
	tx, isPending, err := e.client.TransactionByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch transaction %s: %w", hash.Hex(), err)
	}
	return tx, isPending, nil
}

// WaitForReceipt polls for the receipt on a ticker until the required
// block depth is reached. A mined-but-shallow transaction keeps the
// wait alive; an expired window maps to ErrNotFound so the caller can
// retry the same hash later.
func (e *EVMClient) WaitForReceipt(
	ctx context.Context,
	hash common.Hash,
	confirmations uint64,
	timeout time.Duration,
) (*ethtypes.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.receiptWithDepth(waitCtx, hash, confirmations)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				// Caller abandoned the verification; no
				// chain state was touched.
				return nil, ctx.Err()
			}
			e.log.Debug("confirmation wait timed out", logger.Fields{
				"txHash":        hash.Hex(),
				"confirmations": confirmations,
			})
			return nil, ErrNotFound
		case <-ticker.C:
		}
	}
}

// receiptWithDepth returns (nil, nil) while the transaction is missing
// or too shallow, so the poll loop keeps going.
func (e *EVMClient) receiptWithDepth(ctx context.Context, hash common.Hash, confirmations uint64) (*ethtypes.Receipt, error) {
	receipt, err := e.client.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch receipt %s: %w", hash.Hex(), err)
	}
	if receipt.BlockNumber == nil {
		return nil, nil
	}

	head, err := e.client.BlockNumber(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch head block: %w", err)
	}

	mined := receipt.BlockNumber.Uint64()
	if head < mined || head-mined+1 < confirmations {
		return nil, nil
	}
	return receipt, nil
}

func (e *EVMClient) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := e.tokenABI.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("pack decimals call: %w", err)
	}

	msg := ethereum.CallMsg{To: &token, Data: data}
	out, err := e.client.CallContract(ctx, msg, nil)
	if err != nil {
		return 0, fmt.Errorf("decimals call on %s: %w", token.Hex(), err)
	}

	results, err := e.tokenABI.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("decode decimals response from %s: %w", token.Hex(), err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("malformed decimals response from %s", token.Hex())
	}
	dec, ok := results[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T from %s", results[0], token.Hex())
	}
	return dec, nil
}

func (e *EVMClient) Close() {
	e.client.Close()
}
