package asset

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfusion/paygate/chain"
	"github.com/artfusion/paygate/logger"
)

func TestIsNative(t *testing.T) {
	native := []string{
		"",
		"native",
		"NATIVE",
		"  Native  ",
		"0x0000000000000000000000000000000000000000",
		"0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE",
	}
	for _, addr := range native {
		assert.True(t, IsNative(addr), "expected %q to classify as native", addr)
	}

	tokens := []string{
		"0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		"usdc",
		"0x0000000000000000000000000000000000000001",
	}
	for _, addr := range tokens {
		assert.False(t, IsNative(addr), "expected %q to classify as token", addr)
	}
}

// decimalsStub implements chain.Client for resolver tests; only
// TokenDecimals is reachable.
type decimalsStub struct {
	decimals uint8
	err      error
	calls    int
}

func (s *decimalsStub) TransactionByHash(context.Context, common.Hash) (*ethtypes.Transaction, bool, error) {
	return nil, false, chain.ErrNotFound
}

func (s *decimalsStub) WaitForReceipt(context.Context, common.Hash, uint64, time.Duration) (*ethtypes.Receipt, error) {
	return nil, chain.ErrNotFound
}

func (s *decimalsStub) TokenDecimals(context.Context, common.Address) (uint8, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.decimals, nil
}

func (s *decimalsStub) Close() {}

const testToken = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"

func TestResolverNativeSkipsNetwork(t *testing.T) {
	stub := &decimalsStub{decimals: 6}
	r := NewResolver(stub, time.Minute, false, logger.NoopLogger{})

	dec, err := r.Decimals(context.Background(), "native")
	require.NoError(t, err)
	assert.Equal(t, NativeDecimals, dec)
	assert.Zero(t, stub.calls)
}

func TestResolverCachesTokenDecimals(t *testing.T) {
	stub := &decimalsStub{decimals: 6}
	r := NewResolver(stub, time.Minute, false, logger.NoopLogger{})

	for i := 0; i < 3; i++ {
		dec, err := r.Decimals(context.Background(), testToken)
		require.NoError(t, err)
		assert.Equal(t, uint8(6), dec)
	}
	assert.Equal(t, 1, stub.calls)
}

func TestResolverFallsBackTo18(t *testing.T) {
	stub := &decimalsStub{err: fmt.Errorf("execution reverted")}
	r := NewResolver(stub, time.Minute, false, logger.NoopLogger{})

	dec, err := r.Decimals(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, NativeDecimals, dec)

	// a failure is not cached; the next call retries the contract
	_, _ = r.Decimals(context.Background(), testToken)
	assert.Equal(t, 2, stub.calls)
}

func TestResolverStrictMode(t *testing.T) {
	stub := &decimalsStub{err: fmt.Errorf("execution reverted")}
	r := NewResolver(stub, time.Minute, true, logger.NoopLogger{})

	_, err := r.Decimals(context.Background(), testToken)
	assert.Error(t, err)
}

func TestResolverBadAddressFallsBack(t *testing.T) {
	stub := &decimalsStub{decimals: 6}
	r := NewResolver(stub, time.Minute, false, logger.NoopLogger{})

	dec, err := r.Decimals(context.Background(), "definitely-not-an-address")
	require.NoError(t, err)
	assert.Equal(t, NativeDecimals, dec)
	assert.Zero(t, stub.calls)
}
