package verification

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/artfusion/paygate/chain"
	"github.com/artfusion/paygate/logger"
	"github.com/artfusion/paygate/types"
)

// verifyNative validates a native-coin transfer. The recipient and
// value of a native transfer live on the transaction object, not the
// receipt, so it is fetched here. Both fields must match exactly; the
// default policy has no tolerance band.
func (s *Service) verifyNative(ctx context.Context, txHash common.Hash, want *big.Int) (bool, string, error) {
	tx, isPending, err := s.client.TransactionByHash(ctx, txHash)
	if errors.Is(err, chain.ErrNotFound) {
		s.log.Warn("transaction object not found for native verification", logger.Fields{
			"txHash": txHash.Hex(),
		})
		return false, types.RejectNotFound, nil
	}
	if err != nil {
		return false, "", err
	}
	if isPending {
		return false, types.RejectNotFound, nil
	}

	to := tx.To()
	if to == nil || strings.ToLower(to.Hex()) != s.receiving {
		actual := "contract creation"
		if to != nil {
			actual = to.Hex()
		}
		s.log.Warn("native transfer recipient mismatch", logger.Fields{
			"txHash":   txHash.Hex(),
			"expected": s.receiving,
			"actual":   actual,
		})
		return false, types.RejectRecipientMismatch, nil
	}

	if tx.Value().Cmp(want) != 0 {
		s.log.Warn("native transfer amount mismatch", logger.Fields{
			"txHash":   txHash.Hex(),
			"expected": want.String(),
			"actual":   tx.Value().String(),
		})
		return false, types.RejectAmountMismatch, nil
	}

	return true, "", nil
}
