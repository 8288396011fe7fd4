package verification

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/artfusion/paygate/logger"
)

// transferEventSig is the topic of the standard ERC-20 event
// Transfer(address indexed from, address indexed to, uint256 value).
var transferEventSig = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

type transferEvent struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

type decodeStatus int

const (
	transferOK decodeStatus = iota
	notTransfer
	decodeFailed
)

// decodeTransfer tries to read a log as an ERC-20 Transfer. A log
// that carries some other event is notTransfer, not an error; a
// Transfer-shaped log with the wrong topic or data layout is
// decodeFailed. Both are skipped by the caller.
func decodeTransfer(lg *ethtypes.Log) (*transferEvent, decodeStatus) {
	if len(lg.Topics) == 0 || lg.Topics[0] != transferEventSig {
		return nil, notTransfer
	}
	// Standard Transfer indexes from and to, leaving the value as
	// 32 bytes of data.
	if len(lg.Topics) != 3 || len(lg.Data) != 32 {
		return nil, decodeFailed
	}
	return &transferEvent{
		From:  common.BytesToAddress(lg.Topics[1].Bytes()[12:]),
		To:    common.BytesToAddress(lg.Topics[2].Bytes()[12:]),
		Value: new(big.Int).SetBytes(lg.Data),
	}, transferOK
}

// verifyToken scans the receipt for a Transfer from the configured
// token contract to the receiving address with the exact expected
// value. Logs emitted by any other contract are discarded first, so a
// Transfer-shaped log from an unrelated contract in the same
// transaction cannot spoof a payment. Finding no qualifying log is a
// normal negative result.
func (s *Service) verifyToken(txHash common.Hash, receipt *ethtypes.Receipt, tokenAddrLower string, want *big.Int) bool {
	for _, lg := range receipt.Logs {
		if strings.ToLower(lg.Address.Hex()) != tokenAddrLower {
			continue
		}

		ev, status := decodeTransfer(lg)
		if status != transferOK {
			continue
		}

		if strings.ToLower(ev.To.Hex()) != s.receiving {
			continue
		}
		if ev.Value.Cmp(want) != 0 {
			s.log.Debug("transfer value mismatch", logger.Fields{
				"txHash":   txHash.Hex(),
				"token":    tokenAddrLower,
				"expected": want.String(),
				"actual":   ev.Value.String(),
			})
			continue
		}

		s.log.Debug("matching transfer found", logger.Fields{
			"txHash": txHash.Hex(),
			"token":  tokenAddrLower,
			"from":   ev.From.Hex(),
			"value":  ev.Value.String(),
		})
		return true
	}

	s.log.Warn("no matching transfer in receipt", logger.Fields{
		"txHash":   txHash.Hex(),
		"token":    tokenAddrLower,
		"expected": want.String(),
		"logs":     len(receipt.Logs),
	})
	return false
}
