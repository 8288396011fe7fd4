// Package verification decides whether a claimed on-chain payment was
// actually made: right amount, right recipient, sufficiently
// confirmed, exactly once.
package verification

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/artfusion/paygate/asset"
	"github.com/artfusion/paygate/chain"
	"github.com/artfusion/paygate/logger"
	"github.com/artfusion/paygate/metrics"
	"github.com/artfusion/paygate/replay"
	"github.com/artfusion/paygate/types"
	"github.com/artfusion/paygate/utils"
)

const (
	assetKindNative = "native"
	assetKindToken  = "token"
)

// Service is the payment verification orchestrator. Each call is
// independent; the replay guard is the only shared mutable state.
type Service struct {
	cfg       *types.Config
	client    chain.Client
	guard     replay.Guard
	resolver  *asset.Resolver
	receiving string
	log       logger.Logger
	metrics   metrics.Recorder
}

func NewService(
	cfg *types.Config,
	client chain.Client,
	guard replay.Guard,
	log logger.Logger,
	rec metrics.Recorder,
) *Service {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{
		cfg:       cfg,
		client:    client,
		guard:     guard,
		resolver:  asset.NewResolver(client, cfg.DecimalsCacheTTL, cfg.StrictDecimals, log),
		receiving: strings.ToLower(strings.TrimSpace(cfg.ReceivingAddress)),
		log:       log,
		metrics:   rec,
	}
}

// VerifyPayment is the sole entry point. Business negatives resolve to
// an unaccepted result with a nil error; a non-nil error always means
// verification could not be completed and the caller may retry.
func (s *Service) VerifyPayment(ctx context.Context, req *types.PaymentRequest) (*types.VerificationResult, error) {
	if req == nil {
		return nil, &types.PaygateError{
			Code:    types.ErrConfig,
			Message: "nil payment request",
		}
	}

	// Malformed input fails fast, before any network round-trip.
	if err := utils.ValidateTxHash(req.TxHash); err != nil {
		s.log.Warn("rejecting malformed transaction hash", logger.Fields{
			"txHash": req.TxHash,
			"error":  err.Error(),
		})
		return s.reject(req, "", "", types.RejectInvalidTxHash), nil
	}

	seen, err := s.guard.Has(req.TxHash)
	if err != nil {
		return nil, s.storeError("replay check failed", err)
	}
	if seen {
		s.log.Warn("transaction hash already redeemed", logger.Fields{
			"txHash": req.TxHash,
		})
		return s.reject(req, "", "", types.RejectReplay), nil
	}

	assetAddr := strings.TrimSpace(req.Asset)
	if assetAddr == "" {
		assetAddr = s.cfg.DefaultAsset
	}
	isNative := asset.IsNative(assetAddr)
	kind := assetKindToken
	if isNative {
		kind = assetKindNative
	}

	decimals, err := s.resolver.Decimals(ctx, assetAddr)
	if err != nil {
		// Strict decimals mode: an unresolvable scale rejects
		// the payment rather than guessing.
		s.log.Warn("rejecting payment with unresolvable decimals", logger.Fields{
			"txHash": req.TxHash,
			"asset":  assetAddr,
			"error":  err.Error(),
		})
		return s.reject(req, assetAddr, kind, types.RejectDecimalsUnavailable), nil
	}

	want, err := utils.ToMinorUnits(req.Amount, decimals)
	if err != nil {
		s.log.Warn("rejecting unparseable expected amount", logger.Fields{
			"txHash": req.TxHash,
			"amount": req.Amount,
			"error":  err.Error(),
		})
		return s.reject(req, assetAddr, kind, types.RejectInvalidAmount), nil
	}

	txHash := common.HexToHash(req.TxHash)

	start := time.Now()
	receipt, err := s.client.WaitForReceipt(ctx, txHash, s.cfg.Confirmations, s.cfg.WaitTimeout)
	s.metrics.ObserveLatency(metrics.OpConfirmationWait, time.Since(start), map[string]string{
		"asset_kind": kind,
	})
	if errors.Is(err, chain.ErrNotFound) {
		s.log.Info("transaction not confirmed within wait window", logger.Fields{
			"txHash":        req.TxHash,
			"confirmations": s.cfg.Confirmations,
			"timeout":       s.cfg.WaitTimeout.String(),
		})
		return s.reject(req, assetAddr, kind, types.RejectNotFound), nil
	}
	if err != nil {
		return nil, s.networkError("confirmation wait failed", err)
	}

	// A reverted transaction can never satisfy payment.
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		s.log.Warn("transaction execution failed on chain", logger.Fields{
			"txHash": req.TxHash,
		})
		return s.reject(req, assetAddr, kind, types.RejectReverted), nil
	}

	ok, reason, err := s.dispatch(ctx, txHash, receipt, assetAddr, isNative, want)
	if err != nil {
		return nil, s.networkError("verification dispatch failed", err)
	}
	if !ok {
		return s.reject(req, assetAddr, kind, reason), nil
	}

	// Record acceptance atomically; of two racing calls for the
	// same hash, exactly one observes the insert.
	inserted, err := s.guard.CheckAndInsert(req.TxHash)
	if err != nil {
		return nil, s.storeError("failed to record accepted transaction", err)
	}
	if !inserted {
		s.log.Warn("transaction redeemed by a concurrent verification", logger.Fields{
			"txHash": req.TxHash,
		})
		return s.reject(req, assetAddr, kind, types.RejectReplay), nil
	}

	s.metrics.IncCounter(metrics.EventAccepted, map[string]string{
		"asset_kind": kind,
		"reason":     "",
	})
	s.log.Info("payment verified", logger.Fields{
		"txHash": req.TxHash,
		"asset":  assetAddr,
		"amount": req.Amount,
	})
	return &types.VerificationResult{
		Accepted: true,
		TxHash:   req.TxHash,
		Asset:    assetAddr,
		Amount:   req.Amount,
	}, nil
}

// dispatch routes to the native or token verifier. A failed token
// verification may fall back to the native path: a deployment that
// declared a token address while the user paid in the native coin is
// still a real payment. The fallback is policy-gated because it can
// also mask a wrong contract address.
func (s *Service) dispatch(
	ctx context.Context,
	txHash common.Hash,
	receipt *ethtypes.Receipt,
	assetAddr string,
	isNative bool,
	want *big.Int,
) (bool, string, error) {
	if isNative {
		return s.verifyNative(ctx, txHash, want)
	}

	if s.verifyToken(txHash, receipt, asset.Normalize(assetAddr), want) {
		return true, "", nil
	}

	if !s.cfg.DisableNativeFallback {
		ok, _, err := s.verifyNative(ctx, txHash, want)
		if err != nil {
			return false, "", err
		}
		if ok {
			s.log.Warn("token verification failed but a native transfer matched; the configured asset address may be wrong", logger.Fields{
				"txHash": txHash.Hex(),
				"asset":  assetAddr,
			})
			return true, "", nil
		}
	}

	return false, types.RejectNoMatchingTransfer, nil
}

func (s *Service) reject(req *types.PaymentRequest, assetAddr, kind, reason string) *types.VerificationResult {
	s.metrics.IncCounter(metrics.EventRejected, map[string]string{
		"asset_kind": kind,
		"reason":     reason,
	})
	return &types.VerificationResult{
		Accepted:     false,
		RejectReason: reason,
		TxHash:       req.TxHash,
		Asset:        assetAddr,
		Amount:       req.Amount,
	}
}

func (s *Service) networkError(msg string, cause error) error {
	s.metrics.IncCounter(metrics.EventErrored, map[string]string{})
	s.log.Error(msg, logger.Fields{"error": cause.Error()})
	return &types.PaygateError{
		Code:    types.ErrNetwork,
		Message: fmt.Sprintf("%s: %v", msg, cause),
	}
}

func (s *Service) storeError(msg string, cause error) error {
	s.metrics.IncCounter(metrics.EventErrored, map[string]string{})
	s.log.Error(msg, logger.Fields{"error": cause.Error()})
	return &types.PaygateError{
		Code:    types.ErrStore,
		Message: fmt.Sprintf("%s: %v", msg, cause),
	}
}
