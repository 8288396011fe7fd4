// Package paygate verifies on-chain payments before authorizing a paid
// resource. Given a transaction hash, an expected amount, and an
// optional asset address, it waits for confirmations and checks that a
// native-coin or ERC-20 transfer paid the exact amount to the
// configured receiving wallet, at most once per transaction.
package paygate

import (
	"context"

	"github.com/artfusion/paygate/chain"
	"github.com/artfusion/paygate/logger"
	"github.com/artfusion/paygate/metrics"
	"github.com/artfusion/paygate/replay"
	"github.com/artfusion/paygate/types"
	"github.com/artfusion/paygate/utils"
	"github.com/artfusion/paygate/verification"
)

// Paygate is the public facade wiring the chain client, replay guard,
// and verification service together.
type Paygate struct {
	cfg     *types.Config
	client  chain.Client
	guard   replay.Guard
	service *verification.Service
	log     logger.Logger
	metrics metrics.Recorder
}

// New builds a Paygate from a config. Without options it dials the
// configured RPC endpoint and uses an in-memory replay guard, which is
// only suitable for single-process deployments.
func New(cfg *types.Config, opts ...Option) (*Paygate, error) {
	if cfg == nil {
		return nil, &types.PaygateError{
			Code:    types.ErrConfig,
			Message: "config is required",
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidateAddress(cfg.ReceivingAddress); err != nil {
		return nil, &types.PaygateError{
			Code:    types.ErrConfig,
			Message: "invalid receiving address: " + err.Error(),
		}
	}

	p := &Paygate{
		cfg:     cfg,
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		if cfg.RPCURL == "" {
			return nil, &types.PaygateError{
				Code:    types.ErrConfig,
				Message: "rpcUrl is required when no chain client is injected",
			}
		}
		client, err := chain.NewEVMClient(cfg.RPCURL, cfg.PollInterval, p.log)
		if err != nil {
			return nil, &types.PaygateError{
				Code:    types.ErrNetwork,
				Message: err.Error(),
			}
		}
		p.client = client
	}

	if p.guard == nil {
		p.guard = replay.NewMemoryGuard()
	}

	p.service = verification.NewService(cfg, p.client, p.guard, p.log, p.metrics)
	return p, nil
}

// VerifyPayment reports whether the transaction pays the expected
// amount to the receiving wallet. An empty assetAddr means the
// configured default asset (or the native coin). Business rejections
// come back as an unaccepted result; a non-nil error means the answer
// could not be determined and the call may be retried.
func (p *Paygate) VerifyPayment(ctx context.Context, txHash, amount, assetAddr string) (*types.VerificationResult, error) {
	return p.service.VerifyPayment(ctx, &types.PaymentRequest{
		TxHash: txHash,
		Amount: amount,
		Asset:  assetAddr,
	})
}

// ClearAccepted forgets an accepted transaction hash. Administrative
// escape hatch for recovery; not part of the normal flow.
func (p *Paygate) ClearAccepted(txHash string) error {
	return p.guard.Clear(txHash)
}

// Close releases the RPC connection and the replay store.
func (p *Paygate) Close() error {
	p.client.Close()
	return p.guard.Close()
}
