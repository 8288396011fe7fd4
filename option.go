package paygate

import (
	"github.com/artfusion/paygate/chain"
	"github.com/artfusion/paygate/logger"
	"github.com/artfusion/paygate/metrics"
	"github.com/artfusion/paygate/replay"
)

type Option func(*Paygate)

func WithLogger(l logger.Logger) Option {
	return func(p *Paygate) {
		p.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(p *Paygate) {
		p.metrics = r
	}
}

// WithChainClient injects a chain client, replacing the default
// ethclient dial of the configured RPC endpoint.
func WithChainClient(c chain.Client) Option {
	return func(p *Paygate) {
		p.client = c
	}
}

// WithReplayGuard injects a replay guard. Use replay.NewLevelGuard for
// deployments that must keep acceptance state across restarts.
func WithReplayGuard(g replay.Guard) Option {
	return func(p *Paygate) {
		p.guard = g
	}
}
