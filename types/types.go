// Package types defines the request, result, and configuration types
// shared across the paygate packages.
package types

import (
	"fmt"
	"time"
)

// PaymentRequest identifies one claimed on-chain payment to verify.
type PaymentRequest struct {
	// Hash of the transaction the payer submitted. Must be a
	// 66-character 0x-prefixed hex string.
	TxHash string `json:"txHash" validate:"required"`

	// Expected payment amount in human-readable asset units,
	// e.g. "0.1". Scaled to minor units during verification.
	Amount string `json:"amount" validate:"required"`

	// Address of the payment asset. Empty, the zero address, the
	// 0xeee... placeholder, or the literal "native" all mean the
	// chain's native coin.
	Asset string `json:"asset,omitempty"`
}

// VerificationResult is the outcome of a single verification call.
// A rejected payment is a normal result, not an error.
type VerificationResult struct {
	Accepted     bool   `json:"accepted"`
	RejectReason string `json:"rejectReason,omitempty"`
	TxHash       string `json:"txHash,omitempty"`
	Asset        string `json:"asset,omitempty"`
	Amount       string `json:"amount,omitempty"`
}

// Config contains the settings for a Paygate instance.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the chain node. Required
	// unless a chain client is injected via WithChainClient.
	RPCURL string `json:"rpcUrl" validate:"omitempty,url"`

	// ReceivingAddress is the wallet payments must be sent to.
	ReceivingAddress string `json:"receivingAddress" validate:"required"`

	// DefaultAsset is used when a request does not name an asset.
	// Empty means the native coin.
	DefaultAsset string `json:"defaultAsset,omitempty"`

	// Confirmations is the block depth required before a
	// transaction is treated as final.
	Confirmations uint64 `json:"confirmations,omitempty"`

	// WaitTimeout bounds the confirmation wait per call.
	WaitTimeout time.Duration `json:"waitTimeout,omitempty"`

	// PollInterval is the receipt polling period during the wait.
	PollInterval time.Duration `json:"pollInterval,omitempty"`

	// DecimalsCacheTTL bounds how long a token's decimals value is
	// reused without a fresh contract call.
	DecimalsCacheTTL time.Duration `json:"decimalsCacheTTL,omitempty"`

	// DisableNativeFallback turns off the token-to-native
	// verification fallback. The fallback rescues deployments that
	// configured a token address while users actually paid in the
	// native coin, at the cost of masking a wrong contract address;
	// high-value deployments should disable it.
	DisableNativeFallback bool `json:"disableNativeFallback,omitempty"`

	// StrictDecimals rejects token payments whose decimals() call
	// fails instead of assuming 18.
	StrictDecimals bool `json:"strictDecimals,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`
}

// Reference defaults.
const (
	DefaultConfirmations    = 3
	DefaultWaitTimeout      = 60 * time.Second
	DefaultPollInterval     = 2 * time.Second
	DefaultDecimalsCacheTTL = 10 * time.Minute
)

// ApplyDefaults fills zero-valued tunables with the reference defaults.
func (c *Config) ApplyDefaults() {
	if c.Confirmations == 0 {
		c.Confirmations = DefaultConfirmations
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.DecimalsCacheTTL <= 0 {
		c.DecimalsCacheTTL = DefaultDecimalsCacheTTL
	}
}

// Validate checks that the config carries the required fields.
func (c *Config) Validate() error {
	if c.ReceivingAddress == "" {
		return &PaygateError{
			Code:    ErrConfig,
			Message: "receivingAddress is required",
		}
	}
	if c.WaitTimeout < 0 || c.PollInterval < 0 {
		return &PaygateError{
			Code:    ErrConfig,
			Message: "timeouts must not be negative",
		}
	}
	return nil
}

// PaygateError is the error type for infrastructure-level failures.
// Business rejections never use it; they resolve to a
// VerificationResult with Accepted set to false.
type PaygateError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *PaygateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Infrastructure error codes.
const (
	ErrConfig  = "CONFIG_ERROR"
	ErrNetwork = "NETWORK_ERROR"
	ErrStore   = "STORE_ERROR"
)

// Reject reasons reported on business-level verification failures.
const (
	RejectInvalidTxHash       = "invalid_tx_hash"
	RejectInvalidAmount       = "invalid_amount"
	RejectReplay              = "replayed_transaction"
	RejectNotFound            = "transaction_not_found"
	RejectReverted            = "transaction_reverted"
	RejectRecipientMismatch   = "recipient_mismatch"
	RejectAmountMismatch      = "amount_mismatch"
	RejectNoMatchingTransfer  = "no_matching_transfer"
	RejectDecimalsUnavailable = "token_decimals_unavailable"
)
