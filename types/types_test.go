package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{ReceivingAddress: "0xAbCd000000000000000000000000000000000001"}
	cfg.ApplyDefaults()

	assert.Equal(t, uint64(DefaultConfirmations), cfg.Confirmations)
	assert.Equal(t, DefaultWaitTimeout, cfg.WaitTimeout)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultDecimalsCacheTTL, cfg.DecimalsCacheTTL)
}

func TestConfigApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		ReceivingAddress: "0xAbCd000000000000000000000000000000000001",
		Confirmations:    12,
		WaitTimeout:      5 * time.Second,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, uint64(12), cfg.Confirmations)
	assert.Equal(t, 5*time.Second, cfg.WaitTimeout)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{ReceivingAddress: "0xAbCd000000000000000000000000000000000001"}
	require.NoError(t, cfg.Validate())

	err := (&Config{}).Validate()
	require.Error(t, err)
	perr, ok := err.(*PaygateError)
	require.True(t, ok)
	assert.Equal(t, ErrConfig, perr.Code)
}

func TestPaygateErrorMessage(t *testing.T) {
	err := &PaygateError{Code: ErrNetwork, Message: "rpc unreachable"}
	assert.Equal(t, "NETWORK_ERROR: rpc unreachable", err.Error())
}
