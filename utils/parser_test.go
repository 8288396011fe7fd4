package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfusion/paygate/types"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`{
		"rpcUrl": "https://rpc.example.org",
		"receivingAddress": "0xE4d365a5a8fC0DCEE9E3C5985D7FcBab8B4A0fE1",
		"defaultAsset": "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		"confirmations": 5
	}`)

	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cfg.Confirmations)
	// unset tunables pick up the reference defaults
	assert.Equal(t, 60*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 10*time.Minute, cfg.DecimalsCacheTTL)
}

func TestParseConfigRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":           `{"rpcUrl":`,
		"missing receiver":   `{"rpcUrl": "https://rpc.example.org"}`,
		"malformed receiver": `{"rpcUrl": "https://rpc.example.org", "receivingAddress": "nope"}`,
		"rpc url not a url":  `{"rpcUrl": "::::", "receivingAddress": "0xE4d365a5a8fC0DCEE9E3C5985D7FcBab8B4A0fE1"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(raw))
			require.Error(t, err)

			var perr *types.PaygateError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, types.ErrConfig, perr.Code)
		})
	}
}
