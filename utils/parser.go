package utils

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/artfusion/paygate/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ParseConfig parses and validates a Config from JSON.
func ParseConfig(data []byte) (*types.Config, error) {
	var cfg types.Config

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &types.PaygateError{
			Code:    types.ErrConfig,
			Message: fmt.Sprintf("failed to parse config: %v", err),
		}
	}

	// Struct-tag validation first, then the semantic checks.
	if err := validate.Struct(&cfg); err != nil {
		return nil, &types.PaygateError{
			Code:    types.ErrConfig,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	if err := ValidateAddress(cfg.ReceivingAddress); err != nil {
		return nil, &types.PaygateError{
			Code:    types.ErrConfig,
			Message: fmt.Sprintf("invalid receiving address: %v", err),
		}
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}
