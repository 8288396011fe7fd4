// Package utils holds format validation and amount conversion helpers.
package utils

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	txHashPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ValidateTxHash checks the fixed transaction hash format: 0x followed
// by 64 hex characters. Malformed hashes must fail before any network
// round-trip.
func ValidateTxHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("transaction hash cannot be empty")
	}
	if !strings.HasPrefix(hash, "0x") {
		return fmt.Errorf("transaction hash must start with 0x")
	}
	if len(hash) != 66 {
		return fmt.Errorf("transaction hash must be 66 characters long")
	}
	if !txHashPattern.MatchString(hash) {
		return fmt.Errorf("transaction hash must be valid hex")
	}
	return nil
}

// ValidateAddress checks the 20-byte hex address format.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !addressPattern.MatchString(address) {
		return fmt.Errorf("invalid address format: %s", address)
	}
	return nil
}

// ValidateAmount parses a human-unit decimal amount and rejects
// non-positive values.
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}
	if !dec.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	return &dec, nil
}

// ToMinorUnits scales a human-unit amount string by 10^decimals into
// an exact integer. Floating point never touches the value; on-chain
// amounts are integers and comparisons must be exact.
func ToMinorUnits(amount string, decimals uint8) (*big.Int, error) {
	dec, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	scaled := dec.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d fractional digits", amount, decimals)
	}

	return scaled.BigInt(), nil
}

// FromMinorUnits renders a minor-unit integer as a human-unit decimal
// string, for logs and results.
func FromMinorUnits(amount *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
