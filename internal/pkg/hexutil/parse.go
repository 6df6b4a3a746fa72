// Package hexutil parses the integer encodings Etherscan mixes in its responses.
//
// Native Etherscan endpoints send decimal strings ("69247") while the proxy
// module mirrors JSON-RPC and sends 0x-prefixed hex quantities ("0x10e7f").
// Values carrying the prefix are read as hex, everything else as decimal.
package hexutil

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	gethhex "github.com/ethereum/go-ethereum/common/hexutil"
)

var errEmpty = errors.New("empty number")

func splitHex(s string) (string, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:], true
	}
	return s, false
}

// ParseInt64 parses a decimal or 0x-prefixed hex string to int64.
func ParseInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	digits, isHex := splitHex(strings.TrimPrefix(s, "-"))
	if digits == "" {
		return 0, errEmpty
	}

	base := 10
	if isHex {
		base = 16
	}
	if negative {
		digits = "-" + digits
	}
	return strconv.ParseInt(digits, base, 64)
}

// ParseFloat64 parses a decimal float, or a 0x-prefixed hex integer.
func ParseFloat64(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if digits, isHex := splitHex(s); isHex {
		if digits == "" {
			return 0, errEmpty
		}
		u, err := strconv.ParseUint(digits, 16, 64)
		return float64(u), err
	}
	if s == "" {
		return 0, errEmpty
	}
	return strconv.ParseFloat(s, 64)
}

// ParseBig parses a decimal or 0x-prefixed hex string of arbitrary size.
func ParseBig(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	digits, isHex := splitHex(s)
	if digits == "" {
		return nil, false
	}
	base := 10
	if isHex {
		base = 16
	}
	return new(big.Int).SetString(digits, base)
}

// EncodeInt64 formats n as a JSON-RPC hex quantity ("0x1b4").
func EncodeInt64(n int64) string {
	if n >= 0 {
		return gethhex.EncodeUint64(uint64(n))
	}
	return gethhex.EncodeBig(big.NewInt(n))
}

// EncodeBig formats n as a JSON-RPC hex quantity. A nil value encodes as "0x0".
func EncodeBig(n *big.Int) string {
	if n == nil {
		return "0x0"
	}
	return gethhex.EncodeBig(n)
}
