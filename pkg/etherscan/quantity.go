package etherscan

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/params"

	"github.com/archon-research/etherscan/internal/pkg/hexutil"
)

// Quantity is an arbitrary-size non-negative integer kept as its decimal string.
// Token amounts, supplies and wei values use it. The zero Quantity is invalid.
type Quantity struct {
	decimal string
}

// NewQuantity parses a decimal or 0x-prefixed hex string. Unparseable or
// negative input yields an invalid Quantity.
func NewQuantity(s string) Quantity {
	n, ok := hexutil.ParseBig(s)
	if !ok || n.Sign() < 0 {
		return Quantity{}
	}
	return Quantity{decimal: n.String()}
}

// QuantityFromBig wraps n. A nil or negative n yields an invalid Quantity.
func QuantityFromBig(n *big.Int) Quantity {
	if n == nil || n.Sign() < 0 {
		return Quantity{}
	}
	return Quantity{decimal: n.String()}
}

// IsValid reports whether the quantity was populated.
func (q Quantity) IsValid() bool {
	return q.decimal != ""
}

// Big returns a fresh copy of the value, or nil when invalid.
func (q Quantity) Big() *big.Int {
	if !q.IsValid() {
		return nil
	}
	n, _ := new(big.Int).SetString(q.decimal, 10)
	return n
}

// String returns the decimal representation, or "" when invalid.
func (q Quantity) String() string {
	return q.decimal
}

// Scaled divides the value by 10^decimals, e.g. to render a token amount with
// its token decimals. Invalid quantities return -1.
func (q Quantity) Scaled(decimals int) float64 {
	if decimals < 0 {
		return -1
	}
	return q.divide(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
}

func (q Quantity) divide(unit *big.Int) float64 {
	n := q.Big()
	if n == nil {
		return -1
	}
	f, _ := new(big.Rat).SetFrac(n, unit).Float64()
	return f
}

// MarshalText renders the decimal string so that results encode cleanly as JSON.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.decimal), nil
}

func (q *Quantity) decodeField(raw json.RawMessage) bool {
	*q = NewQuantity(scalarText(raw))
	return q.IsValid()
}

var (
	weiPerGwei  = big.NewInt(params.GWei)
	weiPerSzabo = big.NewInt(1e12)
	weiPerEther = big.NewInt(params.Ether)
)

// Wei is a Quantity denominated in wei. Unit conversions are computed on each
// call from the decimal string.
type Wei struct {
	Quantity
}

// NewWei parses a decimal or 0x-prefixed hex wei amount.
func NewWei(s string) Wei {
	return Wei{Quantity: NewQuantity(s)}
}

// WeiFromBig wraps n.
func WeiFromBig(n *big.Int) Wei {
	return Wei{Quantity: QuantityFromBig(n)}
}

// Eth returns the amount in ether (wei / 10^18), or -1 when invalid.
func (w Wei) Eth() float64 {
	return w.divide(weiPerEther)
}

// Szabo returns the amount in szabo (wei / 10^12), or -1 when invalid.
func (w Wei) Szabo() float64 {
	return w.divide(weiPerSzabo)
}

// Gwei returns the amount in gwei (wei / 10^9), or -1 when invalid.
func (w Wei) Gwei() float64 {
	return w.divide(weiPerGwei)
}
