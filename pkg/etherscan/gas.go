package etherscan

import (
	"context"
	"strings"
	"time"

	"github.com/archon-research/etherscan/internal/pkg/hexutil"
)

const moduleGas = "gastracker"

// GasOracle holds the suggested gas prices, in gwei.
type GasOracle struct {
	LastBlock       int64   `etherscan:"LastBlock,default=-1"`
	SafeGasPrice    float64 `etherscan:"SafeGasPrice,default=-1"`
	ProposeGasPrice float64 `etherscan:"ProposeGasPrice,default=-1"`
	FastGasPrice    float64 `etherscan:"FastGasPrice,default=-1"`
	SuggestBaseFee  float64 `etherscan:"suggestBaseFee,default=-1"`
	GasUsedRatio    string  `etherscan:"gasUsedRatio"`
}

func (g GasOracle) IsValid() bool {
	return g.LastBlock >= 0
}

// GasUsedRatios splits GasUsedRatio into the per-block ratios of the last
// blocks. Malformed entries are skipped.
func (g GasOracle) GasUsedRatios() []float64 {
	if g.GasUsedRatio == "" {
		return nil
	}
	parts := strings.Split(g.GasUsedRatio, ",")
	ratios := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := hexutil.ParseFloat64(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		ratios = append(ratios, f)
	}
	return ratios
}

// GasOracle returns the current safe, proposed and fast gas prices.
func (c *Client) GasOracle(ctx context.Context) (GasOracle, error) {
	return fetchResult[GasOracle](ctx, c, NewQuery(moduleGas, "gasoracle"))
}

// GasEstimate returns the estimated confirmation time for a gas price in wei.
// It returns -1 on failure.
func (c *Client) GasEstimate(ctx context.Context, gasPrice Wei) (time.Duration, error) {
	q := NewQuery(moduleGas, "gasestimate").Add("gasprice", gasPrice.String())
	seconds, err := fetchScalar[int64](ctx, c, q, "-1")
	if seconds < 0 {
		return -1, err
	}
	return time.Duration(seconds) * time.Second, err
}
