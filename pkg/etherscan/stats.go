package etherscan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/archon-research/etherscan/internal/pkg/hexutil"
)

const moduleStats = "stats"

// EtherSupplyDetails breaks the ether supply down, all in wei.
type EtherSupplyDetails struct {
	EthSupply      Wei `etherscan:"EthSupply"`
	Eth2Staking    Wei `etherscan:"Eth2Staking"`
	BurntFees      Wei `etherscan:"BurntFees"`
	WithdrawnTotal Wei `etherscan:"WithdrawnTotal"`
}

func (s EtherSupplyDetails) IsValid() bool {
	return s.EthSupply.IsValid()
}

// EtherPrice is the last ether price. Timestamps are unix seconds.
type EtherPrice struct {
	ETHBTC          float64 `etherscan:"ethbtc,default=-1"`
	ETHBTCTimestamp int64   `etherscan:"ethbtc_timestamp,default=-1"`
	ETHUSD          float64 `etherscan:"ethusd,default=-1"`
	ETHUSDTimestamp int64   `etherscan:"ethusd_timestamp,default=-1"`
}

func (p EtherPrice) IsValid() bool {
	return p.ETHUSD >= 0
}

// ChainSizeQuery selects the node flavour of ChainSize.
type ChainSizeQuery struct {
	Dates      DateRange
	ClientType string // geth or parity
	SyncMode   string // default or archive
}

// ChainSize is the size of the chain database on one day.
type ChainSize struct {
	BlockNumber    int64    `etherscan:"blockNumber,default=-1"`
	ChainTimeStamp string   `etherscan:"chainTimeStamp"`
	ChainSize      Quantity `etherscan:"chainSize"`
	ClientType     string   `etherscan:"clientType"`
	SyncMode       string   `etherscan:"syncMode"`
}

func (s ChainSize) IsValid() bool {
	return s.BlockNumber >= 0
}

// NodeCount is the number of discoverable nodes.
type NodeCount struct {
	UTCDate        string `etherscan:"UTCDate"`
	TotalNodeCount int64  `etherscan:"TotalNodeCount,default=-1"`
}

func (n NodeCount) IsValid() bool {
	return n.TotalNodeCount >= 0
}

// DailyMetric is one of the PRO daily statistics series.
type DailyMetric int

const (
	DailyAvgBlockSize DailyMetric = iota
	DailyBlockCount
	DailyBlockRewards
	DailyAvgBlockTime
	DailyUncleCount
	DailyAvgGasLimit
	DailyGasUsed
	DailyAvgGasPrice
	DailyTxFee
	DailyNewAddresses
	DailyNetworkUtilization
	DailyHashRate
	DailyTxCount
	DailyDifficulty
	DailyMarketCap
	DailyPrice
)

var dailyMetrics = map[DailyMetric]struct {
	action string
	field  string
}{
	DailyAvgBlockSize:       {"dailyavgblocksize", "blockSize_bytes"},
	DailyBlockCount:         {"dailyblkcount", "blockCount"},
	DailyBlockRewards:       {"dailyblockrewards", "blockRewards_Eth"},
	DailyAvgBlockTime:       {"dailyavgblocktime", "blockTime_sec"},
	DailyUncleCount:         {"dailyuncleblkcount", "uncleBlockCount"},
	DailyAvgGasLimit:        {"dailyavggaslimit", "gasLimit"},
	DailyGasUsed:            {"dailygasused", "gasUsed"},
	DailyAvgGasPrice:        {"dailyavggasprice", "avgGasPrice_Wei"},
	DailyTxFee:              {"dailytxnfee", "transactionFee_Eth"},
	DailyNewAddresses:       {"dailynewaddress", "newAddressCount"},
	DailyNetworkUtilization: {"dailynetutilization", "networkUtilization"},
	DailyHashRate:           {"dailyavghashrate", "networkHashRate"},
	DailyTxCount:            {"dailytx", "transactionCount"},
	DailyDifficulty:         {"dailyavgnetdifficulty", "networkDifficulty"},
	DailyMarketCap:          {"ethdailymarketcap", "marketCap"},
	DailyPrice:              {"ethdailyprice", "value"},
}

// Action returns the API action of the series, or "" for unknown metrics.
func (m DailyMetric) Action() string {
	return dailyMetrics[m].action
}

// DailyStat is one day of a daily series. Value holds the series' main field;
// Values holds every numeric field of the row, keyed by its JSON name.
type DailyStat struct {
	UTCDate       string
	UnixTimeStamp int64
	Value         float64
	Values        map[string]float64
}

func (s DailyStat) IsValid() bool {
	return s.UnixTimeStamp >= 0
}

type dailyRow struct {
	UTCDate       string `etherscan:"UTCDate"`
	UnixTimeStamp int64  `etherscan:"unixTimeStamp,default=-1"`
}

// decodeDailyStats maps the rows of a daily series. Rows that are not objects
// are skipped; a missing main field leaves Value at -1.
func decodeDailyStats(raw json.RawMessage, field string) []DailyStat {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}

	stats := make([]DailyStat, 0, len(rows))
	for _, row := range rows {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(row, &fields); err != nil || fields == nil {
			continue
		}
		head := decode[dailyRow](row)
		stat := DailyStat{
			UTCDate:       head.UTCDate,
			UnixTimeStamp: head.UnixTimeStamp,
			Value:         -1,
			Values:        make(map[string]float64, len(fields)),
		}
		for name, v := range fields {
			if name == "UTCDate" || name == "unixTimeStamp" {
				continue
			}
			if f, err := hexutil.ParseFloat64(scalarText(v)); err == nil {
				stat.Values[name] = f
			}
		}
		if f, ok := stat.Values[field]; ok {
			stat.Value = f
		}
		stats = append(stats, stat)
	}
	return stats
}

// EtherSupply returns the ether in circulation, excluding staking rewards and
// burnt fees.
func (c *Client) EtherSupply(ctx context.Context) (Wei, error) {
	return fetchResult[Wei](ctx, c, NewQuery(moduleStats, "ethsupply"))
}

// EtherSupplyDetails returns the ether supply with staking rewards, burnt fees
// and withdrawals broken out.
func (c *Client) EtherSupplyDetails(ctx context.Context) (EtherSupplyDetails, error) {
	return fetchResult[EtherSupplyDetails](ctx, c, NewQuery(moduleStats, "ethsupply2"))
}

func (c *Client) EtherPrice(ctx context.Context) (EtherPrice, error) {
	return fetchResult[EtherPrice](ctx, c, NewQuery(moduleStats, "ethprice"))
}

// ChainSize returns the size of the chain database per day.
func (c *Client) ChainSize(ctx context.Context, cq ChainSizeQuery) ([]ChainSize, error) {
	q := NewQuery(moduleStats, "chainsize")
	cq.Dates.apply(q)
	q.Add("clienttype", defaultString(cq.ClientType, "geth"))
	q.Add("syncmode", defaultString(cq.SyncMode, "default"))
	return fetchList[ChainSize](ctx, c, q)
}

func (c *Client) NodeCount(ctx context.Context) (NodeCount, error) {
	return fetchResult[NodeCount](ctx, c, NewQuery(moduleStats, "nodecount"))
}

// DailyStats returns one daily series over dates (PRO).
func (c *Client) DailyStats(ctx context.Context, metric DailyMetric, dates DateRange) ([]DailyStat, error) {
	m, ok := dailyMetrics[metric]
	if !ok {
		return nil, &Error{Kind: InvalidParameterError, Module: moduleStats, Err: fmt.Errorf("unknown daily metric %d", metric)}
	}
	q := NewQuery(moduleStats, m.action)
	dates.apply(q)

	env, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeDailyStats(env.result(), m.field), nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
