package etherscan

import (
	"context"
	"time"
)

const moduleBlock = "block"

// UncleReward is one uncle included in a block.
type UncleReward struct {
	Miner         string `etherscan:"miner"`
	UnclePosition int64  `etherscan:"unclePosition,default=-1"`
	BlockReward   Wei    `etherscan:"blockreward"`
}

// BlockReward is the reward paid for mining a block.
type BlockReward struct {
	BlockNumber          int64         `etherscan:"blockNumber,default=-1"`
	TimeStamp            int64         `etherscan:"timeStamp,default=-1"`
	BlockMiner           string        `etherscan:"blockMiner"`
	BlockReward          Wei           `etherscan:"blockReward"`
	Uncles               []UncleReward `etherscan:"uncles"`
	UncleInclusionReward Wei           `etherscan:"uncleInclusionReward"`
}

func (b BlockReward) IsValid() bool {
	return b.BlockNumber >= 0
}

// BlockCountdown estimates the time until a future block.
type BlockCountdown struct {
	CurrentBlock      int64   `etherscan:"CurrentBlock,default=-1"`
	CountdownBlock    int64   `etherscan:"CountdownBlock,default=-1"`
	RemainingBlock    int64   `etherscan:"RemainingBlock,default=-1"`
	EstimateTimeInSec float64 `etherscan:"EstimateTimeInSec,default=-1"`
}

func (b BlockCountdown) IsValid() bool {
	return b.CountdownBlock >= 0
}

// Remaining returns the estimate as a duration, or 0 when invalid.
func (b BlockCountdown) Remaining() time.Duration {
	if b.EstimateTimeInSec < 0 {
		return 0
	}
	return time.Duration(b.EstimateTimeInSec * float64(time.Second))
}

// Closest picks the block before or after a timestamp.
type Closest string

const (
	ClosestBefore Closest = "before"
	ClosestAfter  Closest = "after"
)

// BlockReward returns the block and uncle rewards of a block.
func (c *Client) BlockReward(ctx context.Context, block int64) (BlockReward, error) {
	q := NewQuery(moduleBlock, "getblockreward").AddInt("blockno", block)
	return fetchResult[BlockReward](ctx, c, q)
}

// BlockCountdown estimates when a future block will be mined.
func (c *Client) BlockCountdown(ctx context.Context, block int64) (BlockCountdown, error) {
	q := NewQuery(moduleBlock, "getblockcountdown").AddInt("blockno", block)
	return fetchResult[BlockCountdown](ctx, c, q)
}

// BlockNumberByTime returns the block mined closest to t. It returns -1 on failure.
func (c *Client) BlockNumberByTime(ctx context.Context, t time.Time, closest Closest) (int64, error) {
	if closest == "" {
		closest = ClosestBefore
	}
	q := NewQuery(moduleBlock, "getblocknobytime").
		AddInt("timestamp", t.Unix()).
		Add("closest", string(closest))
	return fetchScalar[int64](ctx, c, q, "-1")
}
