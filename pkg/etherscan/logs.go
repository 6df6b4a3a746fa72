package etherscan

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const moduleLogs = "logs"

// Log is an event log, as returned by getLogs and inside proxy receipts.
// Numeric fields arrive hex encoded.
type Log struct {
	Address          string   `etherscan:"address"`
	Topics           []string `etherscan:"topics"`
	Data             string   `etherscan:"data"`
	BlockNumber      int64    `etherscan:"blockNumber,default=-1"`
	BlockHash        string   `etherscan:"blockHash"`
	TimeStamp        int64    `etherscan:"timeStamp,default=-1"`
	GasPrice         Wei      `etherscan:"gasPrice"`
	GasUsed          int64    `etherscan:"gasUsed,default=-1"`
	LogIndex         int64    `etherscan:"logIndex,default=-1"`
	TransactionHash  string   `etherscan:"transactionHash"`
	TransactionIndex int64    `etherscan:"transactionIndex,default=-1"`
	Removed          bool     `etherscan:"removed"`
}

func (l Log) IsValid() bool {
	return l.BlockNumber >= 0
}

// TopicHashes returns the topics as go-ethereum hashes.
func (l Log) TopicHashes() []common.Hash {
	hashes := make([]common.Hash, len(l.Topics))
	for i, t := range l.Topics {
		hashes[i] = common.HexToHash(t)
	}
	return hashes
}

// Operator joins two topic filters.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// TopicOperator relates topic A to topic B (0-3, A < B).
type TopicOperator struct {
	A, B int
	Op   Operator
}

// LogQuery filters getLogs. Empty topics are not sent. A zero ToBlock is sent
// as "latest".
type LogQuery struct {
	Address   string
	FromBlock int64
	ToBlock   int64
	Topics    [4]string
	Operators []TopicOperator
	Page      Page
}

func (lq LogQuery) apply(q *Query) {
	q.AddInt("fromBlock", lq.FromBlock)
	if lq.ToBlock > 0 {
		q.AddInt("toBlock", lq.ToBlock)
	} else {
		q.Add("toBlock", string(TagLatest))
	}
	q.AddIfSet("address", lq.Address)
	for i, topic := range lq.Topics {
		q.AddIfSet(fmt.Sprintf("topic%d", i), topic)
	}
	for _, op := range lq.Operators {
		q.Add(fmt.Sprintf("topic%d_%d_opr", op.A, op.B), string(op.Op))
	}
	lq.Page.apply(q)
}

// Logs returns the event logs matching lq.
func (c *Client) Logs(ctx context.Context, lq LogQuery) ([]Log, error) {
	q := NewQuery(moduleLogs, "getLogs")
	lq.apply(q)
	return fetchList[Log](ctx, c, q)
}
