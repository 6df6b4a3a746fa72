package etherscan

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/archon-research/etherscan/internal/pkg/hexutil"
)

const moduleProxy = "proxy"

// RPCResult carries the outcome of a proxy call. JSON-RPC level failures
// ("execution reverted", "invalid argument") are reported in Error and do not
// make the call itself fail.
type RPCResult[T any] struct {
	ID     int64
	Result T
	Error  *RPCError
}

// Err returns Error as an error value, or nil.
func (r RPCResult[T]) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// RPCTransaction is an eth transaction object.
type RPCTransaction struct {
	BlockHash            string `etherscan:"blockHash"`
	BlockNumber          int64  `etherscan:"blockNumber,default=-1"`
	From                 string `etherscan:"from"`
	Gas                  int64  `etherscan:"gas,default=-1"`
	GasPrice             Wei    `etherscan:"gasPrice"`
	MaxFeePerGas         Wei    `etherscan:"maxFeePerGas"`
	MaxPriorityFeePerGas Wei    `etherscan:"maxPriorityFeePerGas"`
	Hash                 string `etherscan:"hash"`
	Input                string `etherscan:"input"`
	Nonce                int64  `etherscan:"nonce,default=-1"`
	To                   string `etherscan:"to"`
	TransactionIndex     int64  `etherscan:"transactionIndex,default=-1"`
	Value                Wei    `etherscan:"value"`
	Type                 int64  `etherscan:"type,default=-1"`
	ChainID              int64  `etherscan:"chainId,default=-1"`
	V                    string `etherscan:"v"`
	R                    string `etherscan:"r"`
	S                    string `etherscan:"s"`
}

// IsValid reports whether the transaction was found. Pending transactions are
// valid with BlockNumber -1.
func (t RPCTransaction) IsValid() bool {
	return t.Hash != ""
}

func (t RPCTransaction) TxHash() common.Hash {
	return common.HexToHash(t.Hash)
}

// RPCWithdrawal is a beacon chain withdrawal included in a block. Amount is in gwei.
type RPCWithdrawal struct {
	Index          int64    `etherscan:"index,default=-1"`
	ValidatorIndex int64    `etherscan:"validatorIndex,default=-1"`
	Address        string   `etherscan:"address"`
	Amount         Quantity `etherscan:"amount"`
}

// RPCBlock is an eth block object. With full transactions requested,
// Transactions is populated; otherwise TransactionHashes is.
type RPCBlock struct {
	Number            int64            `etherscan:"number,default=-1"`
	Hash              string           `etherscan:"hash"`
	ParentHash        string           `etherscan:"parentHash"`
	Nonce             string           `etherscan:"nonce"`
	Sha3Uncles        string           `etherscan:"sha3Uncles"`
	LogsBloom         string           `etherscan:"logsBloom"`
	TransactionsRoot  string           `etherscan:"transactionsRoot"`
	StateRoot         string           `etherscan:"stateRoot"`
	ReceiptsRoot      string           `etherscan:"receiptsRoot"`
	Miner             string           `etherscan:"miner"`
	Difficulty        Quantity         `etherscan:"difficulty"`
	TotalDifficulty   Quantity         `etherscan:"totalDifficulty"`
	ExtraData         string           `etherscan:"extraData"`
	Size              int64            `etherscan:"size,default=-1"`
	GasLimit          int64            `etherscan:"gasLimit,default=-1"`
	GasUsed           int64            `etherscan:"gasUsed,default=-1"`
	Timestamp         int64            `etherscan:"timestamp,default=-1"`
	BaseFeePerGas     Wei              `etherscan:"baseFeePerGas"`
	WithdrawalsRoot   string           `etherscan:"withdrawalsRoot"`
	TransactionHashes []string         `etherscan:"transactions"`
	Transactions      []RPCTransaction `etherscan:"transactions"`
	Uncles            []string         `etherscan:"uncles"`
	Withdrawals       []RPCWithdrawal  `etherscan:"withdrawals"`
}

func (b RPCBlock) IsValid() bool {
	return b.Number >= 0
}

func (b RPCBlock) BlockHash() common.Hash {
	return common.HexToHash(b.Hash)
}

// RPCReceipt is an eth transaction receipt.
type RPCReceipt struct {
	BlockHash         string `etherscan:"blockHash"`
	BlockNumber       int64  `etherscan:"blockNumber,default=-1"`
	ContractAddress   string `etherscan:"contractAddress"`
	CumulativeGasUsed int64  `etherscan:"cumulativeGasUsed,default=-1"`
	EffectiveGasPrice Wei    `etherscan:"effectiveGasPrice"`
	From              string `etherscan:"from"`
	GasUsed           int64  `etherscan:"gasUsed,default=-1"`
	Logs              []Log  `etherscan:"logs"`
	LogsBloom         string `etherscan:"logsBloom"`
	Status            int64  `etherscan:"status,default=-1"`
	To                string `etherscan:"to"`
	TransactionHash   string `etherscan:"transactionHash"`
	TransactionIndex  int64  `etherscan:"transactionIndex,default=-1"`
	Type              int64  `etherscan:"type,default=-1"`
}

func (r RPCReceipt) IsValid() bool {
	return r.BlockNumber >= 0
}

// EstimateGasParams is the call object of eth_estimateGas. Empty fields are not sent.
type EstimateGasParams struct {
	From     string
	To       string
	Data     string
	Value    Wei
	Gas      int64
	GasPrice Wei
}

func (p EstimateGasParams) apply(q *Query) {
	q.AddIfSet("from", p.From)
	q.Add("to", p.To)
	q.AddIfSet("data", p.Data)
	if p.Value.IsValid() {
		q.Add("value", hexutil.EncodeBig(p.Value.Big()))
	}
	if p.Gas > 0 {
		q.Add("gas", hexutil.EncodeInt64(p.Gas))
	}
	if p.GasPrice.IsValid() {
		q.Add("gasPrice", hexutil.EncodeBig(p.GasPrice.Big()))
	}
}

// fetchRPC decodes a proxy response. def is the sentinel used when the result
// is missing, null or malformed.
func fetchRPC[T any](ctx context.Context, c *Client, q *Query, def string) (RPCResult[T], error) {
	out := RPCResult[T]{ID: -1}
	env, err := c.get(ctx, q)
	if err != nil {
		out.Result = decodeWithDefault[T](nil, def)
		return out, err
	}
	out.Result = decodeWithDefault[T](env.result(), def)
	if rpc, ok := env.(*JSONRPCEnvelope); ok {
		out.ID = decodeWithDefault[int64](rpc.ID, "-1")
		out.Error = rpc.Error
	}
	return out, nil
}

func proxyQuery(action string) *Query {
	return NewQuery(moduleProxy, action)
}

func (c *Client) EthBlockNumber(ctx context.Context) (RPCResult[int64], error) {
	return fetchRPC[int64](ctx, c, proxyQuery("eth_blockNumber"), "-1")
}

// EthGetBlockByNumber returns a block. With full set, transactions are objects.
func (c *Client) EthGetBlockByNumber(ctx context.Context, block Tag, full bool) (RPCResult[RPCBlock], error) {
	q := proxyQuery("eth_getBlockByNumber").
		Add("tag", string(block)).
		Add("boolean", formatBool(full))
	return fetchRPC[RPCBlock](ctx, c, q, "")
}

func (c *Client) EthGetUncleByBlockNumberAndIndex(ctx context.Context, block Tag, index int64) (RPCResult[RPCBlock], error) {
	q := proxyQuery("eth_getUncleByBlockNumberAndIndex").
		Add("tag", string(block)).
		Add("index", hexutil.EncodeInt64(index))
	return fetchRPC[RPCBlock](ctx, c, q, "")
}

func (c *Client) EthGetBlockTransactionCountByNumber(ctx context.Context, block Tag) (RPCResult[int64], error) {
	q := proxyQuery("eth_getBlockTransactionCountByNumber").Add("tag", string(block))
	return fetchRPC[int64](ctx, c, q, "-1")
}

func (c *Client) EthGetTransactionByHash(ctx context.Context, txHash string) (RPCResult[RPCTransaction], error) {
	q := proxyQuery("eth_getTransactionByHash").Add("txhash", txHash)
	return fetchRPC[RPCTransaction](ctx, c, q, "")
}

func (c *Client) EthGetTransactionByBlockNumberAndIndex(ctx context.Context, block Tag, index int64) (RPCResult[RPCTransaction], error) {
	q := proxyQuery("eth_getTransactionByBlockNumberAndIndex").
		Add("tag", string(block)).
		Add("index", hexutil.EncodeInt64(index))
	return fetchRPC[RPCTransaction](ctx, c, q, "")
}

// EthGetTransactionCount returns the nonce of address.
func (c *Client) EthGetTransactionCount(ctx context.Context, address string, tag Tag) (RPCResult[int64], error) {
	q := proxyQuery("eth_getTransactionCount").
		Add("address", address).
		Add("tag", string(tag))
	return fetchRPC[int64](ctx, c, q, "-1")
}

// EthSendRawTransaction submits a signed transaction and returns its hash.
func (c *Client) EthSendRawTransaction(ctx context.Context, signedHex string) (RPCResult[string], error) {
	q := proxyQuery("eth_sendRawTransaction").Add("hex", signedHex)
	return fetchRPC[string](ctx, c, q, "")
}

func (c *Client) EthGetTransactionReceipt(ctx context.Context, txHash string) (RPCResult[RPCReceipt], error) {
	q := proxyQuery("eth_getTransactionReceipt").Add("txhash", txHash)
	return fetchRPC[RPCReceipt](ctx, c, q, "")
}

// EthCall executes a read-only message call and returns the hex return data.
func (c *Client) EthCall(ctx context.Context, to, data string, tag Tag) (RPCResult[string], error) {
	q := proxyQuery("eth_call").
		Add("to", to).
		Add("data", data).
		Add("tag", string(tag))
	return fetchRPC[string](ctx, c, q, "")
}

func (c *Client) EthGetCode(ctx context.Context, address string, tag Tag) (RPCResult[string], error) {
	q := proxyQuery("eth_getCode").
		Add("address", address).
		Add("tag", string(tag))
	return fetchRPC[string](ctx, c, q, "")
}

func (c *Client) EthGetStorageAt(ctx context.Context, address string, position int64, tag Tag) (RPCResult[string], error) {
	q := proxyQuery("eth_getStorageAt").
		Add("address", address).
		Add("position", hexutil.EncodeInt64(position)).
		Add("tag", string(tag))
	return fetchRPC[string](ctx, c, q, "")
}

func (c *Client) EthGasPrice(ctx context.Context) (RPCResult[Wei], error) {
	return fetchRPC[Wei](ctx, c, proxyQuery("eth_gasPrice"), "")
}

// EthEstimateGas estimates the gas needed by a call.
func (c *Client) EthEstimateGas(ctx context.Context, params EstimateGasParams) (RPCResult[int64], error) {
	q := proxyQuery("eth_estimateGas")
	params.apply(q)
	return fetchRPC[int64](ctx, c, q, "-1")
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
