package etherscan

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const moduleAccount = "account"

// Balance is the ether balance of one account.
type Balance struct {
	Account string `etherscan:"account"`
	Value   Wei    `etherscan:"balance"`
}

func (b Balance) IsValid() bool {
	return b.Value.IsValid()
}

// Eth returns the balance in ether, or -1 when invalid.
func (b Balance) Eth() float64 {
	return b.Value.Eth()
}

// Address returns the account as a go-ethereum address.
func (b Balance) Address() common.Address {
	return common.HexToAddress(b.Account)
}

// NormalTransaction is one entry of txlist.
type NormalTransaction struct {
	BlockNumber       int64  `etherscan:"blockNumber,default=-1"`
	TimeStamp         int64  `etherscan:"timeStamp,default=-1"`
	Hash              string `etherscan:"hash"`
	Nonce             int64  `etherscan:"nonce,default=-1"`
	BlockHash         string `etherscan:"blockHash"`
	TransactionIndex  int64  `etherscan:"transactionIndex,default=-1"`
	From              string `etherscan:"from"`
	To                string `etherscan:"to"`
	Value             Wei    `etherscan:"value"`
	Gas               int64  `etherscan:"gas,default=-1"`
	GasPrice          Wei    `etherscan:"gasPrice"`
	IsError           bool   `etherscan:"isError"`
	TxReceiptStatus   string `etherscan:"txreceipt_status"`
	Input             string `etherscan:"input"`
	ContractAddress   string `etherscan:"contractAddress"`
	CumulativeGasUsed int64  `etherscan:"cumulativeGasUsed,default=-1"`
	GasUsed           int64  `etherscan:"gasUsed,default=-1"`
	Confirmations     int64  `etherscan:"confirmations,default=-1"`
	MethodID          string `etherscan:"methodId"`
	FunctionName      string `etherscan:"functionName"`
}

func (t NormalTransaction) IsValid() bool {
	return t.BlockNumber >= 0
}

// TxHash returns Hash as a go-ethereum hash.
func (t NormalTransaction) TxHash() common.Hash {
	return common.HexToHash(t.Hash)
}

// InternalTransaction is one entry of txlistinternal.
type InternalTransaction struct {
	BlockNumber     int64  `etherscan:"blockNumber,default=-1"`
	TimeStamp       int64  `etherscan:"timeStamp,default=-1"`
	Hash            string `etherscan:"hash"`
	From            string `etherscan:"from"`
	To              string `etherscan:"to"`
	Value           Wei    `etherscan:"value"`
	ContractAddress string `etherscan:"contractAddress"`
	Input           string `etherscan:"input"`
	Type            string `etherscan:"type"`
	Gas             int64  `etherscan:"gas,default=-1"`
	GasUsed         int64  `etherscan:"gasUsed,default=-1"`
	TraceID         string `etherscan:"traceId"`
	IsError         bool   `etherscan:"isError"`
	ErrCode         string `etherscan:"errCode"`
}

func (t InternalTransaction) IsValid() bool {
	return t.BlockNumber >= 0
}

// TokenTransfer is one entry of tokentx, tokennfttx or token1155tx. Value is
// empty for ERC-721, TokenID and TokenValue are empty for ERC-20.
type TokenTransfer struct {
	BlockNumber       int64    `etherscan:"blockNumber,default=-1"`
	TimeStamp         int64    `etherscan:"timeStamp,default=-1"`
	Hash              string   `etherscan:"hash"`
	Nonce             int64    `etherscan:"nonce,default=-1"`
	BlockHash         string   `etherscan:"blockHash"`
	From              string   `etherscan:"from"`
	To                string   `etherscan:"to"`
	ContractAddress   string   `etherscan:"contractAddress"`
	Value             Quantity `etherscan:"value"`
	TokenID           string   `etherscan:"tokenID"`
	TokenValue        Quantity `etherscan:"tokenValue"`
	TokenName         string   `etherscan:"tokenName"`
	TokenSymbol       string   `etherscan:"tokenSymbol"`
	TokenDecimal      int      `etherscan:"tokenDecimal,default=-1"`
	TransactionIndex  int64    `etherscan:"transactionIndex,default=-1"`
	Gas               int64    `etherscan:"gas,default=-1"`
	GasPrice          Wei      `etherscan:"gasPrice"`
	GasUsed           int64    `etherscan:"gasUsed,default=-1"`
	CumulativeGasUsed int64    `etherscan:"cumulativeGasUsed,default=-1"`
	Confirmations     int64    `etherscan:"confirmations,default=-1"`
}

func (t TokenTransfer) IsValid() bool {
	return t.BlockNumber >= 0
}

// Amount returns Value scaled by the token decimals, or -1 when either is unknown.
func (t TokenTransfer) Amount() float64 {
	if t.TokenDecimal < 0 {
		return -1
	}
	return t.Value.Scaled(t.TokenDecimal)
}

// TokenTransferFilter selects token transfers by holder, by token contract or both.
type TokenTransferFilter struct {
	Address         string
	ContractAddress string
}

func (f TokenTransferFilter) apply(q *Query) {
	q.AddIfSet("contractaddress", f.ContractAddress)
	q.AddIfSet("address", f.Address)
}

// BlockType selects mined blocks or mined uncles.
type BlockType string

const (
	BlockTypeBlocks BlockType = "blocks"
	BlockTypeUncles BlockType = "uncles"
)

// MinedBlock is a block (or uncle) validated by an address.
type MinedBlock struct {
	BlockNumber int64 `etherscan:"blockNumber,default=-1"`
	TimeStamp   int64 `etherscan:"timeStamp,default=-1"`
	BlockReward Wei   `etherscan:"blockReward"`
}

func (b MinedBlock) IsValid() bool {
	return b.BlockNumber >= 0
}

// BeaconWithdrawal is one beacon chain withdrawal credited to an address.
// Amount is in gwei.
type BeaconWithdrawal struct {
	WithdrawalIndex int64    `etherscan:"withdrawalIndex,default=-1"`
	ValidatorIndex  int64    `etherscan:"validatorIndex,default=-1"`
	Address         string   `etherscan:"address"`
	Amount          Quantity `etherscan:"amount"`
	BlockNumber     int64    `etherscan:"blockNumber,default=-1"`
	Timestamp       int64    `etherscan:"timestamp,default=-1"`
}

func (w BeaconWithdrawal) IsValid() bool {
	return w.WithdrawalIndex >= 0
}

// TokenHolding is one ERC-20 token held by an address.
type TokenHolding struct {
	TokenAddress  string   `etherscan:"TokenAddress"`
	TokenName     string   `etherscan:"TokenName"`
	TokenSymbol   string   `etherscan:"TokenSymbol"`
	TokenQuantity Quantity `etherscan:"TokenQuantity"`
	TokenDivisor  int      `etherscan:"TokenDivisor,default=-1"`
}

func (h TokenHolding) IsValid() bool {
	return h.TokenAddress != ""
}

// NFTHolding is one ERC-721 collection held by an address.
type NFTHolding struct {
	TokenAddress  string `etherscan:"TokenAddress"`
	TokenName     string `etherscan:"TokenName"`
	TokenSymbol   string `etherscan:"TokenSymbol"`
	TokenQuantity int64  `etherscan:"TokenQuantity,default=-1"`
}

func (h NFTHolding) IsValid() bool {
	return h.TokenAddress != ""
}

// NFTInventoryItem is one token id held by an address.
type NFTInventoryItem struct {
	TokenAddress string `etherscan:"TokenAddress"`
	TokenID      string `etherscan:"TokenId"`
}

func (i NFTInventoryItem) IsValid() bool {
	return i.TokenAddress != ""
}

// EtherBalance returns the ether balance of address.
func (c *Client) EtherBalance(ctx context.Context, address string, tag Tag) (Balance, error) {
	q := NewQuery(moduleAccount, "balance").
		Add("address", address).
		Add("tag", string(tag))

	value, err := fetchResult[Wei](ctx, c, q)
	if err != nil {
		return defaultOf[Balance](), err
	}
	return Balance{Account: address, Value: value}, nil
}

// EtherBalances returns the balances of up to 20 addresses in one call.
func (c *Client) EtherBalances(ctx context.Context, addresses []string, tag Tag) ([]Balance, error) {
	if len(addresses) == 0 {
		return nil, &Error{Kind: InvalidParameterError, Module: moduleAccount, Action: "balancemulti", Err: errNoAddresses}
	}
	q := NewQuery(moduleAccount, "balancemulti").
		Add("address", strings.Join(addresses, ",")).
		Add("tag", string(tag))
	return fetchList[Balance](ctx, c, q)
}

// EtherBalanceAtBlock returns the historical balance of address at block (PRO).
func (c *Client) EtherBalanceAtBlock(ctx context.Context, address string, block int64) (Balance, error) {
	q := NewQuery(moduleAccount, "balancehistory").
		Add("address", address).
		AddInt("blockno", block)

	value, err := fetchResult[Wei](ctx, c, q)
	if err != nil {
		return defaultOf[Balance](), err
	}
	return Balance{Account: address, Value: value}, nil
}

// NormalTransactions lists the transactions sent from or to address.
func (c *Client) NormalTransactions(ctx context.Context, address string, blocks BlockRange, page Page) ([]NormalTransaction, error) {
	q := NewQuery(moduleAccount, "txlist").Add("address", address)
	blocks.apply(q)
	page.apply(q)
	return fetchList[NormalTransaction](ctx, c, q)
}

// InternalTransactions lists the internal transactions of address.
func (c *Client) InternalTransactions(ctx context.Context, address string, blocks BlockRange, page Page) ([]InternalTransaction, error) {
	q := NewQuery(moduleAccount, "txlistinternal").Add("address", address)
	blocks.apply(q)
	page.apply(q)
	return fetchList[InternalTransaction](ctx, c, q)
}

// InternalTransactionsByHash lists the internal transactions of one transaction.
func (c *Client) InternalTransactionsByHash(ctx context.Context, txHash string) ([]InternalTransaction, error) {
	q := NewQuery(moduleAccount, "txlistinternal").Add("txhash", txHash)
	return fetchList[InternalTransaction](ctx, c, q)
}

// InternalTransactionsByBlockRange lists every internal transaction in a block range.
func (c *Client) InternalTransactionsByBlockRange(ctx context.Context, blocks BlockRange, page Page) ([]InternalTransaction, error) {
	q := NewQuery(moduleAccount, "txlistinternal")
	blocks.apply(q)
	page.apply(q)
	return fetchList[InternalTransaction](ctx, c, q)
}

// ERC20Transfers lists ERC-20 transfer events.
func (c *Client) ERC20Transfers(ctx context.Context, filter TokenTransferFilter, blocks BlockRange, page Page) ([]TokenTransfer, error) {
	return c.tokenTransfers(ctx, "tokentx", filter, blocks, page)
}

// ERC721Transfers lists ERC-721 transfer events.
func (c *Client) ERC721Transfers(ctx context.Context, filter TokenTransferFilter, blocks BlockRange, page Page) ([]TokenTransfer, error) {
	return c.tokenTransfers(ctx, "tokennfttx", filter, blocks, page)
}

// ERC1155Transfers lists ERC-1155 transfer events.
func (c *Client) ERC1155Transfers(ctx context.Context, filter TokenTransferFilter, blocks BlockRange, page Page) ([]TokenTransfer, error) {
	return c.tokenTransfers(ctx, "token1155tx", filter, blocks, page)
}

func (c *Client) tokenTransfers(ctx context.Context, action string, filter TokenTransferFilter, blocks BlockRange, page Page) ([]TokenTransfer, error) {
	q := NewQuery(moduleAccount, action)
	filter.apply(q)
	blocks.apply(q)
	page.apply(q)
	return fetchList[TokenTransfer](ctx, c, q)
}

// MinedBlocks lists the blocks or uncles validated by address.
func (c *Client) MinedBlocks(ctx context.Context, address string, blockType BlockType, page Page) ([]MinedBlock, error) {
	if blockType == "" {
		blockType = BlockTypeBlocks
	}
	q := NewQuery(moduleAccount, "getminedblocks").
		Add("address", address).
		Add("blocktype", string(blockType))
	page.apply(q)
	return fetchList[MinedBlock](ctx, c, q)
}

// BeaconWithdrawals lists beacon chain withdrawals to address.
func (c *Client) BeaconWithdrawals(ctx context.Context, address string, blocks BlockRange, page Page) ([]BeaconWithdrawal, error) {
	q := NewQuery(moduleAccount, "txsBeaconWithdrawal").Add("address", address)
	blocks.apply(q)
	page.apply(q)
	return fetchList[BeaconWithdrawal](ctx, c, q)
}

// TokenBalance returns the balance of an ERC-20 token held by address, in the
// token's smallest unit.
func (c *Client) TokenBalance(ctx context.Context, contract, address string, tag Tag) (Quantity, error) {
	q := NewQuery(moduleAccount, "tokenbalance").
		Add("contractaddress", contract).
		Add("address", address).
		Add("tag", string(tag))
	return fetchResult[Quantity](ctx, c, q)
}

// TokenBalanceAtBlock returns the historical ERC-20 balance at block (PRO).
func (c *Client) TokenBalanceAtBlock(ctx context.Context, contract, address string, block int64) (Quantity, error) {
	q := NewQuery(moduleAccount, "tokenbalancehistory").
		Add("contractaddress", contract).
		Add("address", address).
		AddInt("blockno", block)
	return fetchResult[Quantity](ctx, c, q)
}

// AddressTokenHoldings lists the ERC-20 tokens held by address (PRO).
func (c *Client) AddressTokenHoldings(ctx context.Context, address string, page Page) ([]TokenHolding, error) {
	q := NewQuery(moduleAccount, "addresstokenbalance").Add("address", address)
	page.apply(q)
	return fetchList[TokenHolding](ctx, c, q)
}

// AddressNFTHoldings lists the ERC-721 collections held by address (PRO).
func (c *Client) AddressNFTHoldings(ctx context.Context, address string, page Page) ([]NFTHolding, error) {
	q := NewQuery(moduleAccount, "addresstokennftbalance").Add("address", address)
	page.apply(q)
	return fetchList[NFTHolding](ctx, c, q)
}

// AddressNFTInventory lists the token ids of one collection held by address (PRO).
func (c *Client) AddressNFTInventory(ctx context.Context, address, contract string, page Page) ([]NFTInventoryItem, error) {
	q := NewQuery(moduleAccount, "addresstokennftinventory").
		Add("address", address).
		Add("contractaddress", contract)
	page.apply(q)
	return fetchList[NFTInventoryItem](ctx, c, q)
}
