package etherscan

import "context"

const moduleToken = "token"

// TokenInfo is the project information of a token (PRO).
type TokenInfo struct {
	ContractAddress string   `etherscan:"contractAddress"`
	TokenName       string   `etherscan:"tokenName"`
	Symbol          string   `etherscan:"symbol"`
	Divisor         int      `etherscan:"divisor,default=-1"`
	TokenType       string   `etherscan:"tokenType"`
	TotalSupply     Quantity `etherscan:"totalSupply"`
	BlueCheckmark   bool     `etherscan:"blueCheckmark"`
	Description     string   `etherscan:"description"`
	Website         string   `etherscan:"website"`
	Email           string   `etherscan:"email"`
	Blog            string   `etherscan:"blog"`
	Reddit          string   `etherscan:"reddit"`
	Slack           string   `etherscan:"slack"`
	Facebook        string   `etherscan:"facebook"`
	Twitter         string   `etherscan:"twitter"`
	Bitcointalk     string   `etherscan:"bitcointalk"`
	Github          string   `etherscan:"github"`
	Telegram        string   `etherscan:"telegram"`
	Wechat          string   `etherscan:"wechat"`
	Linkedin        string   `etherscan:"linkedin"`
	Discord         string   `etherscan:"discord"`
	Whitepaper      string   `etherscan:"whitepaper"`
	TokenPriceUSD   float64  `etherscan:"tokenPriceUSD,default=-1"`
}

func (t TokenInfo) IsValid() bool {
	return t.ContractAddress != ""
}

// TokenHolder is one holder of a token.
type TokenHolder struct {
	Address  string   `etherscan:"TokenHolderAddress"`
	Quantity Quantity `etherscan:"TokenHolderQuantity"`
}

func (h TokenHolder) IsValid() bool {
	return h.Address != ""
}

// TokenSupply returns the total supply of an ERC-20 token in its smallest unit.
func (c *Client) TokenSupply(ctx context.Context, contract string) (Quantity, error) {
	q := NewQuery(moduleStats, "tokensupply").Add("contractaddress", contract)
	return fetchResult[Quantity](ctx, c, q)
}

// TokenSupplyAtBlock returns the historical total supply at block (PRO).
func (c *Client) TokenSupplyAtBlock(ctx context.Context, contract string, block int64) (Quantity, error) {
	q := NewQuery(moduleStats, "tokensupplyhistory").
		Add("contractaddress", contract).
		AddInt("blockno", block)
	return fetchResult[Quantity](ctx, c, q)
}

// TokenInfo returns the project information of a token (PRO).
func (c *Client) TokenInfo(ctx context.Context, contract string) (TokenInfo, error) {
	q := NewQuery(moduleToken, "tokeninfo").Add("contractaddress", contract)
	infos, err := fetchList[TokenInfo](ctx, c, q)
	if err != nil || len(infos) == 0 {
		return defaultOf[TokenInfo](), err
	}
	return infos[0], nil
}

// TokenHolders lists the holders of a token (PRO).
func (c *Client) TokenHolders(ctx context.Context, contract string, page Page) ([]TokenHolder, error) {
	q := NewQuery(moduleToken, "tokenholderlist").Add("contractaddress", contract)
	page.apply(q)
	return fetchList[TokenHolder](ctx, c, q)
}

// TokenHolderCount returns the number of holders of a token, or -1 on failure.
func (c *Client) TokenHolderCount(ctx context.Context, contract string) (int64, error) {
	q := NewQuery(moduleToken, "tokenholdercount").Add("contractaddress", contract)
	return fetchScalar[int64](ctx, c, q, "-1")
}
