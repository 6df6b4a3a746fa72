package etherscan

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const moduleContract = "contract"

// ContractSource is the verified source of a contract. Unverified contracts
// come back with an empty SourceCode and ABI "Contract source code not verified".
type ContractSource struct {
	SourceCode           string `etherscan:"SourceCode"`
	ABI                  string `etherscan:"ABI"`
	ContractName         string `etherscan:"ContractName"`
	CompilerVersion      string `etherscan:"CompilerVersion"`
	OptimizationUsed     bool   `etherscan:"OptimizationUsed"`
	Runs                 int64  `etherscan:"Runs,default=-1"`
	ConstructorArguments string `etherscan:"ConstructorArguments"`
	EVMVersion           string `etherscan:"EVMVersion"`
	Library              string `etherscan:"Library"`
	LicenseType          string `etherscan:"LicenseType"`
	Proxy                bool   `etherscan:"Proxy"`
	Implementation       string `etherscan:"Implementation"`
	SwarmSource          string `etherscan:"SwarmSource"`
}

// IsValid reports whether the contract is verified.
func (s ContractSource) IsValid() bool {
	return s.SourceCode != ""
}

// ContractCreation identifies the deployer and deployment of a contract.
type ContractCreation struct {
	ContractAddress string `etherscan:"contractAddress"`
	ContractCreator string `etherscan:"contractCreator"`
	TxHash          string `etherscan:"txHash"`
	BlockNumber     int64  `etherscan:"blockNumber,default=-1"`
	Timestamp       int64  `etherscan:"timestamp,default=-1"`
}

func (c ContractCreation) IsValid() bool {
	return c.ContractAddress != ""
}

// Creator returns the deployer as a go-ethereum address.
func (c ContractCreation) Creator() common.Address {
	return common.HexToAddress(c.ContractCreator)
}

// ContractABI returns the JSON ABI of a verified contract.
func (c *Client) ContractABI(ctx context.Context, address string) (string, error) {
	q := NewQuery(moduleContract, "getabi").Add("address", address)
	return fetchResult[string](ctx, c, q)
}

// ParsedContractABI fetches the ABI of a verified contract and parses it.
func (c *Client) ParsedContractABI(ctx context.Context, address string) (abi.ABI, error) {
	raw, err := c.ContractABI(ctx, address)
	if err != nil {
		return abi.ABI{}, err
	}
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing ABI of %s: %w", address, err)
	}
	return parsed, nil
}

// ContractSource returns the verified source of a contract.
func (c *Client) ContractSource(ctx context.Context, address string) (ContractSource, error) {
	q := NewQuery(moduleContract, "getsourcecode").Add("address", address)
	sources, err := fetchList[ContractSource](ctx, c, q)
	if err != nil || len(sources) == 0 {
		return defaultOf[ContractSource](), err
	}
	return sources[0], nil
}

// ContractCreation returns the creator and creation transaction of up to five contracts.
func (c *Client) ContractCreation(ctx context.Context, addresses ...string) ([]ContractCreation, error) {
	if len(addresses) == 0 {
		return nil, &Error{Kind: InvalidParameterError, Module: moduleContract, Action: "getcontractcreation", Err: errNoAddresses}
	}
	q := NewQuery(moduleContract, "getcontractcreation").
		Add("contractaddresses", strings.Join(addresses, ","))
	return fetchList[ContractCreation](ctx, c, q)
}

// VerificationStatus returns the status text of a source verification request,
// such as "Pass - Verified". Pending requests classify as UnknownError with
// "Pending in queue" as the message.
func (c *Client) VerificationStatus(ctx context.Context, guid string) (string, error) {
	q := NewQuery(moduleContract, "checkverifystatus").Add("guid", guid)
	return fetchResult[string](ctx, c, q)
}

// ProxyVerificationStatus returns the status text of a proxy verification request.
func (c *Client) ProxyVerificationStatus(ctx context.Context, guid string) (string, error) {
	q := NewQuery(moduleContract, "checkproxyverification").Add("guid", guid)
	return fetchResult[string](ctx, c, q)
}
