package etherscan

import (
	"fmt"
	"strings"
)

// Network selects the chain, and with it the API base URL.
type Network int

const (
	Mainnet Network = iota
	Ropsten
	Rinkeby
	Goerli
	Kovan
	Sepolia
	Holesky
)

// UnifiedBaseURL is the multichain endpoint that selects the chain with a chainid parameter.
const UnifiedBaseURL = "https://api.etherscan.io/v2/api"

type networkInfo struct {
	name    string
	chainID int64
	baseURL string
}

var networks = map[Network]networkInfo{
	Mainnet: {"mainnet", 1, "https://api.etherscan.io/api"},
	Ropsten: {"ropsten", 3, "https://api-ropsten.etherscan.io/api"},
	Rinkeby: {"rinkeby", 4, "https://api-rinkeby.etherscan.io/api"},
	Goerli:  {"goerli", 5, "https://api-goerli.etherscan.io/api"},
	Kovan:   {"kovan", 42, "https://api-kovan.etherscan.io/api"},
	Sepolia: {"sepolia", 11155111, "https://api-sepolia.etherscan.io/api"},
	Holesky: {"holesky", 17000, "https://api-holesky.etherscan.io/api"},
}

// Networks lists every supported network in declaration order.
func Networks() []Network {
	return []Network{Mainnet, Ropsten, Rinkeby, Goerli, Kovan, Sepolia, Holesky}
}

// Valid reports whether n is one of the declared networks.
func (n Network) Valid() bool {
	_, ok := networks[n]
	return ok
}

func (n Network) String() string {
	if info, ok := networks[n]; ok {
		return info.name
	}
	return fmt.Sprintf("Network(%d)", int(n))
}

// ChainID returns the EIP-155 chain id, or 0 for an unknown network.
func (n Network) ChainID() int64 {
	return networks[n].chainID
}

// BaseURL returns the per-network API endpoint, or "" for an unknown network.
func (n Network) BaseURL() string {
	return networks[n].baseURL
}

// ParseNetwork resolves a network by name ("mainnet", "sepolia") case-insensitively.
func ParseNetwork(name string) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range Networks() {
		if networks[n].name == name {
			return n, nil
		}
	}
	return 0, fmt.Errorf("unknown network %q", name)
}
