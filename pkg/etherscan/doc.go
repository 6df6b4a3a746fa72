// Package etherscan is a typed client for the Etherscan block explorer API.
//
// Every endpoint method follows the same pattern: build a Query, issue one GET,
// classify the response envelope into an ErrorKind and decode the result into a
// typed value. Methods return (value, error). When the call fails the value is
// the type's default instance, whose IsValid reports false, and the error is an
// *Error carrying the classified kind:
//
//	client, err := etherscan.NewClient(etherscan.ClientConfig{APIKey: key})
//	if err != nil {
//	    return err
//	}
//	balance, err := client.EtherBalance(ctx, "0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae", etherscan.TagLatest)
//	switch etherscan.KindOf(err) {
//	case etherscan.NoError:
//	    fmt.Println(balance.Eth())
//	case etherscan.MaxRateError:
//	    // back off and try again later
//	}
//
// Proxy module methods mirror JSON-RPC. Their JSON-RPC level failures are not
// client errors; they are reported on RPCResult.Error.
//
// Fields that are missing or malformed in an otherwise successful response are
// never errors: they take the sentinel default declared on the result type.
package etherscan
