package etherscan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"
)

// captureClient serves body and records the query of the last request.
func captureClient(t *testing.T, body string) (*Client, *url.Values) {
	t.Helper()
	got := &url.Values{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		*got = r.URL.Query()
		respond(http.StatusOK, body)(w, r)
	})
	return client, got
}

func assertParams(t *testing.T, got *url.Values, want map[string]string) {
	t.Helper()
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("param %s = %q, want %q", k, got.Get(k), v)
		}
	}
}

func TestClient_NormalTransactions(t *testing.T) {
	client, query := captureClient(t, `{"status":"1","message":"OK","result":[{
		"blockNumber":"14923678","timeStamp":"1654646411","hash":"0xc52783ad354aecc04c670047754f062e3d6d04e8f5b24774472651f9c3882c60",
		"nonce":"1","from":"0x9aa99c23f67c81701c772b106b4f83f6e858dd2e","to":"0xc5102fe9359fd9a28f877a67e36b0f050d81a3cc",
		"value":"250000000000000000","gas":"21000","gasPrice":"46000000000","isError":"0","txreceipt_status":"1",
		"input":"0x","contractAddress":"","cumulativeGasUsed":"1414309","gasUsed":"21000","confirmations":"122","methodId":"0x","functionName":""
	}]}`)

	txs, err := client.NormalTransactions(context.Background(), "0xc5102fe9359fd9a28f877a67e36b0f050d81a3cc",
		BlockRange{StartBlock: 0, EndBlock: 99999999}, Page{Page: 1, Offset: 10, Sort: SortAsc})
	if err != nil {
		t.Fatalf("NormalTransactions() error = %v", err)
	}
	assertParams(t, query, map[string]string{
		"module": "account", "action": "txlist", "startblock": "0", "endblock": "99999999",
		"page": "1", "offset": "10", "sort": "asc",
	})
	if len(txs) != 1 {
		t.Fatalf("len = %d, want 1", len(txs))
	}
	tx := txs[0]
	if !tx.IsValid() || tx.BlockNumber != 14923678 {
		t.Errorf("BlockNumber = %d, want 14923678", tx.BlockNumber)
	}
	if tx.Value.Eth() != 0.25 {
		t.Errorf("Value.Eth() = %v, want 0.25", tx.Value.Eth())
	}
	if tx.GasPrice.Gwei() != 46 {
		t.Errorf("GasPrice.Gwei() = %v, want 46", tx.GasPrice.Gwei())
	}
	if tx.IsError {
		t.Error("IsError = true, want false")
	}
	if tx.TxHash().Hex() != tx.Hash {
		t.Errorf("TxHash() = %s, want %s", tx.TxHash().Hex(), tx.Hash)
	}
}

func TestClient_NoTransactionsFound(t *testing.T) {
	client, _ := captureClient(t, `{"status":"0","message":"No transactions found","result":[]}`)

	txs, err := client.InternalTransactions(context.Background(), "0xabc", BlockRange{}, Page{})
	if got := KindOf(err); got != NoTransactionsFoundError {
		t.Errorf("InternalTransactions() kind = %v, want NoTransactionsFoundError", got)
	}
	if txs != nil {
		t.Errorf("InternalTransactions() = %v, want nil", txs)
	}
}

func TestClient_EtherBalances(t *testing.T) {
	client, query := captureClient(t, `{"status":"1","message":"OK","result":[
		{"account":"0x1","balance":"1000000000000000000"},
		{"account":"0x2","balance":"garbage"}
	]}`)

	balances, err := client.EtherBalances(context.Background(), []string{"0x1", "0x2"}, TagLatest)
	if err != nil {
		t.Fatalf("EtherBalances() error = %v", err)
	}
	assertParams(t, query, map[string]string{"action": "balancemulti", "address": "0x1,0x2"})
	if len(balances) != 2 {
		t.Fatalf("len = %d, want 2", len(balances))
	}
	if balances[0].Eth() != 1.0 {
		t.Errorf("balances[0].Eth() = %v, want 1", balances[0].Eth())
	}
	if balances[1].IsValid() {
		t.Error("balances[1] is valid, want invalid for a malformed balance")
	}

	if _, err := client.EtherBalances(context.Background(), nil, TagLatest); KindOf(err) != InvalidParameterError {
		t.Errorf("EtherBalances(nil) kind = %v, want InvalidParameterError", KindOf(err))
	}
}

func TestClient_TokenTransfers(t *testing.T) {
	client, query := captureClient(t, `{"status":"1","message":"OK","result":[
		{"blockNumber":"4730207","tokenDecimal":"6","value":"1500000","tokenSymbol":"USDC","contractAddress":"0xa0b8"}
	]}`)

	transfers, err := client.ERC20Transfers(context.Background(), TokenTransferFilter{ContractAddress: "0xa0b8"}, BlockRange{}, Page{})
	if err != nil {
		t.Fatalf("ERC20Transfers() error = %v", err)
	}
	assertParams(t, query, map[string]string{"action": "tokentx", "contractaddress": "0xa0b8"})
	if query.Has("address") {
		t.Error("address sent with an empty filter field")
	}
	if len(transfers) != 1 || transfers[0].Amount() != 1.5 {
		t.Errorf("ERC20Transfers() = %+v, want one transfer of 1.5", transfers)
	}
}

func TestClient_ContractABI(t *testing.T) {
	const abiJSON = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`
	result, _ := json.Marshal(abiJSON)
	client, query := captureClient(t, `{"status":"1","message":"OK","result":`+string(result)+`}`)

	parsed, err := client.ParsedContractABI(context.Background(), "0xBB9bc244D798123fDe783fCc1C72d3Bb8C189413")
	if err != nil {
		t.Fatalf("ParsedContractABI() error = %v", err)
	}
	assertParams(t, query, map[string]string{"module": "contract", "action": "getabi"})
	if _, ok := parsed.Methods["balanceOf"]; !ok {
		t.Error("parsed ABI has no balanceOf method")
	}
}

func TestClient_ContractABI_NotVerified(t *testing.T) {
	client, _ := captureClient(t, `{"status":"0","message":"NOTOK","result":"Contract source code not verified"}`)

	_, err := client.ParsedContractABI(context.Background(), "0x1")
	if got := KindOf(err); got != UnknownError {
		t.Errorf("ParsedContractABI() kind = %v, want UnknownError", got)
	}
}

func TestClient_ContractSource(t *testing.T) {
	client, _ := captureClient(t, `{"status":"1","message":"OK","result":[{"SourceCode":"pragma solidity ^0.4.0;","ContractName":"DAO","CompilerVersion":"v0.3.1-2016-04-12-3ad5e82","OptimizationUsed":"1","Runs":"200","Proxy":"0"}]}`)

	source, err := client.ContractSource(context.Background(), "0xBB9bc244D798123fDe783fCc1C72d3Bb8C189413")
	if err != nil {
		t.Fatalf("ContractSource() error = %v", err)
	}
	if !source.IsValid() || source.ContractName != "DAO" || source.Runs != 200 {
		t.Errorf("ContractSource() = %+v", source)
	}
}

func TestClient_TransactionStatus(t *testing.T) {
	client, query := captureClient(t, `{"status":"1","message":"OK","result":{"isError":"1","errDescription":"Bad jump destination"}}`)

	status, err := client.ExecutionStatus(context.Background(), "0x15f8e5ea1079d9a0bb04a4c58ae5fe7654b5b2b4463375ff7ffb490aa0032f3a")
	if err != nil {
		t.Fatalf("ExecutionStatus() error = %v", err)
	}
	assertParams(t, query, map[string]string{"module": "transaction", "action": "getstatus"})
	if !status.IsValid() || !status.Failed() || status.ErrDescription != "Bad jump destination" {
		t.Errorf("ExecutionStatus() = %+v", status)
	}
}

func TestClient_BlockEndpoints(t *testing.T) {
	t.Run("countdown", func(t *testing.T) {
		client, _ := captureClient(t, `{"status":"1","message":"OK","result":{"CurrentBlock":"12715477","CountdownBlock":"16701588","RemainingBlock":"3986111","EstimateTimeInSec":"52616680.2"}}`)
		countdown, err := client.BlockCountdown(context.Background(), 16701588)
		if err != nil {
			t.Fatalf("BlockCountdown() error = %v", err)
		}
		if countdown.RemainingBlock != 3986111 || countdown.Remaining() < 52616680*time.Second {
			t.Errorf("BlockCountdown() = %+v", countdown)
		}
	})

	t.Run("by time", func(t *testing.T) {
		client, query := captureClient(t, `{"status":"1","message":"OK","result":"12712551"}`)
		block, err := client.BlockNumberByTime(context.Background(), time.Unix(1578638524, 0), "")
		if err != nil {
			t.Fatalf("BlockNumberByTime() error = %v", err)
		}
		assertParams(t, query, map[string]string{"timestamp": "1578638524", "closest": "before"})
		if block != 12712551 {
			t.Errorf("BlockNumberByTime() = %d, want 12712551", block)
		}
	})

	t.Run("by time failure", func(t *testing.T) {
		client, _ := captureClient(t, `{"status":"0","message":"NOTOK","result":"Error! No closest block found"}`)
		block, err := client.BlockNumberByTime(context.Background(), time.Unix(1, 0), ClosestAfter)
		if KindOf(err) != UnknownError || block != -1 {
			t.Errorf("BlockNumberByTime() = %d, %v, want -1 and UnknownError", block, err)
		}
	})
}

func TestClient_Logs(t *testing.T) {
	client, query := captureClient(t, `{"status":"1","message":"OK","result":[{
		"address":"0xbd3531da5cf5857e7cfaa92426877b022e612cf8",
		"topics":["0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef","0x0000000000000000000000000000000000000000000000000000000000000000"],
		"data":"0x","blockNumber":"0xc48174","timeStamp":"0x60f9ce56","gasPrice":"0x2e90edd000","gasUsed":"0x247205","logIndex":"0x","transactionHash":"0x4ffd","transactionIndex":"0x"
	}]}`)

	logs, err := client.Logs(context.Background(), LogQuery{
		Address:   "0xbd3531da5cf5857e7cfaa92426877b022e612cf8",
		FromBlock: 12878196,
		ToBlock:   12878196,
		Topics:    [4]string{"0xddf252ad", "", "0x0001"},
		Operators: []TopicOperator{{A: 0, B: 2, Op: OperatorAnd}},
	})
	if err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	assertParams(t, query, map[string]string{
		"module": "logs", "action": "getLogs", "fromBlock": "12878196", "toBlock": "12878196",
		"topic0": "0xddf252ad", "topic2": "0x0001", "topic0_2_opr": "and",
	})
	if query.Has("topic1") {
		t.Error("empty topic1 was sent")
	}
	if len(logs) != 1 {
		t.Fatalf("len = %d, want 1", len(logs))
	}
	if logs[0].BlockNumber != 12878196 || logs[0].GasPrice.Gwei() != 200 {
		t.Errorf("log = %+v", logs[0])
	}
	if logs[0].LogIndex != -1 {
		t.Errorf("LogIndex = %d, want -1 for a bare 0x", logs[0].LogIndex)
	}
	if len(logs[0].TopicHashes()) != 2 {
		t.Errorf("TopicHashes() = %v, want 2", logs[0].TopicHashes())
	}
}

func TestClient_Proxy(t *testing.T) {
	t.Run("block number", func(t *testing.T) {
		client, query := captureClient(t, `{"jsonrpc":"2.0","id":83,"result":"0xc36b29"}`)
		res, err := client.EthBlockNumber(context.Background())
		if err != nil {
			t.Fatalf("EthBlockNumber() error = %v", err)
		}
		assertParams(t, query, map[string]string{"module": "proxy", "action": "eth_blockNumber"})
		if res.Result != 12806953 || res.ID != 83 || res.Err() != nil {
			t.Errorf("EthBlockNumber() = %+v", res)
		}
	})

	t.Run("block by number", func(t *testing.T) {
		client, query := captureClient(t, `{"jsonrpc":"2.0","id":1,"result":{"number":"0x10d4f","hash":"0xabc123def456","timestamp":"0x55ba467c","transactions":[]}}`)
		res, err := client.EthGetBlockByNumber(context.Background(), BlockTag(68943), true)
		if err != nil {
			t.Fatalf("EthGetBlockByNumber() error = %v", err)
		}
		assertParams(t, query, map[string]string{"tag": "0x10d4f", "boolean": "true"})
		if !res.Result.IsValid() || res.Result.Hash != "0xabc123def456" || res.Result.Timestamp != 0x55ba467c {
			t.Errorf("EthGetBlockByNumber() = %+v", res.Result)
		}
	})

	t.Run("block not found", func(t *testing.T) {
		client, _ := captureClient(t, `{"jsonrpc":"2.0","id":1,"result":null}`)
		res, err := client.EthGetBlockByNumber(context.Background(), BlockTag(999999999), false)
		if err != nil {
			t.Fatalf("EthGetBlockByNumber() error = %v", err)
		}
		if res.Result.IsValid() {
			t.Error("block is valid, want invalid for a null result")
		}
	})

	t.Run("json-rpc error", func(t *testing.T) {
		client, _ := captureClient(t, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`)
		res, err := client.EthCall(context.Background(), "0xAEEF46DB4855E25702F8237E8f403FddcaF931C0", "0x70a08231", TagLatest)
		if err != nil {
			t.Fatalf("EthCall() error = %v, want nil", err)
		}
		if res.Error == nil || res.Error.Code != -32000 {
			t.Errorf("EthCall() Error = %+v, want code -32000", res.Error)
		}
		if res.Err() == nil {
			t.Error("Err() = nil, want the json-rpc error")
		}
	})

	t.Run("envelope error", func(t *testing.T) {
		client, _ := captureClient(t, `{"status":"0","message":"NOTOK","result":"Invalid API Key"}`)
		res, err := client.EthGasPrice(context.Background())
		if KindOf(err) != InvalidAPIKeyError {
			t.Errorf("EthGasPrice() kind = %v, want InvalidAPIKeyError", KindOf(err))
		}
		if res.Result.IsValid() || res.ID != -1 {
			t.Errorf("EthGasPrice() = %+v, want default", res)
		}
	})

	t.Run("receipt", func(t *testing.T) {
		client, _ := captureClient(t, `{"jsonrpc":"2.0","id":1,"result":{"blockNumber":"0xcf2420","status":"0x1","gasUsed":"0x5208","logs":[{"address":"0xdac1","topics":["0xddf2"],"logIndex":"0x0"}]}}`)
		res, err := client.EthGetTransactionReceipt(context.Background(), "0xadb8")
		if err != nil {
			t.Fatalf("EthGetTransactionReceipt() error = %v", err)
		}
		receipt := res.Result
		if receipt.Status != 1 || receipt.GasUsed != 21000 || len(receipt.Logs) != 1 || receipt.Logs[0].LogIndex != 0 {
			t.Errorf("receipt = %+v", receipt)
		}
	})

	t.Run("estimate gas params", func(t *testing.T) {
		client, query := captureClient(t, `{"jsonrpc":"2.0","id":1,"result":"0x5208"}`)
		res, err := client.EthEstimateGas(context.Background(), EstimateGasParams{
			To:       "0xf0160428a8552ac9bb7e050d90eeade4ddd52843",
			Value:    NewWei("65314"),
			Gas:      99999999,
			GasPrice: NewWei("51591"),
		})
		if err != nil {
			t.Fatalf("EthEstimateGas() error = %v", err)
		}
		assertParams(t, query, map[string]string{"value": "0xff22", "gas": "0x5f5e0ff", "gasPrice": "0xc987"})
		if query.Has("data") || query.Has("from") {
			t.Error("empty data or from was sent")
		}
		if res.Result != 21000 {
			t.Errorf("EthEstimateGas() = %d, want 21000", res.Result)
		}
	})
}

func TestClient_Gas(t *testing.T) {
	client, _ := captureClient(t, `{"status":"1","message":"OK","result":{"LastBlock":"13053741","SafeGasPrice":"20","ProposeGasPrice":"22","FastGasPrice":"24","suggestBaseFee":"19.230609716","gasUsedRatio":"0.370119078777807,0.8954731,abc,0.2"}}`)

	oracle, err := client.GasOracle(context.Background())
	if err != nil {
		t.Fatalf("GasOracle() error = %v", err)
	}
	if !oracle.IsValid() || oracle.ProposeGasPrice != 22 || oracle.SuggestBaseFee != 19.230609716 {
		t.Errorf("GasOracle() = %+v", oracle)
	}
	if got := oracle.GasUsedRatios(); len(got) != 3 {
		t.Errorf("GasUsedRatios() = %v, want 3 entries", got)
	}
}

func TestClient_GasEstimate(t *testing.T) {
	client, query := captureClient(t, `{"status":"1","message":"OK","result":"9227"}`)

	d, err := client.GasEstimate(context.Background(), NewWei("2000000000"))
	if err != nil {
		t.Fatalf("GasEstimate() error = %v", err)
	}
	assertParams(t, query, map[string]string{"module": "gastracker", "gasprice": "2000000000"})
	if d != 9227*time.Second {
		t.Errorf("GasEstimate() = %v, want 9227s", d)
	}
}

func TestClient_Stats(t *testing.T) {
	t.Run("price", func(t *testing.T) {
		client, _ := captureClient(t, `{"status":"1","message":"OK","result":{"ethbtc":"0.06116","ethbtc_timestamp":"1624961308","ethusd":"2149.18","ethusd_timestamp":"1624961308"}}`)
		price, err := client.EtherPrice(context.Background())
		if err != nil {
			t.Fatalf("EtherPrice() error = %v", err)
		}
		if price.ETHUSD != 2149.18 || price.ETHUSDTimestamp != 1624961308 {
			t.Errorf("EtherPrice() = %+v", price)
		}
	})

	t.Run("supply details", func(t *testing.T) {
		client, _ := captureClient(t, `{"status":"1","message":"OK","result":{"EthSupply":"122373866217800000000000000","Eth2Staking":"1157529105115885000000000","BurntFees":"3102505506455601519229842"}}`)
		details, err := client.EtherSupplyDetails(context.Background())
		if err != nil {
			t.Fatalf("EtherSupplyDetails() error = %v", err)
		}
		if !details.IsValid() || details.WithdrawnTotal.IsValid() {
			t.Errorf("EtherSupplyDetails() = %+v", details)
		}
	})

	t.Run("daily", func(t *testing.T) {
		client, query := captureClient(t, `{"status":"1","message":"OK","result":[
			{"UTCDate":"2019-02-01","unixTimeStamp":"1548979200","transactionCount":498856},
			{"UTCDate":"2019-02-02","unixTimeStamp":"1549065600"},
			"junk"
		]}`)
		stats, err := client.DailyStats(context.Background(), DailyTxCount, DateRange{
			Start: time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2019, 2, 2, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("DailyStats() error = %v", err)
		}
		assertParams(t, query, map[string]string{"action": "dailytx", "startdate": "2019-02-01", "enddate": "2019-02-02"})
		if len(stats) != 2 {
			t.Fatalf("len = %d, want 2", len(stats))
		}
		if stats[0].Value != 498856 || stats[0].UnixTimeStamp != 1548979200 {
			t.Errorf("stats[0] = %+v", stats[0])
		}
		if stats[1].Value != -1 {
			t.Errorf("stats[1].Value = %v, want -1", stats[1].Value)
		}
	})

	t.Run("unknown daily metric", func(t *testing.T) {
		client, _ := captureClient(t, `{}`)
		if _, err := client.DailyStats(context.Background(), DailyMetric(99), DateRange{}); KindOf(err) != InvalidParameterError {
			t.Errorf("DailyStats() kind = %v, want InvalidParameterError", KindOf(err))
		}
	})
}

func TestClient_Tokens(t *testing.T) {
	t.Run("holder count", func(t *testing.T) {
		client, query := captureClient(t, `{"status":"1","message":"OK","result":"96874"}`)
		count, err := client.TokenHolderCount(context.Background(), "0xaaaebe6fe48e54f431b0c390cfaf0b017d09d42d")
		if err != nil {
			t.Fatalf("TokenHolderCount() error = %v", err)
		}
		assertParams(t, query, map[string]string{"module": "token", "action": "tokenholdercount"})
		if count != 96874 {
			t.Errorf("TokenHolderCount() = %d, want 96874", count)
		}
	})

	t.Run("pro required", func(t *testing.T) {
		client, _ := captureClient(t, `{"status":"0","message":"NOTOK","result":"Sorry, it looks like you are trying to access an API Pro endpoint. Contact us to upgrade to API Pro."}`)
		info, err := client.TokenInfo(context.Background(), "0x0e3a2a1f2146d86a604adc220b4967a898d7fe07")
		if KindOf(err) != ProRequiredError {
			t.Errorf("TokenInfo() kind = %v, want ProRequiredError", KindOf(err))
		}
		if info.IsValid() || info.Divisor != -1 {
			t.Errorf("TokenInfo() = %+v, want default", info)
		}
	})

	t.Run("supply", func(t *testing.T) {
		client, query := captureClient(t, `{"status":"1","message":"OK","result":"21265524714464"}`)
		supply, err := client.TokenSupply(context.Background(), "0x57d90b64a1a57749b0f932f1a3395792e12e7055")
		if err != nil {
			t.Fatalf("TokenSupply() error = %v", err)
		}
		assertParams(t, query, map[string]string{"module": "stats", "action": "tokensupply"})
		if supply.String() != "21265524714464" {
			t.Errorf("TokenSupply() = %s", supply)
		}
	})
}
