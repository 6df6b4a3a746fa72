package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/archon-research/etherscan/pkg/etherscan"
)

// session carries what every command needs.
type session struct {
	client  *etherscan.Client
	printer *printer
	cfg     runConfig
	logger  *slog.Logger
}

type command struct {
	name    string
	usage   string
	summary string
	minArgs int
	run     func(ctx context.Context, s *session, args []string) error
}

var commands = []command{
	{name: "balance", usage: "balance <address>", summary: "Ether balance of an address", minArgs: 1, run: runBalance},
	{name: "txs", usage: "txs <address> [count]", summary: "Latest normal transactions of an address", minArgs: 1, run: runTxs},
	{name: "gas", usage: "gas", summary: "Gas oracle", run: runGas},
	{name: "price", usage: "price", summary: "Last ether price", run: runPrice},
	{name: "block", usage: "block <number|latest>", summary: "Block header via the proxy module", minArgs: 1, run: runBlock},
	{name: "abi", usage: "abi <address>", summary: "Methods and events of a verified contract", minArgs: 1, run: runABI},
	{name: "raw", usage: "raw <module> <action> [key=value...]", summary: "Raw call, prints the response body", minArgs: 2, run: runRaw},
	{name: "demo", usage: "demo <address>", summary: "Sequence of calls paced by -delay", minArgs: 1, run: runDemo},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// printer renders results as text lines or indented JSON.
type printer struct {
	out    io.Writer
	format string
}

func (p *printer) print(v any, text func(w io.Writer)) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(p.out)
	return nil
}

func runBalance(ctx context.Context, s *session, args []string) error {
	balance, err := s.client.EtherBalance(ctx, args[0], etherscan.TagLatest)
	if err != nil {
		return fmt.Errorf("fetching balance: %w", err)
	}
	return s.printer.print(balance, func(w io.Writer) {
		fmt.Fprintf(w, "%s  %s wei  (%.6f ETH)\n", balance.Account, balance.Value, balance.Eth())
	})
}

func runTxs(ctx context.Context, s *session, args []string) error {
	count := 10
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[1])
		}
		count = n
	}

	txs, err := s.client.NormalTransactions(ctx, args[0], etherscan.BlockRange{}, etherscan.Page{Page: 1, Offset: count, Sort: etherscan.SortDesc})
	if err != nil && etherscan.KindOf(err) != etherscan.NoTransactionsFoundError {
		return fmt.Errorf("fetching transactions: %w", err)
	}
	return s.printer.print(txs, func(w io.Writer) {
		if len(txs) == 0 {
			fmt.Fprintln(w, "no transactions")
			return
		}
		for _, tx := range txs {
			status := "ok"
			if tx.IsError {
				status = "failed"
			}
			fmt.Fprintf(w, "%d  %s  %s -> %s  %.6f ETH  %s\n",
				tx.BlockNumber, tx.Hash, tx.From, tx.To, tx.Value.Eth(), status)
		}
	})
}

func runGas(ctx context.Context, s *session, _ []string) error {
	oracle, err := s.client.GasOracle(ctx)
	if err != nil {
		return fmt.Errorf("fetching gas oracle: %w", err)
	}
	return s.printer.print(oracle, func(w io.Writer) {
		fmt.Fprintf(w, "block %d  safe %.2f  propose %.2f  fast %.2f gwei  (base fee %.2f)\n",
			oracle.LastBlock, oracle.SafeGasPrice, oracle.ProposeGasPrice, oracle.FastGasPrice, oracle.SuggestBaseFee)
	})
}

func runPrice(ctx context.Context, s *session, _ []string) error {
	price, err := s.client.EtherPrice(ctx)
	if err != nil {
		return fmt.Errorf("fetching ether price: %w", err)
	}
	return s.printer.print(price, func(w io.Writer) {
		at := time.Unix(price.ETHUSDTimestamp, 0).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "ETH/USD %.2f  ETH/BTC %.5f  at %s\n", price.ETHUSD, price.ETHBTC, at)
	})
}

func parseBlockTag(arg string) (etherscan.Tag, error) {
	switch arg {
	case "latest", "pending", "earliest":
		return etherscan.Tag(arg), nil
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 0 {
		return "", fmt.Errorf("invalid block %q", arg)
	}
	return etherscan.BlockTag(n), nil
}

func runBlock(ctx context.Context, s *session, args []string) error {
	tag, err := parseBlockTag(args[0])
	if err != nil {
		return err
	}
	res, err := s.client.EthGetBlockByNumber(ctx, tag, false)
	if err != nil {
		return fmt.Errorf("fetching block: %w", err)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("fetching block: %w", err)
	}
	if !res.Result.IsValid() {
		return fmt.Errorf("block %s not found", args[0])
	}

	block := res.Result
	return s.printer.print(block, func(w io.Writer) {
		fmt.Fprintf(w, "block %s  %s\n", humanize.Comma(block.Number), block.Hash)
		fmt.Fprintf(w, "  time      %s\n", time.Unix(block.Timestamp, 0).UTC().Format(time.RFC3339))
		fmt.Fprintf(w, "  miner     %s\n", block.Miner)
		fmt.Fprintf(w, "  gas       %s / %s\n", humanize.Comma(block.GasUsed), humanize.Comma(block.GasLimit))
		fmt.Fprintf(w, "  txs       %d\n", len(block.TransactionHashes))
		if block.Size >= 0 {
			fmt.Fprintf(w, "  size      %s\n", humanize.Bytes(uint64(block.Size)))
		}
		if block.BaseFeePerGas.IsValid() {
			fmt.Fprintf(w, "  base fee  %.3f gwei\n", block.BaseFeePerGas.Gwei())
		}
	})
}

type abiSummary struct {
	Methods []string `json:"methods"`
	Events  []string `json:"events"`
}

func runABI(ctx context.Context, s *session, args []string) error {
	parsed, err := s.client.ParsedContractABI(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetching ABI: %w", err)
	}

	var summary abiSummary
	for _, m := range parsed.Methods {
		summary.Methods = append(summary.Methods, m.Sig)
	}
	for _, e := range parsed.Events {
		summary.Events = append(summary.Events, e.Sig)
	}
	sort.Strings(summary.Methods)
	sort.Strings(summary.Events)

	return s.printer.print(summary, func(w io.Writer) {
		for _, m := range summary.Methods {
			fmt.Fprintf(w, "function %s\n", m)
		}
		for _, e := range summary.Events {
			fmt.Fprintf(w, "event    %s\n", e)
		}
	})
}

// rawQuery builds the query of the raw command. The API key is added here
// because the raw call does not add it.
func rawQuery(args []string, apiKey string) (*etherscan.Query, error) {
	q := etherscan.NewQuery(args[0], args[1])
	for _, kv := range args[2:] {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (want key=value)", kv)
		}
		q.Add(key, value)
	}
	if apiKey != "" && !q.Has("apikey") {
		q.Add("apikey", apiKey)
	}
	return q, nil
}

func runRaw(ctx context.Context, s *session, args []string) error {
	q, err := rawQuery(args, s.cfg.apiKey)
	if err != nil {
		return err
	}
	body, err := s.client.Call(ctx, q)
	if err != nil {
		return fmt.Errorf("raw call: %w", err)
	}

	kind, msg := etherscan.Classify(body)
	if kind != etherscan.NoError {
		s.logger.Warn("raw call reported an error", "kind", kind.String(), "message", msg)
	}
	_, err = fmt.Fprintln(s.printer.out, string(body))
	return err
}

// runDemo walks through a few endpoints, pausing between calls so that an
// anonymous key stays under the free rate limit.
func runDemo(ctx context.Context, s *session, args []string) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"balance", func() error { return runBalance(ctx, s, args[:1]) }},
		{"transactions", func() error { return runTxs(ctx, s, []string{args[0], "5"}) }},
		{"gas", func() error { return runGas(ctx, s, nil) }},
		{"price", func() error { return runPrice(ctx, s, nil) }},
		{"block", func() error { return runBlock(ctx, s, []string{"latest"}) }},
	}

	failures := 0
	for i, step := range steps {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.delay):
			}
		}
		if err := step.run(); err != nil {
			failures++
			s.logger.Error("demo step failed",
				"step", step.name,
				"kind", etherscan.KindOf(err).String(),
				"error", err,
			)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d demo steps failed", failures, len(steps))
	}
	return nil
}
