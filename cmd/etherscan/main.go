// Package main provides a command line client for the Etherscan API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/archon-research/etherscan/internal/pkg/env"
	"github.com/archon-research/etherscan/internal/pkg/telemetry"
	"github.com/archon-research/etherscan/pkg/etherscan"
)

// Build-time variables - can be set via ldflags, otherwise populated from Go's build info.
var (
	GitCommit string
	GitBranch string
	BuildTime string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if GitCommit == "" {
					GitCommit = setting.Value
				}
			case "vcs.time":
				if BuildTime == "" {
					BuildTime = setting.Value
				}
			}
		}
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: etherscan [flags] <command> [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-40s %s\n", c.usage, c.summary)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	network := flag.String("network", env.Get("ETHERSCAN_NETWORK", "mainnet"), "Network: mainnet, sepolia, holesky, goerli, ...")
	timeout := flag.Duration("timeout", env.GetDuration("ETHERSCAN_TIMEOUT", 10*time.Second), "HTTP timeout per call (0 = none)")
	unified := flag.Bool("unified", false, "Use the multichain V2 endpoint with chainid")
	retries := flag.Int("retries", 0, "Retries for rate limited or failed calls")
	ratePerSec := flag.Float64("rate", 0, "Client-side calls per second (0 = unpaced)")
	delay := flag.Duration("delay", time.Second, "Pause between calls of the demo command")
	output := flag.String("output", "text", "Output format: 'text' or 'json'")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("etherscan\n")
		fmt.Printf("  Commit:     %s\n", GitCommit)
		fmt.Printf("  Branch:     %s\n", GitBranch)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: env.ParseLogLevel(slog.LevelWarn),
	}))
	slog.SetDefault(logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "etherscan-cli",
		ServiceVersion: GitCommit,
		Environment:    env.Get("ENVIRONMENT", "local"),
		OTLPEndpoint:   env.Get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	})
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}

	exitCode := 0
	if err := run(ctx, logger, os.Stdout, runConfig{
		apiKey:     env.Get("ETHERSCAN_API_KEY", ""),
		baseURL:    env.Get("ETHERSCAN_BASE_URL", ""),
		network:    *network,
		timeout:    *timeout,
		unified:    *unified,
		retries:    *retries,
		ratePerSec: *ratePerSec,
		delay:      *delay,
		output:     *output,
	}, flag.Args()); err != nil {
		logger.Error("command failed", "error", err, "kind", etherscan.KindOf(err).String())
		exitCode = 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := shutdown(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown failed", "error", err)
	}
	shutdownCancel()

	os.Exit(exitCode)
}

type runConfig struct {
	apiKey     string
	baseURL    string
	network    string
	timeout    time.Duration
	unified    bool
	retries    int
	ratePerSec float64
	delay      time.Duration
	output     string
}

func run(ctx context.Context, logger *slog.Logger, out io.Writer, cfg runConfig, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given (try -help)")
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	if len(args)-1 < cmd.minArgs {
		return fmt.Errorf("usage: etherscan %s", cmd.usage)
	}
	if cfg.output != "text" && cfg.output != "json" {
		return fmt.Errorf("unknown output format: %s (supported: text, json)", cfg.output)
	}

	network, err := etherscan.ParseNetwork(cfg.network)
	if err != nil {
		return err
	}

	if cfg.apiKey == "" {
		logger.Warn("ETHERSCAN_API_KEY not set, calls are heavily rate limited")
	}

	client, err := etherscan.NewClient(etherscan.ClientConfig{
		Network:         network,
		APIKey:          cfg.apiKey,
		BaseURL:         cfg.baseURL,
		UnifiedAPI:      cfg.unified,
		Timeout:         cfg.timeout,
		MaxRetries:      cfg.retries,
		RateLimitPerSec: cfg.ratePerSec,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("creating etherscan client: %w", err)
	}

	p := &printer{out: out, format: cfg.output}
	return cmd.run(ctx, &session{client: client, printer: p, cfg: cfg, logger: logger}, args[1:])
}
