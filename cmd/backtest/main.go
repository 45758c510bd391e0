package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"smacross/backtest"
	"smacross/config"
	"smacross/logging"
	"smacross/market/providers"
	"smacross/strategy"
)

type cliOptions struct {
	symbol     *string
	start      *string
	end        *string
	short      *int
	long       *int
	provider   *string
	configPath *string
}

func registerFlags(fs *flag.FlagSet, cfg *config.Config) *cliOptions {
	return &cliOptions{
		symbol:     fs.String("symbol", cfg.Symbol, "ticker symbol"),
		start:      fs.String("start", cfg.Start, "start date (YYYY-MM-DD)"),
		end:        fs.String("end", cfg.End, "end date (YYYY-MM-DD)"),
		short:      fs.Int("short", cfg.ShortWindow, "short SMA window"),
		long:       fs.Int("long", cfg.LongWindow, "long SMA window"),
		provider:   fs.String("provider", "", "force a single provider (yahoo, stooq, mock)"),
		configPath: fs.String("config", "", "optional config file with defaults"),
	}
}

// applyOverrides copies only the flags the user explicitly set onto the
// config, so values loaded from a -config file survive unless a flag
// overrides them.
func applyOverrides(cfg *config.Config, fs *flag.FlagSet, opts *cliOptions) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "symbol":
			cfg.Symbol = *opts.symbol
		case "start":
			cfg.Start = *opts.start
		case "end":
			cfg.End = *opts.end
		case "short":
			cfg.ShortWindow = *opts.short
		case "long":
			cfg.LongWindow = *opts.long
		}
	})
}

func main() {
	opts := registerFlags(flag.CommandLine, config.Default())
	flag.Parse()

	cfg := config.Default()
	if *opts.configPath != "" {
		loaded, err := config.Load(*opts.configPath)
		if err != nil {
			fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyOverrides(cfg, flag.CommandLine, opts)

	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}
	startDate, _ := cfg.StartDate()
	endDate, _ := cfg.EndDate()

	logger := logging.New(cfg)
	defer logger.Sync()

	manager := providers.NewManager(logger)
	switch *opts.provider {
	case "":
		manager.AddProvider(providers.NewYahooProvider())
		manager.AddProvider(providers.NewStooqProvider())
	case "yahoo":
		manager.AddProvider(providers.NewYahooProvider())
	case "stooq":
		manager.AddProvider(providers.NewStooqProvider())
	case "mock":
		manager.AddProvider(providers.NewMockProvider())
	default:
		fatalf("unknown provider %q", *opts.provider)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout())
	defer cancel()

	fmt.Printf("Fetching data for %s from %s to %s...\n", cfg.Symbol, cfg.Start, cfg.End)
	bars, err := manager.FetchDaily(ctx, cfg.Symbol, startDate, endDate)
	if err != nil {
		fatalf("failed to fetch data for %s: %v", cfg.Symbol, err)
	}
	fmt.Printf("Fetched %d daily bars.\n", len(bars))

	result, err := strategy.Crossover(bars, cfg.ShortWindow, cfg.LongWindow)
	if err != nil {
		fatalf("signal computation failed: %v", err)
	}

	fmt.Printf("\n-- Executing Trades (SMA %d/%d) --\n", cfg.ShortWindow, cfg.LongWindow)
	_, summary := backtest.Simulate(result, os.Stdout)
	if summary.TotalTrades == 0 {
		fmt.Println("no crossovers in the requested range")
	}
	backtest.WriteSummary(os.Stdout, cfg.Symbol, summary)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
