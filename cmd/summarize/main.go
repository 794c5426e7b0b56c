package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/department-summary/internal/aggregate"
	"github.com/spec-kit/department-summary/internal/cli"
	"github.com/spec-kit/department-summary/internal/config"
	"github.com/spec-kit/department-summary/internal/domain"
	"github.com/spec-kit/department-summary/internal/observability"
	"github.com/spec-kit/department-summary/internal/service"
	"github.com/spec-kit/department-summary/internal/source"
	"github.com/spec-kit/department-summary/internal/store"
)

func main() {
	url := flag.String("url", "", "user source URL (overrides SOURCE_URL)")
	policyFlag := flag.String("policy", "", "malformed record policy: skip or reject (overrides AGGREGATE_MALFORMED_POLICY)")
	asJSON := flag.Bool("json", false, "print the summary as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		exitf("load config: %v", err)
	}
	if *url != "" {
		cfg.Source.URL = *url
	}
	if *policyFlag != "" {
		cfg.Aggregate.MalformedPolicy = *policyFlag
	}
	// stdout carries the report
	cfg.Logger.Output = "stderr"
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		exitf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	policy, err := aggregate.ParsePolicy(cfg.Aggregate.MalformedPolicy)
	if err != nil {
		logger.Fatal("invalid malformed record policy", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.NewSummaryService(service.SummaryDependencies{
		Fetcher: source.NewHTTPFetcher(cfg.Source, logger),
		Store:   store.NewMemoryStore(),
		Policy:  policy,
		Logger:  logger,
	})

	var snap *domain.Snapshot
	err = cli.WithSpinner(os.Stderr, "fetching "+cfg.Source.URL, func() error {
		var rerr error
		snap, rerr = svc.Refresh(ctx)
		return rerr
	})
	if err != nil {
		logger.Fatal("summarize failed", zap.String("source", cfg.Source.URL), zap.Error(err))
	}

	if *asJSON {
		out, err := snap.Summary.MarshalJSON()
		if err != nil {
			logger.Fatal("encode summary", zap.Error(err))
		}
		fmt.Println(string(out))
		return
	}
	if err := cli.RenderSnapshot(os.Stdout, snap); err != nil {
		logger.Fatal("render summary", zap.Error(err))
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
