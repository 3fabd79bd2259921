package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/checkout-kit/internal/app"
	"github.com/samvad-hq/checkout-kit/internal/config"
	"github.com/samvad-hq/checkout-kit/internal/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "checkout failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.Flags("checkout")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("checkout starting", "config", map[string]any{
		"environment":      cfg.Environment.String(),
		"base_url":         cfg.BaseURL(cfg.Environment),
		"order_intent":     cfg.OrderIntent,
		"order_id":         cfg.OrderID,
		"token_cache_type": cfg.TokenCacheType,
		"publishers_file":  cfg.PublishersFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checkout, err := app.NewCheckout(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize checkout", "error", err)
		return err
	}

	order, err := checkout.Run(ctx)
	if err != nil {
		return fmt.Errorf("checkout run: %w", err)
	}

	fmt.Printf("order %s %s\n", order.ID, order.Status)
	if url := order.ApprovalURL(); url != "" {
		fmt.Printf("approve at %s\n", url)
	}
	return nil
}
