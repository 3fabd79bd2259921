package main

import (
	"errors"
	"fmt"
	"os"

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
		fmt.Fprintf(os.Stderr, "buttons failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.Flags("buttons")
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

	logger.InfoObj("buttons starting", "config", map[string]any{
		"buttons_file":   cfg.ButtonsFile,
		"buttons_output": cfg.ButtonsOutput,
	})

	runtime, err := app.NewButtons(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize buttons", "error", err)
		return err
	}

	path, err := runtime.Run()
	if err != nil {
		return fmt.Errorf("buttons run: %w", err)
	}
	fmt.Println(path)
	return nil
}
