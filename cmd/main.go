package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/platform"
	"github.com/gamma-omg/atr-backtester/internal/runner"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.ReadFromFile(os.Getenv("CONFIG"))
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	src, err := platform.Create(logger, cfg.SourceRef)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Error("failed to close bar source", slog.Any("error", err))
			}
		}()
	}

	r, err := runner.NewRunner(logger, *cfg, src)
	if err != nil {
		return err
	}
	logger.Info("run started",
		slog.String("run_id", r.RunID().String()),
		slog.Any("symbols", cfg.Symbols))

	if _, err := r.Run(ctx); err != nil {
		return err
	}

	return nil
}
