// Command easydict translates text from the command line against an
// OpenAI-compatible chat completions backend, streaming the translation to
// stdout as it arrives.
//
// Usage:
//
//	easydict [flags] <text to translate>
//	echo "some text" | easydict [flags]
//	easydict -history 20
//
// Configuration comes from a YAML file (see -config) with EASYDICT_*
// environment variable overrides.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xutq/Raycast-Easydict/pkg/api"
	"github.com/xutq/Raycast-Easydict/pkg/config"
	"github.com/xutq/Raycast-Easydict/pkg/debug"
	"github.com/xutq/Raycast-Easydict/pkg/lang"
	"github.com/xutq/Raycast-Easydict/pkg/openai"
	"github.com/xutq/Raycast-Easydict/pkg/storage"
	"github.com/xutq/Raycast-Easydict/pkg/storage/memory"
	"github.com/xutq/Raycast-Easydict/pkg/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, context.Canceled) {
			// Ctrl-C mid-stream is not an error.
			os.Exit(130)
		}
		slog.Error("easydict failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to config file (default: ./config.yaml)")
		from       = flag.String("from", "Auto", "source language (display name or BCP 47 tag)")
		to         = flag.String("to", "Chinese-Simplified", "target language (display name or BCP 47 tag)")
		history    = flag.Int("history", 0, "print the N most recent translations and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	if *history > 0 {
		return printHistory(ctx, store, *history)
	}

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		text, err = readStdin()
		if err != nil {
			return err
		}
	}
	if text == "" {
		flag.Usage()
		return fmt.Errorf("no text to translate")
	}

	if cfg.Observability.Metrics.Enabled {
		startMetricsListener(cfg.Observability.Metrics)
	}

	client, err := openai.New(openai.Config{
		Endpoint: cfg.Translator.Endpoint,
		APIKey:   cfg.Translator.APIKey,
		Model:    cfg.Translator.Model,
		Timeout:  cfg.Translator.Timeout,
		ProxyURL: cfg.Translator.Proxy,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	// Tags like "en" or "zh-CHS" are accepted and normalized to the display
	// names the prompt builder expects.
	fromName := lang.DisplayName(*from)
	toName := lang.DisplayName(*to)

	start := time.Now()
	result, err := client.Translate(ctx, &openai.Request{
		Text: text,
		From: fromName,
		To:   toName,
		OnMessage: func(d api.Delta) {
			fmt.Print(d.Content)
		},
		OnFinish: func(string) {
			fmt.Println()
		},
	})
	if err != nil {
		return err
	}

	mode := "stream"
	if openai.RequiresNonStreaming(cfg.Translator.Model) {
		mode = "once"
	}
	rec := &storage.Record{
		ID:             storage.NewRecordID(),
		SourceText:     text,
		FromLanguage:   fromName,
		ToLanguage:     toName,
		Model:          cfg.Translator.Model,
		Mode:           mode,
		TranslatedText: result.TranslatedText,
		DurationMS:     time.Since(start).Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.SaveRecord(ctx, rec); err != nil {
		// History is best effort; the translation already printed.
		slog.Warn("saving history record", "error", err)
	} else {
		debug.Log("storage", "history record saved", "id", rec.ID, "duration_ms", rec.DurationMS)
	}

	return nil
}

// readStdin returns piped input, or empty when stdin is a terminal.
func readStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// newStore builds the history store selected by the configuration.
func newStore(ctx context.Context, cfg *config.Config) (storage.RecordStore, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(cfg.Storage.MaxSize), nil
	}
}

func printHistory(ctx context.Context, store storage.RecordStore, limit int) error {
	records, err := store.RecentRecords(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}
	for _, rec := range records {
		fmt.Printf("%s  %s -> %s  [%s]\n    %s\n    %s\n",
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.FromLanguage,
			rec.ToLanguage,
			rec.Model,
			rec.SourceText,
			rec.TranslatedText,
		)
	}
	return nil
}

// startMetricsListener serves Prometheus metrics in the background for the
// lifetime of the process.
func startMetricsListener(cfg config.MetricsConfig) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	go func() {
		slog.Info("metrics listener starting", "addr", cfg.Listen, "path", cfg.Path)
		if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
			slog.Warn("metrics listener stopped", "error", err)
		}
	}()
}
