package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hlwatcher/config"
	"hlwatcher/internal/wallet"
	"hlwatcher/internal/watcher"
	"hlwatcher/logger"
	"hlwatcher/pkg/hyperliquid"
	"hlwatcher/pkg/notify"
	"hlwatcher/pkg/storage/db"
	"hlwatcher/pkg/storage/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: search ./ and ./config)")
	flag.Parse()

	// viper config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.ResolveSecrets(ctx); err != nil {
		log.Fatal("failed to resolve secrets", zap.Error(err))
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("watcher failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// position store, and the event journal when a database backs it
	var (
		store   watcher.Store
		journal *db.EventStore
	)
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn("using in-memory store; every position is reported as opened after a restart")
		store = memory.NewPositionStore()
	} else {
		client, err := db.InitializeAndMigrate(cfg, cfg.Store.CreateDB)
		if err != nil {
			return err
		}
		defer client.Close()
		store = db.NewPositionStore(client)
		if cfg.Notify.Journal {
			journal = db.NewEventStore(client)
		}
		log.Info("position store ready", zap.String("driver", cfg.Store.Driver))
	}

	// exchange transport
	var info hyperliquid.InfoClient
	switch cfg.Hyperliquid.Transport {
	case config.TransportWS:
		ws := hyperliquid.NewWSClient(cfg.Hyperliquid.WS.URL, cfg.Hyperliquid.Timeout, log)
		defer ws.Close()
		info = ws
	default:
		info = hyperliquid.NewRESTClient(cfg.Hyperliquid.REST.BaseURL, cfg.Hyperliquid.Timeout)
	}

	notifier, err := buildNotifier(cfg, journal, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := watcher.NewMetrics(reg)
	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, reg, log)
	}

	w, err := watcher.New(
		watcher.Options{
			PollInterval: cfg.Watcher.PollInterval,
			OnFetchError: watcher.FetchErrorPolicy(cfg.Watcher.OnFetchError),
		},
		func() ([]wallet.Wallet, error) { return wallet.Load(cfg.Watcher.WalletsFile) },
		hyperliquid.NewFetcher(info),
		store,
		notifier,
		metrics,
		log,
	)
	if err != nil {
		return err
	}

	return w.Run(ctx)
}

func buildNotifier(cfg *config.Config, journal *db.EventStore, log *zap.Logger) (notify.Notifier, error) {
	sinks := notify.Multi{notify.NewLog(log)}
	outbound := 0

	if url := cfg.Notify.Discord.WebhookURL; url != "" {
		sinks = append(sinks, notify.NewDiscord(url, cfg.Notify.Timeout))
		outbound++
	}
	if tg := cfg.Notify.Telegram; tg.Token != "" && tg.ChatID != 0 {
		t, err := notify.NewTelegram(tg.Token, tg.ChatID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, t)
		outbound++
	}
	if outbound == 0 {
		return nil, errors.New("no notification sink available after resolving secrets")
	}
	if journal != nil {
		sinks = append(sinks, notify.NewJournal(journal))
	}

	log.Info("notification sinks ready", zap.Int("outbound", outbound), zap.Bool("journal", journal != nil))
	return sinks, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server failed", zap.Error(err))
	}
}
