package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"panchview/internal/almanac"
	"panchview/internal/capture"
	"panchview/internal/config"
	appLog "panchview/internal/log"
	"panchview/internal/view"
	"panchview/internal/web"
)

// flagConfig holds CLI flag values. Flags override the corresponding config
// file entries when set.
type flagConfig struct {
	configPath string
	listen     string
	sourceURL  string
	once       bool
	snapshot   bool
	debug      bool
}

func main() {
	flags := parseFlags()

	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("panchview starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.sourceURL != "" {
		conf.SourceURL = flags.sourceURL
	}
	if conf.SourceURL == "" {
		appLog.Error("no almanac source configured", errors.New("source_url is empty"), "config_path", flags.configPath)
		os.Exit(1)
	}

	cacheDir := conf.CacheDir
	if flags.debug {
		cacheDir = "./cache/almanac-cache"
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"source_url", conf.SourceURL,
		"refresh", conf.RefreshCron,
		"source_offset_minutes", conf.SourceOffsetMinutes,
		"target_offset_minutes", conf.TargetOffsetMinutes,
		"cache_dir", cacheDir,
		"once", flags.once,
		"snapshot", flags.snapshot,
	)

	conv := conf.Converter()
	store := almanac.NewStore()
	fetcher := almanac.NewFetcher(cacheDir)

	refresh := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		res, err := fetcher.Fetch(ctx, conf.SourceURL)
		if err != nil {
			appLog.Error("almanac refresh failed", err, "url", conf.SourceURL)
			store.SetError(err)
			return
		}

		doc, err := almanac.Build(string(res.Body), conv)
		if err != nil {
			appLog.Error("almanac parse failed", err, "url", conf.SourceURL, "bytes", len(res.Body))
			store.SetError(err)
			return
		}

		store.Set(doc, res.FromCache)
		appLog.Info("almanac refreshed",
			"from_cache", res.FromCache,
			"tithi", len(doc.Tithi.Intervals),
			"nakshatra", len(doc.Nakshatra.Intervals),
			"yogam", len(doc.Yogam.Intervals),
			"karanam", len(doc.Karanam.Intervals),
		)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		runOnce(ctx, refresh, store, conv)
		return
	}

	// Initial load before the first cron tick so the UI has data right away.
	refresh(ctx)

	sched := cron.New()
	if _, err := sched.AddFunc(conf.RefreshCron, func() {
		refresh(ctx)
		if flags.snapshot {
			runSnapshot(ctx, conf.Listen, flags.debug)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	srv := web.NewServer(conf, store, conv, flags.debug)
	httpSrv := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err, "listen", conf.Listen)
			cancel()
		}
	}()

	if flags.snapshot {
		// First snapshot once the server is up.
		go runSnapshot(ctx, conf.Listen, flags.debug)
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP server shutdown failed", err)
	}
	appLog.Info("panchview exiting")
}

// runOnce does one fetch+parse+resolve pass and prints the view to stdout.
func runOnce(ctx context.Context, refresh func(context.Context), store *almanac.Store, conv *almanac.Converter) {
	refresh(ctx)

	snap := store.Snapshot()
	if snap.Err != nil {
		appLog.Error("single-shot load failed", snap.Err)
		os.Exit(1)
	}

	fmt.Print(view.Build(snap.Doc, time.Now(), conv).Text())
}

// runSnapshot captures the display page into the preview PNG served at
// /preview.png.
func runSnapshot(ctx context.Context, listen string, debug bool) {
	out := web.PreviewPath(debug)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		appLog.Error("snapshot dir create failed", err, "path", out)
		return
	}

	err := capture.SnapshotPNG(ctx, capture.Options{
		URL:        "http://" + listen + "/",
		OutputPath: out,
	})
	if err != nil {
		appLog.Error("snapshot capture failed", err, "output", out)
		return
	}
	appLog.Info("snapshot captured", "output", out)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/panchview/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.sourceURL, "source", "", "Almanac source URL (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Fetch and resolve once, print to stdout, then exit")
	flag.BoolVar(&cfg.snapshot, "snapshot", false, "Capture a PNG snapshot of the display page after each refresh")
	flag.BoolVar(&cfg.debug, "debug", false, "Debug logging and local cache/preview paths")

	flag.Parse()

	return cfg
}
