// Copyright 2025 The Scribe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the Scribe log-ingest and query server.

Scribe accepts free-text log lines over HTTP, interns their tokens into a
compact numeric vocabulary, and persists them time-indexed for later
range/prefix/word-set queries.

# Storage

The Log Store backend is selected by the config's store_url: empty selects
an in-memory relational store (modernc.org/sqlite); a mongodb:// or
mongodb+srv:// URL selects the document store (go.mongodb.org/mongo-driver).

# Config

Runtime configuration is a YAML document with ip, port and store_url. A
default configuration is created automatically if one does not exist.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/scribehq/scribe/internal/httpapi"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/pkg/config"
	"github.com/scribehq/scribe/pkg/dictionary"
	"github.com/scribehq/scribe/pkg/logstore"
	"github.com/scribehq/scribe/pkg/logstore/docstore"
	"github.com/scribehq/scribe/pkg/logstore/sqlstore"
	"github.com/scribehq/scribe/pkg/query"
)

const (
	Version = "0.1.0-beta"
	AppName = "scribe"
	gh      = "https://github.com/scribehq/scribe"
)

// sigHandler is a simple handler for OS signals that triggers graceful
// shutdown through cancel rather than exiting the process immediately.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nShutting down...\n")
		cancel()
	}()
}

func main() {
	showVersion := flag.Bool("version", false, "show current version")
	configFile := flag.String("config", "scribe.yaml", "path to config YAML file")
	snapshotFile := flag.String("snapshot", "", "optional dictionary snapshot to bulk-load at startup (.msgpack for the binary codec, else text)")
	debugMode := flag.Bool("v", false, "toggle verbose mode")
	flag.Parse()

	if *showVersion {
		printVersionBanner()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	cfg, err := config.InitConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open log store: %v", err)
	}
	defer closeStore()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate log store: %v", err)
	}

	dict := dictionary.New()
	if err := restoreDictionary(ctx, dict, store, *snapshotFile); err != nil {
		log.Warnf("dictionary restore skipped: %v", err)
	}

	engine := query.New(store, dict)
	api := httpapi.New(engine, Version, logger.Default("http"))

	addr := fmt.Sprintf("%s:%d", cfg.IP, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: api.Router()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		log.Info("stopping HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		persistDictionary(shutdownCtx, dict, store)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Info("shutdown complete")
}

// openStore selects and opens the Log Store backend named by cfg.StoreURL,
// returning a cleanup func that closes it with a background context.
func openStore(ctx context.Context, cfg *config.Config) (logstore.LogStore, func(), error) {
	if cfg.UsesDocStore() {
		store, err := docstore.Open(ctx, cfg.StoreURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close(context.Background()) }, nil
	}
	store, err := sqlstore.Open(cfg.StoreURL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close(context.Background()) }, nil
}

// restoreDictionary bulk-loads dict from the store's persisted snapshot, or
// from a local snapshot file if snapshotPath is given and no store snapshot
// exists yet. Either source is validated with dictionary.ValidateCoherent
// before BulkLoad, so a corrupt snapshot is rejected rather than silently
// wired into the Dictionary's id->word inverse.
func restoreDictionary(ctx context.Context, dict *dictionary.Dictionary, store logstore.LogStore, snapshotPath string) error {
	snapshotter, ok := store.(logstore.DictionarySnapshotter)
	if !ok {
		return logstore.ErrUnavailable
	}
	m, err := snapshotter.LoadDictionary(ctx)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	if len(m) > 0 {
		if err := dictionary.ValidateCoherent(m); err != nil {
			return fmt.Errorf("store snapshot incoherent: %w", err)
		}
		dict.BulkLoad(m)
		log.Infof("restored %d words from store snapshot", len(m))
		return nil
	}
	if snapshotPath == "" {
		return nil
	}
	f, err := os.Open(snapshotPath)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()
	if strings.HasSuffix(snapshotPath, ".msgpack") {
		m, err = dictionary.ReadMsgpack(f)
	} else {
		m, err = dictionary.ReadText(f)
	}
	if err != nil {
		return fmt.Errorf("read snapshot file: %w", err)
	}
	if err := dictionary.ValidateCoherent(m); err != nil {
		return fmt.Errorf("snapshot file incoherent: %w", err)
	}
	dict.BulkLoad(m)
	log.Infof("restored %d words from %s", len(m), snapshotPath)
	return nil
}

// persistDictionary saves dict's current word->id mapping to the store ahead
// of process exit, so the next restoreDictionary call has a store snapshot
// to load instead of falling back to the (possibly stale) snapshot file.
// Failure is logged, not fatal: shutdown proceeds either way.
func persistDictionary(ctx context.Context, dict *dictionary.Dictionary, store logstore.LogStore) {
	snapshotter, ok := store.(logstore.DictionarySnapshotter)
	if !ok {
		return
	}
	m := dict.Snapshot()
	if err := snapshotter.SaveDictionary(ctx, m); err != nil {
		log.Warnf("failed to persist dictionary snapshot: %v", err)
		return
	}
	log.Infof("persisted %d words to store snapshot", len(m))
}

func printVersionBanner() {
	l := log.NewWithOptions(os.Stderr, log.Options{ReportCaller: false, ReportTimestamp: false})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[Scribe] compact log-ingest and query service")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use --help to see available options")
	l.Print("")
	l.Print("Find out more at", "gh", gh)
}
