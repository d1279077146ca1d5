// File: cmd/threadname/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// threadname starts a worker pool, renames every worker behind the rename
// barrier and prints the resulting names. With --watch it keeps running and
// re-applies the pool size and base name whenever the config file changes.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/phuslu/log"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/momentics/hioload-threadname/adapters"
	"github.com/momentics/hioload-threadname/control"
	"github.com/momentics/hioload-threadname/internal/logging"
	"github.com/momentics/hioload-threadname/threadname"
)

func main() {
	app := &cli.App{
		Name:  "threadname",
		Usage: "rename every worker of a thread pool and show the result",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "The path to the configuration file",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of pool workers (overrides pool.workers)",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Base name for workers (overrides rename.base_name)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve /metrics and /debug/threads on this address",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and apply config file changes",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	configPath := cCtx.String("config")
	cfg, err := control.Load(configPath)
	if err != nil {
		return err
	}
	if cCtx.IsSet("workers") {
		cfg.Pool.Workers = cCtx.Int("workers")
	}
	if cCtx.IsSet("name") {
		cfg.Rename.BaseName = cCtx.String("name")
	}
	if cCtx.IsSet("metrics-addr") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = cCtx.String("metrics-addr")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	root, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	logging.SetRoot(root)
	logger := logging.Module("main")

	pool := adapters.NewPoolAdapter(cfg.Pool, logging.Module("pool"))
	defer pool.Stop(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renameOpts := []threadname.Option{threadname.WithLogger(logging.Module("threadname"))}
	if cfg.Metrics.Enabled {
		obs, err := serveMetrics(ctx, cfg.Metrics, pool, logger)
		if err != nil {
			return err
		}
		renameOpts = append(renameOpts, threadname.WithObserver(obs))
	}

	rename := func(rc control.RenameConfig) {
		res := threadname.RenameAll(pool, rc.BaseName, append(rc.Options(), renameOpts...)...)
		logger.Info().
			Str("base", rc.BaseName).
			Int("workers", res.Submitted).
			Int("renamed", res.Renamed).
			Dur("elapsed", res.Elapsed).
			Msg("pool renamed")
		printWorkers(os.Stdout, pool)
	}
	rename(cfg.Rename)

	if !cCtx.Bool("watch") {
		return nil
	}
	if configPath == "" {
		return errors.New("--watch needs --config")
	}

	store := control.NewConfigStore(cfg)
	store.OnReload(func(old, cur control.Config) {
		if cur.Pool.Workers != old.Pool.Workers && cur.Pool.Workers > 0 {
			pool.Resize(cur.Pool.Workers)
		}
		rename(cur.Rename)
	})
	w, err := control.NewWatcher(configPath, store, logging.Module("config"))
	if err != nil {
		return err
	}
	logger.Info().Str("path", configPath).Msg("watching config")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// serveMetrics exposes Prometheus metrics and the debug probes until ctx ends.
func serveMetrics(ctx context.Context, mc control.MetricsConfig, pool *adapters.PoolAdapter, logger log.Logger) (*control.RenameMetrics, error) {
	reg := prom.NewRegistry()
	obs, err := control.NewRenameMetrics(mc.Namespace, reg)
	if err != nil {
		return nil, err
	}
	if err := control.RegisterPoolGauges(mc.Namespace, reg, pool.Stats); err != nil {
		return nil, err
	}

	probes := control.NewDebugProbes()
	control.RegisterPoolProbes(probes, pool)
	control.RegisterPlatformProbes(probes)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/threads", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(probes.DumpState())
	})

	srv := &http.Server{Addr: mc.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info().Str("addr", mc.Addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return obs, nil
}

func printWorkers(out io.Writer, pool *adapters.PoolAdapter) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tNAME")
	for _, w := range pool.Workers() {
		fmt.Fprintf(tw, "%d\t%s\n", w.Slot, w.Name)
	}
	_ = tw.Flush()
}
