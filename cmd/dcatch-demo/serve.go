/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/httpx"
	"dirpx.dev/dcatch/internal/config"
	"dirpx.dev/dcatch/internal/logging"
	"dirpx.dev/dcatch/internal/metrics"
	"dirpx.dev/dcatch/internal/todo"
	"dirpx.dev/dcatch/notify"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the todo API and its metrics",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	obs := metrics.NewObserver(reg)

	db, err := openDB(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := todo.Migrate(ctx, db); err != nil {
		return err
	}

	pub, closePub, err := newPublisher(ctx, cfg.Notify)
	if err != nil {
		return err
	}
	defer closePub()

	rules, err := todo.HTTPRules(todo.HTTPOptions{Notify: pub},
		dcatch.WithLogger(logging.New("http-rules")), dcatch.WithObserver(obs))
	if err != nil {
		return fmt.Errorf("http rules: %w", err)
	}
	api := todo.NewAPI(todo.NewStore(db), rules,
		httpx.WithTraceHeader(cfg.Server.TraceHeader), httpx.WithLogger(logging.New("http")))

	apiSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           http.TimeoutHandler(api.Routes(), cfg.Server.RequestTimeout, ""),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: metricsMux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{apiSrv, metricsSrv} {
		g.Go(func() error {
			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(apiSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

// newPublisher returns the error notifier configured by nc, or nil when
// notifications are disabled.
func newPublisher(ctx context.Context, nc config.NotifyConfig) (notify.Publisher, func(), error) {
	if nc.QueueURL == "" {
		return nil, func() {}, nil
	}
	sqsPub, err := notify.NewSQS(ctx, nc.QueueURL, nc.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	if nc.RedisURL == "" {
		return sqsPub, func() {}, nil
	}
	opts, err := redis.ParseURL(nc.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("notify: redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("notify: redis ping: %w", err)
	}
	return notify.Dedupe(sqsPub, rdb, nc.DedupWindow), func() { _ = rdb.Close() }, nil
}
