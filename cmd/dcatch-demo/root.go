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
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dirpx.dev/dcatch"
	"dirpx.dev/dcatch/internal/config"
	"dirpx.dev/dcatch/internal/logging"
	"dirpx.dev/dcatch/internal/todo"
	"dirpx.dev/dcatch/storex"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:           "dcatch-demo",
	Short:         "Todo API demonstrating declarative error routing",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// setup loads .env and the configuration, then installs the logger.
func setup() (*config.Config, error) {
	_ = godotenv.Load()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if isDebug {
		level = slog.LevelDebug
	}
	if err := logging.Init(level, cfg.Logging.Format, os.Stderr); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDB opens the configured database with save failures routed through
// the store rules.
func openDB(ctx context.Context, cfg *config.Config, obs dcatch.Observer) (*storex.DB, error) {
	opts := []dcatch.Option{dcatch.WithLogger(logging.New("store-rules"))}
	if obs != nil {
		opts = append(opts, dcatch.WithObserver(obs))
	}
	rules, err := todo.StoreRules(opts...)
	if err != nil {
		return nil, fmt.Errorf("store rules: %w", err)
	}
	return storex.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, storex.NewGuard(rules, logging.New("storex")))
}
