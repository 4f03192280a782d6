// Copyright 2026 The GeneLab DAPI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command dapi runs the GeneLab data API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genelab.dev/dapi/api"
	"genelab.dev/dapi/config"
	"genelab.dev/dapi/genelab"
	"genelab.dev/dapi/logging"
	"genelab.dev/dapi/metrics"
	"genelab.dev/dapi/router"
	"genelab.dev/dapi/router/middleware/accesslog"
	"genelab.dev/dapi/router/middleware/compression"
	"genelab.dev/dapi/router/middleware/recovery"
	"genelab.dev/dapi/router/middleware/requestid"
)

// serviceConfig is the full configuration surface, bound from defaults,
// an optional config file, and DAPI_-prefixed environment variables.
type serviceConfig struct {
	Server struct {
		Addr            string        `config:"addr" validate:"required"`
		H2C             bool          `config:"h2c"`
		ReadTimeout     time.Duration `config:"read_timeout"`
		WriteTimeout    time.Duration `config:"write_timeout"`
		IdleTimeout     time.Duration `config:"idle_timeout"`
		ShutdownTimeout time.Duration `config:"shutdown_timeout"`
	} `config:"server"`

	Logging struct {
		Level  string `config:"level"`
		Format string `config:"format"`
	} `config:"logging"`

	Metrics struct {
		Enabled bool   `config:"enabled"`
		Path    string `config:"path"`
	} `config:"metrics"`

	Data struct {
		FixtureDir string `config:"fixture_dir"`
	} `config:"data"`
}

func defaults() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"addr":             ":8080",
			"read_timeout":     "15s",
			"write_timeout":    "30s",
			"idle_timeout":     "60s",
			"shutdown_timeout": "15s",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "json",
		},
		"metrics": map[string]any{
			"enabled": true,
			"path":    "/metrics",
		},
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dapi:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (yaml, toml, or json)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	opts := []config.Option{config.WithDefaults(defaults())}
	if *configPath != "" {
		opts = append(opts, config.WithFile(*configPath, false))
	}
	opts = append(opts, config.WithEnv("DAPI"))

	cfg, err := config.New(opts...)
	if err != nil {
		return err
	}
	var sc serviceConfig
	if err := cfg.Bind(&sc); err != nil {
		return err
	}
	if *addr != "" {
		sc.Server.Addr = *addr
	}

	level, err := logging.ParseLevel(sc.Logging.Level)
	if err != nil {
		return err
	}
	handlerType, err := logging.ParseHandlerType(sc.Logging.Format)
	if err != nil {
		return err
	}
	logger := logging.New(
		logging.WithHandlerType(handlerType),
		logging.WithLevel(level),
		logging.WithService("dapi", version, environment()),
	)

	backend := genelab.NewMemory()
	if sc.Data.FixtureDir != "" {
		if err := genelab.LoadFixtureDir(sc.Data.FixtureDir, backend); err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}
		logger.Info("fixtures loaded", "dir", sc.Data.FixtureDir, "datasets", backend.Len())
	}

	r := router.MustNew(
		router.WithH2C(sc.Server.H2C),
		router.WithServerTimeouts(
			5*time.Second,
			sc.Server.ReadTimeout,
			sc.Server.WriteTimeout,
			sc.Server.IdleTimeout,
		),
	)

	var recorder *metrics.Recorder
	if sc.Metrics.Enabled {
		recorder = metrics.New()
		r.Use(recorder.Middleware())
	}
	r.Use(
		requestid.New(),
		accesslog.New(
			accesslog.WithLogger(logger),
			accesslog.WithSkipper(func(c *router.Context) bool {
				return c.Request.URL.Path == sc.Metrics.Path
			}),
		),
		recovery.New(recovery.WithLogger(logger)),
		compression.New(),
	)

	api.New(backend).Register(r)

	if recorder != nil {
		h := recorder.Handler()
		r.GET(sc.Metrics.Path, func(c *router.Context) {
			h.ServeHTTP(c.Response, c.Request)
		})
	}

	r.Warmup()
	srv := r.HTTPServer(sc.Server.Addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", sc.Server.Addr, "h2c", sc.Server.H2C)
		errCh <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", sc.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// version is stamped by the build; "dev" otherwise.
var version = "dev"

func environment() string {
	if env := os.Getenv("DAPI_ENV"); env != "" {
		return env
	}
	return "development"
}
