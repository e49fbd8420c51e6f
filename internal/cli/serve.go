// Copyright 2025 The Rivaas Authors
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

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rivaas.dev/fastroute/metrics"
	"rivaas.dev/fastroute/router"
	"rivaas.dev/fastroute/router/route"
	"rivaas.dev/fastroute/tracing"
)

type serveCmd struct {
	root            *Root
	addr            string
	metricsAddr     string
	tracing         string
	otlpEndpoint    string
	sampleRate      float64
	h2c             bool
	banner          bool
	shutdownTimeout time.Duration
}

func newServe(root *Root) *serveCmd {
	return &serveCmd{root: root}
}

func (c *serveCmd) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the manifests with echo handlers",
		Long: `Serve compiles the manifests and answers every matched request with a
JSON document describing the route, target and path variables. Unmatched
requests get RFC 9457 problem responses. Send SIGHUP to reload the manifests.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	f := cmd.Flags()
	f.StringVar(&c.addr, "addr", ":8080", "Listen address")
	f.StringVar(&c.metricsAddr, "metrics-addr", ":9090", "Prometheus listen address (empty disables metrics)")
	f.StringVar(&c.tracing, "tracing", string(tracing.NoopProvider), "Tracing provider (noop, stdout, otlp, otlp-http)")
	f.StringVar(&c.otlpEndpoint, "otlp-endpoint", "", "OTLP endpoint for the otlp and otlp-http providers")
	f.Float64Var(&c.sampleRate, "sample-rate", 1, "Ratio of new traces to sample")
	f.BoolVar(&c.h2c, "h2c", false, "Accept HTTP/2 without TLS")
	f.BoolVar(&c.banner, "banner", true, "Print the startup banner")
	f.DurationVar(&c.shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	return cmd
}

func (c *serveCmd) tracingOptions() []tracing.Option {
	opts := []tracing.Option{
		tracing.WithSampleRate(c.sampleRate),
		tracing.WithServiceName("routec"),
		tracing.WithServiceVersion(Version),
	}
	switch tracing.Provider(c.tracing) {
	case tracing.OTLPProvider:
		opts = append(opts, tracing.WithOTLP(c.otlpEndpoint, tracing.OTLPInsecure()))
	case tracing.OTLPHTTPProvider:
		opts = append(opts, tracing.WithOTLPHTTP(c.otlpEndpoint))
	case tracing.StdoutProvider:
		opts = append(opts, tracing.WithStdout(os.Stderr))
	default:
		opts = append(opts, tracing.WithProvider(tracing.Provider(c.tracing)))
	}
	return opts
}

func (c *serveCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.root.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := tracing.New(ctx, append(c.tracingOptions(), tracing.WithLogger(logger))...)
	if err != nil {
		return err
	}
	rec, err := metrics.New(
		metrics.WithServiceName("routec"),
		metrics.WithServiceVersion(Version),
		metrics.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	l := &loader{root: c.root, logger: logger}
	r, _, err := l.newRouter(
		router.WithTracerProvider(tr.TracerProvider()),
		router.WithPropagator(tr.Propagator()),
		router.WithMeterProvider(rec.MeterProvider()),
		router.WithH2C(c.h2c),
	)
	if err != nil {
		return err
	}
	if err := r.Compile(); err != nil {
		return err
	}

	if c.banner {
		printBanner(cmd.OutOrStdout(), bannerInfo{
			addr:        c.addr,
			metricsAddr: c.metricsAddr,
			tracing:     c.tracing,
			h2c:         c.h2c,
			routes:      len(r.Routes()),
		})
	}

	var metricsSrv *http.Server
	if c.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.Handler())
		metricsSrv = &http.Server{
			Addr:              c.metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.Serve(c.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", c.addr, err)
		}
		return nil
	})
	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info("serving metrics", slog.String("addr", c.metricsAddr+"/metrics"))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics %s: %w", c.metricsAddr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		c.watchReload(ctx, l, r)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), c.shutdownTimeout)
		defer cancel()
		errs := []error{r.Shutdown(sctx)}
		if metricsSrv != nil {
			errs = append(errs, metricsSrv.Shutdown(sctx))
		}
		errs = append(errs, tr.Shutdown(sctx), rec.Shutdown(sctx))
		return errors.Join(errs...)
	})
	return g.Wait()
}

// watchReload reloads the manifests on SIGHUP until ctx is done.
func (c *serveCmd) watchReload(ctx context.Context, l *loader, r *router.Router) {
	sig, stop := reloadSignal()
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			if err := reload(l, r); err != nil {
				l.logger.Error("reload failed, keeping current routes", "error", err)
			}
		}
	}
}

// reload re-reads the manifests and swaps the route table together with the
// root path. On error the current table stays in place.
func reload(l *loader, r *router.Router) error {
	m, err := l.manifest()
	if err != nil {
		return err
	}
	if err := l.registerUnknown(r, m); err != nil {
		return err
	}
	return r.Reload(func(s route.Scope) error {
		return m.Apply(s, resolver)
	}, router.ReloadRootPath(l.rootPath(m)))
}
