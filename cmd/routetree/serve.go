package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/inspect"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(flags *projectFlags) *cobra.Command {
	var (
		host    string
		port    int
		initial string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a router and its inspector over HTTP",
		Long: `Build a router from the project configuration and serve the
inspector: /parse, /resolve, /navigate, /state, /events (WebSocket)
and /metrics.

Examples:
  routetree serve
  routetree serve --port=8080 --initial=/home
  routetree serve --config deploy/routetree.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Inspector.Host = host
			}
			if port > 0 {
				cfg.Inspector.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := cfg.NewLogger(os.Stderr)
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			r, err := newRouter(ctx, cfg, flags, logger, reg)
			if err != nil {
				return err
			}
			if initial != "" {
				if _, err := r.NavigateByURL(ctx, initial).Wait(ctx); err != nil {
					return err
				}
			}

			insp := inspect.New(r, inspect.WithGatherer(reg), inspect.WithLogger(logger))
			defer insp.Close()

			srv := &http.Server{
				Addr:              cfg.InspectorAddress(),
				Handler:           insp.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			success(cmd, "Inspector listening on http://%s", srv.Addr)
			info(cmd, "routes: %s", cfg.RoutesPath())
			info(cmd, "current url: %s", r.URL())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info("shutting down inspector", "addr", srv.Addr)
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from inspector.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from inspector.port)")
	cmd.Flags().StringVar(&initial, "initial", "", "URL to navigate to before serving")

	return cmd
}
