package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"robotdriver/application/lookup"
	"robotdriver/application/plan"
	"robotdriver/infrastructure/browser"
	"robotdriver/infrastructure/config"
	"robotdriver/infrastructure/metrics"
	"robotdriver/infrastructure/security"
	"robotdriver/presentation/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP service",
	}

	var priceAddr string
	price := &cobra.Command{
		Use:   "price",
		Short: "Serve /price and /price/quick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				app.cfg.Price.Addr = priceAddr
			}
			return app.servePrice(cmd.Context())
		},
	}
	price.Flags().StringVar(&priceAddr, "addr", "", "listen address (default price.addr)")

	var planAddr string
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Serve /mcp/describe_page and /mcp/execute_plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				app.cfg.Plan.Addr = planAddr
			}
			return app.servePlan(cmd.Context())
		},
	}
	planCmd.Flags().StringVar(&planAddr, "addr", "", "listen address (default plan.addr)")

	cmd.AddCommand(price, planCmd)
	return cmd
}

// serverDeps - builds what both services share
func (a *App) serverDeps() (*metrics.Metrics, *browser.LimitedLauncher, httpapi.Options) {
	gin.SetMode(gin.ReleaseMode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNew(reg)

	launcher := browser.NewLimitedLauncher(a.newLauncher(a.cfg, a.logger), a.cfg.Browser.MaxSessions, m)
	opts := httpapi.Options{
		Logger:   a.logger,
		CORS:     a.cfg.CORS,
		Gatherer: reg,
	}
	return m, launcher, opts
}

func (a *App) servePrice(ctx context.Context) error {
	m, launcher, opts := a.serverDeps()
	flow := lookup.NewFlow(launcher, a.newAdapter(a.logger), m, a.logger)
	handler := httpapi.NewPriceHandler(flow, func() config.Credentials {
		return config.CredentialsFrom(a.v)
	}, a.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return httpapi.Serve(ctx, a.cfg.Price.Addr, httpapi.NewPriceServer(opts, handler), a.logger)
}

func (a *App) servePlan(ctx context.Context) error {
	m, launcher, opts := a.serverDeps()
	guard := security.NewSecurityLayer(a.cfg.Plan.AllowedSchemes, a.cfg.Plan.ScreenshotDir, a.logger)
	executor := plan.NewExecutor(guard, m, a.logger)
	handler := httpapi.NewPlanHandler(launcher, executor, a.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return httpapi.Serve(ctx, a.cfg.Plan.Addr, httpapi.NewPlanServer(opts, handler), a.logger)
}
