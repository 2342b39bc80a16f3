package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lingua/internal/app"
	"github.com/abhisek/lingua/internal/metrics"
)

// runApp builds dependencies and launches the TUI. When a metrics address
// is configured the exporter runs alongside and stops with the UI.
func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd, runtimeOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	acct, err := rt.loadAccount(ctx)
	if err != nil {
		return err
	}
	deps := rt.screenDeps(ctx, acct)

	g, gctx := errgroup.WithContext(ctx)
	metricsCtx, stopMetrics := context.WithCancel(gctx)
	defer stopMetrics()

	if rt.cfg.MetricsAddr != "" {
		srv := metrics.NewServer(rt.cfg.MetricsAddr, rt.metrics)
		g.Go(func() error { return srv.Run(metricsCtx) })
	}
	g.Go(func() error {
		defer stopMetrics()
		return app.Run(gctx, deps)
	})
	return g.Wait()
}
