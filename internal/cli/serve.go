package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/scopeplot/internal/metrics"
	"github.com/matzehuels/scopeplot/internal/server"
	"github.com/matzehuels/scopeplot/pkg/config"
	"github.com/matzehuels/scopeplot/pkg/store"
)

type serveOpts struct {
	session sessionFlags
	addr    string
	backend string
	noStore bool
	idle    bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live session over HTTP",
		Long: `Run a scope session behind an HTTP API. The sine producer feeds the
session unless --idle is set, in which case batches arrive via POST /api/data.
Prometheus metrics are exposed on /metrics.`,
		Example: `  scopeplot serve --addr :9090 --mode buffer
  scopeplot serve --idle --store redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	opts.session.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.backend, "store", "", "layout store: file, redis or mongo (default from config)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "disable the layout routes")
	cmd.Flags().BoolVar(&opts.idle, "idle", false, "do not start the signal producer")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig(&opts.session)
	if err != nil {
		return err
	}

	// Hooks go in before the session is built; it binds them at construction.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := metrics.New(reg)
	hooks.Install()

	sess, gen, err := c.newSession(cfg)
	if err != nil {
		return err
	}
	hooks.WatchBufferFill(func() float64 { return sess.Snapshot().BufferFill })

	var st store.Store
	if !opts.noStore {
		st, err = c.openStore(ctx, cfg, opts.backend)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv, err := server.New(server.Options{
		Addr:    addr,
		Session: sess,
		Store:   st,
		Logger:  c.Logger,
		Metrics: metrics.Handler(reg),
	})
	if err != nil {
		return err
	}

	printInfo("Serving %s session on %s", cfg.Mode, srv.Addr())
	printKeyValue("channels", fmt.Sprint(cfg.Channels))
	if st == nil {
		printWarning("Layout store disabled")
	} else {
		printKeyValue("store", storeName(cfg, opts.backend))
	}
	if opts.idle {
		printKeyValue("producer", "off")
	}
	printNextStep("Frame", "curl http://localhost"+portOf(srv.Addr())+"/api/frame.svg")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gCtx) })
	if !opts.idle {
		batches := make(chan [][]float64)
		g.Go(func() error { return gen.Run(gCtx, batches) })
		g.Go(func() error { return sess.Feed(gCtx, batches) })
	}

	err = g.Wait()
	if ctx.Err() != nil {
		printSuccess("Server stopped")
		return ctx.Err()
	}
	return err
}

// portOf returns the ":port" suffix of a listen address.
func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return ":" + port
}

func storeName(cfg config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Store.Backend
}
