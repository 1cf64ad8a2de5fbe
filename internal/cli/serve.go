package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/internal/server"
	"github.com/matzehuels/conceptmap/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the concept map HTTP API",
		Long: `Serve the concept map HTTP API.

Endpoints:
  POST /v1/graphs           build a graph, respond with the scene as JSON
  POST /v1/graphs/render    build and render (?format=svg|png|dot|json|pdf)
  GET  /v1/similarity       score two terms (?a=perro&b=gato)
  GET  /healthz             liveness
  GET  /version             build information
  GET  /metrics             Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, eng, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			metrics := server.NewMetrics(appName)
			metrics.Install()
			defer observability.Reset()

			srv := server.New(server.Config{
				Runner:  eng.runner,
				Oracle:  eng.oracle,
				Options: cfg.PipelineOptions(),
				Style:   cfg.Style,
				Display: cfg.DisplaySize(),
				MaxBody: cfg.Server.MaxBody,
				Metrics: metrics,
				Logger:  loggerFromContext(ctx),
			})

			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			printDetail("lexicon %s · cache %s", cfg.LexiconName(), cfg.Cache.Backend)
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")

	return cmd
}
