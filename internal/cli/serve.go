package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/contentdesk/affkit/internal/api"
	"github.com/contentdesk/affkit/internal/config"
	"github.com/contentdesk/affkit/internal/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve product resolution, keyword research, snippet rendering and the
content planner as a JSON HTTP API for a local web front end.

Routes:
- POST   /api/products/resolve   {"url": "..."}
- POST   /api/seo/research       {"keyword": "...", "country": "...", "outline": false}
- POST   /api/snippets           {"design": "...", "products": [...]}
- GET    /api/planner            ?filter=all|pending|completed
- POST   /api/planner            {"text": "Cluster Label: ... Keywords: ..."}
- POST   /api/planner/import     CSV body
- GET    /api/planner/stats
- PATCH  /api/planner/:ref       {"done": true}
- POST   /api/planner/:ref/check {"keyword": "...", "checked": true}
- DELETE /api/planner/:ref/keywords, /api/planner/:ref, /api/planner
- GET    /healthz, /metrics

The SerpApi key is taken from the X-SerpApi-Key header, else from the
configured or stored key.`,
	Example: `  # Serve on the default address
  affkit serve

  # Listen on all interfaces and allow any origin
  AFFKIT_ALLOWED_ORIGINS="*" affkit serve --addr 0.0.0.0:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, "+config.DefaultServeAddr+")")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := mustApp(cmd)
	if err != nil {
		return err
	}

	// request logs are Info level
	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet && zerolog.GlobalLevel() > zerolog.InfoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	addr := serveAddr
	if addr == "" {
		addr = a.Config.ServeAddr
	}

	srv := api.NewServer(addr, api.Deps{
		Products:       a,
		Researcher:     a.Researcher,
		Outliner:       a.Outliner,
		Snippets:       a.Snippets,
		Planner:        a.Planner(),
		APIKey:         a.APIKey,
		Metrics:        a.Metrics.Handler(),
		Uptime:         a.Uptime,
		Version:        version,
		AllowedOrigins: a.Config.AllowedOrigins,
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.Success("Serving on"), ui.Highlight("http://"+srv.Addr()))
	return srv.Run(cmd.Context())
}
