package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/nah-machine/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and state over HTTP",
		Long: `Start the HTTP API.

  GET  /no, /no/multiple?count=N, /no/category/:category, /no/categories, /no/stats
  GET  /api/state, /api/favorites
  POST /api/reason/{refresh,generate,like,save}
  POST|DELETE /api/liked, /api/saved
  DELETE /api/recent`,
		Args: cobra.NoArgs,
		Run:  runServe,
	}

	cmd.Flags().StringP("listen", "l", "127.0.0.1:8080", "Listen address")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	a := openApp(cmd)
	defer a.Close()

	srv := server.NewServer(server.RouterConfig{
		CatalogHandler: &server.CatalogHandler{Catalog: a.catalog},
		StateHandler:   &server.StateHandler{Machine: a.machine},
		HealthHandler:  &server.HealthHandler{},
		Logger:         a.log,
		AllowOrigins:   a.cfg.Server.AllowOrigins,
	})

	a.log.Info("serving", "address", a.cfg.Server.Listen, "store", a.cfg.Store.Driver, "source", a.cfg.Gateway.Source, "generate", a.machine.CanGenerate())
	if err := srv.Run(ctx, a.cfg.Server.Listen); err != nil {
		exitErr("serve", err)
	}
}
