package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/popcorn/internal/app"
	"github.com/pdiddy/popcorn/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI and JSON API",
	Long: `Serve starts the popcorn web page: a search box, the result list, and a
side pane that shows either the watched list with its summary or the
selected movie with a rating control. The JSON API is served under /api.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEnv(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	a := app.New(ctx, app.Deps{
		Search:  e.client,
		Detail:  e.client,
		Watched: e.store,
		Logger:  e.logger,
	})
	defer a.Close()

	srv := web.New(web.Options{
		App:            a,
		Search:         e.client,
		Detail:         e.client,
		Logger:         e.logger,
		AllowedOrigins: e.cfg.Server.AllowedOrigins,
	})
	return srv.ListenAndServe(ctx, e.cfg.Server.Addr)
}
