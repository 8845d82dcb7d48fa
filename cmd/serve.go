package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/portal"
	"github.com/ziadkadry99/api-portal/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API portal web server",
	Long:  `Starts the portal: the catalog page with Swagger UI, its JSON API, a websocket for live state, /healthz and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		page, err := portal.NewPage(a.site())
		if err != nil {
			return fmt.Errorf("building page: %w", err)
		}

		p := portal.New(a.site(), a.builder, a.mutator, a.logger.Named("portal"), a.metrics)
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: a.cfg.Server.AllowAllOrigins,
		}, a.logger.Named("http"), a.metrics)
		p.RegisterRoutes(srv.Router(), page)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("shutdown", zap.Error(err))
			}
		}()

		a.logger.Info("api portal starting",
			zap.String("version", Version),
			zap.Int("port", port),
			zap.String("site", a.cfg.SiteName),
			zap.String("storage", string(a.cfg.Storage.Backend)),
			zap.Int("domains", len(a.builder.Build(ctx))))

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
