package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ncirc/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenario results over HTTP",
		Long: `Start the dashboard API. Endpoints:
  GET /healthz
  GET /api/baseline
  GET /api/graph
  GET /api/scenario?reduction=5
  GET /api/sankey?reduction=5
  GET /api/chart.png?reduction=5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				wire.Config().ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := wire.APIServer()
			if err := server.Start(ctx); err != nil {
				return err
			}
			fmt.Printf("✓ Serving on %s (Ctrl+C to stop)\n", wire.Config().ListenAddr)

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config)")
	return cmd
}
