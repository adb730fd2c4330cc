package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/model-catalog/internal/server"
	"github.com/sakif/model-catalog/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(server.Config{
			Port:                 cfg.Port,
			ShutdownTimeout:      cfg.ShutdownTimeout,
			ResetSequenceOnEmpty: cfg.ResetSequenceOnEmpty,
		}, logger, st)

		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openStore connects to DATABASE_URL and applies migrations when
// AUTO_MIGRATE is on.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	if cfg.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrating datastore: %w", err)
		}
	}

	backend, _, _ := store.Parse(cfg.DatabaseURL)
	logger.Info("datastore ready", slog.String("backend", string(backend)))
	return st, nil
}
