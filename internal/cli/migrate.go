package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/model-catalog/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the filters and models tables if they are missing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := store.Open(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening datastore: %w", err)
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migrating datastore: %w", err)
		}

		backend, _, _ := store.Parse(cfg.DatabaseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", backend)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
