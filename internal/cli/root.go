// Package cli holds the catalog command tree.
package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/model-catalog/internal/config"
)

var (
	envFile string

	// Set by the root command before any subcommand runs.
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Model catalog API",
	Long:          "Serves the filters and models resources over HTTP, or runs one of them as a single serverless invocation.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cfg = c
		logger = newLogger(cmd.ErrOrStderr(), c)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file; environment variables take precedence")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger. Logs go to stderr so the invoke
// command can keep stdout for the response envelope.
func newLogger(w io.Writer, c *config.Config) *slog.Logger {
	level, _ := c.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
