package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/model-catalog/internal/invoke"
)

var (
	invokeResource string
	invokeEvent    string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Run one serverless invocation",
	Long: `Reads a request envelope, serves it with a fresh datastore connection and
prints the response envelope to stdout.

The event is read from --event, or from stdin when --event is empty or "-".`,
	Example: `  echo '{"httpMethod":"GET"}' | catalog invoke --resource filters
  catalog invoke --resource models --event event.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		resource, err := invoke.ParseResource(invokeResource)
		if err != nil {
			return err
		}

		ev, err := readEvent(cmd.InOrStdin(), invokeEvent)
		if err != nil {
			return err
		}

		fn := invoke.NewFunction(resource, cfg, logger)
		resp, err := fn.Invoke(cmd.Context(), ev)
		if err != nil {
			return err
		}

		out, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	invokeCmd.Flags().StringVarP(&invokeResource, "resource", "r", "", "resource to serve: filters or models")
	invokeCmd.Flags().StringVarP(&invokeEvent, "event", "e", "", "path to the event JSON (default stdin)")
	_ = invokeCmd.MarkFlagRequired("resource")
	rootCmd.AddCommand(invokeCmd)
}

func readEvent(stdin io.Reader, path string) (invoke.Event, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return invoke.Event{}, fmt.Errorf("opening event: %w", err)
		}
		defer f.Close()
		r = f
	}

	var ev invoke.Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return ev, nil
		}
		return invoke.Event{}, fmt.Errorf("decoding event: %w", err)
	}
	return ev, nil
}
