// Command catalog serves the model catalog API.
//
//	catalog serve                       long-running HTTP server
//	catalog invoke --resource models    one serverless invocation (event on stdin)
//	catalog migrate                     create tables
//
// Configuration comes from the environment and an optional .env file; see
// internal/config.
package main

import (
	"fmt"
	"os"

	"github.com/sakif/model-catalog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
