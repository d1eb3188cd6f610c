// Command initdb creates the pipeline's database schemas and raw tables.
// Safe to re-run: existing schemas, tables, and data are left alone.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"olistdw/internal/pipeline"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()
	os.Exit(run(*verbose))
}

// run carries the exit code back to main so deferred cleanup, including the
// metrics flush, happens before the process exits.
func run(verbose bool) int {
	ctx := context.Background()
	app, err := pipeline.Setup(ctx, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer app.Close()

	if err := app.InitDB(ctx); err != nil {
		return 1
	}
	return 0
}
