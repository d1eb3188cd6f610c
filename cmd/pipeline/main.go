// Command pipeline runs the whole flow end to end: bootstrap, cleaning,
// transformation, aggregation, and cloud sync, strictly in that order.
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

	if err := app.RunAll(ctx); err != nil {
		return 1
	}
	return 0
}
