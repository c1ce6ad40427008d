// Command catalogd serves the read-optimized movie/TV catalog API: home,
// title-detail, browse, and search, backed by a local store kept warm by
// a lazy backfill scheduler (see SPEC_FULL.md).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "catalogd:", err)
		os.Exit(1)
	}
}

func run() error {
	return runServer()
}
