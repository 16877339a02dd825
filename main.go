// main is the entry point for the macrodash CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/macrodash/cmd"
	"github.com/huangsam/macrodash/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		iocache.CloseCaching()
		os.Exit(1)
	}
}
