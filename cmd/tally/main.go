package main

import (
	"fmt"
	"os"

	"github.com/tally-ledger/tally/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tally:", err)
		os.Exit(1)
	}
}
