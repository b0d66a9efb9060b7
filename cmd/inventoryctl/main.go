package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger-api/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
