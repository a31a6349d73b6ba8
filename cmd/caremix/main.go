package main

import (
	"os"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
