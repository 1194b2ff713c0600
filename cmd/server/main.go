// Command server runs the magazine bookings ledger: the HTTP API, schema
// migrations and the ledger event consumer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
