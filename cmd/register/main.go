// Command register drives the onboarding registration flow from a terminal:
// directory lookups, account validation and submission against the
// onboarding API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
