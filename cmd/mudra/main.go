// Command mudra runs the hand-gesture rock-paper-scissors server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
