// Focusflow is a CLI for tracking focus sessions, streaks and achievements.
package main

import (
	"fmt"
	"os"

	"github.com/swamp-dev/focusflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
