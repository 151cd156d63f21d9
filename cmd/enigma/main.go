package main

import (
	"os"

	"github.com/dd0wney/cluso-enigma/pkg/metrics"
)

func main() {
	if err := newRootCommand(metrics.DefaultRegistry()).Execute(); err != nil {
		os.Exit(1)
	}
}
