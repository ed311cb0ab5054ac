package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oakwood-commons/facetnav/cmd"
	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/source"
	"github.com/oakwood-commons/facetnav/pkg/logger"
)

func main() {
	exitCode := 0
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		exitCode = exitCodeFor(err)
	}

	logger.Sync()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// exitCodeFor maps load and config failures to 2, everything else to 1.
func exitCodeFor(err error) int {
	var loadErr *source.LoadError
	var cfgErr *config.ValidationError
	if errors.As(err, &loadErr) || errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
