package main

import (
	"errors"
	"os"

	"github.com/pders01/srch/internal/debuglog"
	"github.com/pders01/srch/internal/output"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	err := newRootCmd().Execute()
	_ = debuglog.Close()
	if err == nil {
		return
	}

	p := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(true))
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		p.FormatError(cliErr)
		os.Exit(cliErr.ExitCode)
	}
	p.Error("%v", err)
	os.Exit(output.ExitGeneral)
}
