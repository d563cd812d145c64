package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrepp/modelauncher/pkg/launcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	// Interrupts stop the wait; launched applications are left alone
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil && launcher.GetErrorCode(err) == "" {
		// Flag and argument errors; launcher errors were reported as they happened
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	return exitCode(err)
}

// exitCode maps a run result to the process exit status
func exitCode(err error) int {
	if launcher.IsFatal(err) {
		return 1
	}
	return 0
}
