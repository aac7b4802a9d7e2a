package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/musiclib/libsync/cmd/libsync"
	"github.com/musiclib/libsync/pkg/output/styles"
)

func main() {
	defer libsync.ExitOnPanic(os.Stderr, os.Exit)

	rootCmd := libsync.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// The outcome of a finished run has already been printed.
		var exitErr *libsync.ExitError
		if stderrors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		errorStyle := styles.Default().Build(nil).Get(styles.Error)
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(libsync.ExitErrors)
	}
}
