package main

import (
	"errors"
	"fmt"
	"os"

	syncpkg "github.com/takescoop/tfe-varset-sync/internal/sync"
	vserrors "github.com/takescoop/tfe-varset-sync/pkg/errors"
)

const (
	exitOK             = 0
	exitPartialFailure = 1
	exitConfigError    = 2
	exitAborted        = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes configuration/auth errors, a declined delete
// confirmation, and partial failure.
func exitCode(err error) int {
	if errors.Is(err, syncpkg.ErrAborted) {
		return exitAborted
	}

	var cfgErr *vserrors.ConfigError
	var authErr *vserrors.AuthError
	if errors.As(err, &cfgErr) || errors.As(err, &authErr) {
		return exitConfigError
	}

	return exitPartialFailure
}
