package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncpkg "github.com/takescoop/tfe-varset-sync/internal/sync"
	vserrors "github.com/takescoop/tfe-varset-sync/pkg/errors"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"aborted confirmation", syncpkg.ErrAborted, exitAborted},
		{"config error", vserrors.NewConfigError("tfe_url", "required", nil), exitConfigError},
		{"auth error", vserrors.NewAuthError(errors.New("401")), exitConfigError},
		{"wrapped auth error", vserrors.NewConfigError("", "", vserrors.NewAuthError(errors.New("401"))), exitConfigError},
		{"partial failure", errors.New("3 actions failed"), exitPartialFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}

func TestVersionCmd(t *testing.T) {
	buf := &bytes.Buffer{}

	cmd := newVersionCmd()
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "varset-sync")
}

func TestRunSyncRequiresConfig(t *testing.T) {
	err := runSync(&rootFlags{}, syncpkg.ModeCreate, false)

	var cfgErr *vserrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "--config")
}
