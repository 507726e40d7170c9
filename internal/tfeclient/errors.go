package tfeclient

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	tfe "github.com/hashicorp/go-tfe"

	vserrors "github.com/takescoop/tfe-varset-sync/pkg/errors"
)

// classify maps SDK and transport errors onto the tool's error taxonomy so
// callers can distinguish auth, not-found, conflict and transient failures.
func classify(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, tfe.ErrUnauthorized) {
		return vserrors.NewAuthError(err)
	}

	if errors.Is(err, tfe.ErrResourceNotFound) {
		return vserrors.NewNotFoundError(resource, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return vserrors.NewTransientError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return vserrors.NewTransientError(err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return vserrors.NewTransientError(err)
	}

	// The SDK flattens 422 responses into their detail strings; a taken
	// name is the conflict signal for varset creation.
	if strings.Contains(strings.ToLower(err.Error()), "already been taken") {
		return vserrors.NewConflictError(resource, err)
	}

	return vserrors.NewAPIError(0, err.Error(), err)
}
