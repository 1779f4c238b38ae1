package atp

import (
	"errors"
	"fmt"

	"github.com/bluesky-social/indigo/xrpc"
)

var (
	// ErrUnauthorized indicates the session is missing, expired, or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates the requested record or actor does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited indicates the service asked us to back off.
	ErrRateLimited = errors.New("rate limited")
)

// wrapXRPCError converts transport errors into our sentinel errors so callers
// can use errors.Is without importing xrpc.
func wrapXRPCError(err error, operation string) error {
	if err == nil {
		return nil
	}
	var xe *xrpc.Error
	if errors.As(err, &xe) {
		switch xe.StatusCode {
		case 401, 403:
			return fmt.Errorf("%s: %w", operation, ErrUnauthorized)
		case 404:
			return fmt.Errorf("%s: %w", operation, ErrNotFound)
		case 429:
			return fmt.Errorf("%s: %w", operation, ErrRateLimited)
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}
