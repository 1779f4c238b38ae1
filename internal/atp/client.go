// Package atp wraps the AT Protocol SDK behind the narrow request/response
// surface the feed client needs. Callers never see wire types; everything is
// flattened into the small structs in types.go so the session coordinator can
// be driven by fakes in tests.
package atp

import (
	"context"
	"fmt"
	"strings"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/xrpc"
)

// DefaultHost is the public appview endpoint used when the config names none.
const DefaultHost = "https://bsky.social"

const defaultPageSize = 30

// Client is the protocol collaborator contract. An empty feedURI requests the
// default following timeline.
type Client interface {
	// Login establishes a session from an identifier and app password.
	Login(ctx context.Context, identifier, password string) error

	// HasSession reports whether the client holds a usable session.
	HasSession(ctx context.Context) bool

	// DID returns the authenticated account DID, or empty when logged out.
	DID() string

	// Session returns the current tokens for persistence across runs.
	Session() SavedSession

	// FetchTimeline returns one page of the named feed, or of the following
	// timeline when feedURI is empty. An empty cursor requests the first page.
	FetchTimeline(ctx context.Context, feedURI, cursor string, limit int64) (*TimelinePage, error)

	// FetchProfile resolves a handle or DID to a profile.
	FetchProfile(ctx context.Context, actor string) (*Profile, error)

	// ListBookmarks returns the account's save records as postURI -> recordURI.
	ListBookmarks(ctx context.Context) (map[string]string, error)

	// CreateBookmark writes a save record for the post and returns its record URI.
	CreateBookmark(ctx context.Context, postURI, cid string) (string, error)

	// DeleteBookmark removes a save record by its record URI.
	DeleteBookmark(ctx context.Context, recordURI string) error

	// ListSavedFeeds returns the feeds referenced by the account preferences,
	// hydrated with generator metadata.
	ListSavedFeeds(ctx context.Context) ([]Feed, error)

	// ToggleSavedFeed adds the feed to the saved set, or removes it if present.
	ToggleSavedFeed(ctx context.Context, feedURI string) error

	// Preferences returns the account's typed preference records.
	Preferences(ctx context.Context) ([]Preference, error)

	// SetPreference updates a single preference record.
	SetPreference(ctx context.Context, pref Preference) error
}

type xrpcClient struct {
	xc *xrpc.Client
}

// Ensure xrpcClient implements Client.
var _ Client = (*xrpcClient)(nil)

// NewClient returns a Client speaking XRPC to the given host.
func NewClient(host string) Client {
	if strings.TrimSpace(host) == "" {
		host = DefaultHost
	}
	return &xrpcClient{xc: &xrpc.Client{Host: host}}
}

// NewClientWithSession returns a Client resuming a previously saved session.
func NewClientWithSession(host string, saved SavedSession) Client {
	c := &xrpcClient{xc: &xrpc.Client{Host: host}}
	if host == "" {
		c.xc.Host = DefaultHost
	}
	if saved.AccessJwt != "" {
		c.xc.Auth = &xrpc.AuthInfo{
			AccessJwt:  saved.AccessJwt,
			RefreshJwt: saved.RefreshJwt,
			Did:        saved.DID,
			Handle:     saved.Handle,
		}
	}
	return c
}

func (c *xrpcClient) Login(ctx context.Context, identifier, password string) error {
	out, err := comatproto.ServerCreateSession(ctx, c.xc, &comatproto.ServerCreateSession_Input{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		return wrapXRPCError(err, "create session")
	}
	c.xc.Auth = &xrpc.AuthInfo{
		AccessJwt:  out.AccessJwt,
		RefreshJwt: out.RefreshJwt,
		Did:        out.Did,
		Handle:     out.Handle,
	}
	return nil
}

func (c *xrpcClient) HasSession(ctx context.Context) bool {
	if c.xc.Auth == nil || c.xc.Auth.AccessJwt == "" {
		return false
	}
	if _, err := comatproto.ServerGetSession(ctx, c.xc); err != nil {
		// Access tokens are short-lived; try one refresh before giving up.
		return c.refreshSession(ctx) == nil
	}
	return true
}

func (c *xrpcClient) DID() string {
	if c.xc.Auth == nil {
		return ""
	}
	return c.xc.Auth.Did
}

// Session returns the current tokens for persistence across runs.
func (c *xrpcClient) Session() SavedSession {
	if c.xc.Auth == nil {
		return SavedSession{}
	}
	return SavedSession{
		AccessJwt:  c.xc.Auth.AccessJwt,
		RefreshJwt: c.xc.Auth.RefreshJwt,
		DID:        c.xc.Auth.Did,
		Handle:     c.xc.Auth.Handle,
	}
}

// refreshSession swaps the refresh token for new credentials. Refresh tokens
// are single-use; the old one is revoked on success.
func (c *xrpcClient) refreshSession(ctx context.Context) error {
	if c.xc.Auth == nil || c.xc.Auth.RefreshJwt == "" {
		return ErrUnauthorized
	}
	refresh := &xrpc.Client{
		Host: c.xc.Host,
		Auth: &xrpc.AuthInfo{
			AccessJwt:  c.xc.Auth.RefreshJwt,
			RefreshJwt: c.xc.Auth.RefreshJwt,
		},
	}
	out, err := comatproto.ServerRefreshSession(ctx, refresh)
	if err != nil {
		return wrapXRPCError(err, "refresh session")
	}
	c.xc.Auth.AccessJwt = out.AccessJwt
	c.xc.Auth.RefreshJwt = out.RefreshJwt
	c.xc.Auth.Did = out.Did
	c.xc.Auth.Handle = out.Handle
	return nil
}

func (c *xrpcClient) FetchTimeline(ctx context.Context, feedURI, cursor string, limit int64) (*TimelinePage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if feedURI == "" {
		out, err := appbsky.FeedGetTimeline(ctx, c.xc, "", cursor, limit)
		if err != nil {
			return nil, wrapXRPCError(err, "get timeline")
		}
		return &TimelinePage{
			Posts:  flattenFeed(out.Feed),
			Cursor: derefString(out.Cursor),
		}, nil
	}
	out, err := appbsky.FeedGetFeed(ctx, c.xc, cursor, feedURI, limit)
	if err != nil {
		return nil, wrapXRPCError(err, fmt.Sprintf("get feed %s", feedURI))
	}
	return &TimelinePage{
		Posts:  flattenFeed(out.Feed),
		Cursor: derefString(out.Cursor),
	}, nil
}

func (c *xrpcClient) FetchProfile(ctx context.Context, actor string) (*Profile, error) {
	out, err := appbsky.ActorGetProfile(ctx, c.xc, actor)
	if err != nil {
		return nil, wrapXRPCError(err, fmt.Sprintf("get profile %s", actor))
	}
	return &Profile{
		DID:         out.Did,
		Handle:      out.Handle,
		DisplayName: derefString(out.DisplayName),
		Description: derefString(out.Description),
		Avatar:      derefString(out.Avatar),
		Followers:   derefInt(out.FollowersCount),
		Follows:     derefInt(out.FollowsCount),
		Posts:       derefInt(out.PostsCount),
	}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
