package atp

import (
	"context"
	"time"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/bluesky-social/indigo/xrpc"
)

// saveCollection is the client-owned record NSID for saved posts. Records live
// in the user's own repo, so saves survive across devices and clients.
const saveCollection = "app.flick.feed.save"

const listRecordsPageSize = 100

type saveRecord struct {
	Type      string      `json:"$type"`
	Subject   saveSubject `json:"subject"`
	CreatedAt string      `json:"createdAt"`
}

type saveSubject struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

type listRecordsOutput struct {
	Cursor  string `json:"cursor"`
	Records []struct {
		URI   string     `json:"uri"`
		CID   string     `json:"cid"`
		Value saveRecord `json:"value"`
	} `json:"records"`
}

func (c *xrpcClient) ListBookmarks(ctx context.Context) (map[string]string, error) {
	if c.xc.Auth == nil {
		return nil, ErrUnauthorized
	}
	saved := map[string]string{}
	cursor := ""
	for {
		params := map[string]interface{}{
			"repo":       c.xc.Auth.Did,
			"collection": saveCollection,
			"limit":      listRecordsPageSize,
		}
		if cursor != "" {
			params["cursor"] = cursor
		}
		var out listRecordsOutput
		err := c.xc.Do(ctx, xrpc.Query, "", "com.atproto.repo.listRecords", params, nil, &out)
		if err != nil {
			return nil, wrapXRPCError(err, "list save records")
		}
		for _, rec := range out.Records {
			if rec.Value.Subject.URI != "" {
				saved[rec.Value.Subject.URI] = rec.URI
			}
		}
		if out.Cursor == "" || len(out.Records) == 0 {
			return saved, nil
		}
		cursor = out.Cursor
	}
}

func (c *xrpcClient) CreateBookmark(ctx context.Context, postURI, cid string) (string, error) {
	if c.xc.Auth == nil {
		return "", ErrUnauthorized
	}
	body := map[string]interface{}{
		"repo":       c.xc.Auth.Did,
		"collection": saveCollection,
		"record": saveRecord{
			Type:      saveCollection,
			Subject:   saveSubject{URI: postURI, CID: cid},
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	var out struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	}
	err := c.xc.Do(ctx, xrpc.Procedure, "application/json", "com.atproto.repo.createRecord", nil, body, &out)
	if err != nil {
		return "", wrapXRPCError(err, "create save record")
	}
	return out.URI, nil
}

func (c *xrpcClient) DeleteBookmark(ctx context.Context, recordURI string) error {
	if c.xc.Auth == nil {
		return ErrUnauthorized
	}
	aturi, err := syntax.ParseATURI(recordURI)
	if err != nil {
		return wrapXRPCError(err, "parse save record uri")
	}
	body := map[string]interface{}{
		"repo":       aturi.Authority().String(),
		"collection": aturi.Collection().String(),
		"rkey":       aturi.RecordKey().String(),
	}
	err = c.xc.Do(ctx, xrpc.Procedure, "application/json", "com.atproto.repo.deleteRecord", nil, body, nil)
	if err != nil {
		return wrapXRPCError(err, "delete save record")
	}
	return nil
}
