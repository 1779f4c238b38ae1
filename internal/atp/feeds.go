package atp

import (
	"context"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
)

const prefTypeSavedFeeds = "app.bsky.actor.defs#savedFeedsPrefV2"

func (c *xrpcClient) ListSavedFeeds(ctx context.Context) ([]Feed, error) {
	out, err := appbsky.ActorGetPreferences(ctx, c.xc)
	if err != nil {
		return nil, wrapXRPCError(err, "get preferences")
	}
	saved := savedFeedsPref(out.Preferences)
	if saved == nil || len(saved.Items) == 0 {
		return nil, nil
	}

	uris := make([]string, 0, len(saved.Items))
	pinned := map[string]bool{}
	for _, item := range saved.Items {
		if item == nil || item.Type != "feed" {
			continue
		}
		uris = append(uris, item.Value)
		pinned[item.Value] = item.Pinned
	}
	if len(uris) == 0 {
		return nil, nil
	}

	gens, err := appbsky.FeedGetFeedGenerators(ctx, c.xc, uris)
	if err != nil {
		return nil, wrapXRPCError(err, "get feed generators")
	}
	feeds := make([]Feed, 0, len(gens.Feeds))
	for _, gen := range gens.Feeds {
		if gen == nil {
			continue
		}
		feeds = append(feeds, Feed{
			URI:         gen.Uri,
			CID:         gen.Cid,
			Name:        gen.DisplayName,
			Description: derefString(gen.Description),
			Avatar:      derefString(gen.Avatar),
			Saved:       true,
			Pinned:      pinned[gen.Uri],
		})
	}
	return feeds, nil
}

func (c *xrpcClient) ToggleSavedFeed(ctx context.Context, feedURI string) error {
	out, err := appbsky.ActorGetPreferences(ctx, c.xc)
	if err != nil {
		return wrapXRPCError(err, "get preferences")
	}
	prefs := out.Preferences
	saved := savedFeedsPref(prefs)
	if saved == nil {
		saved = &appbsky.ActorDefs_SavedFeedsPrefV2{}
		prefs = append(prefs, appbsky.ActorDefs_Preferences_Elem{
			ActorDefs_SavedFeedsPrefV2: saved,
		})
	}

	found := false
	items := saved.Items[:0]
	for _, item := range saved.Items {
		if item != nil && item.Type == "feed" && item.Value == feedURI {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, &appbsky.ActorDefs_SavedFeed{
			Id:     syntax.NewTIDNow(0).String(),
			Type:   "feed",
			Value:  feedURI,
			Pinned: false,
		})
	}
	saved.Items = items

	err = appbsky.ActorPutPreferences(ctx, c.xc, &appbsky.ActorPutPreferences_Input{
		Preferences: prefs,
	})
	if err != nil {
		return wrapXRPCError(err, "put preferences")
	}
	return nil
}

func (c *xrpcClient) Preferences(ctx context.Context) ([]Preference, error) {
	out, err := appbsky.ActorGetPreferences(ctx, c.xc)
	if err != nil {
		return nil, wrapXRPCError(err, "get preferences")
	}
	prefs := make([]Preference, 0, len(out.Preferences))
	for _, p := range out.Preferences {
		switch {
		case p.ActorDefs_AdultContentPref != nil:
			prefs = append(prefs, Preference{
				Type:  PrefAdultContent,
				Key:   "enabled",
				Value: boolString(p.ActorDefs_AdultContentPref.Enabled),
			})
		case p.ActorDefs_SavedFeedsPrefV2 != nil:
			prefs = append(prefs, Preference{Type: prefTypeSavedFeeds})
		}
	}
	return prefs, nil
}

func (c *xrpcClient) SetPreference(ctx context.Context, pref Preference) error {
	out, err := appbsky.ActorGetPreferences(ctx, c.xc)
	if err != nil {
		return wrapXRPCError(err, "get preferences")
	}
	prefs := out.Preferences

	switch pref.Type {
	case PrefAdultContent:
		updated := false
		for _, p := range prefs {
			if p.ActorDefs_AdultContentPref != nil {
				p.ActorDefs_AdultContentPref.Enabled = pref.Value == "true"
				updated = true
			}
		}
		if !updated {
			prefs = append(prefs, appbsky.ActorDefs_Preferences_Elem{
				ActorDefs_AdultContentPref: &appbsky.ActorDefs_AdultContentPref{
					Enabled: pref.Value == "true",
				},
			})
		}
	default:
		// Unknown types round-trip untouched; nothing to write.
		return nil
	}

	err = appbsky.ActorPutPreferences(ctx, c.xc, &appbsky.ActorPutPreferences_Input{
		Preferences: prefs,
	})
	if err != nil {
		return wrapXRPCError(err, "put preferences")
	}
	return nil
}

func savedFeedsPref(prefs []appbsky.ActorDefs_Preferences_Elem) *appbsky.ActorDefs_SavedFeedsPrefV2 {
	for _, p := range prefs {
		if p.ActorDefs_SavedFeedsPrefV2 != nil {
			return p.ActorDefs_SavedFeedsPrefV2
		}
	}
	return nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
