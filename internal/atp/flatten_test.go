package atp

import (
	"testing"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func videoPostView() *appbsky.FeedDefs_PostView {
	return &appbsky.FeedDefs_PostView{
		Uri:       "at://did:plc:alice/app.bsky.feed.post/1",
		Cid:       "cid1",
		IndexedAt: "2026-08-30T12:00:00Z",
		Author: &appbsky.ActorDefs_ProfileViewBasic{
			Did:         "did:plc:alice",
			Handle:      "alice.test",
			DisplayName: strPtr("Alice"),
		},
		Record: &lexutil.LexiconTypeDecoder{Val: &appbsky.FeedPost{
			Text:      "clip of the day",
			CreatedAt: "2026-08-30T11:59:00Z",
		}},
		Embed: &appbsky.FeedDefs_PostView_Embed{
			EmbedVideo_View: &appbsky.EmbedVideo_View{
				Playlist:    "https://video.test/pl.m3u8",
				Thumbnail:   strPtr("https://video.test/thumb.jpg"),
				AspectRatio: &appbsky.EmbedDefs_AspectRatio{Width: 9, Height: 16},
			},
		},
		LikeCount:   intPtr(12),
		ReplyCount:  intPtr(3),
		RepostCount: intPtr(4),
	}
}

func TestFlattenVideoPost(t *testing.T) {
	posts := flattenFeed([]*appbsky.FeedDefs_FeedViewPost{
		{Post: videoPostView()},
		nil,
		{},
	})
	if len(posts) != 1 {
		t.Fatalf("posts = %d", len(posts))
	}
	p := posts[0]
	if p.URI != "at://did:plc:alice/app.bsky.feed.post/1" || p.CID != "cid1" {
		t.Fatalf("identity = %q %q", p.URI, p.CID)
	}
	if p.Author.Handle != "alice.test" || p.Author.DisplayName != "Alice" {
		t.Fatalf("author = %+v", p.Author)
	}
	if p.Text != "clip of the day" {
		t.Fatalf("text = %q", p.Text)
	}
	if !p.HasVideo() || p.VideoPlaylist != "https://video.test/pl.m3u8" {
		t.Fatalf("video = %q", p.VideoPlaylist)
	}
	if p.AspectWidth != 9 || p.AspectHeight != 16 {
		t.Fatalf("aspect = %dx%d", p.AspectWidth, p.AspectHeight)
	}
	if p.Likes != 12 || p.Replies != 3 || p.Reposts != 4 {
		t.Fatalf("counts = %d %d %d", p.Likes, p.Replies, p.Reposts)
	}
	if p.CreatedAt.IsZero() || p.IndexedAt.IsZero() {
		t.Fatal("timestamps not parsed")
	}
}

func TestFlattenTextOnlyPost(t *testing.T) {
	view := videoPostView()
	view.Embed = nil
	p := flattenPost(view)
	if p.HasVideo() {
		t.Fatal("text post should carry no video")
	}
	if p.Text == "" {
		t.Fatal("text should survive without an embed")
	}
}

func TestFlattenRecordWithMediaVideo(t *testing.T) {
	view := videoPostView()
	inner := view.Embed.EmbedVideo_View
	view.Embed = &appbsky.FeedDefs_PostView_Embed{
		EmbedRecordWithMedia_View: &appbsky.EmbedRecordWithMedia_View{
			Media: &appbsky.EmbedRecordWithMedia_View_Media{EmbedVideo_View: inner},
		},
	}
	p := flattenPost(view)
	if !p.HasVideo() {
		t.Fatal("video should be found behind record-with-media")
	}
}
