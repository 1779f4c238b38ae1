package atp

import (
	"time"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
)

// flattenFeed converts the SDK's feed view into our Post slice, preserving
// server order. Reposts collapse to the underlying post; entries without a
// post view are skipped.
func flattenFeed(feed []*appbsky.FeedDefs_FeedViewPost) []Post {
	posts := make([]Post, 0, len(feed))
	for _, item := range feed {
		if item == nil || item.Post == nil {
			continue
		}
		posts = append(posts, flattenPost(item.Post))
	}
	return posts
}

func flattenPost(view *appbsky.FeedDefs_PostView) Post {
	p := Post{
		URI:     view.Uri,
		CID:     view.Cid,
		Likes:   derefInt(view.LikeCount),
		Replies: derefInt(view.ReplyCount),
		Reposts: derefInt(view.RepostCount),
	}
	if ts, err := time.Parse(time.RFC3339, view.IndexedAt); err == nil {
		p.IndexedAt = ts
	}
	if view.Author != nil {
		p.Author = Author{
			DID:         view.Author.Did,
			Handle:      view.Author.Handle,
			DisplayName: derefString(view.Author.DisplayName),
			Avatar:      derefString(view.Author.Avatar),
		}
	}
	if view.Record != nil {
		if rec, ok := view.Record.Val.(*appbsky.FeedPost); ok {
			p.Text = rec.Text
			if ts, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
				p.CreatedAt = ts
			}
		}
	}
	if video := videoEmbed(view.Embed); video != nil {
		p.VideoPlaylist = video.Playlist
		p.VideoThumb = derefString(video.Thumbnail)
		if video.AspectRatio != nil {
			p.AspectWidth = video.AspectRatio.Width
			p.AspectHeight = video.AspectRatio.Height
		}
	}
	return p
}

// videoEmbed digs the video view out of the embed union, including the
// record-with-media case where the video rides alongside a quoted post.
func videoEmbed(embed *appbsky.FeedDefs_PostView_Embed) *appbsky.EmbedVideo_View {
	if embed == nil {
		return nil
	}
	if embed.EmbedVideo_View != nil {
		return embed.EmbedVideo_View
	}
	if embed.EmbedRecordWithMedia_View != nil && embed.EmbedRecordWithMedia_View.Media != nil {
		return embed.EmbedRecordWithMedia_View.Media.EmbedVideo_View
	}
	return nil
}
