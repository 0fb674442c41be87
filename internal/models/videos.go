package models

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
)

// Video visibilities.
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Video is an object representing the database table.
type Video struct {
	ID           string      `boil:"id" json:"id"`
	Title        string      `boil:"title" json:"title"`
	Description  null.String `boil:"description" json:"description"`
	ThumbnailURL null.String `boil:"thumbnail_url" json:"thumbnailUrl"`
	PreviewURL   null.String `boil:"preview_url" json:"previewUrl"`
	Duration     int         `boil:"duration" json:"duration"`
	Visibility   string      `boil:"visibility" json:"visibility"`
	UserID       string      `boil:"user_id" json:"userId"`
	CategoryID   null.String `boil:"category_id" json:"categoryId"`
	CreatedAt    time.Time   `boil:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `boil:"updated_at" json:"updatedAt"`
}

var videoAllColumns = aliased("videos",
	"id", "title", "description", "thumbnail_url", "preview_url", "duration",
	"visibility", "user_id", "category_id", "created_at", "updated_at",
)

// Aggregates over a video row, usable both as select columns and as sort
// key expressions.
const (
	VideoViewCount    = "(SELECT count(*) FROM video_views vv WHERE vv.video_id = videos.id)"
	VideoLikeCount    = "(SELECT count(*) FROM video_reactions vr WHERE vr.video_id = videos.id AND vr.type = 'like')"
	VideoDislikeCount = "(SELECT count(*) FROM video_reactions vr WHERE vr.video_id = videos.id AND vr.type = 'dislike')"
	VideoCommentCount = "(SELECT count(*) FROM comments c WHERE c.video_id = videos.id)"
)

// VideoListItem is a video as shown in feeds: the row plus its author and
// engagement counts.
type VideoListItem struct {
	Video `boil:",bind"`

	AuthorName     string `boil:"author_name" json:"authorName"`
	AuthorImageURL string `boil:"author_image_url" json:"authorImageUrl"`
	ViewCount      int64  `boil:"view_count" json:"viewCount"`
	LikeCount      int64  `boil:"like_count" json:"likeCount"`
	DislikeCount   int64  `boil:"dislike_count" json:"dislikeCount"`
	CommentCount   int64  `boil:"comment_count" json:"commentCount"`
}

func videoListingMods() []qm.QueryMod {
	return []qm.QueryMod{
		qm.Select(videoAllColumns...),
		qm.Select(
			"users.name AS author_name",
			"users.image_url AS author_image_url",
			VideoViewCount+" AS view_count",
			VideoLikeCount+" AS like_count",
			VideoDislikeCount+" AS dislike_count",
			VideoCommentCount+" AS comment_count",
		),
		qm.From("videos"),
		qm.InnerJoin("users ON users.id = videos.user_id"),
	}
}

// Videos returns a query against the videos table.
func Videos(mods ...qm.QueryMod) Query[*Video] {
	base := []qm.QueryMod{qm.Select(videoAllColumns...), qm.From("videos")}
	return newQuery[*Video]("Video", append(base, mods...)...)
}

// VideoListing returns a query for feed rows: videos joined with their
// author and engagement counts.
func VideoListing(mods ...qm.QueryMod) Query[*VideoListItem] {
	return newQuery[*VideoListItem]("VideoListItem", append(videoListingMods(), mods...)...)
}

// PlaylistVideoItem is a video in a playlist with the time it was added.
type PlaylistVideoItem struct {
	VideoListItem `boil:",bind"`

	AddedAt time.Time `boil:"added_at" json:"addedAt"`
}

// PlaylistVideoListing returns feed rows joined to playlist_videos.
func PlaylistVideoListing(mods ...qm.QueryMod) Query[*PlaylistVideoItem] {
	base := append(videoListingMods(),
		qm.Select("playlist_videos.updated_at AS added_at"),
		qm.InnerJoin("playlist_videos ON playlist_videos.video_id = videos.id"),
	)
	return newQuery[*PlaylistVideoItem]("PlaylistVideoItem", append(base, mods...)...)
}

// WatchedVideoItem is a video from a viewer's history.
type WatchedVideoItem struct {
	VideoListItem `boil:",bind"`

	ViewedAt time.Time `boil:"viewed_at" json:"viewedAt"`
}

// WatchHistoryListing returns feed rows joined to video_views. Callers filter
// by video_views.user_id.
func WatchHistoryListing(mods ...qm.QueryMod) Query[*WatchedVideoItem] {
	base := append(videoListingMods(),
		qm.Select("video_views.updated_at AS viewed_at"),
		qm.InnerJoin("video_views ON video_views.video_id = videos.id"),
	)
	return newQuery[*WatchedVideoItem]("WatchedVideoItem", append(base, mods...)...)
}

// LikedVideoItem is a video a viewer reacted to with a like.
type LikedVideoItem struct {
	VideoListItem `boil:",bind"`

	LikedAt time.Time `boil:"liked_at" json:"likedAt"`
}

// LikedVideoListing returns feed rows joined to the viewer's like reactions.
// Callers filter by video_reactions.user_id.
func LikedVideoListing(mods ...qm.QueryMod) Query[*LikedVideoItem] {
	base := append(videoListingMods(),
		qm.Select("video_reactions.updated_at AS liked_at"),
		qm.InnerJoin("video_reactions ON video_reactions.video_id = videos.id AND video_reactions.type = 'like'"),
	)
	return newQuery[*LikedVideoItem]("LikedVideoItem", append(base, mods...)...)
}
