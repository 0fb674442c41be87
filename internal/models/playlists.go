package models

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
)

// Playlist is an object representing the database table.
type Playlist struct {
	ID          string      `boil:"id" json:"id"`
	Name        string      `boil:"name" json:"name"`
	Description null.String `boil:"description" json:"description"`
	UserID      string      `boil:"user_id" json:"userId"`
	CreatedAt   time.Time   `boil:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `boil:"updated_at" json:"updatedAt"`
}

var playlistAllColumns = aliased("playlists",
	"id", "name", "description", "user_id", "created_at", "updated_at",
)

const (
	PlaylistVideoCount = "(SELECT count(*) FROM playlist_videos pv WHERE pv.playlist_id = playlists.id)"

	// PlaylistThumbnail is the thumbnail of the most recently added video.
	PlaylistThumbnail = "(SELECT v.thumbnail_url FROM playlist_videos pv" +
		" INNER JOIN videos v ON v.id = pv.video_id" +
		" WHERE pv.playlist_id = playlists.id" +
		" ORDER BY pv.updated_at DESC LIMIT 1)"
)

// PlaylistListItem is a playlist with its size and cover thumbnail.
type PlaylistListItem struct {
	Playlist `boil:",bind"`

	VideoCount   int64       `boil:"video_count" json:"videoCount"`
	ThumbnailURL null.String `boil:"thumbnail_url" json:"thumbnailUrl"`
}

// Playlists returns a query against the playlists table.
func Playlists(mods ...qm.QueryMod) Query[*Playlist] {
	base := []qm.QueryMod{qm.Select(playlistAllColumns...), qm.From("playlists")}
	return newQuery[*Playlist]("Playlist", append(base, mods...)...)
}

func playlistListingMods() []qm.QueryMod {
	return []qm.QueryMod{
		qm.Select(playlistAllColumns...),
		qm.Select(
			PlaylistVideoCount+" AS video_count",
			PlaylistThumbnail+" AS thumbnail_url",
		),
		qm.From("playlists"),
	}
}

// PlaylistListing returns a query for playlist rows.
func PlaylistListing(mods ...qm.QueryMod) Query[*PlaylistListItem] {
	return newQuery[*PlaylistListItem]("PlaylistListItem", append(playlistListingMods(), mods...)...)
}

// PlaylistMembershipItem is a playlist flagged with whether it holds a
// given video.
type PlaylistMembershipItem struct {
	PlaylistListItem `boil:",bind"`

	ContainsVideo bool `boil:"contains_video" json:"containsVideo"`
}

// PlaylistMembershipListing returns playlist rows flagged with whether they
// contain videoID.
func PlaylistMembershipListing(videoID string, mods ...qm.QueryMod) Query[*PlaylistMembershipItem] {
	base := append(playlistListingMods(),
		qm.Select("(membership.video_id IS NOT NULL) AS contains_video"),
		qm.LeftOuterJoin(
			"playlist_videos membership ON membership.playlist_id = playlists.id AND membership.video_id = ?",
			videoID,
		),
	)
	return newQuery[*PlaylistMembershipItem]("PlaylistMembershipItem", append(base, mods...)...)
}
