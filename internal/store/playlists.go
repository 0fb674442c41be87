package store

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/models"
	"github.com/nrfta/tubepage/keyset"
)

const (
	ListPlaylists         = "playlist.getMany"
	ListPlaylistsForVideo = "playlist.getManyForVideo"
	ListPlaylistVideos    = "playlist.getVideos"
	ListHistory           = "playlist.getHistory"
	ListLiked             = "playlist.getLiked"
)

var (
	playlistFeed = keyset.MustSchema(keyset.NewSchema[*models.PlaylistListItem](keyset.DESC).
			SortKey("playlists.updated_at", "updatedAt", keyset.Time, func(p *models.PlaylistListItem) any { return p.UpdatedAt }).
			TieBreak("playlists.id", "id", keyset.UUID, func(p *models.PlaylistListItem) any { return p.ID }))

	playlistMembershipFeed = keyset.MustSchema(keyset.NewSchema[*models.PlaylistMembershipItem](keyset.DESC).
				SortKey("playlists.updated_at", "updatedAt", keyset.Time, func(p *models.PlaylistMembershipItem) any { return p.UpdatedAt }).
				TieBreak("playlists.id", "id", keyset.UUID, func(p *models.PlaylistMembershipItem) any { return p.ID }))

	playlistVideoFeed = keyset.MustSchema(keyset.NewSchema[*models.PlaylistVideoItem](keyset.DESC).
				SortKey("playlist_videos.updated_at", "addedAt", keyset.Time, func(v *models.PlaylistVideoItem) any { return v.AddedAt }).
				TieBreak("videos.id", "id", keyset.UUID, func(v *models.PlaylistVideoItem) any { return v.ID }))

	historyFeed = keyset.MustSchema(keyset.NewSchema[*models.WatchedVideoItem](keyset.DESC).
			SortKey("video_views.updated_at", "viewedAt", keyset.Time, func(v *models.WatchedVideoItem) any { return v.ViewedAt }).
			TieBreak("videos.id", "id", keyset.UUID, func(v *models.WatchedVideoItem) any { return v.ID }))

	likedFeed = keyset.MustSchema(keyset.NewSchema[*models.LikedVideoItem](keyset.DESC).
			SortKey("video_reactions.updated_at", "likedAt", keyset.Time, func(v *models.LikedVideoItem) any { return v.LikedAt }).
			TieBreak("videos.id", "id", keyset.UUID, func(v *models.LikedVideoItem) any { return v.ID }))
)

// Playlists lists the playlists owned by viewerID.
func (s *Store) Playlists(ctx context.Context, viewerID string, args *paging.PageArgs) (*paging.Page[*models.PlaylistListItem], error) {
	return paginate(ctx, s, listing[*models.PlaylistListItem]{
		name:   ListPlaylists,
		schema: playlistFeed,
		query:  models.PlaylistListing,
		filter: []qm.QueryMod{qm.Where("playlists.user_id = ?", viewerID)},
	}, args)
}

// PlaylistsForVideo lists the playlists owned by viewerID, each flagged with
// whether it already holds videoID.
func (s *Store) PlaylistsForVideo(ctx context.Context, viewerID, videoID string, args *paging.PageArgs) (*paging.Page[*models.PlaylistMembershipItem], error) {
	return paginate(ctx, s, listing[*models.PlaylistMembershipItem]{
		name:   ListPlaylistsForVideo,
		schema: playlistMembershipFeed,
		query: func(mods ...qm.QueryMod) models.Query[*models.PlaylistMembershipItem] {
			return models.PlaylistMembershipListing(videoID, mods...)
		},
		filter: []qm.QueryMod{qm.Where("playlists.user_id = ?", viewerID)},
	}, args)
}

// PlaylistVideos lists the videos of a playlist, most recently added first.
// It returns ErrNotFound unless the playlist exists and belongs to viewerID.
func (s *Store) PlaylistVideos(ctx context.Context, viewerID, playlistID string, args *paging.PageArgs) (*paging.Page[*models.PlaylistVideoItem], error) {
	return paginate(ctx, s, listing[*models.PlaylistVideoItem]{
		name:   ListPlaylistVideos,
		schema: playlistVideoFeed,
		query:  models.PlaylistVideoListing,
		filter: []qm.QueryMod{qm.Where("playlist_videos.playlist_id = ?", playlistID)},
		prepare: func(ctx context.Context) ([]qm.QueryMod, error) {
			owned, err := models.Playlists(
				qm.Where("playlists.id = ?", playlistID),
				qm.Where("playlists.user_id = ?", viewerID),
			).Exists(ctx, s.exec)
			if err != nil {
				return nil, errors.Wrap(err, "load playlist")
			}
			if !owned {
				return nil, errors.Wrapf(ErrNotFound, "playlist %s", playlistID)
			}
			return nil, nil
		},
	}, args)
}

// History lists the videos viewerID watched, most recent view first.
func (s *Store) History(ctx context.Context, viewerID string, args *paging.PageArgs) (*paging.Page[*models.WatchedVideoItem], error) {
	return paginate(ctx, s, listing[*models.WatchedVideoItem]{
		name:   ListHistory,
		schema: historyFeed,
		query:  models.WatchHistoryListing,
		filter: []qm.QueryMod{qm.Where("video_views.user_id = ?", viewerID)},
	}, args)
}

// Liked lists the videos viewerID liked, most recent like first.
func (s *Store) Liked(ctx context.Context, viewerID string, args *paging.PageArgs) (*paging.Page[*models.LikedVideoItem], error) {
	return paginate(ctx, s, listing[*models.LikedVideoItem]{
		name:   ListLiked,
		schema: likedFeed,
		query:  models.LikedVideoListing,
		filter: []qm.QueryMod{qm.Where("video_reactions.user_id = ?", viewerID)},
	}, args)
}
