package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/models"
	"github.com/nrfta/tubepage/keyset"
)

// Listing names, used as metric labels and span names.
const (
	ListVideos           = "videos.getMany"
	ListTrending         = "videos.getTrending"
	ListSubscribedVideos = "videos.getManySubscribed"
	ListSearch           = "search.getMany"
	ListSuggestions      = "suggestions.getMany"
	ListStudio           = "studio.getMany"
)

var (
	videoFeed = keyset.MustSchema(keyset.NewSchema[*models.VideoListItem](keyset.DESC).
			SortKey("videos.updated_at", "updatedAt", keyset.Time, func(v *models.VideoListItem) any { return v.UpdatedAt }).
			TieBreak("videos.id", "id", keyset.UUID, func(v *models.VideoListItem) any { return v.ID }))

	trendingFeed = keyset.MustSchema(keyset.NewSchema[*models.VideoListItem](keyset.DESC).
			SortKey(models.VideoViewCount, "viewCount", keyset.Int, func(v *models.VideoListItem) any { return v.ViewCount }).
			TieBreak("videos.id", "id", keyset.UUID, func(v *models.VideoListItem) any { return v.ID }))
)

func publicOnly() qm.QueryMod {
	return qm.Where("videos.visibility = ?", models.VisibilityPublic)
}

// VideoFilter narrows the public feed. Empty fields are ignored.
type VideoFilter struct {
	UserID     string
	CategoryID string
}

func (f VideoFilter) mods() []qm.QueryMod {
	mods := []qm.QueryMod{publicOnly()}
	if f.UserID != "" {
		mods = append(mods, qm.Where("videos.user_id = ?", f.UserID))
	}
	if f.CategoryID != "" {
		mods = append(mods, qm.Where("videos.category_id = ?", f.CategoryID))
	}
	return mods
}

// Videos lists public videos, most recently updated first.
func (s *Store) Videos(ctx context.Context, filter VideoFilter, args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
	return paginate(ctx, s, listing[*models.VideoListItem]{
		name:   ListVideos,
		schema: videoFeed,
		query:  models.VideoListing,
		filter: filter.mods(),
	}, args)
}

// Trending lists public videos by view count.
func (s *Store) Trending(ctx context.Context, args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
	return paginate(ctx, s, listing[*models.VideoListItem]{
		name:   ListTrending,
		schema: trendingFeed,
		query:  models.VideoListing,
		filter: []qm.QueryMod{publicOnly()},
	}, args)
}

// SubscribedVideos lists public videos of the creators viewerID subscribes to.
func (s *Store) SubscribedVideos(ctx context.Context, viewerID string, args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
	return paginate(ctx, s, listing[*models.VideoListItem]{
		name:   ListSubscribedVideos,
		schema: videoFeed,
		query:  models.VideoListing,
		filter: []qm.QueryMod{
			publicOnly(),
			qm.Where("videos.user_id IN (SELECT subscriptions.creator_id FROM subscriptions WHERE subscriptions.viewer_id = ?)", viewerID),
		},
	}, args)
}

// SearchFilter selects videos by title. An empty Query matches everything.
type SearchFilter struct {
	Query      string
	CategoryID string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f SearchFilter) mods() []qm.QueryMod {
	mods := []qm.QueryMod{publicOnly()}
	if f.Query != "" {
		mods = append(mods, qm.Where("videos.title ILIKE ?", "%"+likeEscaper.Replace(f.Query)+"%"))
	}
	if f.CategoryID != "" {
		mods = append(mods, qm.Where("videos.category_id = ?", f.CategoryID))
	}
	return mods
}

// Search lists public videos whose title contains the query, ignoring case.
func (s *Store) Search(ctx context.Context, filter SearchFilter, args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
	return paginate(ctx, s, listing[*models.VideoListItem]{
		name:   ListSearch,
		schema: videoFeed,
		query:  models.VideoListing,
		filter: filter.mods(),
	}, args)
}

// Suggestions lists public videos related to videoID: every other video in
// its category, or every other video when it has none. It returns
// ErrNotFound when videoID does not exist.
func (s *Store) Suggestions(ctx context.Context, videoID string, args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
	return paginate(ctx, s, listing[*models.VideoListItem]{
		name:   ListSuggestions,
		schema: videoFeed,
		query:  models.VideoListing,
		filter: []qm.QueryMod{
			publicOnly(),
			qm.Where("videos.id <> ?", videoID),
		},
		prepare: func(ctx context.Context) ([]qm.QueryMod, error) {
			base, err := models.Videos(qm.Where("videos.id = ?", videoID)).One(ctx, s.exec)
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errors.Wrapf(ErrNotFound, "video %s", videoID)
			}
			if err != nil {
				return nil, errors.Wrap(err, "load base video")
			}

			if !base.CategoryID.Valid {
				return nil, nil
			}
			return []qm.QueryMod{qm.Where("videos.category_id = ?", base.CategoryID.String)}, nil
		},
	}, args)
}

// StudioVideos lists every video owned by viewerID, whatever its visibility.
func (s *Store) StudioVideos(ctx context.Context, viewerID string, args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
	return paginate(ctx, s, listing[*models.VideoListItem]{
		name:   ListStudio,
		schema: videoFeed,
		query:  models.VideoListing,
		filter: []qm.QueryMod{qm.Where("videos.user_id = ?", viewerID)},
	}, args)
}
