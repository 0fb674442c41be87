package store

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/models"
	"github.com/nrfta/tubepage/keyset"
)

const ListComments = "comments.getMany"

var commentFeed = keyset.MustSchema(keyset.NewSchema[*models.CommentListItem](keyset.DESC).
	SortKey("comments.updated_at", "updatedAt", keyset.Time, func(c *models.CommentListItem) any { return c.UpdatedAt }).
	TieBreak("comments.id", "id", keyset.UUID, func(c *models.CommentListItem) any { return c.ID }))

// CommentFilter selects the comments of a video. Without ParentID only
// top-level comments are listed, otherwise the replies to ParentID.
type CommentFilter struct {
	VideoID  string
	ParentID string
}

// Comments lists the comments of a video. When viewerID is set each item
// carries that viewer's reaction. The page's TotalCount counts every comment
// of the video, replies included.
func (s *Store) Comments(ctx context.Context, filter CommentFilter, viewerID string, args *paging.PageArgs) (*paging.Page[*models.CommentListItem], error) {
	mods := []qm.QueryMod{qm.Where("comments.video_id = ?", filter.VideoID)}
	if filter.ParentID != "" {
		mods = append(mods, qm.Where("comments.parent_id = ?", filter.ParentID))
	} else {
		mods = append(mods, qm.Where("comments.parent_id IS NULL"))
	}
	if viewerID != "" {
		mods = append(mods, models.WithViewerReaction(viewerID)...)
	}

	return paginate(ctx, s, listing[*models.CommentListItem]{
		name:   ListComments,
		schema: commentFeed,
		query:  models.CommentListing,
		filter: mods,
		count: func(ctx context.Context, _ ...qm.QueryMod) (int64, error) {
			return models.Comments(qm.Where("comments.video_id = ?", filter.VideoID)).Count(ctx, s.exec)
		},
	}, args)
}
