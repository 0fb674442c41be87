package models

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
)

// Comment is an object representing the database table.
type Comment struct {
	ID        string      `boil:"id" json:"id"`
	ParentID  null.String `boil:"parent_id" json:"parentId"`
	UserID    string      `boil:"user_id" json:"userId"`
	VideoID   string      `boil:"video_id" json:"videoId"`
	Value     string      `boil:"value" json:"value"`
	CreatedAt time.Time   `boil:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `boil:"updated_at" json:"updatedAt"`
}

var commentAllColumns = aliased("comments",
	"id", "parent_id", "user_id", "video_id", "value", "created_at", "updated_at",
)

const (
	CommentLikeCount    = "(SELECT count(*) FROM comment_reactions cr WHERE cr.comment_id = comments.id AND cr.type = 'like')"
	CommentDislikeCount = "(SELECT count(*) FROM comment_reactions cr WHERE cr.comment_id = comments.id AND cr.type = 'dislike')"
	CommentReplyCount   = "(SELECT count(*) FROM comments r WHERE r.parent_id = comments.id)"
)

// CommentListItem is a comment with its author, reaction counts, reply count
// and the reaction of the requesting viewer, if any.
type CommentListItem struct {
	Comment `boil:",bind"`

	AuthorName     string      `boil:"author_name" json:"authorName"`
	AuthorImageURL string      `boil:"author_image_url" json:"authorImageUrl"`
	LikeCount      int64       `boil:"like_count" json:"likeCount"`
	DislikeCount   int64       `boil:"dislike_count" json:"dislikeCount"`
	ReplyCount     int64       `boil:"reply_count" json:"replyCount"`
	ViewerReaction null.String `boil:"viewer_reaction" json:"viewerReaction"`
}

// Comments returns a query against the comments table.
func Comments(mods ...qm.QueryMod) Query[*Comment] {
	base := []qm.QueryMod{qm.Select(commentAllColumns...), qm.From("comments")}
	return newQuery[*Comment]("Comment", append(base, mods...)...)
}

// CommentListing returns a query for comment rows. ViewerReaction stays null
// unless the WithViewerReaction mods are added.
func CommentListing(mods ...qm.QueryMod) Query[*CommentListItem] {
	base := []qm.QueryMod{
		qm.Select(commentAllColumns...),
		qm.Select(
			"users.name AS author_name",
			"users.image_url AS author_image_url",
			CommentLikeCount+" AS like_count",
			CommentDislikeCount+" AS dislike_count",
			CommentReplyCount+" AS reply_count",
		),
		qm.From("comments"),
		qm.InnerJoin("users ON users.id = comments.user_id"),
	}
	return newQuery[*CommentListItem]("CommentListItem", append(base, mods...)...)
}

// WithViewerReaction selects the reaction viewerID left on each comment.
func WithViewerReaction(viewerID string) []qm.QueryMod {
	return []qm.QueryMod{
		qm.Select("viewer_reaction.type AS viewer_reaction"),
		qm.LeftOuterJoin(
			"comment_reactions viewer_reaction ON viewer_reaction.comment_id = comments.id AND viewer_reaction.user_id = ?",
			viewerID,
		),
	}
}
