//go:build integration

package pgtest_test

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/models"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func exec(query string, args ...any) {
	_, err := container.DB.ExecContext(ctx, query, args...)
	ExpectWithOffset(2, err).ToNot(HaveOccurred())
}

func insertUser(name string) string {
	id := uuid.NewString()
	exec(`INSERT INTO users (id, clerk_id, name, image_url) VALUES ($1, $2, $3, $4)`,
		id, "user_"+strings.ToLower(name), name, "https://img/"+name+".jpg")
	return id
}

func insertCategory(name string) string {
	id := uuid.NewString()
	exec(`INSERT INTO categories (id, name) VALUES ($1, $2)`, id, name)
	return id
}

type videoSpec struct {
	ID         string
	Title      string
	Visibility string
	CategoryID string
	UpdatedAt  time.Time
}

func insertVideo(userID string, v videoSpec) string {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Title == "" {
		v.Title = "Video " + v.ID[:8]
	}
	if v.Visibility == "" {
		v.Visibility = models.VisibilityPublic
	}
	var category any
	if v.CategoryID != "" {
		category = v.CategoryID
	}
	exec(`INSERT INTO videos (id, title, visibility, user_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		v.ID, v.Title, v.Visibility, userID, category, v.UpdatedAt)
	return v.ID
}

// insertVideos creates n public videos one minute apart, newest first in
// the returned slice.
func insertVideos(userID string, n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = insertVideo(userID, videoSpec{UpdatedAt: baseTime.Add(-time.Duration(i) * time.Minute)})
	}
	return ids
}

func insertView(userID, videoID string, at time.Time) {
	exec(`INSERT INTO video_views (user_id, video_id, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
		userID, videoID, at)
}

func insertReaction(userID, videoID, kind string, at time.Time) {
	exec(`INSERT INTO video_reactions (user_id, video_id, type, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`,
		userID, videoID, kind, at)
}

func insertSubscription(viewerID, creatorID string, at time.Time) {
	exec(`INSERT INTO subscriptions (viewer_id, creator_id, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
		viewerID, creatorID, at)
}

func insertComment(userID, videoID, parentID string, at time.Time) string {
	id := uuid.NewString()
	var parent any
	if parentID != "" {
		parent = parentID
	}
	exec(`INSERT INTO comments (id, parent_id, user_id, video_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		id, parent, userID, videoID, "comment "+id[:8], at)
	return id
}

func insertCommentReaction(userID, commentID, kind string) {
	exec(`INSERT INTO comment_reactions (user_id, comment_id, type) VALUES ($1, $2, $3)`, userID, commentID, kind)
}

func insertPlaylist(userID, name string, at time.Time) string {
	id := uuid.NewString()
	exec(`INSERT INTO playlists (id, name, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`,
		id, name, userID, at)
	return id
}

func addToPlaylist(playlistID, videoID string, at time.Time) {
	exec(`INSERT INTO playlist_videos (playlist_id, video_id, created_at, updated_at) VALUES ($1, $2, $3, $3)`,
		playlistID, videoID, at)
}

// drain follows next cursors until the last page and returns every page.
func drain[T any](limit int, list func(args *paging.PageArgs) (*paging.Page[T], error)) [][]T {
	var (
		pages  [][]T
		cursor string
	)
	for i := 0; i < 1000; i++ {
		page, err := list(paging.NewPageArgs(limit, cursor))
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		ExpectWithOffset(1, len(page.Nodes)).To(BeNumerically("<=", limit))
		pages = append(pages, page.Nodes)

		next, err := page.PageInfo.NextCursor()
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		if next == nil {
			return pages
		}
		cursor = *next
	}
	panic("drain: cursor never ended")
}

func flatten[T any](pages [][]T) []T {
	var out []T
	for _, p := range pages {
		out = append(out, p...)
	}
	return out
}

func videoIDs(items []*models.VideoListItem) []string {
	ids := make([]string, len(items))
	for i, v := range items {
		ids[i] = v.ID
	}
	return ids
}

type keyed struct {
	at time.Time
	id string
}

// sortedDesc orders rows by (at DESC, id DESC), the order of every feed.
func sortedDesc(rows []keyed) []string {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.After(rows[j].at)
		}
		return rows[i].id > rows[j].id
	})
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.id
	}
	return ids
}
