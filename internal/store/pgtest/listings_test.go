//go:build integration

package pgtest_test

import (
	"time"

	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/config"
	"github.com/nrfta/tubepage/internal/db"
	"github.com/nrfta/tubepage/internal/logging"
	"github.com/nrfta/tubepage/internal/models"
	"github.com/nrfta/tubepage/internal/store"
)

var _ = Describe("Video feeds", func() {
	var (
		s      *store.Store
		author string
	)

	BeforeEach(func() {
		s = store.New(container.DB)
		author = insertUser("Ada")
	})

	videos := func(filter store.VideoFilter) func(*paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
		return func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.Videos(ctx, filter, args)
		}
	}

	It("splits 25 rows into pages of 10, 10 and 5", func() {
		ids := insertVideos(author, 25)

		pages := drain(10, videos(store.VideoFilter{}))
		Expect(pages).To(HaveLen(3))
		Expect(pages[0]).To(HaveLen(10))
		Expect(pages[1]).To(HaveLen(10))
		Expect(pages[2]).To(HaveLen(5))
		Expect(videoIDs(flatten(pages))).To(Equal(ids))
	})

	It("returns one page with a null cursor when rows equal the limit", func() {
		insertVideos(author, 5)

		page, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(5, ""))
		Expect(err).ToNot(HaveOccurred())
		Expect(page.Nodes).To(HaveLen(5))

		next, _ := page.PageInfo.NextCursor()
		Expect(next).To(BeNil())
	})

	It("returns an empty page for an empty result", func() {
		page, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(5, ""))
		Expect(err).ToNot(HaveOccurred())
		Expect(page.Nodes).To(BeEmpty())

		next, _ := page.PageInfo.NextCursor()
		Expect(next).To(BeNil())
	})

	It("breaks timestamp ties by id", func() {
		a := insertVideo(author, videoSpec{ID: "00000000-0000-4000-8000-00000000000a", UpdatedAt: baseTime})
		b := insertVideo(author, videoSpec{ID: "00000000-0000-4000-8000-00000000000b", UpdatedAt: baseTime})

		first, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(1, ""))
		Expect(err).ToNot(HaveOccurred())
		Expect(videoIDs(first.Nodes)).To(Equal([]string{b}))

		next, _ := first.PageInfo.NextCursor()
		Expect(next).ToNot(BeNil())

		second, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(1, *next))
		Expect(err).ToNot(HaveOccurred())
		Expect(videoIDs(second.Nodes)).To(Equal([]string{a}))
	})

	It("visits every row once and in order across many ties", func() {
		var rows []keyed
		for i := 0; i < 40; i++ {
			at := baseTime.Add(-time.Duration(i/4) * time.Second)
			rows = append(rows, keyed{at: at, id: insertVideo(author, videoSpec{UpdatedAt: at})})
		}

		got := videoIDs(flatten(drain(7, videos(store.VideoFilter{}))))
		Expect(got).To(Equal(sortedDesc(rows)))
	})

	It("replays a cursor to the same page", func() {
		insertVideos(author, 12)

		first, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(4, ""))
		Expect(err).ToNot(HaveOccurred())
		next, _ := first.PageInfo.NextCursor()

		a, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(4, *next))
		Expect(err).ToNot(HaveOccurred())
		b, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(4, *next))
		Expect(err).ToNot(HaveOccurred())
		Expect(videoIDs(a.Nodes)).To(Equal(videoIDs(b.Nodes)))
	})

	It("keeps a cursor valid after its row is deleted", func() {
		ids := insertVideos(author, 6)

		first, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(3, ""))
		Expect(err).ToNot(HaveOccurred())
		next, _ := first.PageInfo.NextCursor()

		exec(`DELETE FROM videos WHERE id = $1`, ids[2])

		second, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(3, *next))
		Expect(err).ToNot(HaveOccurred())
		Expect(videoIDs(second.Nodes)).To(Equal(ids[3:]))
	})

	It("hides private videos and applies author and category filters", func() {
		other := insertUser("Bob")
		music := insertCategory("Music")

		mine := insertVideo(author, videoSpec{CategoryID: music, UpdatedAt: baseTime})
		insertVideo(author, videoSpec{Visibility: models.VisibilityPrivate, CategoryID: music, UpdatedAt: baseTime})
		theirs := insertVideo(other, videoSpec{UpdatedAt: baseTime.Add(-time.Hour)})

		all := videoIDs(flatten(drain(10, videos(store.VideoFilter{}))))
		Expect(all).To(Equal([]string{mine, theirs}))

		byAuthor := videoIDs(flatten(drain(10, videos(store.VideoFilter{UserID: other}))))
		Expect(byAuthor).To(Equal([]string{theirs}))

		byCategory := videoIDs(flatten(drain(10, videos(store.VideoFilter{CategoryID: music}))))
		Expect(byCategory).To(Equal([]string{mine}))
	})

	It("selects author and engagement counts", func() {
		viewer := insertUser("Cleo")
		id := insertVideo(author, videoSpec{UpdatedAt: baseTime})
		insertView(viewer, id, baseTime)
		insertReaction(viewer, id, "like", baseTime)
		insertComment(viewer, id, "", baseTime)

		page, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(1, ""))
		Expect(err).ToNot(HaveOccurred())

		item := page.Nodes[0]
		Expect(item.AuthorName).To(Equal("Ada"))
		Expect(item.ViewCount).To(Equal(int64(1)))
		Expect(item.LikeCount).To(Equal(int64(1)))
		Expect(item.DislikeCount).To(BeZero())
		Expect(item.CommentCount).To(Equal(int64(1)))
	})

	It("ranks trending videos by views, then id", func() {
		viewers := []string{insertUser("V1"), insertUser("V2"), insertUser("V3")}
		ids := insertVideos(author, 4)
		for i, viewer := range viewers {
			for _, id := range ids[:i+1] {
				insertView(viewer, id, baseTime)
			}
		}
		// views: ids[0]=3, ids[1]=2, ids[2]=1, ids[3]=0

		got := flatten(drain(1, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.Trending(ctx, args)
		}))
		Expect(videoIDs(got)).To(Equal(ids))
		Expect(got[0].ViewCount).To(Equal(int64(3)))
	})

	It("lists videos of subscribed creators only", func() {
		viewer := insertUser("Viewer")
		followed := insertUser("Followed")
		insertSubscription(viewer, followed, baseTime)

		want := insertVideo(followed, videoSpec{UpdatedAt: baseTime})
		insertVideo(followed, videoSpec{Visibility: models.VisibilityPrivate, UpdatedAt: baseTime})
		insertVideo(author, videoSpec{UpdatedAt: baseTime})

		got := flatten(drain(5, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.SubscribedVideos(ctx, viewer, args)
		}))
		Expect(videoIDs(got)).To(Equal([]string{want}))
	})

	It("searches titles without treating LIKE metacharacters as wildcards", func() {
		hit := insertVideo(author, videoSpec{Title: "Save 100% now", UpdatedAt: baseTime})
		insertVideo(author, videoSpec{Title: "Save 1000 now", UpdatedAt: baseTime})
		insertVideo(author, videoSpec{Title: "unrelated", UpdatedAt: baseTime})

		got := flatten(drain(5, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.Search(ctx, store.SearchFilter{Query: "100%"}, args)
		}))
		Expect(videoIDs(got)).To(Equal([]string{hit}))

		caseless := flatten(drain(5, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.Search(ctx, store.SearchFilter{Query: "SAVE"}, args)
		}))
		Expect(caseless).To(HaveLen(2))
	})

	Describe("Suggestions", func() {
		It("returns ErrNotFound for an unknown video", func() {
			_, err := s.Suggestions(ctx, uuid.NewString(), paging.NewPageArgs(5, ""))
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})

		It("lists other public videos of the same category", func() {
			music := insertCategory("Music")
			gaming := insertCategory("Gaming")

			base := insertVideo(author, videoSpec{CategoryID: music, UpdatedAt: baseTime})
			same := insertVideo(author, videoSpec{CategoryID: music, UpdatedAt: baseTime.Add(-time.Minute)})
			insertVideo(author, videoSpec{CategoryID: gaming, UpdatedAt: baseTime})

			got := flatten(drain(5, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
				return s.Suggestions(ctx, base, args)
			}))
			Expect(videoIDs(got)).To(Equal([]string{same}))
		})

		It("lists every other public video when the base has no category", func() {
			base := insertVideo(author, videoSpec{UpdatedAt: baseTime})
			others := insertVideos(author, 3)

			got := flatten(drain(2, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
				return s.Suggestions(ctx, base, args)
			}))
			Expect(videoIDs(got)).To(ConsistOf(others))
			Expect(videoIDs(got)).ToNot(ContainElement(base))
		})
	})

	It("lists every video of the studio owner", func() {
		public := insertVideo(author, videoSpec{UpdatedAt: baseTime})
		private := insertVideo(author, videoSpec{Visibility: models.VisibilityPrivate, UpdatedAt: baseTime.Add(-time.Minute)})
		insertVideo(insertUser("Bob"), videoSpec{UpdatedAt: baseTime})

		got := flatten(drain(1, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.StudioVideos(ctx, author, args)
		}))
		Expect(videoIDs(got)).To(Equal([]string{public, private}))
	})
})

var _ = Describe("Comments", func() {
	var (
		s      *store.Store
		author string
		viewer string
		video  string
	)

	BeforeEach(func() {
		s = store.New(container.DB)
		author = insertUser("Ada")
		viewer = insertUser("Bob")
		video = insertVideo(author, videoSpec{UpdatedAt: baseTime})
	})

	It("pages top-level comments and counts every comment of the video", func() {
		var rows []keyed
		for i := 0; i < 9; i++ {
			at := baseTime.Add(-time.Duration(i/3) * time.Minute)
			rows = append(rows, keyed{at: at, id: insertComment(viewer, video, "", at)})
		}
		insertComment(author, video, rows[0].id, baseTime)

		var got []string
		pages := drain(4, func(args *paging.PageArgs) (*paging.Page[*models.CommentListItem], error) {
			page, err := s.Comments(ctx, store.CommentFilter{VideoID: video}, "", args)
			if err == nil {
				total, err := page.PageInfo.TotalCount()
				Expect(err).ToNot(HaveOccurred())
				Expect(*total).To(Equal(10))
			}
			return page, err
		})
		for _, c := range flatten(pages) {
			got = append(got, c.ID)
		}
		Expect(got).To(Equal(sortedDesc(rows)))
	})

	It("lists replies with reply counts and the viewer's reaction", func() {
		parent := insertComment(author, video, "", baseTime)
		reply := insertComment(author, video, parent, baseTime)
		insertCommentReaction(viewer, reply, "dislike")

		top, err := s.Comments(ctx, store.CommentFilter{VideoID: video}, viewer, paging.NewPageArgs(5, ""))
		Expect(err).ToNot(HaveOccurred())
		Expect(top.Nodes).To(HaveLen(1))
		Expect(top.Nodes[0].ReplyCount).To(Equal(int64(1)))
		Expect(top.Nodes[0].ViewerReaction.Valid).To(BeFalse())

		replies, err := s.Comments(ctx, store.CommentFilter{VideoID: video, ParentID: parent}, viewer, paging.NewPageArgs(5, ""))
		Expect(err).ToNot(HaveOccurred())
		Expect(replies.Nodes).To(HaveLen(1))
		Expect(replies.Nodes[0].ID).To(Equal(reply))
		Expect(replies.Nodes[0].DislikeCount).To(Equal(int64(1)))
		Expect(replies.Nodes[0].ViewerReaction.String).To(Equal("dislike"))
	})
})

var _ = Describe("Library listings", func() {
	var (
		s      *store.Store
		viewer string
	)

	BeforeEach(func() {
		s = store.New(container.DB)
		viewer = insertUser("Viewer")
	})

	It("pages subscriptions with subscriber counts", func() {
		var rows []keyed
		for i := 0; i < 5; i++ {
			creator := insertUser("Creator" + string(rune('A'+i)))
			insertSubscription(viewer, creator, baseTime)
			rows = append(rows, keyed{at: baseTime, id: creator})
		}
		fan := insertUser("Fan")
		insertSubscription(fan, rows[0].id, baseTime)

		got := flatten(drain(2, func(args *paging.PageArgs) (*paging.Page[*models.SubscriptionListItem], error) {
			return s.Subscriptions(ctx, viewer, args)
		}))

		var ids []string
		for _, sub := range got {
			ids = append(ids, sub.CreatorID)
			if sub.CreatorID == rows[0].id {
				Expect(sub.SubscriberCount).To(Equal(int64(2)))
			}
		}
		Expect(ids).To(Equal(sortedDesc(rows)))
	})

	Describe("playlists", func() {
		var (
			owner    string
			playlist string
			videos   []string
		)

		BeforeEach(func() {
			owner = insertUser("Owner")
			videos = insertVideos(owner, 3)
			playlist = insertPlaylist(viewer, "Later", baseTime)
			insertPlaylist(viewer, "Empty", baseTime.Add(-time.Hour))
			exec(`UPDATE videos SET thumbnail_url = 'https://img/' || id || '.jpg'`)

			for i, id := range videos {
				addToPlaylist(playlist, id, baseTime.Add(time.Duration(i)*time.Minute))
			}
		})

		It("lists the viewer's playlists with size and latest thumbnail", func() {
			got := flatten(drain(1, func(args *paging.PageArgs) (*paging.Page[*models.PlaylistListItem], error) {
				return s.Playlists(ctx, viewer, args)
			}))
			Expect(got).To(HaveLen(2))
			Expect(got[0].ID).To(Equal(playlist))
			Expect(got[0].VideoCount).To(Equal(int64(3)))
			Expect(got[0].ThumbnailURL.String).To(Equal("https://img/" + videos[2] + ".jpg"))
			Expect(got[1].ThumbnailURL.Valid).To(BeFalse())
		})

		It("flags playlists that hold a video", func() {
			page, err := s.PlaylistsForVideo(ctx, viewer, videos[0], paging.NewPageArgs(10, ""))
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Nodes).To(HaveLen(2))
			Expect(page.Nodes[0].ContainsVideo).To(BeTrue())
			Expect(page.Nodes[1].ContainsVideo).To(BeFalse())
		})

		It("lists playlist videos, most recently added first", func() {
			got := flatten(drain(2, func(args *paging.PageArgs) (*paging.Page[*models.PlaylistVideoItem], error) {
				return s.PlaylistVideos(ctx, viewer, playlist, args)
			}))

			var ids []string
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			Expect(ids).To(Equal([]string{videos[2], videos[1], videos[0]}))
		})

		It("hides playlists of other users", func() {
			_, err := s.PlaylistVideos(ctx, owner, playlist, paging.NewPageArgs(5, ""))
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})

	It("lists history by view time and likes by like time", func() {
		owner := insertUser("Owner")
		ids := insertVideos(owner, 3)
		insertView(viewer, ids[0], baseTime.Add(-time.Hour))
		insertView(viewer, ids[1], baseTime)
		insertReaction(viewer, ids[2], "like", baseTime)
		insertReaction(viewer, ids[0], "like", baseTime.Add(time.Hour))
		insertReaction(viewer, ids[1], "dislike", baseTime.Add(2*time.Hour))

		history := flatten(drain(1, func(args *paging.PageArgs) (*paging.Page[*models.WatchedVideoItem], error) {
			return s.History(ctx, viewer, args)
		}))
		Expect(history).To(HaveLen(2))
		Expect(history[0].ID).To(Equal(ids[1]))
		Expect(history[1].ID).To(Equal(ids[0]))

		liked := flatten(drain(1, func(args *paging.PageArgs) (*paging.Page[*models.LikedVideoItem], error) {
			return s.Liked(ctx, viewer, args)
		}))
		Expect(liked).To(HaveLen(2))
		Expect(liked[0].ID).To(Equal(ids[0]))
		Expect(liked[1].ID).To(Equal(ids[2]))
	})
})

var _ = Describe("Operations", func() {
	It("applies the schema idempotently", func() {
		Expect(db.Migrate(ctx, container.DB)).To(Succeed())
	})

	It("seeds categories once", func() {
		n, err := db.SeedCategories(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(int64(len(db.CategoryNames))))

		n, err = db.SeedCategories(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("runs listings through the circuit breaker", func() {
		cfg, err := config.Load("")
		Expect(err).ToNot(HaveOccurred())

		breaker := db.NewBreaker(container.DB, cfg.Breaker, logging.Discard())
		s := store.New(breaker)
		insertVideos(insertUser("Ada"), 3)

		got := flatten(drain(2, func(args *paging.PageArgs) (*paging.Page[*models.VideoListItem], error) {
			return s.Videos(ctx, store.VideoFilter{}, args)
		}))
		Expect(got).To(HaveLen(3))
	})
})

var _ = Describe("Cursor tampering", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New(container.DB)
		insertVideos(insertUser("Ada"), 3)
	})

	DescribeTable("rejects tokens that do not decode to the listing's keys",
		func(token string) {
			_, err := s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(2, token))
			Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
		},
		Entry("not base64", "abc@#$%"),
		Entry("empty object", "e30"),
		Entry("JSON null", "bnVsbA"),
		Entry("JSON array", "WyJhIiwiYiJd"),
		Entry("quote in the id", "eyJ1cGRhdGVkQXQiOiIyMDI0LTAxLTAxVDAwOjAwOjAwWiIsImlkIjoiJyBPUiAxPTEgLS0ifQ"),
	)

	It("rejects a cursor issued by a different listing", func() {
		page, err := s.Trending(ctx, paging.NewPageArgs(2, ""))
		Expect(err).ToNot(HaveOccurred())

		next, err := page.PageInfo.NextCursor()
		Expect(err).ToNot(HaveOccurred())
		Expect(next).ToNot(BeNil())

		_, err = s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(2, *next))
		Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
	})

	It("leaves the table intact after a tampered request", func() {
		_, _ = s.Videos(ctx, store.VideoFilter{}, paging.NewPageArgs(2, "eyJ1cGRhdGVkQXQiOiIyMDI0LTAxLTAxVDAwOjAwOjAwWiIsImlkIjoiJyBPUiAxPTEgLS0ifQ"))

		n, err := models.Videos().Count(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(int64(3)))
	})
})
