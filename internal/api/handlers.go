package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/identity"
	"github.com/nrfta/tubepage/internal/store"
)

func (s *Server) listVideos(c *gin.Context) {
	var req videosRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.store.Videos(c.Request.Context(), store.VideoFilter{
		UserID:     req.UserID,
		CategoryID: req.CategoryID,
	}, req.args())
	writePage(s, c, page, err)
}

func (s *Server) listTrending(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.store.Trending(c.Request.Context(), req.args())
	writePage(s, c, page, err)
}

func (s *Server) listSubscribed(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.SubscribedVideos(ctx, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err)
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.store.Search(c.Request.Context(), store.SearchFilter{
		Query:      req.Query,
		CategoryID: req.CategoryID,
	}, req.args())
	writePage(s, c, page, err)
}

func (s *Server) listSuggestions(c *gin.Context) {
	var req videoRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.store.Suggestions(c.Request.Context(), req.VideoID, req.args())
	writePage(s, c, page, err)
}

func (s *Server) listStudio(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.StudioVideos(ctx, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err)
}

func (s *Server) listSubscriptions(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.Subscriptions(ctx, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err)
}

func (s *Server) listComments(c *gin.Context) {
	var req commentsRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.Comments(ctx, store.CommentFilter{
		VideoID:  req.VideoID,
		ParentID: req.ParentID,
	}, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err, paging.WithTotalCount())
}

func (s *Server) listPlaylists(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.Playlists(ctx, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err)
}

func (s *Server) listPlaylistsForVideo(c *gin.Context) {
	var req playlistsForVideoRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.PlaylistsForVideo(ctx, identity.ViewerID(ctx), req.VideoID, req.args())
	writePage(s, c, page, err)
}

func (s *Server) listPlaylistVideos(c *gin.Context) {
	var req playlistRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.PlaylistVideos(ctx, identity.ViewerID(ctx), req.PlaylistID, req.args())
	writePage(s, c, page, err)
}

func (s *Server) listHistory(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.History(ctx, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err)
}

func (s *Server) listLiked(c *gin.Context) {
	var req PageQuery
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := s.store.Liked(ctx, identity.ViewerID(ctx), req.args())
	writePage(s, c, page, err)
}
