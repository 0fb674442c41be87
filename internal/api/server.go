// Package api exposes the listings over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/nrfta/tubepage/internal/identity"
	"github.com/nrfta/tubepage/internal/logging"
	"github.com/nrfta/tubepage/internal/metrics"
	"github.com/nrfta/tubepage/internal/store"
)

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators of a Server.
type Deps struct {
	Store    *store.Store
	Resolver *identity.Resolver
	DB       Pinger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Log      logrus.FieldLogger

	// CORSOrigins lists the allowed origins. Empty allows all.
	CORSOrigins []string
}

// Server routes HTTP requests to the store.
type Server struct {
	store    *store.Store
	resolver *identity.Resolver
	db       Pinger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      logrus.FieldLogger
	origins  []string

	engine *gin.Engine
}

// NewServer creates a Server and registers its routes.
func NewServer(d Deps) *Server {
	s := &Server{
		store:    d.Store,
		resolver: d.Resolver,
		db:       d.DB,
		metrics:  d.Metrics,
		gatherer: d.Gatherer,
		log:      d.Log,
		origins:  d.CORSOrigins,
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()

	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.engine.Group("/api/v1")

	public := v1.Group("", identity.Optional(s.resolver, s.log))
	public.GET("/videos", s.listVideos)
	public.GET("/videos/trending", s.listTrending)
	public.GET("/videos/:id/suggestions", s.listSuggestions)
	public.GET("/videos/:id/comments", s.listComments)
	public.GET("/search", s.search)

	private := v1.Group("", identity.Required(s.resolver, s.log))
	private.GET("/videos/subscribed", s.listSubscribed)
	private.GET("/studio/videos", s.listStudio)
	private.GET("/subscriptions", s.listSubscriptions)
	private.GET("/playlists", s.listPlaylists)
	private.GET("/playlists/for-video/:videoId", s.listPlaylistsForVideo)
	private.GET("/playlists/history", s.listHistory)
	private.GET("/playlists/liked", s.listLiked)
	private.GET("/playlists/:id/videos", s.listPlaylistVideos)
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	if len(s.origins) == 0 {
		return cors.AllowAll().Handler(s.engine)
	}
	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}).Handler(s.engine)
}

func (s *Server) healthz(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.log.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
