// Package server exposes the HTTP surface and coordinates the provider
// adapters for each story turn.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storyloom/internal/imagecache"
	"storyloom/internal/provider"
	"storyloom/internal/story"
)

// TextProvider produces the next story turn.
type TextProvider interface {
	Continue(ctx context.Context, storyText, word string) story.Turn
}

// SpeechProvider narrates text as an inline audio data URI.
type SpeechProvider interface {
	Narrate(ctx context.Context, text, voiceName string) provider.Result[string]
}

// ImageDispatcher starts detached illustration generation for a sentence.
type ImageDispatcher interface {
	Dispatch(sentence string)
}

// Server wires the HTTP handlers to the providers and the shared
// illustration cache.
type Server struct {
	text   TextProvider
	speech SpeechProvider
	images ImageDispatcher
	cache  *imagecache.Cache
	logger *slog.Logger
}

// New builds a server. The cache handle is shared with the image job
// runner, which writes the entries this server's poll handler reads.
func New(text TextProvider, speech SpeechProvider, images ImageDispatcher, cache *imagecache.Cache, logger *slog.Logger) *Server {
	return &Server{
		text:   text,
		speech: speech,
		images: images,
		cache:  cache,
		logger: logger,
	}
}

// Router builds the gin engine with CORS for the polling frontend.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	router.GET("/story", s.handleStory)
	router.GET("/image", s.handleImage)
	router.GET("/audio", s.handleAudio)
	return router
}
