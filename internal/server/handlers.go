package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"storyloom/internal/provider"
	"storyloom/internal/story"
)

// turnResponse is the /story payload. Audio fields are null when narration
// is unavailable; the illustration arrives later via /image keyed by
// SentenceForImage.
type turnResponse struct {
	OldStory         string  `json:"oldStory"`
	NewStory         string  `json:"newStory"`
	FullStory        string  `json:"fullStory"`
	Audio            *string `json:"audio"`
	FullAudio        *string `json:"fullAudio"`
	SentenceForImage string  `json:"sentenceForImage"`
}

type imageResponse struct {
	Image *string `json:"image"`
}

type audioResponse struct {
	Audio *string `json:"audio"`
}

// handleStory runs one turn: continuation first, then highlighting, then
// both narrations concurrently, and finally the detached illustration job.
// The response never waits on the image and always carries status 200;
// degraded providers surface as null fields.
func (s *Server) handleStory(c *gin.Context) {
	word := c.Query("word")
	storyText := c.Query("story")
	voice := c.Query("voice")
	ctx := c.Request.Context()

	turn := s.text.Continue(ctx, storyText, word)
	highlighted := story.Highlight(turn.Sentence, word)

	var sentenceAudio, fullAudio provider.Result[string]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sentenceAudio = s.speech.Narrate(gctx, turn.Sentence, voice)
		return nil
	})
	g.Go(func() error {
		fullAudio = s.speech.Narrate(gctx, turn.FullStory, voice)
		return nil
	})
	// Narration never returns errors, only Unavailable results.
	_ = g.Wait()

	s.images.Dispatch(turn.Sentence)

	s.logger.Info("story turn",
		"word", word,
		"opening", turn.OldStory == "",
		"hasAudio", sentenceAudio.Available(),
	)
	c.JSON(http.StatusOK, turnResponse{
		OldStory:         turn.OldStory,
		NewStory:         highlighted,
		FullStory:        turn.FullStory,
		Audio:            optional(sentenceAudio),
		FullAudio:        optional(fullAudio),
		SentenceForImage: turn.Sentence,
	})
}

// handleImage serves the poll endpoint. Pending and never-requested
// sentences are indistinguishable to the client: both return null, and the
// client retries.
func (s *Server) handleImage(c *gin.Context) {
	sentence := c.Query("sentence")

	var image *string
	if entry, found := s.cache.Get(sentence); found && entry.OK {
		image = &entry.URL
	}
	c.JSON(http.StatusOK, imageResponse{Image: image})
}

// handleAudio narrates arbitrary text on demand.
func (s *Server) handleAudio(c *gin.Context) {
	res := s.speech.Narrate(c.Request.Context(), c.Query("text"), c.Query("voice"))
	c.JSON(http.StatusOK, audioResponse{Audio: optional(res)})
}

func optional(r provider.Result[string]) *string {
	v, ok := r.Get()
	if !ok {
		return nil
	}
	return &v
}
