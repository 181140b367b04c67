package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"storyloom/internal/imagecache"
	"storyloom/internal/imagejob"
	"storyloom/internal/provider"
	"storyloom/internal/story"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTextClient struct {
	output string
}

func (s *stubTextClient) GenerateText(ctx context.Context, model, system, prompt string) (string, error) {
	return s.output, nil
}

type stubTTSClient struct{}

func (stubTTSClient) TTS(ctx context.Context, model, voice, text string, w io.Writer) error {
	_, err := w.Write([]byte("mp3"))
	return err
}

type stubImageClient struct {
	url string
}

func (s *stubImageClient) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	return s.url, nil
}

// recordingDispatcher captures dispatched sentences without background work.
type recordingDispatcher struct {
	mu        sync.Mutex
	sentences []string
}

func (d *recordingDispatcher) Dispatch(sentence string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sentences = append(d.sentences, sentence)
}

func newTestServer(sentence string, withSpeech bool) (*Server, *imagecache.Cache, *recordingDispatcher) {
	logger := testLogger()
	voices := story.NewRegistry(map[string]string{"narrator": "onyx"}, "alloy")

	text := provider.NewText(&stubTextClient{output: sentence}, "gpt-4o-mini", logger)
	var speech *provider.Speech
	if withSpeech {
		speech = provider.NewSpeech(stubTTSClient{}, "gpt-4o-mini-tts", voices, logger)
	} else {
		speech = provider.NewSpeech(nil, "gpt-4o-mini-tts", voices, logger)
	}

	cache := imagecache.New()
	dispatcher := &recordingDispatcher{}
	return New(text, speech, dispatcher, cache, logger), cache, dispatcher
}

func get(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", target, rec.Code)
	}
	return rec
}

func TestStoryNewStory(t *testing.T) {
	srv, _, dispatcher := newTestServer("A dragon napped on the warm hill.", true)
	router := srv.Router(nil)

	rec := get(t, router, "/story?word=dragon&story=")
	var resp struct {
		OldStory         string  `json:"oldStory"`
		NewStory         string  `json:"newStory"`
		FullStory        string  `json:"fullStory"`
		Audio            *string `json:"audio"`
		FullAudio        *string `json:"fullAudio"`
		SentenceForImage string  `json:"sentenceForImage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.OldStory != "" {
		t.Fatalf("oldStory should echo empty input: %q", resp.OldStory)
	}
	if resp.FullStory != "A dragon napped on the warm hill." {
		t.Fatalf("fullStory should be the sentence alone: %q", resp.FullStory)
	}
	if resp.NewStory != "A <b>dragon</b> napped on the warm hill."+story.BreakMarker {
		t.Fatalf("newStory not highlighted: %q", resp.NewStory)
	}
	if resp.Audio == nil || !strings.HasPrefix(*resp.Audio, "data:audio/mpeg;base64,") {
		t.Fatalf("audio missing: %v", resp.Audio)
	}
	if resp.FullAudio == nil {
		t.Fatalf("fullAudio missing")
	}
	if resp.SentenceForImage != "A dragon napped on the warm hill." {
		t.Fatalf("sentenceForImage wrong: %q", resp.SentenceForImage)
	}
	if len(dispatcher.sentences) != 1 || dispatcher.sentences[0] != resp.SentenceForImage {
		t.Fatalf("image job not dispatched for sentence: %v", dispatcher.sentences)
	}
}

func TestStoryContinuesExistingStory(t *testing.T) {
	srv, _, _ := newTestServer("A lantern flickered in the window.", true)
	router := srv.Router(nil)

	target := "/story?word=lantern&story=" + url.QueryEscape("The village was quiet.")
	rec := get(t, router, target)

	var resp struct {
		OldStory  string `json:"oldStory"`
		FullStory string `json:"fullStory"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.OldStory != "The village was quiet." {
		t.Fatalf("oldStory wrong: %q", resp.OldStory)
	}
	if resp.FullStory != "The village was quiet. A lantern flickered in the window." {
		t.Fatalf("fullStory wrong: %q", resp.FullStory)
	}
}

func TestStoryNewStoryAvoidsBannedOpener(t *testing.T) {
	srv, _, _ := newTestServer("Once upon a time, a dragon napped.", true)
	router := srv.Router(nil)

	rec := get(t, router, "/story?word=dragon&story=")
	var resp struct {
		SentenceForImage string `json:"sentenceForImage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if strings.HasPrefix(strings.ToLower(resp.SentenceForImage), "once upon a time") {
		t.Fatalf("banned opener in opening sentence: %q", resp.SentenceForImage)
	}
}

func TestAudioWithoutProviderReturnsNull(t *testing.T) {
	srv, _, _ := newTestServer("unused", false)
	router := srv.Router(nil)

	rec := get(t, router, "/audio?text=Hello")
	if body := strings.TrimSpace(rec.Body.String()); body != `{"audio":null}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAudioReturnsDataURI(t *testing.T) {
	srv, _, _ := newTestServer("unused", true)
	router := srv.Router(nil)

	rec := get(t, router, "/audio?text=Hello&voice=narrator")
	var resp struct {
		Audio *string `json:"audio"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Audio == nil || !strings.HasPrefix(*resp.Audio, "data:audio/mpeg;base64,") {
		t.Fatalf("audio wrong: %v", resp.Audio)
	}
}

func TestImagePollLifecycle(t *testing.T) {
	srv, cache, _ := newTestServer("unused", false)
	router := srv.Router(nil)
	sentence := "A dragon napped."
	target := "/image?sentence=" + url.QueryEscape(sentence)

	// Absent: still pending or never requested, repeatedly null.
	for i := 0; i < 2; i++ {
		rec := get(t, router, target)
		if body := strings.TrimSpace(rec.Body.String()); body != `{"image":null}` {
			t.Fatalf("pending poll wrong: %s", body)
		}
	}

	cache.Put(sentence, "https://images.example/dragon.png", true)
	for i := 0; i < 2; i++ {
		rec := get(t, router, target)
		var resp struct {
			Image *string `json:"image"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad json: %v", err)
		}
		if resp.Image == nil || *resp.Image != "https://images.example/dragon.png" {
			t.Fatalf("resolved poll wrong: %v", resp.Image)
		}
	}
}

func TestImagePollResolvedWithoutImage(t *testing.T) {
	srv, cache, _ := newTestServer("unused", false)
	router := srv.Router(nil)
	cache.Put("A dragon napped.", "", false)

	rec := get(t, router, "/image?sentence="+url.QueryEscape("A dragon napped."))
	if body := strings.TrimSpace(rec.Body.String()); body != `{"image":null}` {
		t.Fatalf("resolved-none poll wrong: %s", body)
	}
}

func TestStoryWithRealRunnerResolvesImage(t *testing.T) {
	logger := testLogger()
	voices := story.NewRegistry(nil, "alloy")
	text := provider.NewText(&stubTextClient{output: "A dragon napped."}, "gpt-4o-mini", logger)
	speech := provider.NewSpeech(nil, "gpt-4o-mini-tts", voices, logger)
	illus := provider.NewIllustration(&stubImageClient{url: "https://images.example/dragon.png"}, "dall-e-3", logger)

	cache := imagecache.New()
	runner := imagejob.NewRunner(cache, illus, logger)
	srv := New(text, speech, runner, cache, logger)
	router := srv.Router(nil)

	get(t, router, "/story?word=dragon&story=")
	runner.Wait()

	rec := get(t, router, "/image?sentence="+url.QueryEscape("A dragon napped."))
	var resp struct {
		Image *string `json:"image"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Image == nil || *resp.Image != "https://images.example/dragon.png" {
		t.Fatalf("background job did not resolve image: %v", resp.Image)
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer("unused", false)
	router := srv.Router([]string{"http://localhost:3000"})

	rec := get(t, router, "/health")
	if body := strings.TrimSpace(rec.Body.String()); body != `{"status":"ok"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}
