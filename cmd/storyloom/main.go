package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"storyloom/internal/ai"
	"storyloom/internal/config"
	"storyloom/internal/imagecache"
	"storyloom/internal/imagejob"
	"storyloom/internal/provider"
	"storyloom/internal/server"
	"storyloom/internal/story"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// Client constructors are swappable for tests. A missing API key yields a
// nil client: the matching feature degrades instead of crashing the service.
var newOpenAIClient = func(cfg *config.Config) (*ai.Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, nil
	}
	return ai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
}

var newTTSClient = func(cfg *config.Config, openaiClient *ai.Client) (ai.TTSClient, error) {
	switch cfg.TTSProvider {
	case config.TTSProviderElevenLabs:
		if cfg.ElevenLabsAPIKey == "" {
			return nil, nil
		}
		return ai.NewElevenLabs(cfg.ElevenLabsAPIKey)
	default:
		if openaiClient == nil {
			return nil, nil
		}
		return openaiClient, nil
	}
}

func run(args []string) int {
	fs := flag.NewFlagSet("storyloom", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var (
		addr        = fs.String("addr", "", "Listen address (overrides ADDR)")
		envFile     = fs.String("env-file", ".env", "Path to env file")
		logLevel    = fs.String("log-level", "info", "Log level: debug, info, warn, error")
		showVersion = fs.Bool("version", false, "Print version")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Println(version)
		return 0
	}
	setupLogger(*logLevel)

	if err := godotenv.Load(*envFile); err != nil {
		slog.Debug("no env file loaded", "path", *envFile)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		return 1
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	openaiClient, err := newOpenAIClient(cfg)
	if err != nil {
		slog.Error("openai client failed", "err", err)
		return 1
	}
	ttsClient, err := newTTSClient(cfg, openaiClient)
	if err != nil {
		slog.Error("tts client failed", "err", err)
		return 1
	}
	if openaiClient == nil {
		slog.Warn("OPENAI_API_KEY not set, text and image generation degraded")
	}
	if ttsClient == nil {
		slog.Warn("speech synthesis unconfigured, audio degraded", "provider", cfg.TTSProvider)
	}

	logger := slog.Default()
	voices := story.NewRegistry(cfg.Voices, cfg.DefaultVoice)

	text := provider.NewText(asTextClient(openaiClient), cfg.TextModel, logger)
	speech := provider.NewSpeech(ttsClient, cfg.TTSModelForProvider(), voices, logger)
	illustration := provider.NewIllustration(asImageClient(openaiClient), cfg.ImageModel, logger)

	cache := imagecache.New()
	runner := imagejob.NewRunner(cache, illustration, logger)
	srv := server.New(text, speech, runner, cache, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	slog.Info("listening", "addr", cfg.Addr, "ttsProvider", cfg.TTSProvider, "version", version)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown incomplete", "err", err)
		}
		// Let in-flight illustration jobs write their results before exit.
		runner.Wait()
	}
	return 0
}

// A nil *ai.Client must become a nil interface so the adapters detect the
// unconfigured provider.
func asTextClient(c *ai.Client) ai.TextClient {
	if c == nil {
		return nil
	}
	return c
}

func asImageClient(c *ai.Client) ai.ImageClient {
	if c == nil {
		return nil
	}
	return c
}

// setupLogger installs a JSON slog handler at the given level; defaults to info.
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
