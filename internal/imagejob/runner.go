// Package imagejob runs illustration generation as detached background
// work whose outcome is observed only through the shared cache.
package imagejob

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storyloom/internal/imagecache"
	"storyloom/internal/provider"
)

// Slow media generation; matches the HTTP timeout used for the TTS client.
const defaultTimeout = 2 * time.Minute

// Illustrator is the provider surface the runner needs.
type Illustrator interface {
	Illustrate(ctx context.Context, sentence string) provider.Result[string]
}

// Runner dispatches one detached illustration job per story turn and
// records each result in the cache. Jobs carry only the sentence key and
// the cache handle; once started they run to completion, there is no
// cancellation path.
type Runner struct {
	cache   *imagecache.Cache
	illus   Illustrator
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewRunner builds a runner writing into the given cache.
func NewRunner(cache *imagecache.Cache, illus Illustrator, logger *slog.Logger) *Runner {
	return &Runner{cache: cache, illus: illus, timeout: defaultTimeout, logger: logger}
}

// Dispatch starts illustration generation for the sentence and returns
// immediately. The job writes its result unconditionally, so a rerun for an
// identical sentence overwrites the earlier entry.
func (r *Runner) Dispatch(sentence string) {
	if strings.TrimSpace(sentence) == "" {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		started := time.Now()
		url, ok := r.illus.Illustrate(ctx, sentence).Get()
		r.cache.Put(sentence, url, ok)
		r.logger.Info("illustration job finished",
			"resolved", ok,
			"elapsed", time.Since(started).String(),
		)
	}()
}

// Wait blocks until every dispatched job has written its result. Used by
// shutdown and tests; request handling never waits.
func (r *Runner) Wait() {
	r.wg.Wait()
}
