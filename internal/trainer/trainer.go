// Package trainer primes a conversation session from a directory of prompt
// files, feeding each file through the backend sequentially.
package trainer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zer0-1s/GPTtrace/internal/backend"
)

// DefaultPause spaces consecutive requests to respect backend rate
// expectations. Pacing is orchestrator policy, not a pipeline invariant.
const DefaultPause = 2400 * time.Millisecond

// Asker is the slice of the backend client the trainer needs.
type Asker interface {
	Ask(ctx context.Context, sessionID, prompt string) (backend.Stream, error)
}

type Runner struct {
	Client Asker
	Dir    string
	Pause  time.Duration
	Echo   io.Writer // response echo destination; nil disables echoing
	Out    io.Writer // progress banners
	Log    zerolog.Logger
}

// Run feeds every regular file in Dir, sorted lexically by name, through the
// backend as one prompt each. The first exchange may mint a new session; every
// later exchange continues it. Returns the final session id.
func (r *Runner) Run(ctx context.Context, sessionID string) (string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return "", fmt.Errorf("read prompts dir %s: %w", r.Dir, err)
	}

	pause := r.Pause
	if pause <= 0 {
		pause = DefaultPause
	}

	sid := sessionID
	first := true
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !first {
			if err := sleepCtx(ctx, pause); err != nil {
				return sid, err
			}
		}
		first = false

		name := entry.Name()
		r.banner(fmt.Sprintf("Training session with `%s`", name))

		data, err := os.ReadFile(filepath.Join(r.Dir, name))
		if err != nil {
			return sid, fmt.Errorf("read prompt %s: %w", name, err)
		}
		r.Log.Debug().Str("file", name).Int("bytes", len(data)).Msg("sending training prompt")

		stream, err := r.Client.Ask(ctx, sid, string(data))
		if err != nil {
			return sid, err
		}
		_, got, err := backend.Collect(stream, r.Echo)
		if err != nil {
			return sid, fmt.Errorf("train on %s: %w", name, err)
		}
		if r.Echo != nil {
			fmt.Fprintln(r.Echo)
		}
		// A degenerate zero-event stream reports no session; keep the one
		// already threaded rather than restarting the conversation.
		if got != "" {
			sid = got
		}
	}
	return sid, nil
}

func (r *Runner) banner(info string) {
	if r.Out == nil {
		return
	}
	rule := strings.Repeat("-", len(info))
	fmt.Fprintln(r.Out, rule)
	fmt.Fprintln(r.Out, info)
	fmt.Fprintln(r.Out, rule)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
