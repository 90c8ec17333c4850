package trainer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/zer0-1s/GPTtrace/internal/backend"
	"github.com/zer0-1s/GPTtrace/internal/trainer"
)

type fakeStream struct {
	events []backend.Event
	i      int
}

func (s *fakeStream) Next() bool {
	if s.i >= len(s.events) {
		return false
	}
	s.i++
	return true
}

func (s *fakeStream) Event() backend.Event { return s.events[s.i-1] }
func (s *fakeStream) Err() error           { return nil }

// fakeAsker echoes the prompt back and assigns a fixed session on first use.
type fakeAsker struct {
	session  string
	prompts  []string
	sessions []string
}

func (f *fakeAsker) Ask(_ context.Context, sessionID, prompt string) (backend.Stream, error) {
	f.prompts = append(f.prompts, prompt)
	f.sessions = append(f.sessions, sessionID)
	sid := sessionID
	if sid == "" {
		sid = f.session
	}
	return &fakeStream{events: []backend.Event{
		{Message: "ok: " + prompt, SessionID: sid},
	}}, nil
}

func writePrompts(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRun_FeedsFilesInLexicalOrder(t *testing.T) {
	dir := writePrompts(t, map[string]string{
		"2-second.txt": "second prompt",
		"1-first.txt":  "first prompt",
		"3-third.txt":  "third prompt",
	})
	asker := &fakeAsker{session: "minted"}
	r := &trainer.Runner{
		Client: asker,
		Dir:    dir,
		Pause:  time.Millisecond,
		Log:    zerolog.Nop(),
	}

	sid, err := r.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sid != "minted" {
		t.Errorf("final session = %q", sid)
	}

	want := []string{"first prompt", "second prompt", "third prompt"}
	if len(asker.prompts) != len(want) {
		t.Fatalf("prompts = %q", asker.prompts)
	}
	for i := range want {
		if asker.prompts[i] != want[i] {
			t.Errorf("prompt %d = %q, want %q", i, asker.prompts[i], want[i])
		}
	}
}

func TestRun_ThreadsSessionAcrossFiles(t *testing.T) {
	dir := writePrompts(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})
	asker := &fakeAsker{session: "s-1"}
	r := &trainer.Runner{Client: asker, Dir: dir, Pause: time.Millisecond, Log: zerolog.Nop()}

	if _, err := r.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// First request may mint; every later one continues the minted session.
	if asker.sessions[0] != "" || asker.sessions[1] != "s-1" {
		t.Errorf("sessions = %q", asker.sessions)
	}
}

func TestRun_KeepsSuppliedSession(t *testing.T) {
	dir := writePrompts(t, map[string]string{"a.txt": "a"})
	asker := &fakeAsker{session: "ignored"}
	r := &trainer.Runner{Client: asker, Dir: dir, Pause: time.Millisecond, Log: zerolog.Nop()}

	sid, err := r.Run(context.Background(), "caller-session")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sid != "caller-session" {
		t.Errorf("final session = %q", sid)
	}
}

func TestRun_EchoAndBanner(t *testing.T) {
	dir := writePrompts(t, map[string]string{"only.txt": "hello"})
	asker := &fakeAsker{session: "s"}
	var echo, out strings.Builder
	r := &trainer.Runner{
		Client: asker, Dir: dir, Pause: time.Millisecond,
		Echo: &echo, Out: &out, Log: zerolog.Nop(),
	}

	if _, err := r.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(echo.String(), "ok: hello") {
		t.Errorf("echo = %q", echo.String())
	}
	if !strings.Contains(out.String(), "only.txt") {
		t.Errorf("banner missing file name: %q", out.String())
	}
}

// emptyAfterFirstAsker yields a normal exchange for the first file and a
// zero-event stream for every later one.
type emptyAfterFirstAsker struct {
	fakeAsker
	calls int
}

func (f *emptyAfterFirstAsker) Ask(ctx context.Context, sessionID, prompt string) (backend.Stream, error) {
	f.calls++
	if f.calls > 1 {
		f.sessions = append(f.sessions, sessionID)
		return &fakeStream{}, nil
	}
	return f.fakeAsker.Ask(ctx, sessionID, prompt)
}

func TestRun_EmptyStreamKeepsThreadedSession(t *testing.T) {
	dir := writePrompts(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
		"c.txt": "c",
	})
	asker := &emptyAfterFirstAsker{fakeAsker: fakeAsker{session: "s-1"}}
	r := &trainer.Runner{Client: asker, Dir: dir, Pause: time.Millisecond, Log: zerolog.Nop()}

	sid, err := r.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The zero-event exchanges report no session; the minted one survives.
	if sid != "s-1" {
		t.Errorf("final session = %q, want %q", sid, "s-1")
	}
	// And the third file still continues the minted session.
	last := asker.sessions[len(asker.sessions)-1]
	if last != "s-1" {
		t.Errorf("third request session = %q, want %q", last, "s-1")
	}
}

func TestRun_CancelledBetweenFiles(t *testing.T) {
	dir := writePrompts(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})
	asker := &fakeAsker{session: "s"}
	r := &trainer.Runner{Client: asker, Dir: dir, Pause: time.Hour, Log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Run(ctx, "")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(asker.prompts) != 1 {
		t.Errorf("expected one prompt before cancellation, got %d", len(asker.prompts))
	}
}

func TestRun_MissingDir(t *testing.T) {
	asker := &fakeAsker{}
	r := &trainer.Runner{Client: asker, Dir: filepath.Join(t.TempDir(), "absent"), Log: zerolog.Nop()}

	if _, err := r.Run(context.Background(), ""); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
