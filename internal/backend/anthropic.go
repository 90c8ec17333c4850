package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zer0-1s/GPTtrace/internal/session"
	"github.com/zer0-1s/GPTtrace/internal/telemetry"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// maxTokens bounds a single completion; eBPF programs fit comfortably.
const maxTokens = 2048

// Client sends prompts to the Anthropic Messages API and adapts its delta
// stream into cumulative Events. Conversation continuity is client-side: the
// transcript for a session id is replayed ahead of each new prompt.
type Client struct {
	api      *anthropic.Client
	model    anthropic.Model
	sessions *session.Store
	log      zerolog.Logger
}

func NewClient(accessToken string, sessions *session.Store, log zerolog.Logger) *Client {
	c := anthropic.NewClient(option.WithAPIKey(accessToken))
	return &Client{api: &c, model: DefaultModel, sessions: sessions, log: log}
}

// Ask sends prompt within the given session and returns the event stream.
// An empty sessionID mints a fresh id, reported on every event so the caller
// can continue the conversation. The transcript is persisted when the stream
// completes cleanly; persistence failures are warnings, never fatal.
func (c *Client) Ask(ctx context.Context, sessionID, prompt string) (Stream, error) {
	var history []session.Message
	if sessionID != "" {
		var err error
		history, err = c.sessions.Load(sessionID)
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", sessionID, err)
		}
	}

	id := sessionID
	if id == "" {
		id = uuid.NewString()
	}

	msgs := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		if m.Role == session.RoleUser {
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	exchangeID, ok := telemetry.ExchangeIDFromContext(ctx)
	if !ok {
		exchangeID = fmt.Sprintf("ex-%d", time.Now().UnixNano())
		ctx = telemetry.WithExchangeID(ctx, exchangeID)
	}
	telemetry.Emit("request_started", map[string]any{
		"exchange_id": exchangeID,
		"model":       string(c.model),
		"session_id":  id,
		"history_len": len(history),
	})

	inner := c.api.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  msgs,
	})

	return &anthropicStream{
		inner:     inner,
		sessionID: id,
		onDone: func(final string) {
			telemetry.EmitResponseFeatures(ctx, final)
			telemetry.Emit("stream_completed", map[string]any{
				"exchange_id": exchangeID,
				"session_id":  id,
			})
			err := c.sessions.Append(id,
				session.Message{Role: session.RoleUser, Text: prompt},
				session.Message{Role: session.RoleAssistant, Text: final},
			)
			if err != nil {
				c.log.Warn().Err(err).Str("session", id).Msg("failed to persist transcript")
			}
		},
	}, nil
}

// anthropicStream adapts the SDK's delta events into cumulative Events.
// onDone fires once, after the final event of a cleanly closed stream.
type anthropicStream struct {
	inner     *ssestream.Stream[anthropic.MessageStreamEventUnion]
	sessionID string
	cum       []byte
	cur       Event
	done      bool
	onDone    func(final string)
}

func (s *anthropicStream) Next() bool {
	for s.inner.Next() {
		ev := s.inner.Current()
		delta, ok := ev.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" {
			continue
		}
		s.cum = append(s.cum, text.Text...)
		s.cur = Event{Message: string(s.cum), SessionID: s.sessionID}
		return true
	}
	if !s.done && s.inner.Err() == nil {
		s.done = true
		if s.onDone != nil {
			s.onDone(string(s.cum))
		}
	}
	return false
}

func (s *anthropicStream) Event() Event { return s.cur }

func (s *anthropicStream) Err() error { return s.inner.Err() }
