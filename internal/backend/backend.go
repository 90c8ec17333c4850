package backend

import (
	"fmt"
	"io"
	"strings"
)

// Event is one streaming update from the backend. Message carries the
// cumulative assistant text so far, not a delta; SessionID identifies the
// conversation the exchange belongs to.
type Event struct {
	Message   string
	SessionID string
}

// Stream is a finite, pull-based sequence of events. Next advances to the
// next event and reports whether one is available; Event returns the current
// one. After Next returns false, Err reports any stream failure.
type Stream interface {
	Next() bool
	Event() Event
	Err() error
}

// Collect drains a stream, computing each incremental fragment as the
// length-based suffix over the previously seen cumulative text. When echo is
// non-nil, each fragment is written to it in arrival order as it arrives.
// It returns the accumulated text and the session id observed on the final
// event. A stream that yields zero events is a degenerate success: ("", "").
// Stream errors propagate unchanged; there is no retry.
func Collect(s Stream, echo io.Writer) (string, string, error) {
	var buf strings.Builder
	prev := ""
	sessionID := ""
	for s.Next() {
		ev := s.Event()
		sessionID = ev.SessionID
		// A snapshot that does not extend the previous one contributes
		// nothing and does not move the high-water mark, so the text it
		// removed is not re-emitted when a later snapshot restores it.
		var frag string
		if len(ev.Message) > len(prev) {
			frag = ev.Message[len(prev):]
			prev = ev.Message
		}
		if echo != nil && frag != "" {
			if _, err := io.WriteString(echo, frag); err != nil {
				return buf.String(), sessionID, fmt.Errorf("echo fragment: %w", err)
			}
		}
		buf.WriteString(frag)
	}
	if err := s.Err(); err != nil {
		return buf.String(), sessionID, err
	}
	return buf.String(), sessionID, nil
}
