// Package session provides minimal conversation persistence.
//
// Persistence model:
//   - One JSON transcript file per opaque session id.
//   - Only text messages are stored (role + text); transcripts are replayed
//     ahead of the next prompt to continue a conversation against a
//     stateless backend.
package session
