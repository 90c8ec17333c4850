// Package backend abstracts the conversational AI exchange.
//
// Model:
//   - A Stream yields Events carrying the cumulative assistant text plus the
//     session id; Collect reduces a stream to (full text, session id) while
//     optionally echoing incremental fragments.
//   - Concatenating the fragments Collect computes always equals the final
//     cumulative text.
//   - The Anthropic adapter replays the persisted session transcript ahead of
//     each prompt; the API itself is stateless per request.
package backend
