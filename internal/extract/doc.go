// Package extract turns raw chat completions into executable artefacts.
//
// Two extractors:
//   - Command: single-pass normalization of a completion into one shell line.
//   - CodeBlocks: fenced code block bodies from a markdown response.
//
// Invariant:
//   - Command removes at most one newline and one backtick per side; the
//     single-pass behaviour is load-bearing for compatibility and is covered
//     by tests rather than "fixed".
package extract
