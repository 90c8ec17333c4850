// Package prompt builds the fixed prompt templates sent to the chat backend.
//
// Builders are pure: the output is fully determined by the inputs, and inputs
// are interpolated verbatim with no validation or escaping.
package prompt

import (
	"fmt"
	"runtime"
)

// TracePrompt asks for a single-line bpftrace shell command for description,
// targeting the given OS name.
func TracePrompt(description, osName string) string {
	return fmt.Sprintf("You are now a translater from human language to %s shell bpftrace command.\n"+
		"No explanation required.\n"+
		"respond with only the raw shell bpftrace command.\n"+
		"It should be start with `bpftrace`.\n"+
		"Your response should be able to put into a shell and run directly.\n"+
		"Just output in one line, without any description, or any other text that cannot be run in shell.\n"+
		"What should I type to shell to trace using bpftrace for: %s, in one line.", osName, description)
}

// ProgramPrompt asks for a complete eBPF program for description, targeting
// the given OS name.
func ProgramPrompt(description, osName string) string {
	return fmt.Sprintf("You are now a translater from human language to %s eBPF programs.\n"+
		"Please write eBPF programs for me.\n"+
		"No explanation required, no instruction required, don't tell me how to compile and run.\n"+
		"What I want is a eBPF program for: %s.", osName, description)
}

// ExplainPrompt is the fixed info-mode question.
func ExplainPrompt() string {
	return "Explain what's eBPF"
}

// HostOS returns the uname-style name of the running OS. Unknown platforms
// report the raw GOOS value; callers embed it as-is.
func HostOS() string {
	switch runtime.GOOS {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "freebsd":
		return "FreeBSD"
	default:
		return runtime.GOOS
	}
}
