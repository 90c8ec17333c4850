// Command gpttrace turns natural-language descriptions into bpftrace commands
// or generated eBPF programs by prompting a conversational AI backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zer0-1s/GPTtrace/internal/backend"
	"github.com/zer0-1s/GPTtrace/internal/config"
	"github.com/zer0-1s/GPTtrace/internal/extract"
	"github.com/zer0-1s/GPTtrace/internal/logging"
	"github.com/zer0-1s/GPTtrace/internal/prompt"
	"github.com/zer0-1s/GPTtrace/internal/render"
	"github.com/zer0-1s/GPTtrace/internal/session"
	"github.com/zer0-1s/GPTtrace/internal/telemetry"
	"github.com/zer0-1s/GPTtrace/internal/trainer"
)

const (
	version = "0.1.0"

	// generate mode writes every extracted block here, concatenated.
	outputFile = "generated.bpf.c"

	// train mode reads every file in this directory, sorted by name.
	promptsDir = "prompts"
)

var (
	infoFlag     bool
	executeText  string
	generateText string
	trainFlag    bool
	verbose      bool
	convUUID     string
	accessToken  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gpttrace",
		Short: "Use a conversational AI to write eBPF programs (bpftrace, etc.)",
		Long: `gpttrace sends natural-language descriptions to a conversational AI backend
and turns the response into a runnable bpftrace command or a generated eBPF
program. The generated command runs through a shell with superuser privileges;
review what you execute - nothing is validated or sandboxed on your behalf.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVarP(&infoFlag, "info", "i", false, "let the AI explain what's eBPF")
	rootCmd.Flags().StringVarP(&executeText, "execute", "e", "", "generate a bpftrace command from TEXT and run it")
	rootCmd.Flags().StringVarP(&generateText, "generate", "g", "", "generate an eBPF program from TEXT")
	rootCmd.Flags().BoolVar(&trainFlag, "train", false, "prime a session with the local prompts directory")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show more details")
	rootCmd.Flags().StringVarP(&convUUID, "uuid", "u", "",
		fmt.Sprintf("conversation UUID to continue, or set %s", config.EnvConvUUID))
	rootCmd.Flags().StringVarP(&accessToken, "access-token", "t", "",
		fmt.Sprintf("backend access token, or set %s", config.EnvAccessToken))
	rootCmd.MarkFlagsMutuallyExclusive("info", "execute", "generate", "train")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gpttrace v%s\n", version)
		},
	})

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	if !infoFlag && executeText == "" && generateText == "" && !trainFlag {
		return cmd.Help()
	}

	cfg := config.Resolve(accessToken, convUUID, verbose)
	log := logging.New(cfg.Verbose)

	if cfg.AccessToken == "" {
		return fmt.Errorf("either provide your access token through `-t` or through the %s environment variable",
			config.EnvAccessToken)
	}

	sessionsDir, err := session.DefaultDir()
	if err != nil {
		return err
	}
	client := backend.NewClient(cfg.AccessToken, session.NewStore(sessionsDir), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case infoFlag:
		return runInfo(ctx, client, cfg)
	case executeText != "":
		return runExecute(ctx, client, cfg, log, executeText)
	case generateText != "":
		return runGenerate(ctx, client, cfg, log, generateText)
	default:
		return runTrain(ctx, client, cfg, log)
	}
}

func runInfo(ctx context.Context, client *backend.Client, cfg config.Config) error {
	_, _, err := backend.Collect(ask(ctx, client, cfg.SessionID, prompt.ExplainPrompt()), os.Stdout)
	fmt.Println()
	return err
}

func runExecute(ctx context.Context, client *backend.Client, cfg config.Config, log zerolog.Logger, desc string) error {
	fmt.Println("Sending query to the backend: " + desc)

	var echo io.Writer
	if cfg.Verbose {
		echo = os.Stdout
	}
	full, _, err := backend.Collect(ask(ctx, client, cfg.SessionID, prompt.TracePrompt(desc, prompt.HostOS())), echo)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		fmt.Println()
	}

	command := extract.Command(full)
	log.Debug().Str("command", command).Msg("normalized command")
	telemetry.Emit("command_executed", map[string]any{"command": command})

	fmt.Println("Press Ctrl+C to stop the program....")
	// The normalized string runs through the shell as-is, elevated; the exit
	// status of the traced command is deliberately not surfaced.
	shell := exec.CommandContext(ctx, "sh", "-c", "sudo "+command)
	shell.Stdin = os.Stdin
	shell.Stdout = os.Stdout
	shell.Stderr = os.Stderr
	if err := shell.Run(); err != nil {
		log.Debug().Err(err).Msg("traced command finished")
	}
	return nil
}

func runGenerate(ctx context.Context, client *backend.Client, cfg config.Config, log zerolog.Logger, desc string) error {
	fmt.Println("Sending query to the backend: " + desc)

	full, _, err := backend.Collect(ask(ctx, client, cfg.SessionID, prompt.ProgramPrompt(desc, prompt.HostOS())), nil)
	if err != nil {
		return err
	}
	fmt.Println(render.Markdown(full))

	blocks := extract.CodeBlocks(full)
	log.Debug().Int("blocks", len(blocks)).Msg("extracted code blocks")

	// Blocks are concatenated with no separator.
	if err := os.WriteFile(outputFile, []byte(strings.Join(blocks, "")), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputFile, err)
	}
	fmt.Printf("Wrote %d code block(s) to %s\n", len(blocks), outputFile)
	return nil
}

func runTrain(ctx context.Context, client *backend.Client, cfg config.Config, log zerolog.Logger) error {
	var echo io.Writer
	if cfg.Verbose {
		echo = os.Stdout
	}
	r := &trainer.Runner{
		Client: client,
		Dir:    promptsDir,
		Echo:   echo,
		Out:    os.Stdout,
		Log:    log,
	}
	sid, err := r.Run(ctx, cfg.SessionID)
	if err != nil {
		return err
	}
	fmt.Printf("Trained session: %s\n", sid)
	return nil
}

// ask wraps Client.Ask so streaming setup failures surface through the
// stream, keeping the mode handlers on a single error path.
func ask(ctx context.Context, client *backend.Client, sessionID, text string) backend.Stream {
	s, err := client.Ask(ctx, sessionID, text)
	if err != nil {
		return errStream{err: err}
	}
	return s
}

type errStream struct{ err error }

func (e errStream) Next() bool           { return false }
func (e errStream) Event() backend.Event { return backend.Event{} }
func (e errStream) Err() error           { return e.err }
