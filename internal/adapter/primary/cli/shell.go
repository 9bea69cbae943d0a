package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"wpvolume/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell for widget commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "wpvolume> ", "prompt string")
	return cmd
}

func runInteractiveShell(prompt string, out io.Writer) error {
	historyFile := filepath.Join(os.TempDir(), "wpvolume-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	sessionDryRun := dryRun
	sessionConfig := cfgPath
	fmt.Fprintln(out, "Type 'help' for examples, 'exit' to leave.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			return nil
		case "help":
			printShellHelp(out)
			continue
		}

		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(out, tokens[1:], &sessionVerbosity); err != nil {
				fmt.Fprintf(out, "log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Fprintln(out, "already in the shell")
			continue
		}

		if err := executeArgs(out, sessionArgs(tokens, sessionConfig, sessionVerbosity, sessionDryRun)); err != nil {
			fmt.Fprintf(out, "command error: %v\n", err)
		}
	}
}

// sessionArgs carries the shell's persistent flags into each command,
// since every line builds a fresh root command.
func sessionArgs(tokens []string, config string, verbose int, dry bool) []string {
	args := append([]string{}, tokens...)
	args = append(args, "--config", config)
	if verbose > 0 {
		args = append(args, "-"+strings.Repeat("v", verbose))
	}
	if dry {
		args = append(args, "--dry-run")
	}
	return args
}

func executeArgs(out io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetOut(out)
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(out io.Writer, args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "error|warn|info|debug|trace")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(*sessionVerbosity)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `examples:
  get                         # current volume
  up 0.1                      # unmute, +10%
  down                        # unmute, -step
  mute                        # toggle mute
  sinks                       # list sinks
  next-sink                   # route to the next sink
  click wheel-up              # simulate a bar click
  call next_sink              # run a named widget command
  config set --step 0.02      # change the default step
  log -vv                     # log every wpctl call
  log --show                  # show the log level
  exit / quit                 # leave`)
}
