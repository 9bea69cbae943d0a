package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wpvolume/internal/adapter/secondary/repository"
	"wpvolume/internal/adapter/secondary/wpctl"
	"wpvolume/internal/domain"
	"wpvolume/internal/logging"
	"wpvolume/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
	dryRun    bool
)

// newRunner builds the wpctl runner. Tests replace it with a fake.
var newRunner = func(settings domain.Settings, out io.Writer) (wpctl.Runner, error) {
	if dryRun {
		return wpctl.NewDryRunner(out), nil
	}
	return wpctl.NewExecRunner(settings.Executable, settings.CommandTimeout)
}

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to widget calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wpvolume",
		Short:         "WirePlumber volume widget for tiling window manager bars",
		Long:          "Mute, step and route the default audio sink through wpctl, and render it for a status bar.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", repository.DefaultPath(), "settings file path")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4)")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print wpctl invocations instead of running them")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newMuteCmd(),
		newStepCmd("up", "Unmute and raise the volume", domain.CommandIncreaseVol),
		newStepCmd("down", "Unmute and lower the volume", domain.CommandDecreaseVol),
		newNextSinkCmd(),
		newGetCmd(),
		newSinksCmd(),
		newSetDefaultCmd(),
		newRenderCmd(),
		newClickCmd(),
		newCallCmd(),
		newWatchCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

// Execute runs the root command and reports errors on stderr.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func loadWidget(cmd *cobra.Command) (*usecase.VolumeWidget, error) {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return nil, err
	}
	settings, err := repo.Load()
	if err != nil {
		return nil, err
	}
	runner, err := newRunner(settings, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	return usecase.NewVolumeWidget(wpctl.NewController(runner, settings.Limit), settings)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newMuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mute",
		Short: "Toggle mute on the default sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			return w.Mute(commandContext(cmd))
		},
	}
}

func newStepCmd(use, short, command string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [step]",
		Short: short,
		Long:  short + ". step is a fraction (0.05 = 5%); the configured step is used when omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			return w.Call(commandContext(cmd), command, args)
		},
	}
}

func newNextSinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-sink",
		Short: "Make the next sink the default, wrapping around",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			return w.NextSink(commandContext(cmd))
		},
	}
}

func newGetCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the default sink volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			vol, err := w.GetVolume(commandContext(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, vol)
			}
			muted := ""
			if vol.Muted {
				muted = " [MUTED]"
			}
			fmt.Fprintf(out, "%s%%%s\n", strconv.FormatFloat(vol.Level, 'f', -1, 64), muted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSinksCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sinks",
		Short: "List audio sinks, marking the default with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			sinks, err := w.ListSinks(commandContext(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, sinks)
			}
			for _, s := range sinks {
				mark := " "
				if s.IsDefault {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %d. %s\n", mark, s.ID, s.DisplayName)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <sink-id>",
		Short: "Route playback to a sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return fmt.Errorf("invalid sink id %q", args[0])
			}
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			return w.SetDefault(commandContext(cmd), id)
		},
	}
}

func newRenderCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the bar text once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			frame, err := w.Render(commandContext(cmd))
			if err != nil {
				return err
			}
			return emitFrame(cmd.OutOrStdout(), frame, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "click <button>",
		Short: "Handle a bar click (1-5, left, middle, right, wheel-up, wheel-down)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			button, err := domain.ParseButton(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			return w.HandleClick(commandContext(cmd), button)
		},
	}
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <command> [args...]",
		Short: "Run a named widget command (mute, increase_vol, decrease_vol, next_sink)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			return w.Call(commandContext(cmd), args[0], args[1:])
		},
	}
}

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the bar text whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWidget(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = w.Settings().PollInterval
			}
			if interval <= 0 {
				return errors.New("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()

			logging.Infof("watching every %s", interval)
			out := cmd.OutOrStdout()
			return usecase.Watch(ctx, w, interval, func(f usecase.Frame) error {
				return emitFrame(out, f, asJSON)
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval (default from settings)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per line")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change widget settings",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current settings (JSON)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			clicks := make(map[string]string, len(settings.Clicks))
			for b, name := range settings.Clicks {
				clicks[strconv.Itoa(int(b))] = name
			}
			display := map[string]any{
				"step":           settings.Step,
				"limit":          settings.Limit,
				"executable":     settings.Executable,
				"emoji":          settings.Emoji,
				"clicks":         clicks,
				"pollInterval":   settings.PollInterval.String(),
				"commandTimeout": settings.CommandTimeout.String(),
			}
			if settings.ThemePath != "" {
				display["themePath"] = settings.ThemePath
			}
			return writeJSON(cmd.OutOrStdout(), display)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		step       float64
		limit      float64
		executable string
		emoji      string
		theme      string
		poll       time.Duration
		timeout    time.Duration
		clicks     map[string]string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("step") {
				settings.Step = step
			}
			if flags.Changed("limit") {
				settings.Limit = limit
			}
			if flags.Changed("executable") {
				settings.Executable = executable
			}
			if flags.Changed("emoji") {
				switch emoji {
				case "true":
					settings.Emoji = true
				case "false":
					settings.Emoji = false
				default:
					return errors.New("--emoji takes true or false")
				}
			}
			if flags.Changed("theme") {
				settings.ThemePath = theme
			}
			if flags.Changed("poll-interval") {
				settings.PollInterval = poll
			}
			if flags.Changed("timeout") {
				settings.CommandTimeout = timeout
			}
			if flags.Changed("click") {
				bound := make(map[domain.Button]string, len(settings.Clicks)+len(clicks))
				for b, name := range settings.Clicks {
					bound[b] = name
				}
				for k, name := range clicks {
					b, err := domain.ParseButton(k)
					if err != nil {
						return fmt.Errorf("--click %s: %w", k, err)
					}
					if name == "" || name == "none" {
						delete(bound, b)
						continue
					}
					bound[b] = name
				}
				settings.Clicks = bound
			}

			if err := settings.Validate(); err != nil {
				return err
			}
			if err := repo.Save(settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved: step=%v limit=%v emoji=%t executable=%q\n",
				settings.Step, settings.Limit, settings.Emoji, settings.Executable)
			return nil
		},
	}
	cmd.Flags().Float64Var(&step, "step", 0.05, "default volume step as a fraction")
	cmd.Flags().Float64Var(&limit, "limit", 1, "upper volume clamp as a fraction (1 = 100%)")
	cmd.Flags().StringVar(&executable, "executable", "wpctl", "wpctl command line")
	cmd.Flags().StringVar(&emoji, "emoji", "", "true/false to render emoji instead of percentages")
	cmd.Flags().StringVar(&theme, "theme", "", "directory with audio-volume-*.png images (empty to clear)")
	cmd.Flags().DurationVar(&poll, "poll-interval", time.Second, "watch poll interval")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wpctl timeout, 0 waits forever")
	cmd.Flags().StringToStringVar(&clicks, "click", nil, "bind button=command, e.g. --click 2=next_sink (command none unbinds)")
	return cmd
}

func emitFrame(out io.Writer, f usecase.Frame, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(out).Encode(f)
	}
	_, err := fmt.Fprintln(out, f.Text)
	return err
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, strings.TrimSpace(string(data)))
	return err
}
