package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/advent2020/parsing/ascii"
)

var log = commonlog.GetLogger("advent")

// options are shared by all the commands
type options struct {
	verbose int
	timing  bool
	noColor bool

	theme   ascii.Theme
	started time.Time
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(os.Stderr, "%s", err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{theme: ascii.DefaultTheme}

	rootCmd := &cobra.Command{
		Use:           "advent",
		Short:         "Advent of Code 2020 puzzles solved with parser combinators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbose, nil)
			if opts.noColor {
				opts.theme = ascii.PlainTheme
			}
			opts.started = time.Now()
			runID := runtimex.PanicOnError1(uuid.NewV7()).String()
			log.Infof("run %s: %s", runID, cmd.CommandPath())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.timing {
				elapsed := time.Since(opts.started)
				fmt.Fprintln(cmd.ErrOrStderr(), ascii.Color(opts.theme.Muted, "%s took %s", cmd.Name(), elapsed))
			}
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeat for more)")
	rootCmd.PersistentFlags().BoolVar(&opts.timing, "time", false, "print how long the command took")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newDay19Cmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))

	return rootCmd
}

// fatal prints an error message and exits with code 1.
func fatal(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, ascii.Color(ascii.DefaultTheme.Error, "error:"), " ")
	fmt.Fprintf(w, format, args...)
	fmt.Fprintln(w)
	os.Exit(1)
}
