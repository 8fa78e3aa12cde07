package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/advent2020/parsing"
	"github.com/advent2020/parsing/ascii"
)

var errParseFailed = errors.New("parse failed")

// result is the outcome of running one of the parsers the command
// knows about, with the value already formatted
type result struct {
	value string
	rest  parsing.InputState
	err   error
}

func run[T any](p parsing.Parser[T], text string) result {
	rest, value, err := p.Parse(text)
	return result{value: parsing.FormatResult(rest, value, err), rest: rest, err: err}
}

// runKind picks the parser for kind and runs it against text
func runKind(kind, text string) (result, error) {
	if literal, ok := strings.CutPrefix(kind, "string:"); ok {
		return run(parsing.PString(literal), text), nil
	}
	switch kind {
	case "int":
		return run(parsing.PInt(10), text), nil
	case "float":
		return run(parsing.PFloat(10), text), nil
	case "ints":
		return run(parsing.SepBy(parsing.PInt(10), parsing.PChar(',')), text), nil
	}
	return result{}, fmt.Errorf("unknown kind `%s`, expected int, float, ints or string:<literal>", kind)
}

func newParseCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <kind> <text>",
		Short: "Run one of the standard parsers against some text",
		Long: `Run one of the standard parsers against some text.

Kinds: int, float, ints (comma separated integers) and string:<literal>.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runKind(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var perr *parsing.ParseError
			if errors.As(res.err, &perr) {
				fmt.Fprintln(out, renderDiagnostic(perr, opts.theme))
				return errParseFailed
			}

			fmt.Fprintln(out, ascii.Color(opts.theme.Value, "%s", res.value))
			if rest := res.rest.Remaining(); rest != "" {
				fmt.Fprintln(out, ascii.Color(opts.theme.Muted, "remaining: %q", rest))
			}
			return nil
		},
	}

	return cmd
}

// renderDiagnostic is ParseError.Error with colors: the header in the
// error color and the caret line in the caret color
func renderDiagnostic(err *parsing.ParseError, theme ascii.Theme) string {
	header, rest, _ := strings.Cut(err.Error(), "\n")
	line, caret, _ := strings.Cut(rest, "\n")
	return strings.Join([]string{
		ascii.Color(theme.Error, "%s", header),
		line,
		ascii.Color(theme.Caret, "%s", caret),
	}, "\n")
}
