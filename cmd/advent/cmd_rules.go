package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/advent2020/parsing/ascii"
	"github.com/advent2020/parsing/rules"
)

func newRulesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect day 19 rule tables",
	}

	cmd.AddCommand(newRulesTreeCmd(opts))
	cmd.AddCommand(newRulesCheckCmd(opts))

	return cmd
}

// ruleFlags are the settings both rules subcommands take
type ruleFlags struct {
	start      int
	loops      bool
	configPath string
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.start, "start", 0, "rule to start from")
	cmd.Flags().BoolVar(&f.loops, "loops", false, "replace rules 8 and 11 with their looping versions")
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML file overriding the default settings")
}

// load reads the grammar at path and the settings, with flags taking
// precedence over the config file
func (f *ruleFlags) load(cmd *cobra.Command, path string) (*rules.Grammar, *rules.Config, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("start") {
		cfg.SetInt("rules.start", f.start)
	}
	if cmd.Flags().Changed("loops") {
		cfg.SetBool("rules.loops", f.loops)
	}

	g, err := readGrammar(path)
	if err != nil {
		return nil, nil, err
	}
	if cfg.GetBool("rules.loops") {
		if g, err = g.WithLoops(); err != nil {
			return nil, nil, err
		}
	}
	return g, cfg, nil
}

func newRulesTreeCmd(opts *options) *cobra.Command {
	var flags ruleFlags
	var depth int

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the rules reachable from the start rule as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, cfg, err := flags.load(cmd, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("depth") {
				cfg.SetInt("tree.max_depth", depth)
			}
			if opts.verbose > 0 {
				cfg.Debug(cmd.ErrOrStderr())
			}

			theme := opts.theme
			out := rules.FormatTree(g, cfg.GetInt("rules.start"), cfg.GetInt("tree.max_depth"),
				func(input string, token rules.TreeToken) string {
					switch token {
					case rules.TreeToken_Rule:
						return ascii.Color(theme.Rule, "%s", input)
					case rules.TreeToken_Literal:
						return ascii.Color(theme.Literal, "%s", input)
					case rules.TreeToken_Marker:
						return ascii.Color(theme.Marker, "%s", input)
					}
					return input
				})
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&depth, "depth", 6, "how many levels to expand")

	return cmd
}

func newRulesCheckCmd(opts *options) *cobra.Command {
	var flags ruleFlags

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Verify that every rule exists and is reachable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, cfg, err := flags.load(cmd, args[0])
			if err != nil {
				return err
			}
			if err := rules.Check(g, cfg.GetInt("rules.start")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ascii.Color(opts.theme.Value, "ok"), ascii.Color(opts.theme.Muted, "(%d rules)", g.Len()))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
