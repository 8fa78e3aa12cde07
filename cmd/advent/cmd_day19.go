package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/advent2020/parsing/ascii"
	"github.com/advent2020/parsing/rules"
)

func newDay19Cmd(opts *options) *cobra.Command {
	var part int
	var strategy string
	var configPath string

	cmd := &cobra.Command{
		Use:   "day19 <file>",
		Short: "Count the messages that match rule 0",
		Long: `Count the messages of a day 19 input that fully match the start rule.

Part 2 replaces rules 8 and 11 with their looping versions and, unless
--strategy says otherwise, matches with the exhaustive strategy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			switch part {
			case 1:
			case 2:
				cfg.SetBool("rules.loops", true)
				cfg.SetString("rules.strategy", rules.StrategyExhaustive)
			default:
				return fmt.Errorf("unknown part %d", part)
			}
			if cmd.Flags().Changed("strategy") {
				cfg.SetString("rules.strategy", strategy)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			g, messages, err := rules.ParseInput(string(data))
			if err != nil {
				return fmt.Errorf("parse input: %w", err)
			}
			rs, err := rules.Build(g, cfg)
			if err != nil {
				return err
			}

			count := rs.Count(messages)
			log.Infof("%d out of %d messages match with the %s strategy", count, len(messages), rs.Strategy())
			fmt.Fprintln(cmd.OutOrStdout(), ascii.Color(opts.theme.Value, "%d", count))
			return nil
		},
	}

	cmd.Flags().IntVar(&part, "part", 1, "puzzle part, 1 or 2")
	cmd.Flags().StringVar(&strategy, "strategy", rules.StrategyCombinator,
		fmt.Sprintf("matching strategy, `%s` or `%s`", rules.StrategyCombinator, rules.StrategyExhaustive))
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file overriding the default settings")

	return cmd
}

// loadConfig returns the default settings, overridden by the YAML
// file at path when it's not empty
func loadConfig(path string) (*rules.Config, error) {
	cfg := rules.NewConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := cfg.LoadYAML(f); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readGrammar accepts both a whole puzzle input and a file with just
// the rules
func readGrammar(path string) (*rules.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	g, _, err := rules.ParseInput(string(data))
	if errors.Is(err, rules.ErrMissingMessages) {
		return rules.ParseGrammar(string(data))
	}
	return g, err
}
