package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hexturmite/internal/turmite"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <spec>",
		Short: "Parse a spec and report the acceptability filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := turmite.Parse(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "name:    %s\n", spec.Name(a.cfg.Prefix))
			describe(w, spec)

			acc := turmite.Evaluate(spec)
			if acc.OK() {
				fmt.Fprintln(w, "result:  acceptable")
				return nil
			}
			fmt.Fprintln(w, "result:  rejected")
			for _, reason := range acc.Failed() {
				fmt.Fprintf(w, "  - %s\n", reason)
			}
			return errors.New("spec fails acceptability filters")
		},
	}
}

func newRandomCmd(a *app) *cobra.Command {
	var (
		states int
		colors int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate a random spec that passes the acceptability filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("states") {
				a.cfg.Random.States = states
			}
			if flags.Changed("colors") {
				a.cfg.Random.Colors = colors
			}
			if flags.Changed("seed") {
				a.cfg.Random.Seed = seed
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			spec, err := a.resolveSpec(nil, true)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "name:    %s\n", spec.Name(a.cfg.Prefix))
			describe(w, spec)
			return nil
		},
	}
	cmd.Flags().IntVar(&states, "states", 0, "number of states (default from config)")
	cmd.Flags().IntVar(&colors, "colors", 0, "number of colors (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed (default from config)")
	return cmd
}
