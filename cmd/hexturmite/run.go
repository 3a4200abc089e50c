package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hexturmite/internal/core"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		width  int
		height int
		steps  int
		every  int
	)
	cmd := &cobra.Command{
		Use:   "run <spec>",
		Short: "Step the compiled automaton headlessly and print population stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := core.New("hexturmite", map[string]string{
				"w":              strconv.Itoa(width),
				"h":              strconv.Itoa(height),
				"spec":           args[0],
				"alphabet_limit": strconv.Itoa(a.cfg.AlphabetLimit),
			})
			if err != nil {
				return err
			}
			turmites, ok := sim.(interface{ Agents() int })
			if !ok {
				return fmt.Errorf("%s does not report agents", sim.Name())
			}
			w := cmd.OutOrStdout()
			report := func(gen int) {
				painted := 0
				for _, v := range sim.Cells() {
					if v != 0 {
						painted++
					}
				}
				fmt.Fprintf(w, "gen %d: agents=%d nonzero=%d\n", gen, turmites.Agents(), painted)
			}
			report(0)
			for gen := 1; gen <= steps; gen++ {
				sim.Step()
				if every > 0 && gen%every == 0 {
					report(gen)
				}
			}
			if every <= 0 || steps%every != 0 {
				report(steps)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 128, "grid width")
	cmd.Flags().IntVar(&height, "height", 128, "grid height")
	cmd.Flags().IntVar(&steps, "steps", 1000, "generations to run")
	cmd.Flags().IntVar(&every, "every", 0, "report every N generations (0: only at the end)")
	return cmd
}
