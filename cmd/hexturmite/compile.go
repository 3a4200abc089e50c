package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hexturmite/internal/catalog"
	"hexturmite/internal/hexrule"
	"hexturmite/internal/ruletree"
	"hexturmite/internal/sims/hexturmite"
	"hexturmite/internal/turmite"
	"hexturmite/pkg/core"
)

func newCompileCmd(a *app) *cobra.Command {
	var (
		random   bool
		out      string
		compress bool
		verify   int
		note     string
	)
	cmd := &cobra.Command{
		Use:   "compile [spec]",
		Short: "Compile a spec into a rule tree artifact",
		Long: `Compile a turmite spec such as {{{1,4,0},{0,2,0}}} into the transition
rules and decision tree of an equivalent cellular automaton. The artifact is
written as JSON (zstd-compressed with --compress) and recorded in the catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("compress") {
				a.cfg.Compress = compress
			}
			if cmd.Flags().Changed("verify") {
				a.cfg.VerifySteps = verify
			}
			spec, err := a.resolveSpec(args, random)
			if err != nil {
				return err
			}
			return a.compile(cmd, spec, out, note)
		},
	}
	cmd.Flags().BoolVar(&random, "random", false, "generate an acceptable random spec instead of reading one")
	cmd.Flags().StringVarP(&out, "out", "o", "", "artifact path (default <output_dir>/<name>.json[.zst])")
	cmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress the artifact")
	cmd.Flags().IntVar(&verify, "verify", 0, "step the compiled automaton this many generations before writing")
	cmd.Flags().StringVar(&note, "note", "", "catalog note")
	return cmd
}

func (a *app) resolveSpec(args []string, random bool) (turmite.Spec, error) {
	switch {
	case random && len(args) > 0:
		return turmite.Spec{}, errors.New("pass either a spec or --random, not both")
	case random:
		r := a.cfg.Random
		spec, attempts, err := turmite.Generate(core.NewRNG(int64(r.Seed)), r.States, r.Colors, r.MaxAttempts)
		if err != nil {
			return turmite.Spec{}, err
		}
		a.log.Info("generated spec", "spec", spec.String(), "attempts", attempts, "seed", r.Seed)
		return spec, nil
	case len(args) == 1:
		return turmite.Parse(args[0])
	default:
		return turmite.Spec{}, errors.New("a spec argument or --random is required")
	}
}

func (a *app) compile(cmd *cobra.Command, spec turmite.Spec, out, note string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if acc := turmite.Evaluate(spec); !acc.OK() {
		a.log.Warn("spec fails acceptability filters", "failed", acc.Failed())
	}
	rule, err := hexrule.Compile(ctx, spec, a.options())
	if err != nil {
		return err
	}
	a.log.Debug("compiled", "name", rule.Name, "alphabet", rule.Alphabet(), "rules", len(rule.Rules))
	tree, err := ruletree.Build(rule.Geometry, rule.Alphabet(), rule.Rules)
	if err != nil {
		return err
	}
	a.log.Debug("tree built", "nodes", len(tree.Nodes))

	if steps := a.cfg.VerifySteps; steps > 0 {
		agents, err := verifyRule(rule, steps)
		if err != nil {
			return err
		}
		a.log.Info("verified", "steps", steps, "agents", agents)
	}

	var store catalog.Store
	if a.persistent() {
		if store, err = a.openStore(ctx); err != nil {
			return err
		}
		defer catalog.CloseIfSupported(store)
	} else {
		a.log.Debug("not recording in catalog", "store", a.cfg.Store)
	}

	if out == "" {
		ext := ".json"
		if a.cfg.Compress {
			ext += ".zst"
		}
		out = filepath.Join(a.cfg.OutputDir, rule.Name+ext)
	}
	if err := ruletree.Write(out, ruletree.NewDocument(rule, tree), a.cfg.Compress); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	var entry catalog.Entry
	if store != nil {
		if entry, err = store.Save(ctx, catalog.NewEntry(rule, note)); err != nil {
			if rmErr := os.Remove(out); rmErr != nil {
				a.log.Warn("could not remove artifact", "path", out, "err", rmErr)
			}
			return fmt.Errorf("catalog: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "name:     %s\n", rule.Name)
	describe(w, spec)
	fmt.Fprintf(w, "alphabet: %d symbols, seed %d\n", rule.Alphabet(), rule.Seed())
	fmt.Fprintf(w, "rules:    %d (%d tree nodes)\n", len(rule.Rules), len(tree.Nodes))
	fmt.Fprintf(w, "written:  %s\n", out)
	if store != nil {
		fmt.Fprintf(w, "catalog:  %s\n", entry.ID)
	}
	return nil
}

// verifyRule steps a small world and fails if the turmite population dies out
// within the first generation, which would mean the rules lost the agent.
func verifyRule(rule *hexrule.Compiled, steps int) (int, error) {
	sim, err := hexturmite.NewFromRule(rule, 64, 64)
	if err != nil {
		return 0, err
	}
	sim.Step()
	if sim.Agents() == 0 {
		return 0, errors.New("verify: the seeded turmite vanished after one step")
	}
	for i := 1; i < steps; i++ {
		sim.Step()
	}
	return sim.Agents(), nil
}
