package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hexturmite/internal/catalog"
	"hexturmite/internal/hexrule"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and fill the rule catalog",
	}

	var note string
	add := &cobra.Command{
		Use:   "add <spec>",
		Short: "Compile a spec and record it without writing an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store catalog.Store) error {
				rule, err := hexrule.CompileString(ctx, args[0], a.options())
				if err != nil {
					return err
				}
				e, err := store.Save(ctx, catalog.NewEntry(rule, note))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.ID, e.Name)
				return nil
			})
		},
	}
	add.Flags().StringVar(&note, "note", "", "free-form note")

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store catalog.Store) error {
				entries, err := store.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DIGEST\tSIZE\tALPHABET\tNAME\tNOTE")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%s\t%s\n", e.Digest, e.States, e.Colors, e.Alphabet, e.Name, e.Note)
				}
				return tw.Flush()
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id|digest>",
		Short: "Show one catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store catalog.Store) error {
				e, ok, err := store.Get(ctx, args[0])
				if err == nil && !ok {
					e, ok, err = store.GetByDigest(ctx, args[0])
				}
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no catalog entry %q", args[0])
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "id:       %s\n", e.ID)
				fmt.Fprintf(w, "name:     %s\n", e.Name)
				fmt.Fprintf(w, "digest:   %s\n", e.Digest)
				fmt.Fprintf(w, "spec:     %s\n", e.Spec)
				fmt.Fprintf(w, "size:     %d states x %d colors\n", e.States, e.Colors)
				fmt.Fprintf(w, "alphabet: %d symbols, %d rules\n", e.Alphabet, e.Rules)
				fmt.Fprintf(w, "created:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05Z"))
				if e.Note != "" {
					fmt.Fprintf(w, "note:     %s\n", e.Note)
				}
				return nil
			})
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Record the built-in list of known interesting rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, store catalog.Store) error {
				n, err := catalog.Seed(ctx, store, a.options())
				if err != nil {
					return err
				}
				a.log.Info("seeded catalog", "rules", n, "store", a.cfg.Store)
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rules\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(add, list, show, seed)
	return cmd
}

func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, store catalog.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !a.persistent() {
		return errors.New("the catalog needs a persistent store: set store=sqlite and store_path")
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer catalog.CloseIfSupported(store)
	return fn(ctx, store)
}

// persistent reports whether the configured store outlives the process.
func (a *app) persistent() bool { return a.cfg.Store != "memory" }

func (a *app) openStore(ctx context.Context) (catalog.Store, error) {
	store, err := a.newStore(a.cfg.Store, a.cfg.StorePath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
