// Command hexturmite compiles hexagonal turmite specs into cellular
// automaton rule tables.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hexturmite/internal/catalog"
	"hexturmite/internal/config"
	"hexturmite/internal/hexrule"
	"hexturmite/internal/turmite"
)

type app struct {
	configPath string
	overrides  []string
	verbose    bool

	cfg config.Config
	log *slog.Logger

	newStore func(kind, path string) (catalog.Store, error)
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(opts ...func(*app)) *cobra.Command {
	a := &app{
		cfg:      config.DefaultConfig(),
		log:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
		newStore: catalog.NewStore,
	}
	for _, opt := range opts {
		opt(a)
	}
	root := &cobra.Command{
		Use:           "hexturmite",
		Short:         "Compile hexagonal turmites into cellular automaton rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringArrayVar(&a.overrides, "set", nil, "config override in key=value form (repeatable)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newCompileCmd(a),
		newCheckCmd(a),
		newRandomCmd(a),
		newRunCmd(a),
		newCatalogCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	kv, err := parseOverrides(a.overrides)
	if err != nil {
		return err
	}
	if a.configPath == "" {
		if a.cfg, err = config.FromMap(kv); err != nil {
			return err
		}
	} else {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		if err := cfg.Apply(kv); err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.log.Debug("config ready", "path", a.configPath, "overrides", len(kv), "store", a.cfg.Store)
	return nil
}

func parseOverrides(list []string) (map[string]string, error) {
	kv := make(map[string]string, len(list))
	for _, item := range list {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("override %q is not key=value", item)
		}
		kv[strings.TrimSpace(parts[0])] = parts[1]
	}
	return kv, nil
}

func (a *app) options() hexrule.Options {
	return hexrule.Options{Prefix: a.cfg.Prefix, AlphabetLimit: a.cfg.AlphabetLimit}
}

func describe(w io.Writer, s turmite.Spec) {
	fmt.Fprintf(w, "spec:    %s\n", s)
	fmt.Fprintf(w, "size:    %d states x %d colors\n", s.States(), s.Colors())
	fmt.Fprintf(w, "digest:  %s\n", s.Digest())
}
