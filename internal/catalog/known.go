package catalog

import (
	"context"
	"fmt"

	"hexturmite/internal/hexrule"
)

// KnownRule is a hand-picked spec worth keeping around.
type KnownRule struct {
	Spec string
	Note string
}

var known = []KnownRule{
	{"{{{1,4,0},{0,2,0}}}", "Langton's ant with gentle turns; behaves as on the triangular grid"},
	{"{{{1,16,0},{0,8,0}}}", "sharp turns give a period-8 glider"},
	{"{{{1,16,0},{0,2,0}}}", "one sharp and one gentle turn: chaos, highway after ~5M steps"},
	{"{{{1,4,0},{0,8,0}}}", "gentle then sharp; no highway seen in 30M steps"},
	{"{{{1,8,1},{1,1,0}},{{1,8,0},{1,2,0}}}", "iceskater: thick highway after 40k steps"},
	{"{{{1,2,1},{1,1,0}},{{1,4,1},{1,16,0}}}", "loose loopy growth"},
	{"{{{1,2,0},{1,16,1}},{{1,1,0},{1,1,1}}}", "frustrated space filler"},
	{"{{{1,4,1},{1,1,0}},{{1,1,0},{1,1,1}}}", "katana: two-speed twin highway"},
	{"{{{1,4,0},{1,8,1}},{{1,2,0},{1,16,0}}}", "highway after 300k steps"},
	{"{{{1,1,2},{1,4,2}},{{1,2,0},{1,1,2}},{{1,32,0},{1,1,1}}}", "shuriken iceskater: twin highway after a few false starts"},
	{"{{{1,16,2},{1,2,2}},{{1,8,0},{1,1,1}},{{1,2,1},{1,4,0}}}", "shuriken variant"},
	{"{{{2,16,1},{2,16,0},{1,8,1}},{{1,32,1},{2,4,0},{1,2,0}}}", "loose growth"},
	{"{{{1,1,1},{2,32,1},{1,8,1}},{{2,8,0},{2,16,1},{1,1,0}}}", "loose geode growth"},
}

// Known returns the curated rule list.
func Known() []KnownRule {
	return append([]KnownRule(nil), known...)
}

// Seed compiles every known rule and saves it. Entries already present keep
// their IDs.
func Seed(ctx context.Context, store Store, opts hexrule.Options) (int, error) {
	for i, k := range known {
		c, err := hexrule.CompileString(ctx, k.Spec, opts)
		if err != nil {
			return i, fmt.Errorf("known rule %s: %w", k.Spec, err)
		}
		if _, err := store.Save(ctx, NewEntry(c, k.Note)); err != nil {
			return i, err
		}
	}
	return len(known), nil
}
