package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and161185/veriuser/internal/model"
)

func (c *cli) statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage record statuses",
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Define a status",
		Args:  cobra.ExactArgs(1),
	}
	add.Flags().StringVar(&color, "color", "", "display color, e.g. #FFC107 (default: fallback color)")
	add.RunE = c.runE("status add", func(ctx context.Context, args []string) error {
		if color == "" {
			color = c.app.cfg.Statuses.FallbackColor
		}
		def, err := c.app.statuses.Add(ctx, model.StatusDefinition{Name: args[0], Color: color})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s  %s\n", def.ID, newPrinter(c.out).badge(def.Name, def.Color))
		return nil
	})

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a status; the last one is kept",
		Args:  cobra.ExactArgs(1),
	}
	rm.RunE = c.runE("status rm", func(ctx context.Context, args []string) error {
		before := len(c.app.statuses.List())
		if err := c.app.statuses.Remove(ctx, args[0]); err != nil {
			return err
		}
		c.reportRemoval(args[0], before, len(c.app.statuses.List()))
		return nil
	})

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List statuses",
		Args:  cobra.NoArgs,
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	list.RunE = c.runE("status list", func(context.Context, []string) error {
		defs := c.app.statuses.List()
		if asJSON {
			return printJSON(c.out, defs)
		}
		p := newPrinter(c.out)
		for _, d := range defs {
			fmt.Fprintf(c.out, "%s  %s  %s\n", d.ID, p.badge(d.Name, d.Color), p.dim(d.Color))
		}
		return nil
	})

	cmd.AddCommand(add, rm, list)
	return cmd
}

func (c *cli) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage record categories",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Define a category",
		Args:  cobra.ExactArgs(1),
	}
	add.RunE = c.runE("category add", func(ctx context.Context, args []string) error {
		def, err := c.app.categories.Add(ctx, model.CategoryDefinition{Name: args[0]})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s  %s\n", def.ID, def.Name)
		return nil
	})

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a category; the last one is kept",
		Args:  cobra.ExactArgs(1),
	}
	rm.RunE = c.runE("category rm", func(ctx context.Context, args []string) error {
		before := len(c.app.categories.List())
		if err := c.app.categories.Remove(ctx, args[0]); err != nil {
			return err
		}
		c.reportRemoval(args[0], before, len(c.app.categories.List()))
		return nil
	})

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	list.RunE = c.runE("category list", func(context.Context, []string) error {
		defs := c.app.categories.List()
		if asJSON {
			return printJSON(c.out, defs)
		}
		for _, d := range defs {
			fmt.Fprintf(c.out, "%s  %s\n", d.ID, d.Name)
		}
		return nil
	})

	cmd.AddCommand(add, rm, list)
	return cmd
}

func (c *cli) reportRemoval(id string, before, after int) {
	if after == before {
		fmt.Fprintf(c.errOut, "kept %s: at least one entry must remain\n", id)
		return
	}
	fmt.Fprintf(c.out, "removed %s\n", id)
}
