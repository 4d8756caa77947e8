package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/and161185/veriuser/internal/transfer"
)

func (c *cli) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all records, statuses and categories as one JSON document",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&out, "out", "", "output file, or - for stdout (default veriuser_export_YYYY-MM-DD.json)")
	cmd.RunE = c.runE("export", func(context.Context, []string) error {
		if out == "-" {
			_, err := c.app.transfer.WriteExport(c.out)
			return err
		}
		path := out
		if path == "" {
			path = transfer.FileName(c.app.calc.Now())
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		snap, err := c.app.transfer.WriteExport(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s: %d users, %d statuses, %d categories\n",
			path, len(snap.Users), len(snap.Statuses), len(snap.Categories))
		return nil
	})
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the collections present in an exported JSON document",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = c.runE("import", func(ctx context.Context, args []string) error {
		var r io.Reader = c.in
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import: %w", err)
			}
			defer f.Close()
			r = f
		}
		res, err := c.app.transfer.Import(ctx, r)
		if err != nil {
			return err
		}
		report := func(name string, n int) {
			if n < 0 {
				fmt.Fprintf(c.out, "%s: unchanged\n", name)
				return
			}
			fmt.Fprintf(c.out, "%s: %d imported\n", name, n)
		}
		report("users", res.Users)
		report("statuses", res.Statuses)
		report("categories", res.Categories)
		return nil
	})
	return cmd
}
