package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/and161185/veriuser/internal/certificate"
)

func (c *cli) certifyCmd() *cobra.Command {
	var (
		formats []string
		outDir  string
	)
	cmd := &cobra.Command{
		Use:   "certify <id>",
		Short: "Export a record as a certificate document",
		Long: "Renders the certificate of a record. pdf and png need a Chrome or Chromium\n" +
			"browser; html is the full document and print is the bare printable page.\n" +
			"With --out - a single format is written to stdout.",
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringSliceVar(&formats, "format", []string{string(certificate.FormatPDF)}, "pdf, png, html or print (comma-separated)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory, or - for stdout")
	cmd.RunE = c.runE("certify", func(ctx context.Context, args []string) error {
		rec, err := c.app.records.Get(args[0])
		if err != nil {
			return err
		}
		fs := make([]certificate.Format, 0, len(formats))
		for _, s := range formats {
			f, err := certificate.ParseFormat(s)
			if err != nil {
				return err
			}
			fs = append(fs, f)
		}
		if outDir == "-" && len(fs) != 1 {
			return fmt.Errorf("validation: --out - needs exactly one format")
		}

		docs, err := c.app.exporter.ExportAll(ctx, c.app.view(rec), fs...)
		if err != nil {
			return err
		}

		if outDir == "-" {
			_, err := c.out.Write(docs[0].Data)
			return err
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		for _, d := range docs {
			path := filepath.Join(outDir, d.Name)
			if err := os.WriteFile(path, d.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(c.out, path)
		}
		return nil
	})
	return cmd
}
