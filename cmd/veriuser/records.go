package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and161185/veriuser/internal/model"
)

// recordFlags binds the editable record fields to command flags.
type recordFlags struct {
	fields      model.RecordFields
	claims      []string
	clearClaims bool
}

func (f *recordFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.fields.Owner, "owner", "", "owner's full name")
	fs.StringVar(&f.fields.Username, "username", "", "account username without @")
	fs.StringVar(&f.fields.ChannelOrProfile, "channel", "", "channel or profile link")
	fs.StringVar(&f.fields.Age, "age", "", "owner's age")
	fs.StringVar(&f.fields.Reason, "reason", "", "category name")
	fs.StringVar(&f.fields.Status, "status", "", "status name")
	fs.StringVar(&f.fields.StatusNote, "note", "", "free-text status note")
	fs.StringVar(&f.fields.OtherSocialNetworks, "networks", "", "other social networks")
	fs.StringVar(&f.fields.PhotoRef, "photo", "", "photo URL or path")
	fs.StringArrayVar(&f.claims, "claim", nil, "ownership claim (repeatable)")
}

// merge overlays the flags the user set on base.
func (f *recordFlags) merge(cmd *cobra.Command, base model.RecordFields) model.RecordFields {
	fs := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("owner", &base.Owner, f.fields.Owner)
	set("username", &base.Username, f.fields.Username)
	set("channel", &base.ChannelOrProfile, f.fields.ChannelOrProfile)
	set("age", &base.Age, f.fields.Age)
	set("reason", &base.Reason, f.fields.Reason)
	set("status", &base.Status, f.fields.Status)
	set("note", &base.StatusNote, f.fields.StatusNote)
	set("networks", &base.OtherSocialNetworks, f.fields.OtherSocialNetworks)
	set("photo", &base.PhotoRef, f.fields.PhotoRef)
	return base
}

func claimsFrom(texts []string) []model.PatentClaim {
	out := make([]model.PatentClaim, 0, len(texts))
	for _, t := range texts {
		out = append(out, model.PatentClaim{Text: t})
	}
	return out
}

// checkRefs rejects status and category names that are not defined.
func (a *app) checkRefs(f model.RecordFields) error {
	if f.Status != "" {
		if _, ok := a.statuses.Find(f.Status); !ok {
			return fmt.Errorf("validation: unknown status %q (see 'veriuser status list')", f.Status)
		}
	}
	if f.Reason != "" {
		if _, ok := a.categories.Find(f.Reason); !ok {
			return fmt.Errorf("validation: unknown category %q (see 'veriuser category list')", f.Reason)
		}
	}
	return nil
}

func (c *cli) addCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a verification record",
		Args:  cobra.NoArgs,
	}
	f.bind(cmd)
	cmd.RunE = c.runE("add", func(ctx context.Context, _ []string) error {
		fields := f.fields
		if !cmd.Flags().Changed("status") {
			if st := c.app.statuses.List(); len(st) > 0 {
				fields.Status = st[0].Name
			}
		}
		if err := c.app.checkRefs(fields); err != nil {
			return err
		}
		rec, err := c.app.records.Create(ctx, fields, claimsFrom(f.claims))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, newPrinter(c.out).recordLine(c.app.view(rec)))
		return nil
	})
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a record; unset flags keep their values",
		Args:  cobra.ExactArgs(1),
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.clearClaims, "clear-claims", false, "drop all ownership claims")
	cmd.RunE = c.runE("edit", func(ctx context.Context, args []string) error {
		old, err := c.app.records.Get(args[0])
		if err != nil {
			return err
		}
		fields := f.merge(cmd, old.Fields())
		// only references that changed must exist; stale ones may stay
		var changed model.RecordFields
		if fields.Status != old.Status {
			changed.Status = fields.Status
		}
		if fields.Reason != old.Reason {
			changed.Reason = fields.Reason
		}
		if err := c.app.checkRefs(changed); err != nil {
			return err
		}

		claims := old.Patents
		switch {
		case f.clearClaims:
			claims = nil
		case cmd.Flags().Changed("claim"):
			claims = claimsFrom(f.claims)
		}

		rec, err := c.app.records.Update(ctx, old.ID, fields, claims)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, newPrinter(c.out).recordLine(c.app.view(rec)))
		return nil
	})
	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete records",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = c.runE("rm", func(ctx context.Context, args []string) error {
		// all ids must exist before anything is deleted
		for _, id := range args {
			if _, err := c.app.records.Get(id); err != nil {
				return err
			}
		}
		for _, id := range args {
			if err := c.app.records.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted %s\n", id)
		}
		return nil
	})
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var (
		filter model.RecordFilter
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered by status and id",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&filter.Status, "status", "", "exact status name")
	cmd.Flags().StringVar(&filter.IDContains, "id", "", "substring of the record id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.RunE = c.runE("list", func(_ context.Context, _ []string) error {
		recs := c.app.records.List(filter)
		if asJSON {
			return printJSON(c.out, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(c.out, "no records")
			return nil
		}
		p := newPrinter(c.out)
		for _, r := range recs {
			fmt.Fprintln(c.out, p.recordLine(c.app.view(r)))
		}
		return nil
	})
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.RunE = c.runE("show", func(_ context.Context, args []string) error {
		rec, err := c.app.records.Get(args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(c.out, rec)
		}
		newPrinter(c.out).recordDetail(c.app.view(rec))
		return nil
	})
	return cmd
}
