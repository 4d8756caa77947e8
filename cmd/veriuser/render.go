package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/and161185/veriuser/internal/certificate"
)

// printer renders shell output; colors degrade to plain text when out is not
// a terminal.
type printer struct {
	out io.Writer
	r   *lipgloss.Renderer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out, r: lipgloss.NewRenderer(out)}
}

func (p *printer) badge(text, color string) string {
	return p.r.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Render(text)
}

func (p *printer) validity(v certificate.View) string {
	return p.r.NewStyle().
		Foreground(lipgloss.Color(v.Palette.Foreground)).
		Render(certificate.ValidityText(v.DaysLeft))
}

func (p *printer) dim(s string) string {
	return p.r.NewStyle().Faint(true).Render(s)
}

func (p *printer) bold(s string) string {
	return p.r.NewStyle().Bold(true).Render(s)
}

// recordLine is one row of the record list.
func (p *printer) recordLine(v certificate.View) string {
	return strings.Join([]string{
		p.bold(v.Record.ID),
		v.Record.Owner,
		"@" + v.Record.Username,
		p.badge(v.Record.Status, v.StatusColor),
		p.validity(v),
	}, "  ")
}

func (p *printer) recordDetail(v certificate.View) {
	r := v.Record
	field := func(label, value string) {
		if value == "" {
			value = p.dim("not specified")
		}
		fmt.Fprintf(p.out, "%-20s %s\n", label+":", value)
	}
	fmt.Fprintf(p.out, "%s  %s\n", p.bold(r.Owner), "@"+r.Username)
	field("ID", r.ID)
	field("Status", p.badge(r.Status, v.StatusColor))
	field("Status note", r.StatusNote)
	field("Category", r.Reason)
	field("Channel / profile", r.ChannelOrProfile)
	field("Age", r.Age)
	field("Other networks", r.OtherSocialNetworks)
	field("Photo", r.PhotoRef)
	field("Issued", v.IssueDate)
	field("Valid until", v.ExpiryDate)
	field("Validity", p.validity(v))
	if len(r.Patents) > 0 {
		fmt.Fprintln(p.out, "Ownership claims:")
		for i, c := range r.Patents {
			fmt.Fprintf(p.out, "  #%d %s\n", i+1, c.Text)
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
