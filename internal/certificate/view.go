// Package certificate renders verification records as printable documents.
package certificate

import (
	"github.com/and161185/veriuser/internal/lifecycle"
	"github.com/and161185/veriuser/internal/model"
)

// DateLayout is the day.month.year layout used on certificates.
const DateLayout = "02.01.2006"

// StatusColors resolves a status name to its display color.
type StatusColors interface {
	ResolveColor(statusName string) string
}

// View is a record together with the values derived for display.
type View struct {
	Record      model.Record
	StatusColor string
	IssueDate   string
	ExpiryDate  string
	DaysLeft    int
	Validity    lifecycle.Validity
	Palette     lifecycle.Palette
}

// NewView derives display values for r as of calc.Now().
func NewView(r model.Record, colors StatusColors, calc lifecycle.Calculator) View {
	days := calc.DaysLeft(r.CreatedAt)
	validity := lifecycle.ValidityOf(days)
	return View{
		Record:      r.Clone(),
		StatusColor: colors.ResolveColor(r.Status),
		IssueDate:   r.CreatedAt.UTC().Format(DateLayout),
		ExpiryDate:  calc.Expiry(r.CreatedAt).Format(DateLayout),
		DaysLeft:    days,
		Validity:    validity,
		Palette:     lifecycle.PaletteOf(validity),
	}
}
