package certificate

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("veriuser").Funcs(template.FuncMap{
	"inc":          func(i int) int { return i + 1 },
	"validityText": ValidityText,
}).ParseFS(templatesFS, "templates/*.html.tmpl"))

// ValidityText is the human label for a days-left value.
func ValidityText(daysLeft int) string {
	if daysLeft > 0 {
		return fmt.Sprintf("valid for %d more days", daysLeft)
	}
	return "needs re-verification"
}

// RenderHTML writes the full standalone document. Print styles hide
// everything except the certificate.
func RenderHTML(w io.Writer, v View) error {
	return render(w, "document", v)
}

// RenderPrint writes the bare certificate page used for printing and for
// PDF/PNG capture.
func RenderPrint(w io.Writer, v View) error {
	return render(w, "print", v)
}

func render(w io.Writer, name string, v View) error {
	if err := templates.ExecuteTemplate(w, name, v); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func renderString(name string, v View) (string, error) {
	var sb strings.Builder
	if err := render(&sb, name, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}
