package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names recognized by the mail worker.
const (
	Welcome         = "welcome"
	ReportReceived  = "report_received"
	ListingUnlisted = "listing_unlisted"
)

var subjects = map[string]string{
	Welcome:         "Welcome to GharBhada",
	ReportReceived:  "We received your report",
	ListingUnlisted: "Your listing was removed",
}

// Subject returns the subject line for a template name.
func Subject(name string) string {
	if s, ok := subjects[name]; ok {
		return s
	}
	return "Notification"
}

// Render executes the named embedded template against data and returns the
// HTML body. Data keys are template-specific; missing keys render empty.
func Render(name string, data map[string]any) (string, error) {
	t, err := htmpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
