// ABOUTME: Template rendering for role-request decision emails.
// ABOUTME: Templates parsed once at init from embedded FS; rendered per delivery.
package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template function maps shared by both HTML and text templates.
var funcMap = map[string]any{
	// statusColor returns a CSS background color for a decision status.
	"statusColor": func(status string) string {
		switch strings.ToLower(status) {
		case "approved":
			return "#198754"
		case "rejected":
			return "#dc3545"
		default:
			return "#6c757d"
		}
	},
}

// Parsed templates — one per format to avoid {{define}} namespace collisions.
var (
	decisionHTML *htmltpl.Template
	decisionText *texttpl.Template
)

func init() {
	decisionHTML = htmltpl.Must(htmltpl.New("").Funcs(htmltpl.FuncMap(funcMap)).ParseFS(templateFS, "templates/decision_email.html.tmpl"))
	decisionText = texttpl.Must(texttpl.New("").Funcs(texttpl.FuncMap(funcMap)).ParseFS(templateFS, "templates/decision_email.txt.tmpl"))
}

// DecisionTemplateData is the context passed to decision email templates.
type DecisionTemplateData struct {
	DisplayName string
	RoleName    string // human-readable role display name
	Status      string // "approved" or "rejected"
	Approved    bool
	AdminNotes  string
	AppURL      string
}

// RenderDecision renders a role-request decision email. Returns subject, HTML
// body, and plaintext body.
func RenderDecision(data DecisionTemplateData) (string, string, string, error) {
	// Render subject from the text template's "subject" block.
	var subjectBuf bytes.Buffer
	if err := decisionText.ExecuteTemplate(&subjectBuf, "subject", data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	subject := sanitizeSubject(subjectBuf.String())

	var htmlBuf bytes.Buffer
	if err := decisionHTML.ExecuteTemplate(&htmlBuf, "body", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}

	var textBuf bytes.Buffer
	if err := decisionText.ExecuteTemplate(&textBuf, "body", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}

	return subject, htmlBuf.String(), textBuf.String(), nil
}

// sanitizeSubject strips CR/LF to prevent email header injection.
func sanitizeSubject(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
