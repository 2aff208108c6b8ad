package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const subjectFormat = "You have a new QMail message from %s!"

// DefaultTemplate is the Markdown body used when none is configured.
// The sender appears only in the subject.
const DefaultTemplate = `You have received a new **encrypted message**.

Please log in to the QMail app to decrypt and view it.
`

// ASCII punctuation, all of which CommonMark lets a backslash escape.
const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

type templateData struct {
	Sender string
}

// Template renders notification emails. The body is a text/template over
// Markdown; the result is converted to HTML and sanitized.
type Template struct {
	body *template.Template
	md   goldmark.Markdown
	ugc  *bluemonday.Policy
}

// NewTemplate parses body, falling back to DefaultTemplate when it is blank.
func NewTemplate(body string) (*Template, error) {
	if strings.TrimSpace(body) == "" {
		body = DefaultTemplate
	}
	tmpl, err := template.New("notification").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse notification template: %w", err)
	}
	return &Template{
		body: tmpl,
		md:   goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
		ugc:  bluemonday.UGCPolicy(),
	}, nil
}

// Subject is a plain text header. Angle brackets and control characters in
// sender are dropped, everything else is kept as sent.
func (t *Template) Subject(sender string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, sender)
	return fmt.Sprintf(subjectFormat, strings.TrimSpace(clean))
}

// HTML executes the body with sender escaped so it renders as literal text.
func (t *Template) HTML(sender string) (string, error) {
	var mdBuf bytes.Buffer
	if err := t.body.Execute(&mdBuf, templateData{Sender: markdownText(sender)}); err != nil {
		return "", fmt.Errorf("execute notification template: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err := t.md.Convert(mdBuf.Bytes(), &htmlBuf); err != nil {
		return "", fmt.Errorf("render notification markdown: %w", err)
	}
	return strings.TrimSpace(t.ugc.Sanitize(htmlBuf.String())), nil
}

// markdownText backslash-escapes every punctuation character and folds
// control characters to spaces, so s cannot open a link, emphasis, html or a
// new block.
func markdownText(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsControl(r):
			b.WriteByte(' ')
		case strings.ContainsRune(markdownPunct, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
