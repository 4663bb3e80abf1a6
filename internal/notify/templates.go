// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package notify

import (
	"bytes"
	"embed"
	"fmt"
	htemplate "html/template"
	ttemplate "text/template"
	"time"

	"github.com/samber/oops"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

// DefaultAppName is the product name used in notices.
const DefaultAppName = "Latchkey"

// TemplateConfig configures notice rendering.
type TemplateConfig struct {
	AppName         string
	From            string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// TemplateData is the data every notice template sees.
type TemplateData struct {
	AppName  string
	Name     string
	Email    string
	Code     string
	ResetURL string
	CodeTTL  string
	ResetTTL string
}

type noticeMeta struct {
	subject  string
	category string
}

// Templates renders the subject and bodies of each notice kind.
type Templates struct {
	cfg  TemplateConfig
	meta map[Kind]noticeMeta
	text *ttemplate.Template
	html *htemplate.Template
}

// NewTemplates parses the embedded notice templates.
func NewTemplates(cfg TemplateConfig) (*Templates, error) {
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}

	text, err := ttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, oops.Code("TEMPLATE_PARSE_FAILED").With("format", "text").Wrap(err)
	}
	html, err := htemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, oops.Code("TEMPLATE_PARSE_FAILED").With("format", "html").Wrap(err)
	}

	return &Templates{
		cfg: cfg,
		meta: map[Kind]noticeMeta{
			KindVerification: {subject: "Verify Your Email Address", category: "Email Verification"},
			KindWelcome:      {subject: "Welcome to " + cfg.AppName, category: "Welcome"},
			KindResetRequest: {subject: "Reset your password", category: "Password Reset"},
			KindResetSuccess: {subject: "Password Reset Successful", category: "Password Reset"},
		},
		text: text,
		html: html,
	}, nil
}

// Render builds the message of kind for recipient to. AppName and the TTL
// fields of data are filled from the configuration.
func (t *Templates) Render(kind Kind, to string, data TemplateData) (Message, error) {
	meta, ok := t.meta[kind]
	if !ok {
		return Message{}, oops.Code("TEMPLATE_UNKNOWN_KIND").With("kind", string(kind)).Errorf("unknown notice kind %q", kind)
	}

	data.AppName = t.cfg.AppName
	data.Email = to
	data.CodeTTL = humanDuration(t.cfg.VerificationTTL)
	data.ResetTTL = humanDuration(t.cfg.ResetTTL)

	var textBody, htmlBody bytes.Buffer
	if err := t.text.ExecuteTemplate(&textBody, string(kind)+".txt", data); err != nil {
		return Message{}, oops.Code("TEMPLATE_RENDER_FAILED").With("kind", string(kind)).With("format", "text").Wrap(err)
	}
	if err := t.html.ExecuteTemplate(&htmlBody, string(kind)+".html", data); err != nil {
		return Message{}, oops.Code("TEMPLATE_RENDER_FAILED").With("kind", string(kind)).With("format", "html").Wrap(err)
	}

	return Message{
		Kind:     kind,
		Category: meta.category,
		From:     t.cfg.From,
		To:       to,
		Subject:  meta.subject,
		Text:     textBody.String(),
		HTML:     htmlBody.String(),
	}, nil
}

// humanDuration renders whole hours or minutes, e.g. "24 hours", "1 hour".
func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	}
	return d.Round(time.Second).String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
