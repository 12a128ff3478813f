package notification

import (
	"fmt"

	"github.com/shaharia-lab/notificator/internal/metrics"
)

// EmailGenerator renders notification content into an email.
type EmailGenerator interface {
	Generate(content Content) (Email, error)
}

// TemplateGenerator renders project updates with the built-in templates.
// It holds no mutable state and is safe for concurrent use.
type TemplateGenerator struct {
	subjectPrefix string
	brandName     string
}

// NewTemplateGenerator creates a TemplateGenerator. Empty arguments fall back
// to DefaultSubjectPrefix and DefaultBrandName.
func NewTemplateGenerator(subjectPrefix, brandName string) *TemplateGenerator {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	if brandName == "" {
		brandName = DefaultBrandName
	}
	return &TemplateGenerator{subjectPrefix: subjectPrefix, brandName: brandName}
}

// Generate validates content and renders the subject, plain-text body and
// HTML body of the email addressed to the customer.
func (g *TemplateGenerator) Generate(content Content) (Email, error) {
	if err := content.Validate(); err != nil {
		return Email{}, err
	}

	subject := buildSubject(g.subjectPrefix, content.ProjectCode+": project status update")
	data := newTemplateData(content, subject, g.brandName)

	text, err := renderText(data)
	if err != nil {
		return Email{}, fmt.Errorf("rendering text body for %s: %w", content.ProjectCode, err)
	}
	html, err := renderHTML(data)
	if err != nil {
		return Email{}, fmt.Errorf("rendering html body for %s: %w", content.ProjectCode, err)
	}

	metrics.EmailsGenerated.Inc()
	return Email{
		To:       content.CustomerEmail,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}, nil
}
