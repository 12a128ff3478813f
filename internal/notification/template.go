package notification

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultSubjectPrefix is prepended to every outgoing notification subject
// unless the generator is configured with another prefix.
const DefaultSubjectPrefix = "Project Update - "

// DefaultBrandName is shown in the header and footer of the HTML layout.
const DefaultBrandName = "Notificator"

// textTmpl renders the plain-text body of a project update.
var textTmpl = texttemplate.Must(texttemplate.New("text").Funcs(sprig.TxtFuncMap()).Parse(
	`Dear {{ .Greeting }},

the status of your project {{ .ProjectCode }}{{ with .ProjectTitle }} "{{ . }}"{{ end }} changed to: {{ .ProjectStatus | default "updated" }}.
{{- if not .UpdatedAt.IsZero }}
Updated at: {{ dateInZone "2006-01-02 15:04 MST" .UpdatedAt "UTC" }}
{{- end }}

This is an automated message from {{ .BrandName }}. Please do not reply.
`))

// layoutTmpl is the HTML wrapper applied to every outgoing notification.
// All values are auto-escaped by html/template.
var layoutTmpl = htmltemplate.Must(htmltemplate.New("layout").Funcs(sprig.FuncMap()).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>{{ .Subject }}</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f5;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" role="presentation" style="background-color:#f4f4f5;padding:40px 16px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" role="presentation" style="max-width:600px;width:100%;">
          <tr>
            <td style="background-color:#0f0f1a;padding:28px 40px;border-radius:12px 12px 0 0;">
              <span style="font-size:20px;font-weight:700;color:#ffffff;">{{ .BrandName }}</span>
            </td>
          </tr>
          <tr>
            <td style="background-color:#18181f;padding:16px 40px;border-left:3px solid #6366f1;">
              <p style="margin:0;font-size:15px;font-weight:600;color:#e5e7eb;">{{ .Subject }}</p>
            </td>
          </tr>
          <tr>
            <td style="background-color:#ffffff;padding:36px 40px;">
              <p style="margin:0 0 16px;font-size:14px;color:#374151;">Dear {{ .Greeting }},</p>
              <p style="margin:0 0 16px;font-size:14px;color:#374151;">
                the status of your project <strong>{{ .ProjectCode }}</strong>{{ with .ProjectTitle }} &ldquo;{{ . }}&rdquo;{{ end }}
                changed to <strong>{{ .ProjectStatus | default "updated" }}</strong>.
              </p>
              {{- if not .UpdatedAt.IsZero }}
              <p style="margin:0;font-size:12px;color:#6b7280;">Updated at {{ dateInZone "2006-01-02 15:04 MST" .UpdatedAt "UTC" }}</p>
              {{- end }}
            </td>
          </tr>
          <tr>
            <td style="background-color:#f9fafb;padding:20px 40px;border-top:1px solid #e5e7eb;border-radius:0 0 12px 12px;">
              <p style="margin:0;font-size:12px;color:#9ca3af;">
                Automated notification from {{ .BrandName }}. Please do not reply to this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// noticeTmpl wraps free-form text (failure notices) in a minimal HTML page.
var noticeTmpl = htmltemplate.Must(htmltemplate.New("notice").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{ .Subject }}</title></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <h3 style="color:#b91c1c;">{{ .Subject }}</h3>
  <div style="font-size:14px;line-height:1.7;color:#374151;white-space:pre-wrap;">{{ .Body }}</div>
</body>
</html>
`))

// templateData is the value passed to textTmpl and layoutTmpl.
type templateData struct {
	Content
	Subject   string
	Greeting  string
	BrandName string
}

func newTemplateData(c Content, subject, brand string) templateData {
	greeting := c.CustomerName()
	if greeting == "" {
		greeting = "customer"
	}
	return templateData{
		Content:   c,
		Subject:   subject,
		Greeting:  greeting,
		BrandName: brand,
	}
}

// renderText executes the plain-text template.
func renderText(data templateData) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// renderHTML executes the branded HTML layout.
func renderHTML(data templateData) (string, error) {
	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildSubject prepends prefix to a subject line.
func buildSubject(prefix, subject string) string {
	return prefix + subject
}

// buildNoticeHTML renders a plain notice (subject and body) as HTML.
func buildNoticeHTML(subject, body string) (string, error) {
	var buf bytes.Buffer
	err := noticeTmpl.Execute(&buf, struct{ Subject, Body string }{subject, body})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
