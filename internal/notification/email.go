package notification

// Email is a rendered notification ready to be handed to an EmailSender.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body"`
}

// Message converts the email into a provider Message.
func (e Email) Message() Message {
	return Message{
		Subject: e.Subject,
		Body:    e.TextBody,
		HTML:    e.HTMLBody,
		To:      []string{e.To},
	}
}
