package notification

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ErrInvalidContent is returned when a Content cannot be rendered into an email.
var ErrInvalidContent = errors.New("invalid notification content")

// Content describes a project update that one customer should be told about.
type Content struct {
	CustomerFirstName string    `json:"customer_first_name" yaml:"customer_first_name"`
	CustomerLastName  string    `json:"customer_last_name" yaml:"customer_last_name"`
	CustomerEmail     string    `json:"customer_email" yaml:"customer_email"`
	ProjectCode       string    `json:"project_code" yaml:"project_code"`
	ProjectTitle      string    `json:"project_title" yaml:"project_title"`
	ProjectStatus     string    `json:"project_status" yaml:"project_status"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"updated_at"`
}

// CustomerName returns the full customer name, or an empty string.
func (c Content) CustomerName() string {
	return strings.TrimSpace(c.CustomerFirstName + " " + c.CustomerLastName)
}

// Validate reports whether the content carries everything an email needs.
func (c Content) Validate() error {
	if strings.TrimSpace(c.CustomerEmail) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidContent)
	}
	if _, err := mail.ParseAddress(c.CustomerEmail); err != nil {
		return fmt.Errorf("%w: customer email %q: %v", ErrInvalidContent, c.CustomerEmail, err)
	}
	if strings.TrimSpace(c.ProjectCode) == "" {
		return fmt.Errorf("%w: project code is required", ErrInvalidContent)
	}
	return nil
}
