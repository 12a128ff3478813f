package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		wantErr bool
	}{
		{
			name:    "valid",
			content: Content{CustomerEmail: "max@example.com", ProjectCode: "Q1234"},
		},
		{
			name:    "missing email",
			content: Content{ProjectCode: "Q1234"},
			wantErr: true,
		},
		{
			name:    "malformed email",
			content: Content{CustomerEmail: "not-an-address", ProjectCode: "Q1234"},
			wantErr: true,
		},
		{
			name:    "missing project code",
			content: Content{CustomerEmail: "max@example.com", ProjectCode: "  "},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.content.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContent)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestContent_CustomerName(t *testing.T) {
	assert.Equal(t, "Max Mustermann", Content{CustomerFirstName: "Max", CustomerLastName: "Mustermann"}.CustomerName())
	assert.Equal(t, "Max", Content{CustomerFirstName: "Max"}.CustomerName())
	assert.Empty(t, Content{}.CustomerName())
}

func TestEmail_Message(t *testing.T) {
	e := Email{To: "a@example.com", Subject: "s", TextBody: "t", HTMLBody: "<p>h</p>"}
	msg := e.Message()
	assert.Equal(t, []string{"a@example.com"}, msg.To)
	assert.Equal(t, "s", msg.Subject)
	assert.Equal(t, "t", msg.Body)
	assert.Equal(t, "<p>h</p>", msg.HTML)
}
