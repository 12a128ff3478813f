package notification

// SMTPConfig holds connection parameters for the SMTP provider.
type SMTPConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FromAddr   string `json:"from_address"`
	ToAddrs    string `json:"to_addresses"` // fallback recipients, comma separated
	Encryption string `json:"encryption"`   // "none", "starttls", "ssl_tls"
}

// Event types written to the notification log.
const (
	EventProjectUpdate = "notification.project_update"
	EventFailureNotice = "notification.failure_notice"
)

// Delivery statuses written to the notification log.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)
