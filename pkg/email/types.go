package email

// Message is a single-recipient email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Config selects and configures the transport.
type Config struct {
	Provider string
	From     string
	SMTP     SMTPConfig
	Resend   ResendConfig
	SES      SESConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type ResendConfig struct {
	APIKey string
}

type SESConfig struct {
	Region string
}
