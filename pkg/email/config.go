package email

import (
	"fmt"
	"strings"
)

// Config selects and configures the sender. Postmark tokens are only
// needed when Driver is "postmark".
type Config struct {
	Driver               string `env:"EMAIL_DRIVER" envDefault:"dev"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"builder@example.com"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@example.com"`
}

// New returns the sender named by cfg.Driver: "postmark" or "dev".
func New(cfg Config) (EmailSender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postmark":
		return NewPostmarkClient(cfg)
	case "", "dev":
		return NewDevSender(cfg.DevDir), nil
	}
	return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
}
