package email

import (
	"context"
	"errors"

	"github.com/dmitrymomot/emailkit/pkg/validator"
)

// EmailSender delivers a rendered email.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams carries one message. BodyText is the optional plain-text
// alternative part.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the recipient, subject and HTML body.
func (p SendEmailParams) Validate() error {
	err := validator.Apply(
		validator.Required("send_to", p.SendTo),
		validator.When(p.SendTo != "", validator.ValidEmail("send_to", p.SendTo)),
		validator.Required("subject", p.Subject),
		validator.MaxLen("subject", p.Subject, 998),
		validator.Required("body_html", p.BodyHTML),
		validator.MaxLen("tag", p.Tag, 1000),
	)
	if err != nil {
		return errors.Join(ErrInvalidParams, err)
	}
	return nil
}
