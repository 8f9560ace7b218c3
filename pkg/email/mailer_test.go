package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/email"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func TestEmailSenderInterface(t *testing.T) {
	t.Parallel()

	sender := &MockEmailSender{}
	params := email.SendEmailParams{SendTo: "a@example.com", Subject: "Hi", BodyHTML: "<p>hi</p>"}
	sender.On("SendEmail", mock.Anything, params).Return(nil).Once()

	var s email.EmailSender = sender
	require.NoError(t, s.SendEmail(context.Background(), params))
	sender.AssertExpectations(t)
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params email.SendEmailParams
		fields []string
	}{
		{
			name:   "valid",
			params: email.SendEmailParams{SendTo: "user@example.com", Subject: "Hello", BodyHTML: "<p>x</p>"},
		},
		{
			name:   "valid with text and tag",
			params: email.SendEmailParams{SendTo: "user@example.com", Subject: "Hello", BodyHTML: "<p>x</p>", BodyText: "x", Tag: "welcome"},
		},
		{
			name:   "missing recipient",
			params: email.SendEmailParams{Subject: "Hello", BodyHTML: "<p>x</p>"},
			fields: []string{"send_to"},
		},
		{
			name:   "bad recipient",
			params: email.SendEmailParams{SendTo: "not-an-email", Subject: "Hello", BodyHTML: "<p>x</p>"},
			fields: []string{"send_to"},
		},
		{
			name:   "everything missing",
			params: email.SendEmailParams{},
			fields: []string{"send_to", "subject", "body_html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.ErrorIs(t, err, validator.ErrValidationFailed)

			verrs := validator.ExtractValidationErrors(err)
			require.NotNil(t, verrs)
			for _, f := range tt.fields {
				assert.True(t, verrs.Has(f), "expected error for %s", f)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("dev by default", func(t *testing.T) {
		s, err := email.New(email.Config{DevDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, s)
	})

	t.Run("postmark requires tokens", func(t *testing.T) {
		_, err := email.New(email.Config{Driver: "postmark"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := email.New(email.Config{Driver: "pigeon"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}
