package email_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/email"
)

type mockPostmark struct {
	mock.Mock
}

func (m *mockPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

func validConfig() email.Config {
	return email.Config{
		Driver:               "postmark",
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}
}

func TestNewPostmarkClient_Config(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*email.Config)
	}{
		{name: "missing server token", modify: func(c *email.Config) { c.PostmarkServerToken = "" }},
		{name: "missing account token", modify: func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{name: "bad sender", modify: func(c *email.Config) { c.SenderEmail = "nope" }},
		{name: "bad support", modify: func(c *email.Config) { c.SupportEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.modify(&cfg)
			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}

	t.Run("must panics", func(t *testing.T) {
		assert.Panics(t, func() { email.MustNewPostmarkClient(email.Config{}) })
	})
}

func TestPostmarkClient_SendEmail(t *testing.T) {
	t.Parallel()

	params := email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Welcome",
		BodyHTML: "<p>Hello</p>",
		BodyText: "Hello",
		Tag:      "welcome",
	}

	t.Run("sends both parts", func(t *testing.T) {
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.MatchedBy(func(e postmark.Email) bool {
			return e.From == "noreply@example.com" &&
				e.ReplyTo == "support@example.com" &&
				e.To == params.SendTo &&
				e.HTMLBody == params.BodyHTML &&
				e.TextBody == params.BodyText &&
				e.Tag == "welcome" &&
				e.TrackOpens
		})).Return(postmark.EmailResponse{}, nil).Once()

		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		require.NoError(t, client.SendEmail(context.Background(), params))
		api.AssertExpectations(t)
	})

	t.Run("invalid params never reach the api", func(t *testing.T) {
		api := &mockPostmark{}
		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)

		err = client.SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		api.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("transport error", func(t *testing.T) {
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).
			Return(postmark.EmailResponse{}, errors.New("boom")).Once()

		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		assert.ErrorIs(t, client.SendEmail(context.Background(), params), email.ErrFailedToSendEmail)
	})

	t.Run("api error code", func(t *testing.T) {
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).
			Return(postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}, nil).Once()

		client, err := email.NewPostmarkClient(validConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		err = client.SendEmail(context.Background(), params)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "300")
	})
}
