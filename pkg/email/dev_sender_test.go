package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/email"
)

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	sender := email.NewDevSender(dir)
	assert.Equal(t, dir, sender.Dir())

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Order Shipped!",
		BodyHTML: "<p>shipped</p>",
		BodyText: "shipped",
		Tag:      "Order Shipped",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byExt := map[string]string{}
	for _, e := range entries {
		assert.True(t, strings.HasSuffix(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), "order_shipped"), e.Name())
		byExt[filepath.Ext(e.Name())] = filepath.Join(dir, e.Name())
	}

	html, err := os.ReadFile(byExt[".html"])
	require.NoError(t, err)
	assert.Equal(t, "<p>shipped</p>", string(html))

	text, err := os.ReadFile(byExt[".txt"])
	require.NoError(t, err)
	assert.Equal(t, "shipped", string(text))

	raw, err := os.ReadFile(byExt[".json"])
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "user@example.com", meta["send_to"])
	assert.Equal(t, true, meta["has_text"])
}

func TestDevSender_NoTextPart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)
	require.NoError(t, sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Hi",
		BodyHTML: "<p>hi</p>",
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDevSender_InvalidParams(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "never")
	err := email.NewDevSender(dir).SendEmail(context.Background(), email.SendEmailParams{})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}
