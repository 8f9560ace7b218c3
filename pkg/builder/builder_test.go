package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/builder"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/email"
	"github.com/dmitrymomot/emailkit/pkg/export"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/registry"
)

type fakeSender struct {
	sent []email.SendEmailParams
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p)
	return nil
}

func welcome() builder.Document {
	return builder.Document{
		Title:     "Welcome",
		Preheader: "Thanks for joining",
		Blocks: []builder.Block{
			{Type: "heading", Props: registry.Props{"text": "Hi there", "level": 1}},
			{
				Type: "section",
				Children: []builder.Block{
					{Type: "text", Props: registry.Props{"text": "Body copy"}},
					{
						Type:       "button",
						Props:      registry.Props{"label": "Go", "url": "https://example.com"},
						VariantIDs: []string{"button-lg"},
					},
				},
			},
		},
	}
}

func TestBuilder_Render(t *testing.T) {
	t.Parallel()
	b := builder.New(customization.NewEngine())

	out, err := b.Render(context.Background(), welcome())
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Welcome</title>")
	assert.Contains(t, out, "background-color: #f3f4f6;", "page colour from theme")
	assert.Contains(t, out, "<h1 ")
	assert.Contains(t, out, "font-size: 32px", "default heading preset")
	assert.Contains(t, out, `<div data-layout="section" style="background-color: #ffffff; padding: 24px">`)
	assert.Contains(t, out, "padding: 16px 32px", "variant applied")
	assert.Contains(t, out, "background-color: #2563eb", "theme token resolved")
	assert.Contains(t, out, ">Go</a>")
}

func TestBuilder_RenderWithProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine := customization.NewEngine()
	p, err := engine.Profiles().Create(ctx, profile.CustomizationProfile{Name: "Compact", VariantIDs: []string{"button-sm"}})
	require.NoError(t, err)

	doc := builder.Document{
		ProfileID: p.ID,
		Blocks:    []builder.Block{{Type: "button", Props: registry.Props{"label": "Go"}}},
	}
	out, err := builder.New(engine).Render(ctx, doc)
	require.NoError(t, err)
	assert.Contains(t, out, "padding: 8px 16px")

	doc.Blocks[0].VariantIDs = []string{"button-lg"}
	out, err = builder.New(engine).Render(ctx, doc)
	require.NoError(t, err)
	assert.Contains(t, out, "padding: 16px 32px", "block variants apply after profile ones")
}

func TestBuilder_RenderErrors(t *testing.T) {
	t.Parallel()
	b := builder.New(customization.NewEngine())

	deep := builder.Block{Type: "text"}
	for range builder.MaxDepth + 2 {
		deep = builder.Block{Type: "section", Children: []builder.Block{deep}}
	}

	tests := []struct {
		name string
		doc  builder.Document
		err  error
	}{
		{"unknown component", builder.Document{Blocks: []builder.Block{{Type: "carousel"}}}, registry.ErrNotFound},
		{"missing type", builder.Document{Blocks: []builder.Block{{}}}, builder.ErrInvalidDocument},
		{"unsafe override", builder.Document{Blocks: []builder.Block{{Type: "text", Styles: map[string]string{"color": "red;}"}}}}, builder.ErrInvalidDocument},
		{
			"children on leaf",
			builder.Document{Blocks: []builder.Block{{Type: "text", Children: []builder.Block{{Type: "text"}}}}},
			builder.ErrChildrenNotAllowed,
		},
		{"too deep", builder.Document{Blocks: []builder.Block{deep}}, builder.ErrTooDeep},
		{"unknown profile", builder.Document{ProfileID: "nope", Blocks: []builder.Block{{Type: "text"}}}, profile.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Render(context.Background(), tt.doc)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBuilder_Export(t *testing.T) {
	t.Parallel()
	b := builder.New(customization.NewEngine())

	res, err := b.Export(context.Background(), welcome(), export.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<!DOCTYPE html PUBLIC")
	assert.Contains(t, res.HTML, "<title>Welcome</title>")
	assert.Contains(t, res.HTML, "Thanks for joining")
	assert.NotContains(t, res.HTML, "data-layout")
	assert.Positive(t, res.Stats.ConvertedElements)
}

func TestBuilder_SendTest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sends", func(t *testing.T) {
		sender := &fakeSender{}
		b := builder.New(customization.NewEngine(), builder.WithSender(sender))

		res, err := b.SendTest(ctx, welcome(), "qa@example.com", "")
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		sent := sender.sent[0]
		assert.Equal(t, "Welcome", sent.Subject)
		assert.Equal(t, "test", sent.Tag)
		assert.Equal(t, res.HTML, sent.BodyHTML)
		assert.Contains(t, sent.BodyText, "Go (https://example.com)")
	})

	t.Run("invalid recipient", func(t *testing.T) {
		sender := &fakeSender{}
		b := builder.New(customization.NewEngine(), builder.WithSender(sender))

		_, err := b.SendTest(ctx, welcome(), "not-an-email", "Hi")
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		assert.Empty(t, sender.sent)
	})

	t.Run("sender failure", func(t *testing.T) {
		boom := errors.New("smtp down")
		b := builder.New(customization.NewEngine(), builder.WithSender(&fakeSender{err: boom}))

		_, err := b.SendTest(ctx, welcome(), "qa@example.com", "Hi")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no sender", func(t *testing.T) {
		_, err := builder.New(customization.NewEngine()).SendTest(ctx, welcome(), "qa@example.com", "Hi")
		assert.ErrorIs(t, err, builder.ErrSenderNotConfigured)
	})
}
