// Package builder assembles email documents from blocks. Each block names a
// registered component; its styles are resolved through the customization
// engine before the component renders.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/emailkit/pkg/components"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/email"
	"github.com/dmitrymomot/emailkit/pkg/export"
	"github.com/dmitrymomot/emailkit/pkg/logger"
	"github.com/dmitrymomot/emailkit/pkg/registry"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/validator"
)

// MaxDepth limits block nesting.
const MaxDepth = 16

var (
	ErrInvalidDocument     = errors.New("builder: invalid document")
	ErrChildrenNotAllowed  = errors.New("builder: component cannot contain children")
	ErrTooDeep             = errors.New("builder: blocks nested too deeply")
	ErrExportFailed        = errors.New("builder: export produced no output")
	ErrSenderNotConfigured = errors.New("builder: no email sender configured")
)

type Document struct {
	Title     string  `json:"title"`
	Preheader string  `json:"preheader,omitempty"`
	ThemeID   string  `json:"theme_id,omitempty"`
	ProfileID string  `json:"profile_id,omitempty"`
	Width     int     `json:"width,omitempty"`
	Blocks    []Block `json:"blocks"`
}

// Block is one component instance. Styles are overrides applied after every
// other layer.
type Block struct {
	Type       string         `json:"type"`
	Props      registry.Props `json:"props,omitempty"`
	Styles     style.Styles   `json:"styles,omitempty"`
	PresetID   string         `json:"preset_id,omitempty"`
	RecipeIDs  []string       `json:"recipe_ids,omitempty"`
	VariantIDs []string       `json:"variant_ids,omitempty"`
	Children   []Block        `json:"children,omitempty"`
}

func (d Document) Validate() error {
	rules := []validator.Rule{
		validator.MaxLen("title", d.Title, 200),
		validator.MaxLen("preheader", d.Preheader, 300),
		validator.Range("width", d.Width, 0, 1200),
	}
	var walk func(prefix string, blocks []Block)
	walk = func(prefix string, blocks []Block) {
		for i, b := range blocks {
			field := fmt.Sprintf("%s[%d]", prefix, i)
			rules = append(rules, validator.Required(field+".type", b.Type))
			rules = append(rules, validator.StyleRules(field+".styles", b.Styles)...)
			walk(field+".children", b.Children)
		}
	}
	walk("blocks", d.Blocks)
	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidDocument, err)
	}
	return nil
}

type Builder struct {
	engine   *customization.Engine
	exporter *export.Service
	sender   email.EmailSender
	log      *slog.Logger
}

type Option func(*Builder)

func WithExporter(s *export.Service) Option {
	return func(b *Builder) { b.exporter = s }
}

func WithSender(s email.EmailSender) Option {
	return func(b *Builder) { b.sender = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

func New(engine *customization.Engine, opts ...Option) *Builder {
	b := &Builder{engine: engine, log: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.exporter == nil {
		b.exporter = export.NewService(export.Config{})
	}
	b.log = b.log.With(logger.Component("builder"))
	return b
}

// Render returns the preview HTML of doc.
func (b *Builder) Render(ctx context.Context, doc Document) (string, error) {
	c, err := b.Component(ctx, doc)
	if err != nil {
		return "", err
	}
	return components.Render(ctx, c)
}

// Component builds the preview page of doc without rendering it.
func (b *Builder) Component(ctx context.Context, doc Document) (templ.Component, error) {
	body, err := b.body(ctx, doc)
	if err != nil {
		return nil, err
	}
	return components.Document(components.DocumentProps{
		Title:      doc.Title,
		Preheader:  doc.Preheader,
		Width:      doc.Width,
		Background: b.background(doc),
	}, body...), nil
}

func (b *Builder) body(ctx context.Context, doc Document) ([]templ.Component, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return b.blocks(ctx, doc, "blocks", doc.Blocks, 0)
}

func (b *Builder) blocks(ctx context.Context, doc Document, path string, blocks []Block, depth int) ([]templ.Component, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: %s", ErrTooDeep, path)
	}
	out := make([]templ.Component, 0, len(blocks))
	for i, blk := range blocks {
		at := fmt.Sprintf("%s[%d]", path, i)
		c, err := b.block(ctx, doc, at, blk, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (b *Builder) block(ctx context.Context, doc Document, path string, blk Block, depth int) (templ.Component, error) {
	def, err := b.engine.Registry().Get(blk.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(blk.Children) > 0 && !def.Container {
		return nil, fmt.Errorf("%w: %s (%s)", ErrChildrenNotAllowed, path, blk.Type)
	}

	req, err := b.request(doc, blk)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res, err := b.engine.ResolveStyles(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	children, err := b.blocks(ctx, doc, path+".children", blk.Children, depth+1)
	if err != nil {
		return nil, err
	}
	return b.engine.Registry().Build(blk.Type, blk.Props, res.Styles, children...)
}

// request layers the block's choices over the document profile, if any.
func (b *Builder) request(doc Document, blk Block) (customization.Request, error) {
	req := customization.Request{ComponentType: blk.Type}
	if doc.ProfileID != "" {
		var err error
		if req, err = b.engine.ProfileRequest(doc.ProfileID, blk.Type); err != nil {
			return customization.Request{}, err
		}
	}
	if doc.ThemeID != "" {
		req.ThemeID = doc.ThemeID
	}
	if blk.PresetID != "" {
		req.PresetID = blk.PresetID
	}
	req.RecipeIDs = append(slices.Clone(req.RecipeIDs), blk.RecipeIDs...)
	req.VariantIDs = append(slices.Clone(req.VariantIDs), blk.VariantIDs...)
	req.Overrides = blk.Styles
	return req, nil
}

// background reads the page colour from the document theme. Lookup
// failures fall back to the component default.
func (b *Builder) background(doc Document) string {
	themeID := doc.ThemeID
	if themeID == "" {
		themeID = b.engine.Themes().ActiveID()
	}
	v, err := b.engine.Themes().ResolveToken(themeID, "colors.surface")
	if err != nil || strings.Contains(v, "{") {
		return ""
	}
	return v
}

// Export renders the blocks of doc and converts them to email HTML. The
// export template replaces the preview page, so title and preheader are
// passed as options, defaulting to the document's own.
func (b *Builder) Export(ctx context.Context, doc Document, opts export.Options) (*export.Result, error) {
	body, err := b.body(ctx, doc)
	if err != nil {
		return nil, err
	}
	markup, err := components.Render(ctx, components.Group(body...))
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = doc.Title
	}
	if opts.Preheader == "" {
		opts.Preheader = doc.Preheader
	}
	if opts.Width == 0 {
		opts.Width = doc.Width
	}
	return b.exporter.Export(ctx, markup, opts), nil
}

// SendTest exports doc with the default options plus a plain-text part and
// sends it to one recipient. An empty subject uses the document title.
func (b *Builder) SendTest(ctx context.Context, doc Document, to, subject string) (*export.Result, error) {
	if b.sender == nil {
		return nil, ErrSenderNotConfigured
	}
	opts := export.DefaultOptions()
	opts.PlainText = true
	res, err := b.Export(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if res.HTML == "" {
		return res, ErrExportFailed
	}
	if subject == "" {
		subject = doc.Title
	}

	params := email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: res.HTML,
		BodyText: res.Text,
		Tag:      "test",
	}
	if err := params.Validate(); err != nil {
		return res, err
	}
	if err := b.sender.SendEmail(ctx, params); err != nil {
		b.log.ErrorContext(ctx, "failed to send test email", logger.Error(err))
		return res, err
	}
	b.log.InfoContext(ctx, "test email sent", slog.Int("size", res.Stats.OutputSize))
	return res, nil
}
