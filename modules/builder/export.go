package builder

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	docbuilder "github.com/dmitrymomot/emailkit/pkg/builder"
	"github.com/dmitrymomot/emailkit/pkg/export"
)

// WarningsHeader carries the warning count when an export is returned as
// raw HTML instead of the JSON result.
const WarningsHeader = "X-Export-Warnings"

// ExportService converts arbitrary HTML into email-safe HTML.
type ExportService struct {
	exporter     *export.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewExportService(exporter *export.Service, errorHandler handler.ErrorHandler[handler.Context]) *ExportService {
	return &ExportService{exporter: exporter, errorHandler: errorHandler}
}

func (s *ExportService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/", wrap(s.export, s.errorHandler, binder.Query(), binder.JSON()))
	return r
}

type exportRequest struct {
	Format  string          `query:"format" json:"-"`
	HTML    string          `json:"html"`
	Options *export.Options `json:"options,omitempty"`
}

// optionsOrDefault returns DefaultOptions when the client sent none.
func optionsOrDefault(opts *export.Options) export.Options {
	if opts == nil {
		return export.DefaultOptions()
	}
	return *opts
}

func (s *ExportService) export(ctx handler.Context, req exportRequest) handler.Response {
	res := s.exporter.Export(ctx, req.HTML, optionsOrDefault(req.Options))
	return exportResponse(res, req.Format)
}

// exportResponse renders res as JSON, or as the bare document for
// ?format=html. A failed export is always JSON so its warnings stay visible.
func exportResponse(res *export.Result, format string) handler.Response {
	if format == "html" && res.HTML != "" {
		return handler.HTML(res.HTML, handler.WithHeader(WarningsHeader, strconv.Itoa(len(res.Warnings))))
	}
	return handler.JSON(res)
}

// DocumentService builds documents from component blocks.
type DocumentService struct {
	builder      *docbuilder.Builder
	errorHandler handler.ErrorHandler[handler.Context]
	sendLimits   []func(http.Handler) http.Handler
}

type DocumentOption func(*DocumentService)

// WithSendMiddleware guards the send endpoint, typically with a rate limiter.
func WithSendMiddleware(mws ...func(http.Handler) http.Handler) DocumentOption {
	return func(s *DocumentService) {
		s.sendLimits = append(s.sendLimits, mws...)
	}
}

func NewDocumentService(b *docbuilder.Builder, errorHandler handler.ErrorHandler[handler.Context], opts ...DocumentOption) *DocumentService {
	s := &DocumentService{builder: b, errorHandler: errorHandler}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Post("/preview", wrap(s.preview, eh, binder.JSON()))
	r.Post("/export", wrap(s.export, eh, binder.Query(), binder.JSON()))
	r.With(s.sendLimits...).Post("/send", wrap(s.send, eh, binder.JSON()))

	return r
}

// preview renders the browser preview page, not the email export.
func (s *DocumentService) preview(ctx handler.Context, req docbuilder.Document) handler.Response {
	c, err := s.builder.Component(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Templ(c)
}

type exportDocumentRequest struct {
	Format   string              `query:"format" json:"-"`
	Document docbuilder.Document `json:"document"`
	Options  *export.Options     `json:"options,omitempty"`
}

func (s *DocumentService) export(ctx handler.Context, req exportDocumentRequest) handler.Response {
	res, err := s.builder.Export(ctx, req.Document, optionsOrDefault(req.Options))
	if err != nil {
		return handler.Error(err)
	}
	return exportResponse(res, req.Format)
}

type sendDocumentRequest struct {
	Document docbuilder.Document `json:"document"`
	To       string              `json:"to"`
	Subject  string              `json:"subject,omitempty"`
}

type sendDocumentResponse struct {
	SentTo   string           `json:"sent_to"`
	Warnings []export.Warning `json:"warnings"`
	Stats    export.Stats     `json:"stats"`
}

func (s *DocumentService) send(ctx handler.Context, req sendDocumentRequest) handler.Response {
	res, err := s.builder.SendTest(ctx, req.Document, req.To, req.Subject)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(sendDocumentResponse{
		SentTo:   req.To,
		Warnings: res.Warnings,
		Stats:    res.Stats,
	}, handler.WithJSONStatus(http.StatusAccepted))
}
