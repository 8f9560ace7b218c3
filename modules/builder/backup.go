package builder

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/storage"
)

// BackupService exports and imports whole customization bundles. The
// optional adapter enables server-side snapshots under a key (typically the
// S3 backend).
type BackupService struct {
	engine       *customization.Engine
	adapter      storage.Adapter
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewBackupService(engine *customization.Engine, adapter storage.Adapter, errorHandler handler.ErrorHandler[handler.Context]) *BackupService {
	return &BackupService{engine: engine, adapter: adapter, errorHandler: errorHandler}
}

func (s *BackupService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.download, eh, binder.Query()))
	r.Post("/", wrap(s.upload, eh, binder.Query()))
	r.Post("/store", wrap(s.store, eh, binder.JSON()))
	r.Post("/restore", wrap(s.restore, eh, binder.JSON()))

	return r
}

type downloadRequest struct {
	Format string `query:"format"`
}

func (s *BackupService) download(ctx handler.Context, req downloadRequest) handler.Response {
	format, err := customization.ParseFormat(req.Format)
	if err != nil {
		return handler.Error(err)
	}
	data, err := s.engine.ExportBundle(format)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Blob(data, format.ContentType(), handler.AsAttachment("emailkit-backup."+string(format)))
}

type uploadRequest struct {
	Format    string `query:"format"`
	Overwrite bool   `query:"overwrite"`
	Activate  bool   `query:"activate"`
}

// upload imports the raw request body. Without ?format the Content-Type
// decides between JSON and YAML.
func (s *BackupService) upload(ctx handler.Context, req uploadRequest) handler.Response {
	r := ctx.Request()
	formatName := req.Format
	if formatName == "" && strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		formatName = string(customization.FormatYAML)
	}
	format, err := customization.ParseFormat(formatName)
	if err != nil {
		return handler.Error(err)
	}

	if r.Body == nil {
		return handler.Error(fmt.Errorf("%w: empty body", customization.ErrInvalidBundle))
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, binder.DefaultMaxJSONSize+1))
	if err != nil {
		return handler.Error(err)
	}
	if len(data) > binder.DefaultMaxJSONSize {
		return handler.Error(binder.ErrBodyTooLarge)
	}

	res, err := s.engine.ImportBundle(ctx, data, format, customization.ImportOptions{
		Overwrite: req.Overwrite,
		Activate:  req.Activate,
	})
	return importResponse(res, err)
}

type storeRequest struct {
	Key string `json:"key"`
}

func (s *BackupService) store(ctx handler.Context, req storeRequest) handler.Response {
	if s.adapter == nil {
		return handler.Error(handler.ErrServiceUnavailable)
	}
	if err := s.engine.Backup(ctx, s.adapter, req.Key); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]string{"key": req.Key}, handler.WithJSONStatus(http.StatusCreated))
}

type restoreRequest struct {
	Key       string `json:"key"`
	Overwrite bool   `json:"overwrite"`
	Activate  bool   `json:"activate"`
}

func (s *BackupService) restore(ctx handler.Context, req restoreRequest) handler.Response {
	if s.adapter == nil {
		return handler.Error(handler.ErrServiceUnavailable)
	}
	res, err := s.engine.Restore(ctx, s.adapter, req.Key, customization.ImportOptions{
		Overwrite: req.Overwrite,
		Activate:  req.Activate,
	})
	return importResponse(res, err)
}

// importResponse reports partial imports as 200 with the per-kind failures
// under meta.errors. Only an import that stored nothing is an error.
func importResponse(res customization.ImportResult, err error) handler.Response {
	if err == nil {
		return handler.JSON(res)
	}
	if res.Total() == 0 {
		return handler.Error(err)
	}
	var msgs []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
	} else {
		msgs = append(msgs, err.Error())
	}
	return handler.JSON(res, handler.WithJSONMeta(map[string]any{"errors": msgs}))
}
