package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions selects the services to mount. Nil services are skipped.
type RouterOptions struct {
	Themes     Mountable
	Variants   Mountable
	Recipes    Mountable
	Blueprints Mountable
	Presets    Mountable
	Profiles   Mountable
	Components Mountable
	Styles     Mountable
	Export     Mountable
	Documents  Mountable
	Backup     Mountable
}

// Router mounts the configured services:
//
//	/themes /variants /recipes /blueprints /presets /profiles
//	/components /styles /export /documents /backup
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	mounts := []struct {
		pattern string
		svc     Mountable
	}{
		{"/themes", opts.Themes},
		{"/variants", opts.Variants},
		{"/recipes", opts.Recipes},
		{"/blueprints", opts.Blueprints},
		{"/presets", opts.Presets},
		{"/profiles", opts.Profiles},
		{"/components", opts.Components},
		{"/styles", opts.Styles},
		{"/export", opts.Export},
		{"/documents", opts.Documents},
		{"/backup", opts.Backup},
	}
	for _, m := range mounts {
		if m.svc != nil {
			r.Mount(m.pattern, m.svc.Handle())
		}
	}

	return r
}

// Request types shared by the resource services.
type (
	idRequest struct {
		ID string `path:"id"`
	}

	searchRequest struct {
		Query string   `query:"q"`
		Tags  []string `query:"tags"`
	}

	duplicateRequest struct {
		ID   string `path:"id" json:"-"`
		Name string `json:"name"`
	}
)

var pathBinder = binder.Path(chi.URLParam)

// wrap binds R with binders and routes failures to eh.
func wrap[R any](h handler.HandlerFunc[handler.Context, R], eh handler.ErrorHandler[handler.Context], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](eh),
	)
}

func created(v any) handler.Response {
	return handler.JSON(v, handler.WithJSONStatus(http.StatusCreated))
}

func list[T any](items []T) handler.Response {
	if items == nil {
		items = []T{}
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{"total": len(items)}))
}
