package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/registry"
)

// ComponentService lists the component registry.
type ComponentService struct {
	registry     *registry.Registry
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewComponentService(reg *registry.Registry, errorHandler handler.ErrorHandler[handler.Context]) *ComponentService {
	return &ComponentService{registry: reg, errorHandler: errorHandler}
}

func (s *ComponentService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh, binder.Query()))
	r.Get("/categories", wrap(s.categories, eh))
	r.Get("/{type}", wrap(s.get, eh, pathBinder))

	return r
}

type componentFilter struct {
	Category string `query:"category"`
}

func (s *ComponentService) list(ctx handler.Context, req componentFilter) handler.Response {
	if req.Category != "" {
		return list(s.registry.ByCategory(req.Category))
	}
	return list(s.registry.List())
}

func (s *ComponentService) categories(ctx handler.Context, _ struct{}) handler.Response {
	return list(s.registry.Categories())
}

type componentRequest struct {
	Type string `path:"type"`
}

func (s *ComponentService) get(ctx handler.Context, req componentRequest) handler.Response {
	def, err := s.registry.Get(req.Type)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(def)
}

// StyleService resolves the final styles of a component across theme,
// preset, recipes, variants and overrides.
type StyleService struct {
	engine       *customization.Engine
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewStyleService(engine *customization.Engine, errorHandler handler.ErrorHandler[handler.Context]) *StyleService {
	return &StyleService{engine: engine, errorHandler: errorHandler}
}

func (s *StyleService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/resolve", wrap(s.resolve, s.errorHandler, binder.JSON()))
	return r
}

func (s *StyleService) resolve(ctx handler.Context, req customization.Request) handler.Response {
	res, err := s.engine.ResolveStyles(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}
