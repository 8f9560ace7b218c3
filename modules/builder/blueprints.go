package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/blueprint"
)

type BlueprintService struct {
	blueprints   *blueprint.Manager
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewBlueprintService(blueprints *blueprint.Manager, errorHandler handler.ErrorHandler[handler.Context]) *BlueprintService {
	return &BlueprintService{blueprints: blueprints, errorHandler: errorHandler}
}

func (s *BlueprintService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh, binder.Query()))
	r.Post("/", wrap(s.create, eh, binder.JSON()))
	r.Get("/{id}", wrap(s.get, eh, pathBinder))
	r.Patch("/{id}", wrap(s.update, eh, pathBinder, binder.JSON()))
	r.Delete("/{id}", wrap(s.delete, eh, pathBinder))
	r.Post("/{id}/render", wrap(s.render, eh, pathBinder, binder.Query(), binder.JSON()))
	r.Get("/{id}/issues", wrap(s.issues, eh, pathBinder))

	return r
}

func (s *BlueprintService) list(ctx handler.Context, req searchRequest) handler.Response {
	if req.Query == "" && len(req.Tags) == 0 {
		return list(s.blueprints.List())
	}
	found, err := s.blueprints.Search(ctx, req.Query, req.Tags...)
	if err != nil {
		return handler.Error(err)
	}
	return list(found)
}

func (s *BlueprintService) create(ctx handler.Context, req blueprint.TemplateBlueprint) handler.Response {
	b, err := s.blueprints.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return created(b)
}

func (s *BlueprintService) get(ctx handler.Context, req idRequest) handler.Response {
	b, err := s.blueprints.Get(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(b)
}

type updateBlueprintRequest struct {
	ID string `path:"id" json:"-"`
	blueprint.Patch
}

func (s *BlueprintService) update(ctx handler.Context, req updateBlueprintRequest) handler.Response {
	b, err := s.blueprints.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(b)
}

func (s *BlueprintService) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.blueprints.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type renderBlueprintRequest struct {
	ID     string            `path:"id" json:"-"`
	Format string            `query:"format" json:"-"`
	Values map[string]string `json:"values"`
}

// render fills the slots. ?format=html returns the markup itself.
func (s *BlueprintService) render(ctx handler.Context, req renderBlueprintRequest) handler.Response {
	markup, err := s.blueprints.Render(req.ID, req.Values)
	if err != nil {
		return handler.Error(err)
	}
	if req.Format == "html" {
		return handler.HTML(markup)
	}
	return handler.JSON(map[string]string{"html": markup})
}

func (s *BlueprintService) issues(ctx handler.Context, req idRequest) handler.Response {
	issues, err := s.blueprints.Validate(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return list(issues)
}
