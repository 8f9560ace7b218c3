package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/recipe"
)

type RecipeService struct {
	recipes      *recipe.Manager
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewRecipeService(recipes *recipe.Manager, errorHandler handler.ErrorHandler[handler.Context]) *RecipeService {
	return &RecipeService{recipes: recipes, errorHandler: errorHandler}
}

func (s *RecipeService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh, binder.Query()))
	r.Post("/", wrap(s.create, eh, binder.JSON()))
	r.Post("/compose", wrap(s.compose, eh, binder.JSON()))
	r.Get("/{id}", wrap(s.get, eh, pathBinder))
	r.Patch("/{id}", wrap(s.update, eh, pathBinder, binder.JSON()))
	r.Delete("/{id}", wrap(s.delete, eh, pathBinder))

	return r
}

// list answers from the search index when q or tags are given.
func (s *RecipeService) list(ctx handler.Context, req searchRequest) handler.Response {
	if req.Query == "" && len(req.Tags) == 0 {
		return list(s.recipes.List())
	}
	found, err := s.recipes.Search(ctx, req.Query, req.Tags...)
	if err != nil {
		return handler.Error(err)
	}
	return list(found)
}

func (s *RecipeService) create(ctx handler.Context, req recipe.StyleRecipe) handler.Response {
	rc, err := s.recipes.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return created(rc)
}

func (s *RecipeService) get(ctx handler.Context, req idRequest) handler.Response {
	rc, err := s.recipes.Get(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(rc)
}

type updateRecipeRequest struct {
	ID string `path:"id" json:"-"`
	recipe.Patch
}

func (s *RecipeService) update(ctx handler.Context, req updateRecipeRequest) handler.Response {
	rc, err := s.recipes.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(rc)
}

func (s *RecipeService) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.recipes.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type composeRequest struct {
	RecipeIDs []string `json:"recipe_ids"`
}

func (s *RecipeService) compose(ctx handler.Context, req composeRequest) handler.Response {
	styles, err := s.recipes.Compose(req.RecipeIDs...)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(styles)
}
