package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/theme"
)

type ThemeService struct {
	themes       *theme.Manager
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewThemeService(themes *theme.Manager, errorHandler handler.ErrorHandler[handler.Context]) *ThemeService {
	return &ThemeService{themes: themes, errorHandler: errorHandler}
}

func (s *ThemeService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh))
	r.Post("/", wrap(s.create, eh, binder.JSON()))
	r.Get("/active", wrap(s.active, eh))
	r.Get("/{id}", wrap(s.get, eh, pathBinder))
	r.Patch("/{id}", wrap(s.update, eh, pathBinder, binder.JSON()))
	r.Delete("/{id}", wrap(s.delete, eh, pathBinder))
	r.Post("/{id}/duplicate", wrap(s.duplicate, eh, pathBinder, binder.JSON()))
	r.Post("/{id}/activate", wrap(s.activate, eh, pathBinder))
	r.Get("/{id}/resolved", wrap(s.resolved, eh, pathBinder))
	r.Get("/{id}/token", wrap(s.token, eh, pathBinder, binder.Query()))

	return r
}

func (s *ThemeService) list(ctx handler.Context, _ struct{}) handler.Response {
	return list(s.themes.List())
}

func (s *ThemeService) create(ctx handler.Context, req theme.Theme) handler.Response {
	t, err := s.themes.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return created(t)
}

func (s *ThemeService) active(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(s.themes.Active())
}

func (s *ThemeService) get(ctx handler.Context, req idRequest) handler.Response {
	t, err := s.themes.Get(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(t)
}

type updateThemeRequest struct {
	ID string `path:"id" json:"-"`
	theme.Patch
}

func (s *ThemeService) update(ctx handler.Context, req updateThemeRequest) handler.Response {
	t, err := s.themes.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(t)
}

func (s *ThemeService) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.themes.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (s *ThemeService) duplicate(ctx handler.Context, req duplicateRequest) handler.Response {
	t, err := s.themes.Duplicate(ctx, req.ID, req.Name)
	if err != nil {
		return handler.Error(err)
	}
	return created(t)
}

func (s *ThemeService) activate(ctx handler.Context, req idRequest) handler.Response {
	if err := s.themes.SetActive(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

// resolved returns the theme merged with its whole extends chain.
func (s *ThemeService) resolved(ctx handler.Context, req idRequest) handler.Response {
	t, err := s.themes.Resolve(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(t)
}

type tokenRequest struct {
	ID   string `path:"id"`
	Path string `query:"path"`
}

func (s *ThemeService) token(ctx handler.Context, req tokenRequest) handler.Response {
	v, err := s.themes.ResolveToken(req.ID, req.Path)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]string{"path": req.Path, "value": v})
}
