package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/customization"
	"github.com/dmitrymomot/emailkit/pkg/profile"
	"github.com/dmitrymomot/emailkit/pkg/style"
)

// ProfileService needs the engine rather than the profile manager alone:
// activation also switches the theme and resolution reads every manager.
type ProfileService struct {
	engine       *customization.Engine
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewProfileService(engine *customization.Engine, errorHandler handler.ErrorHandler[handler.Context]) *ProfileService {
	return &ProfileService{engine: engine, errorHandler: errorHandler}
}

func (s *ProfileService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh))
	r.Post("/", wrap(s.create, eh, binder.JSON()))
	r.Get("/active", wrap(s.active, eh))
	r.Get("/{id}", wrap(s.get, eh, pathBinder))
	r.Patch("/{id}", wrap(s.update, eh, pathBinder, binder.JSON()))
	r.Delete("/{id}", wrap(s.delete, eh, pathBinder))
	r.Post("/{id}/activate", wrap(s.activate, eh, pathBinder))
	r.Post("/{id}/resolve", wrap(s.resolve, eh, pathBinder, binder.JSON()))

	return r
}

func (s *ProfileService) list(ctx handler.Context, _ struct{}) handler.Response {
	return list(s.engine.Profiles().List())
}

func (s *ProfileService) create(ctx handler.Context, req profile.CustomizationProfile) handler.Response {
	p, err := s.engine.Profiles().Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return created(p)
}

func (s *ProfileService) active(ctx handler.Context, _ struct{}) handler.Response {
	p, err := s.engine.Profiles().Active()
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}

func (s *ProfileService) get(ctx handler.Context, req idRequest) handler.Response {
	p, err := s.engine.Profiles().Get(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}

type updateProfileRequest struct {
	ID string `path:"id" json:"-"`
	profile.Patch
}

func (s *ProfileService) update(ctx handler.Context, req updateProfileRequest) handler.Response {
	p, err := s.engine.Profiles().Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}

func (s *ProfileService) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.engine.Profiles().Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (s *ProfileService) activate(ctx handler.Context, req idRequest) handler.Response {
	if err := s.engine.ActivateProfile(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type resolveProfileRequest struct {
	ID            string       `path:"id" json:"-"`
	ComponentType string       `json:"component_type"`
	Overrides     style.Styles `json:"overrides,omitempty"`
}

func (s *ProfileService) resolve(ctx handler.Context, req resolveProfileRequest) handler.Response {
	res, err := s.engine.ResolveForProfile(ctx, req.ID, req.ComponentType, req.Overrides)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}
