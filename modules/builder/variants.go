package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/style"
	"github.com/dmitrymomot/emailkit/pkg/variant"
)

type VariantService struct {
	variants     *variant.Manager
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewVariantService(variants *variant.Manager, errorHandler handler.ErrorHandler[handler.Context]) *VariantService {
	return &VariantService{variants: variants, errorHandler: errorHandler}
}

func (s *VariantService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh, binder.Query()))
	r.Post("/", wrap(s.create, eh, binder.JSON()))
	r.Post("/apply", wrap(s.apply, eh, binder.JSON()))
	r.Get("/{id}", wrap(s.get, eh, pathBinder))
	r.Patch("/{id}", wrap(s.update, eh, pathBinder, binder.JSON()))
	r.Delete("/{id}", wrap(s.delete, eh, pathBinder))
	r.Post("/{id}/default", wrap(s.setDefault, eh, pathBinder))

	return r
}

type variantFilter struct {
	ComponentType string `query:"component_type"`
	Category      string `query:"category"`
}

func (s *VariantService) list(ctx handler.Context, req variantFilter) handler.Response {
	return list(s.variants.List(variant.Filter{
		ComponentType: req.ComponentType,
		Category:      req.Category,
	}))
}

func (s *VariantService) create(ctx handler.Context, req variant.ComponentVariant) handler.Response {
	v, err := s.variants.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return created(v)
}

func (s *VariantService) get(ctx handler.Context, req idRequest) handler.Response {
	v, err := s.variants.Get(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(v)
}

type updateVariantRequest struct {
	ID string `path:"id" json:"-"`
	variant.Patch
}

func (s *VariantService) update(ctx handler.Context, req updateVariantRequest) handler.Response {
	v, err := s.variants.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(v)
}

func (s *VariantService) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.variants.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (s *VariantService) setDefault(ctx handler.Context, req idRequest) handler.Response {
	if err := s.variants.SetDefault(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type applyVariantsRequest struct {
	ComponentType string       `json:"component_type"`
	Base          style.Styles `json:"base,omitempty"`
	VariantIDs    []string     `json:"variant_ids"`
}

// apply previews the styles a set of variants produces over base.
func (s *VariantService) apply(ctx handler.Context, req applyVariantsRequest) handler.Response {
	styles, err := s.variants.ApplyFor(req.ComponentType, req.Base, req.VariantIDs...)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(styles)
}
