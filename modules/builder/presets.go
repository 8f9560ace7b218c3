package builder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/emailkit/handler"
	"github.com/dmitrymomot/emailkit/pkg/binder"
	"github.com/dmitrymomot/emailkit/pkg/preset"
)

type PresetService struct {
	presets      *preset.Manager
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewPresetService(presets *preset.Manager, errorHandler handler.ErrorHandler[handler.Context]) *PresetService {
	return &PresetService{presets: presets, errorHandler: errorHandler}
}

func (s *PresetService) Handle() http.Handler {
	r := chi.NewRouter()
	eh := s.errorHandler

	r.Get("/", wrap(s.list, eh, binder.Query()))
	r.Post("/", wrap(s.create, eh, binder.JSON()))
	r.Get("/{id}", wrap(s.get, eh, pathBinder))
	r.Patch("/{id}", wrap(s.update, eh, pathBinder, binder.JSON()))
	r.Delete("/{id}", wrap(s.delete, eh, pathBinder))
	r.Post("/{id}/default", wrap(s.setDefault, eh, pathBinder))
	r.Post("/{id}/duplicate", wrap(s.duplicate, eh, pathBinder, binder.JSON()))

	return r
}

type presetFilter struct {
	ComponentType string   `query:"component_type"`
	Query         string   `query:"q"`
	Tags          []string `query:"tags"`
}

func (s *PresetService) list(ctx handler.Context, req presetFilter) handler.Response {
	var (
		items []preset.ComponentPreset
		err   error
	)
	switch {
	case req.Query != "" || len(req.Tags) > 0:
		items, err = s.presets.Search(ctx, req.Query, req.Tags...)
		if err != nil {
			return handler.Error(err)
		}
	case req.ComponentType != "":
		items = s.presets.ByComponentType(req.ComponentType)
	default:
		items = s.presets.List()
	}

	if req.ComponentType != "" {
		filtered := items[:0]
		for _, p := range items {
			if p.ComponentType == req.ComponentType {
				filtered = append(filtered, p)
			}
		}
		items = filtered
	}
	return list(items)
}

func (s *PresetService) create(ctx handler.Context, req preset.ComponentPreset) handler.Response {
	p, err := s.presets.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return created(p)
}

func (s *PresetService) get(ctx handler.Context, req idRequest) handler.Response {
	p, err := s.presets.Get(req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}

type updatePresetRequest struct {
	ID string `path:"id" json:"-"`
	preset.Patch
}

func (s *PresetService) update(ctx handler.Context, req updatePresetRequest) handler.Response {
	p, err := s.presets.Update(ctx, req.ID, req.Patch)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}

func (s *PresetService) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := s.presets.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

// setDefault makes the preset the one applied when a request names none.
func (s *PresetService) setDefault(ctx handler.Context, req idRequest) handler.Response {
	if err := s.presets.SetDefault(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (s *PresetService) duplicate(ctx handler.Context, req duplicateRequest) handler.Response {
	p, err := s.presets.Duplicate(ctx, req.ID, req.Name)
	if err != nil {
		return handler.Error(err)
	}
	return created(p)
}
