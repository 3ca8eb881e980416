// AngelaMos | 2026
// handler.go

package template

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{templateID}", h.Get)
		r.Put("/{templateID}", h.Update)
		r.Delete("/{templateID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	template, err := h.service.Create(r.Context(), entityID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToTemplateResponse(template))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	template, err := h.service.Get(
		r.Context(),
		entityID,
		chi.URLParam(r, "templateID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "template")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTemplateResponse(template))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	var req UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	template, err := h.service.Update(
		r.Context(),
		entityID,
		chi.URLParam(r, "templateID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "template")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTemplateResponse(template))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	err := h.service.Delete(r.Context(), entityID, chi.URLParam(r, "templateID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "template")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	params := ListTemplatesParams{
		Search: r.URL.Query().Get("search"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	templates, total, err := h.service.List(r.Context(), entityID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToTemplateResponseList(templates),
		params.Page,
		params.PageSize,
		total,
	)
}
