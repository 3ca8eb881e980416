// AngelaMos | 2026
// handler.go

package entity

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

// RegisterAdminRoutes mounts the platform-level entity CRUD. The caller
// wraps these in the super-admin gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/entities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{entityID}", h.Get)
		r.Put("/{entityID}", h.Update)
		r.Put("/{entityID}/status", h.UpdateStatus)
		r.Delete("/{entityID}", h.Delete)
	})
}

// RegisterTenantRoutes mounts the read-only view of the caller's own
// organization, available to any tenant member.
func (h *Handler) RegisterTenantRoutes(r chi.Router) {
	r.Get("/entity", h.GetOwn)
}

// RegisterTenantAdminRoutes mounts branding edits; callers wrap these
// in the entity-admin gate.
func (h *Handler) RegisterTenantAdminRoutes(r chi.Router) {
	r.Put("/entity/branding", h.UpdateBranding)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("subdomain"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToEntityResponse(entity))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entity, err := h.service.Get(r.Context(), chi.URLParam(r, "entityID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEntityResponse(entity))
}

func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	entity, err := h.service.Get(r.Context(), entityID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEntityResponse(entity))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.Update(r.Context(), chi.URLParam(r, "entityID"), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEntityResponse(entity))
}

func (h *Handler) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	var req UpdateBrandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.UpdateBranding(r.Context(), entityID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEntityResponse(entity))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.UpdateStatus(
		r.Context(),
		chi.URLParam(r, "entityID"),
		req.Status,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEntityResponse(entity))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "entityID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "entity")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListEntitiesParams{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	entities, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToEntityResponseList(entities),
		params.Page,
		params.PageSize,
		total,
	)
}
