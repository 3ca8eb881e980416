// AngelaMos | 2026
// handler.go

package supplier

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

// RegisterRoutes mounts supplier CRUD for any tenant member; the
// caller additionally wraps Review and Delete in the entity-admin gate
// via RegisterAdminRoutes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{supplierID}", h.Get)
		r.Put("/{supplierID}", h.Update)
	})
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Post("/{supplierID}/review", h.Review)
		r.Delete("/{supplierID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	var req CreateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	supplier, err := h.service.Create(r.Context(), entityID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToSupplierResponse(supplier))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	supplier, err := h.service.Get(
		r.Context(),
		entityID,
		chi.URLParam(r, "supplierID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "supplier")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSupplierResponse(supplier))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	var req UpdateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	supplier, err := h.service.Update(
		r.Context(),
		entityID,
		chi.URLParam(r, "supplierID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "supplier")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSupplierResponse(supplier))
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	var req ReviewSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	supplier, err := h.service.Review(
		r.Context(),
		entityID,
		chi.URLParam(r, "supplierID"),
		req.Status,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "supplier")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSupplierResponse(supplier))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	err := h.service.Delete(r.Context(), entityID, chi.URLParam(r, "supplierID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "supplier")
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

	params := ListSuppliersParams{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	suppliers, total, err := h.service.List(r.Context(), entityID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToSupplierResponseList(suppliers),
		params.Page,
		params.PageSize,
		total,
	)
}
