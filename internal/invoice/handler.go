// AngelaMos | 2026
// handler.go

package invoice

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
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{invoiceID}", h.Get)
		r.Put("/{invoiceID}/status", h.UpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	invoice, err := h.service.Create(r.Context(), entityID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("number"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToInvoiceResponse(invoice))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	invoice, err := h.service.Get(
		r.Context(),
		entityID,
		chi.URLParam(r, "invoiceID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToInvoiceResponse(invoice))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	invoice, err := h.service.UpdateStatus(
		r.Context(),
		entityID,
		chi.URLParam(r, "invoiceID"),
		req.Status,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "invoice")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToInvoiceResponse(invoice))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	counts, err := h.service.CountByStatus(r.Context(), entityID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, counts)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	if entityID == "" {
		core.NotFound(w, "entity")
		return
	}

	params := ListInvoicesParams{
		Status:     r.URL.Query().Get("status"),
		SupplierID: r.URL.Query().Get("supplier_id"),
		Search:     r.URL.Query().Get("search"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	invoices, total, err := h.service.List(r.Context(), entityID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToInvoiceResponseList(invoices),
		params.Page,
		params.PageSize,
		total,
	)
}
