// AngelaMos | 2026
// handler.go

package registration

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

// RegisterPublicRoutes mounts the unauthenticated intake endpoint.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/registrations", h.Submit)
}

// RegisterAdminRoutes mounts the review surface; callers wrap these in
// the super-admin gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/registrations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{requestID}", h.Get)
		r.Post("/{requestID}/approve", h.Approve)
		r.Post("/{requestID}/decline", h.Decline)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	request, err := h.service.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("subdomain"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToRequestResponse(request))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListRequestsParams{
		Status: r.URL.Query().Get("status"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	requests, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToRequestResponseList(requests),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	request, err := h.service.Get(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "registration request")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(request))
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.JSONError(w, core.UnauthorizedError("authentication required"))
		return
	}

	resp, err := h.service.Approve(
		r.Context(),
		chi.URLParam(r, "requestID"),
		session.UserID,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "registration request")
		case errors.Is(err, core.ErrConflict):
			core.JSONError(w, core.ConflictError(
				"registration request has already been reviewed",
			))
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("subdomain"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.JSONError(w, core.UnauthorizedError("authentication required"))
		return
	}

	var req DeclineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	request, err := h.service.Decline(
		r.Context(),
		chi.URLParam(r, "requestID"),
		session.UserID,
		req.Reason,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "registration request")
		case errors.Is(err, core.ErrConflict):
			core.JSONError(w, core.ConflictError(
				"registration request has already been reviewed",
			))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToRequestResponse(request))
}
