// AngelaMos | 2026
// handler.go

package bulk

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/middleware"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	service        *Service
	validator      *validator.Validate
	dispatchSecret string
}

func NewHandler(service *Service, dispatchSecret string) *Handler {
	return &Handler{
		service:        service,
		validator:      validator.New(validator.WithRequiredStructEnabled()),
		dispatchSecret: dispatchSecret,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bulk-jobs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Submit)
		r.Get("/{jobID}", h.GetStatus)
		r.Post("/{jobID}/cancel", h.Cancel)
	})
}

// RegisterWebhookRoutes mounts the dispatch boundary's callback. It is
// authenticated by signature, not session, so the caller mounts it
// outside the tenant middleware stack.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/webhooks/bulk-batch", h.ProcessBatch)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())
	session := middleware.GetSession(r.Context())
	if entityID == "" || session == nil {
		core.NotFound(w, "entity")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		core.BadRequest(w, "invalid multipart request")
		return
	}

	templateID := r.FormValue("template_id")
	if templateID == "" {
		core.BadRequest(w, "template_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only upload

	job, err := h.service.Submit(
		r.Context(),
		entityID,
		session.UserID,
		templateID,
		file,
		header.Filename,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "template")
			return
		}
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Accepted(w, ToJobResponse(job, nil))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	job, rowErrors, err := h.service.GetStatus(
		r.Context(),
		entityID,
		chi.URLParam(r, "jobID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "job")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToJobResponse(job, rowErrors))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	entityID := middleware.GetEntityID(r.Context())

	job, err := h.service.Cancel(r.Context(), entityID, chi.URLParam(r, "jobID"))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "job")
		case errors.Is(err, core.ErrConflict):
			core.JSONError(w, core.ConflictError(
				"job has already finished",
			))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToJobResponse(job, nil))
}

// ProcessBatch trusts nothing about the caller until the signature over
// the raw body checks out.
func (h *Handler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		core.BadRequest(w, "unreadable request body")
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if !core.VerifyHMAC(h.dispatchSecret, body, signature) {
		core.JSONError(w, core.InvalidSignatureError())
		return
	}

	var payload BatchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		core.BadRequest(w, "invalid batch payload")
		return
	}

	if err := h.validator.Struct(payload); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ProcessBatch(r.Context(), payload); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "job")
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

	params := ListJobsParams{
		Status: r.URL.Query().Get("status"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	jobs, total, err := h.service.List(r.Context(), entityID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToJobResponseList(jobs),
		params.Page,
		params.PageSize,
		total,
	)
}
