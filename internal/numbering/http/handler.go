// Package numberinghttp exposes the numbering engine's inbound procedures.
package numberinghttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/melitech/docengine/internal/numbering"
	"github.com/melitech/docengine/internal/platform/httpx"
	"github.com/melitech/docengine/internal/shared"
)

// Handler wires HTTP endpoints for document number settings and allocation.
type Handler struct {
	logger    *slog.Logger
	allocator *numbering.Allocator
	store     numbering.Store
	validate  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, allocator *numbering.Allocator, store numbering.Store) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		allocator: allocator,
		store:     store,
		validate:  validator.New(),
	}
}

// MountRoutes registers numbering routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{type}", func(r chi.Router) {
		r.Post("/next", h.next)
		r.Get("/", h.getFormat)
		r.Get("/preview", h.preview)
		r.Put("/", h.updateFormat)
		r.Post("/reset", h.resetCounter)
	})
}

func (h *Handler) docType(r *http.Request) (numbering.DocumentType, error) {
	return numbering.ParseDocumentType(chi.URLParam(r, "type"))
}

// next allocates and returns the next formatted number. Side-effecting by
// design: the counter advances even if the caller abandons the document.
func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	docType, err := h.docType(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	num, err := h.allocator.AllocateNext(r.Context(), tenant, docType)
	if err != nil {
		h.logger.Error("allocate document number failed",
			slog.Any("error", err),
			slog.String("tenant", tenant),
			slog.String("document_type", string(docType)),
		)
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"documentNumber": num.Formatted})
}

type formatResponse struct {
	numbering.FormatConfig
	SuggestedPrefix string `json:"suggestedPrefix,omitempty"`
}

func (h *Handler) getFormat(w http.ResponseWriter, r *http.Request) {
	docType, err := h.docType(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	cfg, err := h.store.Get(r.Context(), tenant, docType)
	if err != nil {
		h.logger.Error("get number format failed", slog.Any("error", err), slog.String("tenant", tenant))
		httpx.RespondError(w, err)
		return
	}

	resp := formatResponse{FormatConfig: cfg}
	if cfg.Prefix == "" {
		resp.SuggestedPrefix = numbering.DefaultPrefix(docType)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	docType, err := h.docType(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	cfg, err := h.store.Get(r.Context(), tenant, docType)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rendered, err := numbering.Preview(cfg)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"preview": rendered})
}

type updateFormatRequest struct {
	Prefix    *string `json:"prefix" validate:"omitempty,max=10"`
	Separator *string `json:"separator"`
	Padding   *int    `json:"padding" validate:"omitempty,min=2,max=8"`
}

func (h *Handler) updateFormat(w http.ResponseWriter, r *http.Request) {
	docType, err := h.docType(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var req updateFormatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if req.Separator != nil && !numbering.ValidSeparator(*req.Separator) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
			"separator must be one of - _ . / or empty")
		return
	}
	if req.Padding != nil && (*req.Padding < numbering.MinPadding || *req.Padding > numbering.MaxPadding) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed",
			"padding must be between 2 and 8 digits")
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	cfg, err := h.store.UpdateFormat(r.Context(), tenant, docType, numbering.FormatUpdate{
		Prefix:    req.Prefix,
		Separator: req.Separator,
		Padding:   req.Padding,
	})
	if err != nil {
		h.logger.Error("update number format failed", slog.Any("error", err), slog.String("tenant", tenant))
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("number format updated",
		slog.String("tenant", tenant),
		slog.String("document_type", string(docType)),
	)
	httpx.JSON(w, http.StatusOK, cfg)
}

type resetCounterRequest struct {
	StartNumber int64 `json:"startNumber" validate:"min=1"`
}

func (h *Handler) resetCounter(w http.ResponseWriter, r *http.Request) {
	docType, err := h.docType(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	req := resetCounterRequest{StartNumber: 1}
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	cfg, err := h.store.ResetCounter(r.Context(), tenant, docType, req.StartNumber)
	if err != nil {
		h.logger.Error("reset counter failed", slog.Any("error", err), slog.String("tenant", tenant))
		httpx.RespondError(w, err)
		return
	}

	// An explicit operator action that can move the counter backward; worth
	// a durable trace in the logs.
	h.logger.Warn("document counter reset",
		slog.String("tenant", tenant),
		slog.String("document_type", string(docType)),
		slog.Int64("start_number", req.StartNumber),
	)
	httpx.JSON(w, http.StatusOK, cfg)
}
