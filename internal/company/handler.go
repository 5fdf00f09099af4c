package company

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/melitech/docengine/internal/platform/httpx"
	"github.com/melitech/docengine/internal/shared"
)

// ProfileStore abstracts profile persistence for the handler.
type ProfileStore interface {
	Get(ctx context.Context, tenant string) (Profile, error)
	Upsert(ctx context.Context, tenant string, p Profile) (Profile, error)
}

// Handler wires the company profile settings endpoints.
type Handler struct {
	logger   *slog.Logger
	store    ProfileStore
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, store ProfileStore) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, store: store, validate: validator.New()}
}

// MountRoutes registers company profile routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.getProfile)
	r.Put("/", h.updateProfile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	tenant := shared.TenantFromContext(r.Context())
	profile, err := h.store.Get(r.Context(), tenant)
	if err != nil {
		h.logger.Error("get company profile failed", slog.Any("error", err), slog.String("tenant", tenant))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name    string `json:"name" validate:"max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Website string `json:"website" validate:"max=200"`
	LogoRef string `json:"logoRef" validate:"max=500"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	profile, err := h.store.Upsert(r.Context(), tenant, Profile{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
		LogoRef: req.LogoRef,
	})
	if err != nil {
		h.logger.Error("update company profile failed", slog.Any("error", err), slog.String("tenant", tenant))
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("company profile updated", slog.String("tenant", tenant))
	httpx.JSON(w, http.StatusOK, profile)
}
