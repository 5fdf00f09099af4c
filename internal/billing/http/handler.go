// Package billinghttp exposes totals computation, document assembly, and
// rendering over HTTP.
package billinghttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/melitech/docengine/internal/billing"
	"github.com/melitech/docengine/internal/company"
	"github.com/melitech/docengine/internal/numbering"
	"github.com/melitech/docengine/internal/platform/httpx"
	"github.com/melitech/docengine/internal/shared"
	"github.com/melitech/docengine/report"
)

// ProfileSource supplies the company profile for rendering.
type ProfileSource interface {
	Get(ctx context.Context, tenant string) (company.Profile, error)
}

// Renderer converts printable HTML into PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Handler wires the document endpoints.
type Handler struct {
	logger    *slog.Logger
	allocator *numbering.Allocator
	profiles  ProfileSource
	renderer  Renderer
	validate  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, allocator *numbering.Allocator, profiles ProfileSource, renderer Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		allocator: allocator,
		profiles:  profiles,
		renderer:  renderer,
		validate:  validator.New(),
	}
}

// MountRoutes registers document routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/totals", h.totals)
	r.Post("/", h.create)
	r.Post("/render", h.render)
}

type lineItemRequest struct {
	Description   string          `json:"description" validate:"max=500"`
	UnitOfMeasure string          `json:"unitOfMeasure" validate:"max=20"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     int64           `json:"unitPrice"`
	TaxRatePct    decimal.Decimal `json:"taxRatePercent"`
}

func toLineItems(reqs []lineItemRequest) []billing.LineItem {
	items := make([]billing.LineItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, billing.LineItem{
			Description:   r.Description,
			UnitOfMeasure: r.UnitOfMeasure,
			Quantity:      r.Quantity,
			UnitPrice:     billing.Money(r.UnitPrice),
			TaxRatePct:    r.TaxRatePct,
		})
	}
	return items
}

type totalsRequest struct {
	Items      []lineItemRequest `json:"items" validate:"dive"`
	ApplyVAT   bool              `json:"applyVat"`
	VATPercent decimal.Decimal   `json:"vatPercent"`
}

// totals is the pure preview used by document forms while the user edits
// line items. Nothing is allocated or persisted.
func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	var req totalsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := billing.DocumentTotals(toLineItems(req.Items), req.ApplyVAT, req.VATPercent)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type createDocumentRequest struct {
	DocumentType string            `json:"documentType" validate:"required"`
	IssueDate    string            `json:"issueDate" validate:"required"`
	DueDate      string            `json:"dueDate"`
	Client       billing.Party     `json:"client"`
	Items        []lineItemRequest `json:"items" validate:"dive"`
	ApplyVAT     bool              `json:"applyVat"`
	VATPercent   decimal.Decimal   `json:"vatPercent"`
	Notes        string            `json:"notes" validate:"max=2000"`
}

// create allocates a number, computes totals, and assembles the document
// model in that mandated order. When allocation fails, no document exists;
// when assembly fails after allocation, the consumed number stays a gap.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	docType, err := numbering.ParseDocumentType(req.DocumentType)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "issueDate must be YYYY-MM-DD")
		return
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "dueDate must be YYYY-MM-DD")
			return
		}
		dueDate = &d
	}

	// Totals are validated before allocation so an obviously bad payload
	// does not burn a number.
	items := toLineItems(req.Items)
	if _, err := billing.DocumentTotals(items, req.ApplyVAT, req.VATPercent); err != nil {
		httpx.RespondError(w, err)
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	number, err := h.allocator.AllocateNext(r.Context(), tenant, docType)
	if err != nil {
		h.logger.Error("allocate for document failed",
			slog.Any("error", err),
			slog.String("tenant", tenant),
			slog.String("document_type", string(docType)),
		)
		httpx.RespondError(w, err)
		return
	}

	doc, err := billing.Assemble(billing.AssembleInput{
		Number:       number,
		DocumentType: docType,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Client:       req.Client,
		Items:        items,
		ApplyVAT:     req.ApplyVAT,
		VATPct:       req.VATPercent,
		Notes:        req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("document assembled",
		slog.String("tenant", tenant),
		slog.String("number", doc.Number.Formatted),
		slog.Int64("grand_total", int64(doc.Totals.GrandTotal)),
	)
	httpx.JSON(w, http.StatusCreated, doc)
}

type renderRequest struct {
	Document billing.Document `json:"document"`
}

// render produces the printable PDF for a finished document model. The
// stored totals are verified against a recompute first; the renderer itself
// only consumes the document and company profile.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if req.Document.Number.Formatted == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "document has no allocated number")
		return
	}
	if err := req.Document.VerifyTotals(); err != nil {
		httpx.RespondError(w, err)
		return
	}

	tenant := shared.TenantFromContext(r.Context())
	profile, err := h.profiles.Get(r.Context(), tenant)
	if err != nil {
		h.logger.Error("load company profile failed", slog.Any("error", err), slog.String("tenant", tenant))
		httpx.RespondError(w, err)
		return
	}

	html, err := report.DocumentHTML(req.Document, profile)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render document pdf failed",
			slog.Any("error", err),
			slog.String("number", req.Document.Number.Formatted),
		)
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "document renderer unavailable")
		return
	}

	httpx.PDF(w, req.Document.Number.Formatted+".pdf", pdf)
}
