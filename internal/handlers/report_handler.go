package handlers

import (
	"context"
	"net/http"

	authMiddleware "github.com/corplearning/backend/internal/auth/middleware"
	authService "github.com/corplearning/backend/internal/auth/service"
	"github.com/corplearning/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportService is the interface that wraps methods for company progress reports
type ReportService interface {
	// GetCompaniesSummary aggregates the assignments of every company
	//
	// "ctx" is the context for the request.
	//
	// Returns one summary per company and an error if any.
	GetCompaniesSummary(ctx context.Context) ([]models.CompanySummary, error)
	// GetCompanyReport returns the full progress report of a company
	//
	// "ctx" is the context for the request.
	// "companyID" is the ID of the company.
	//
	// Returns the report and an error if any.
	GetCompanyReport(ctx context.Context, companyID int) (*models.CompanyReport, error)
	// GetInactiveAssignments returns the inactive assignments of a company
	//
	// "ctx" is the context for the request.
	// "companyID" is the ID of the company.
	//
	// Returns a list of derived statuses and an error if any.
	GetInactiveAssignments(ctx context.Context, companyID int) ([]models.DerivedStatus, error)
}

// ReportHandler handles HTTP requests of managers and admins
type ReportHandler struct {
	BaseHandler
	service ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: newBaseHandler(logger),
		service:     svc,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router, managerMiddleware func(http.Handler) http.Handler) {
	r.Route("/reports/companies", func(r chi.Router) {
		r.Use(managerMiddleware)
		r.Get("/", h.GetCompaniesSummary)
		r.Get("/{companyId}", h.GetCompanyReport)
		r.Get("/{companyId}/inactive", h.GetInactiveAssignments)
	})
}

// GetCompaniesSummary handles GET /reports/companies
// @Summary Get companies summary
// @Description Get aggregate progress counters per company. Managers only see their own company.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CompanySummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/companies [get]
func (h *ReportHandler) GetCompaniesSummary(w http.ResponseWriter, r *http.Request) {
	principal, ok := authMiddleware.GetPrincipal(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	summaries, err := h.service.GetCompaniesSummary(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "get companies summary")
		return
	}

	if principal.Role < authService.RoleAdmin {
		visible := []models.CompanySummary{}
		for _, s := range summaries {
			if s.CompanyID == principal.CompanyID {
				visible = append(visible, s)
			}
		}
		summaries = visible
	}

	h.RespondJSON(w, http.StatusOK, summaries)
}

// GetCompanyReport handles GET /reports/companies/{companyId}
// @Summary Get company report
// @Description Get the statuses, overall counters and per-course cohorts of a company
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param companyId path int true "Company ID"
// @Success 200 {object} models.CompanyReport
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/companies/{companyId} [get]
func (h *ReportHandler) GetCompanyReport(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.authorizeCompany(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetCompanyReport(r.Context(), companyID)
	if err != nil {
		h.RespondServiceError(w, err, "get company report")
		return
	}

	h.RespondJSON(w, http.StatusOK, report)
}

// GetInactiveAssignments handles GET /reports/companies/{companyId}/inactive
// @Summary Get inactive assignments
// @Description Get the unfinished assignments of a company that passed the inactivity threshold
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param companyId path int true "Company ID"
// @Success 200 {array} models.DerivedStatus
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/companies/{companyId}/inactive [get]
func (h *ReportHandler) GetInactiveAssignments(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.authorizeCompany(w, r)
	if !ok {
		return
	}

	statuses, err := h.service.GetInactiveAssignments(r.Context(), companyID)
	if err != nil {
		h.RespondServiceError(w, err, "get inactive assignments")
		return
	}

	h.RespondJSON(w, http.StatusOK, statuses)
}

// authorizeCompany parses the company path parameter and checks that the caller may read it.
// Admins read every company, managers only the company of their token.
func (h *ReportHandler) authorizeCompany(w http.ResponseWriter, r *http.Request) (int, bool) {
	principal, ok := authMiddleware.GetPrincipal(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return 0, false
	}

	companyID, err := urlParamID(r, "companyId")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}

	if principal.Role < authService.RoleAdmin && principal.CompanyID != companyID {
		h.RespondError(w, http.StatusForbidden, "access to this company is not allowed")
		return 0, false
	}

	return companyID, true
}
