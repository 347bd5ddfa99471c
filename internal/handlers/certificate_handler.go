package handlers

import (
	"context"
	"net/http"

	"github.com/corplearning/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CertificateService is the interface that wraps methods for certificate registration
type CertificateService interface {
	// IssueCertificate registers the certificate of an assignment
	//
	// "ctx" is the context for the request.
	// "req" holds the user, the course and the optional document URL.
	//
	// Returns the recomputed assignment status and an error if any.
	IssueCertificate(ctx context.Context, req models.IssueCertificateRequest) (*models.DerivedStatus, error)
}

// CertificateHandler handles service-to-service certificate requests
type CertificateHandler struct {
	BaseHandler
	service CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(svc CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler: newBaseHandler(logger),
		service:     svc,
	}
}

// RegisterRoutes registers all certificate routes
func (h *CertificateHandler) RegisterRoutes(r chi.Router, apiKeyMiddleware func(http.Handler) http.Handler) {
	r.Route("/certificates", func(r chi.Router) {
		r.Use(apiKeyMiddleware)
		r.Post("/", h.IssueCertificate)
	})
}

// IssueCertificate handles POST /certificates
// @Summary Register a certificate
// @Description Register the certificate of an assignment that is eligible for one, optionally with the rendered document URL
// @Tags certificates
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.IssueCertificateRequest true "Certificate"
// @Success 201 {object} models.DerivedStatus
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not assigned"
// @Failure 409 {object} map[string]string "Certificate not allowed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /certificates [post]
func (h *CertificateHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	var req models.IssueCertificateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.service.IssueCertificate(r.Context(), req)
	if err != nil {
		h.RespondServiceError(w, err, "issue certificate")
		return
	}

	h.RespondJSON(w, http.StatusCreated, status)
}
