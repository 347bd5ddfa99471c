package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/corplearning/backend/internal/progress"
	"github.com/corplearning/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger   *zap.Logger
	validate *validator.Validate
}

func newBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{Logger: logger, validate: validator.New()}
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error onto an HTTP status.
// Unknown errors are logged and hidden behind a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, action string) {
	status := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("failed to "+action, zap.Error(err))
		h.RespondError(w, status, "failed to "+action)
		return
	}
	h.RespondError(w, status, err.Error())
}

// decodeJSON decodes and validates a request body
func (h *BaseHandler) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid field %s", verrs[0].Field())
		}
		return err
	}
	return nil
}

// urlParamID parses a positive integer path parameter
func urlParamID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAssigned),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrEvaluationNotFound),
		errors.Is(err, services.ErrCompanyNotFound):
		return http.StatusNotFound
	case errors.Is(err, progress.ErrInvalidScore),
		errors.Is(err, services.ErrSignatureNotRequired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrLessonsIncomplete),
		errors.Is(err, services.ErrAlreadyPassed),
		errors.Is(err, services.ErrNoAttemptsLeft),
		errors.Is(err, services.ErrConcurrentAttempt),
		errors.Is(err, services.ErrCertificateNotAllowed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
