package handlers

import (
	"context"
	"net/http"

	authMiddleware "github.com/corplearning/backend/internal/auth/middleware"
	"github.com/corplearning/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ParticipantProgressService is the interface that wraps methods for reading participant progress
type ParticipantProgressService interface {
	// GetUserStatuses derives the status of every assignment of a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns a list of derived statuses and an error if any.
	GetUserStatuses(ctx context.Context, userID int) ([]models.DerivedStatus, error)
	// GetAssignmentStatus derives the status of one assignment
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the derived status and an error if any.
	GetAssignmentStatus(ctx context.Context, userID, courseID int) (*models.DerivedStatus, error)
}

// ParticipantActivityService is the interface that wraps methods for recording participant activity
type ParticipantActivityService interface {
	// CompleteLesson marks a lesson as completed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the recomputed assignment status and an error if any.
	CompleteLesson(ctx context.Context, userID, lessonID int) (*models.DerivedStatus, error)
	// SubmitAttempt records an evaluation attempt
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "evaluationID" is the ID of the evaluation.
	// "score" is the achieved score between 0 and 100.
	//
	// Returns the recorded attempt with the recomputed status and an error if any.
	SubmitAttempt(ctx context.Context, userID, evaluationID int, score float64) (*models.AttemptResult, error)
	// Sign captures the pending attendance signature of an assignment
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the recomputed assignment status and an error if any.
	Sign(ctx context.Context, userID, courseID int) (*models.DerivedStatus, error)
}

// ProgressHandler handles HTTP requests of participants
type ProgressHandler struct {
	BaseHandler
	progressService ParticipantProgressService
	activityService ParticipantActivityService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressSvc ParticipantProgressService, activitySvc ParticipantActivityService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     newBaseHandler(logger),
		progressService: progressSvc,
		activityService: activitySvc,
	}
}

// RegisterRoutes registers all participant routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Route("/progress", func(r chi.Router) {
			r.Get("/", h.GetMyProgress)
			r.Get("/courses/{courseId}", h.GetCourseProgress)
		})
		r.Post("/lessons/{lessonId}/complete", h.CompleteLesson)
		r.Post("/evaluations/{evaluationId}/attempts", h.SubmitAttempt)
		r.Post("/signatures", h.Sign)
	})
}

// GetMyProgress handles GET /progress
// @Summary Get my progress
// @Description Get the derived status of every course assigned to the current user
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.DerivedStatus
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress [get]
func (h *ProgressHandler) GetMyProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	statuses, err := h.progressService.GetUserStatuses(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "get progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, statuses)
}

// GetCourseProgress handles GET /progress/courses/{courseId}
// @Summary Get course progress
// @Description Get the derived status of one assignment of the current user, including module breakdown and gates
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} models.DerivedStatus
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not assigned"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /progress/courses/{courseId} [get]
func (h *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	courseID, err := urlParamID(r, "courseId")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.progressService.GetAssignmentStatus(r.Context(), userID, courseID)
	if err != nil {
		h.RespondServiceError(w, err, "get course progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, status)
}

// CompleteLesson handles POST /lessons/{lessonId}/complete
// @Summary Complete a lesson
// @Description Mark a lesson as completed and get the recomputed assignment status
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} models.DerivedStatus
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lesson not found or not assigned"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{lessonId}/complete [post]
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	lessonID, err := urlParamID(r, "lessonId")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.activityService.CompleteLesson(r.Context(), userID, lessonID)
	if err != nil {
		h.RespondServiceError(w, err, "complete lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, status)
}

// SubmitAttempt handles POST /evaluations/{evaluationId}/attempts
// @Summary Submit an evaluation attempt
// @Description Record a scored attempt at the active evaluation of a course
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param evaluationId path int true "Evaluation ID"
// @Param request body models.SubmitAttemptRequest true "Attempt score"
// @Success 201 {object} models.AttemptResult
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Evaluation not found or not assigned"
// @Failure 409 {object} map[string]string "Attempt not allowed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /evaluations/{evaluationId}/attempts [post]
func (h *ProgressHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}
	evaluationID, err := urlParamID(r, "evaluationId")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SubmitAttemptRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.activityService.SubmitAttempt(r.Context(), userID, evaluationID, req.Score)
	if err != nil {
		h.RespondServiceError(w, err, "submit attempt")
		return
	}

	h.RespondJSON(w, http.StatusCreated, result)
}

// Sign handles POST /signatures
// @Summary Sign attendance
// @Description Capture the attendance signature an assignment is waiting for
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SignRequest true "Course to sign"
// @Success 200 {object} models.DerivedStatus
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not assigned"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /signatures [post]
func (h *ProgressHandler) Sign(w http.ResponseWriter, r *http.Request) {
	userID, ok := authMiddleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return
	}

	var req models.SignRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.activityService.Sign(r.Context(), userID, req.CourseID)
	if err != nil {
		h.RespondServiceError(w, err, "sign attendance")
		return
	}

	h.RespondJSON(w, http.StatusOK, status)
}
