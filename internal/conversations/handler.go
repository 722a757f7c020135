package conversations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-coach/internal/evaluation"
	"interview-coach/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the conversations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches conversation lifecycle routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/conversations", h.create)
	rg.GET("/conversations", h.list)
	rg.GET("/conversations/:id", h.get)
	rg.DELETE("/conversations/:id", h.delete)
	rg.POST("/conversations/:id/evaluate", h.evaluate)
	rg.POST("/conversations/:id/clarify", h.clarify)
	rg.POST("/conversations/:id/questions", h.generateQuestions)
	rg.POST("/questions/:id/attempts", h.recordAttempt)
	rg.DELETE("/attempts/:id", h.deleteAttempt)
}

type createRequest struct {
	ResumeText     string `json:"resumeText"`
	ResumeFileName string `json:"resumeFileName"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	conv, err := h.Svc.Create(c.Request.Context(), req.ResumeText, req.ResumeFileName, req.JobDescription)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.Created(c, conv)
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.OK(c, gin.H{"conversations": summaries})
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) evaluate(c *gin.Context) {
	conv, err := h.Svc.RunInitialEvaluation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.OK(c, conv)
}

type clarifyRequest struct {
	Answers []string `json:"answers"`
}

func (h *Handler) clarify(c *gin.Context) {
	var req clarifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	conv, err := h.Svc.SubmitClarifyingAnswers(c.Request.Context(), c.Param("id"), req.Answers)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.OK(c, conv)
}

func (h *Handler) generateQuestions(c *gin.Context) {
	questions, err := h.Svc.GenerateQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.Created(c, gin.H{"questions": questions})
}

type attemptRequest struct {
	Transcription string `json:"transcription"`
	AudioPath     string `json:"audioPath"`
}

func (h *Handler) recordAttempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	attempt, err := h.Svc.RecordAttempt(c.Request.Context(), c.Param("id"), req.Transcription, req.AudioPath)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respond.Created(c, gin.H{
		"attempt":    attempt,
		"feedback":   attempt.Feedback,
		"isApproved": attempt.IsApproved,
	})
}

func (h *Handler) deleteAttempt(c *gin.Context) {
	if err := h.Svc.DeleteAttempt(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "conversation not found", nil)
	case errors.Is(err, ErrQuestionNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "question not found", nil)
	case errors.Is(err, ErrAttemptNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "attempt not found", nil)
	case errors.Is(err, ErrPreconditionNotMet):
		respond.Error(c, http.StatusConflict, "precondition_not_met", err.Error(), nil)
	case errors.Is(err, evaluation.ErrUnavailable):
		respond.Error(c, http.StatusBadGateway, "evaluation_unavailable", "the evaluation backend failed; try again", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
