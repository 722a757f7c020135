package speech

import (
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-coach/internal/shared/server/respond"
)

const maxAudioUploadSize = 25 << 20 // 25MB

// Handler wires HTTP handlers to the speech service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches speech routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/speech/transcriptions", h.transcribe)
	rg.POST("/speech/syntheses", h.synthesize)
	rg.GET("/audio/*key", h.streamAudio)
}

func (h *Handler) transcribe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioUploadSize)

	conversationID := c.PostForm("conversationId")
	questionID := c.PostForm("questionId")
	if conversationID == "" || questionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "conversationId and questionId are required", nil)
		return
	}
	c.Set("conversationId", conversationID)
	c.Set("questionId", questionID)

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audio file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read audio file", nil)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read audio file", nil)
		return
	}

	transcription, audioPath, err := h.Svc.TranscribeAnswer(c.Request.Context(), conversationID, questionID, fileHeader.Filename, audio)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadGateway, "transcription_unavailable", "failed to transcribe audio", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"transcription": transcription,
		"audioPath":     audioPath,
	})
}

func (h *Handler) synthesize(c *gin.Context) {
	var req struct {
		Text           string `json:"text"`
		ConversationID string `json:"conversationId"`
		QuestionID     string `json:"questionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Text == "" || req.ConversationID == "" || req.QuestionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text, conversationId and questionId are required", nil)
		return
	}
	c.Set("conversationId", req.ConversationID)
	c.Set("questionId", req.QuestionID)

	audioPath, err := h.Svc.SynthesizeQuestion(c.Request.Context(), req.ConversationID, req.QuestionID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadGateway, "synthesis_unavailable", "failed to synthesize speech", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"audioPath": audioPath})
}

func (h *Handler) streamAudio(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	if key == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audio key is required", nil)
		return
	}

	body, contentType, err := h.Svc.OpenAudio(c.Request.Context(), "audio/"+key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respond.Error(c, http.StatusNotFound, "not_found", "audio not found", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid audio key", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}
