package uploads

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-coach/internal/extract"
	"interview-coach/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler parses uploaded resume documents into plain text.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.parse)
}

func (h *Handler) parse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	text, err := extract.ExtractText(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "Only PDF and DOCX files are supported", nil)
		default:
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "failed to extract document text", nil)
		}
		return
	}
	if strings.TrimSpace(text) == "" {
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "document contains no extractable text", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"text":     text,
		"fileName": fileHeader.Filename,
	})
}
