package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/service"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

type exportSource interface {
	Latest(ctx context.Context) (*service.SignedArtifact, error)
	Open(token string) (*os.File, error)
}

// ExportHandler serves the stored day reports.
type ExportHandler struct {
	exports exportSource
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportSource) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Latest godoc
// @Summary Latest day export with signed download tokens
// @Tags Exports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exports/latest [get]
func (h *ExportHandler) Latest(c *gin.Context) {
	artifact, err := h.exports.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, artifact)
}

// Download godoc
// @Summary Download an exported report by signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, err := h.exports.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	name := filepath.Base(file.Name())
	c.Header("Content-Disposition", "attachment; filename="+name)
	contentType := "application/octet-stream"
	switch filepath.Ext(name) {
	case ".pdf":
		contentType = "application/pdf"
	case ".csv":
		contentType = "text/csv"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
