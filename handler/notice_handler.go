package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/logging"
	"github.com/Aashish23092/interest-notice-validator/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NoticeValidator is the pipeline the handler drives.
type NoticeValidator interface {
	ValidateDocument(ctx context.Context, fileName string, data []byte, password string) (*dto.NoticeValidationResponse, error)
	ValidateText(ctx context.Context, text, source string) (*dto.NoticeValidationResponse, error)
	ValidateFields(ctx context.Context, fields map[string]string) (*dto.NoticeValidationResponse, error)
}

type NoticeHandler struct {
	noticeService NoticeValidator
	maxFileSize   int64
	logger        *zap.Logger
}

func NewNoticeHandler(noticeService NoticeValidator, maxFileSize int64, logger *zap.Logger) *NoticeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeHandler{
		noticeService: noticeService,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// ValidateNotice handles POST /notices/validate with a multipart "file".
// A failed verdict is still a 200; only pipeline failures are errors.
func (h *NoticeHandler) ValidateNotice(c *gin.Context) {
	response, ok := h.validateUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response)
}

// Report handles POST /notices/report and returns the verdict as an XLSX workbook.
func (h *NoticeHandler) Report(c *gin.Context) {
	response, ok := h.validateUpload(c)
	if !ok {
		return
	}

	data, err := service.BuildVerdictWorkbook(response)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "REPORT_FAILED", "Failed to build report", err)
		return
	}

	name := strings.TrimSuffix(response.Document.FileName, ".pdf")
	name = strings.TrimSuffix(name, ".txt")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-verdict.xlsx"`, name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ValidateText handles POST /notices/validate-text.
func (h *NoticeHandler) ValidateText(c *gin.Context) {
	var req dto.NoticeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	response, err := h.noticeService.ValidateText(c.Request.Context(), req.Text, req.Source)
	if err != nil {
		h.sendPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ValidateFields handles POST /notices/validate-fields with a JSON field map.
func (h *NoticeHandler) ValidateFields(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxFileSize))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body", err)
		return
	}

	fields, err := service.DecodeFieldMap(body)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	response, err := h.noticeService.ValidateFields(c.Request.Context(), fields)
	if err != nil {
		h.sendPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *NoticeHandler) validateUpload(c *gin.Context) (*dto.NoticeValidationResponse, bool) {
	var req dto.NoticeUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "A notice file is required", err)
		return nil, false
	}

	data, err := readUpload(req.File, h.maxFileSize)
	if err != nil {
		code := "INVALID_UPLOAD"
		if errors.Is(err, dto.ErrUnsupportedDocument) {
			code = "UNSUPPORTED_DOCUMENT"
		}
		h.sendError(c, http.StatusBadRequest, code, err.Error(), err)
		return nil, false
	}

	response, err := h.noticeService.ValidateDocument(c.Request.Context(), req.File.Filename, data, req.Password)
	if err != nil {
		h.sendPipelineError(c, err)
		return nil, false
	}
	return response, true
}

// sendPipelineError maps a pipeline error onto its HTTP status.
func (h *NoticeHandler) sendPipelineError(c *gin.Context, err error) {
	if failure, ok := dto.NewFailureResponse(err); ok {
		status, code := http.StatusUnprocessableEntity, "EXTRACTION_FAILED"
		switch failure.Stage {
		case dto.StageInputValidation:
			code = "INPUT_VALIDATION_FAILED"
		case dto.StageCalculation:
			status, code = http.StatusInternalServerError, "CALCULATION_FAILED"
		}
		_ = c.Error(err)
		c.JSON(status, dto.ErrorResponse{
			Error:   code,
			Message: failure.Message,
			Code:    status,
			Failure: &failure,
		})
		return
	}

	switch {
	case errors.Is(err, dto.ErrUnsupportedDocument):
		h.sendError(c, http.StatusBadRequest, "UNSUPPORTED_DOCUMENT", err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		h.sendError(c, http.StatusGatewayTimeout, "TIMEOUT", "Validation timed out", err)
	default:
		h.sendError(c, http.StatusInternalServerError, "VALIDATION_FAILED", "Failed to validate notice", err)
	}
}

// sendError sends a structured error response
func (h *NoticeHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	if err != nil {
		_ = c.Error(err)
		if statusCode >= http.StatusInternalServerError {
			logging.FromContext(c.Request.Context(), h.logger).Error(message, zap.Error(err))
		}
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}
