package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/service"
	"github.com/Aashish23092/interest-notice-validator/utils/noticeparser"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(maxFileSize int64) *gin.Engine {
	svc := service.NewNoticeService(service.NewPDFProcessor(), zap.NewNop())
	h := NewNoticeHandler(svc, maxFileSize, zap.NewNop())
	return NewRouter(h, zap.NewNop(), RouterOptions{})
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postFile(t *testing.T, router *gin.Engine, path, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func textBody(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(dto.NoticeTextRequest{Text: text, Source: "test"})
	require.NoError(t, err)
	return string(b)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.NoticeValidationResponse {
	t.Helper()
	var resp dto.NoticeValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	router := newTestRouter(1 << 20)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestValidateTextPass(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := postJSON(t, router, "/api/v1/notices/validate-text", textBody(t, noticeparser.SampleNotice(true)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	resp := decodeResponse(t, w)
	assert.True(t, resp.Verdict.Passed)
	assert.Equal(t, "13125.00", resp.Verdict.CalculatedAmount.StringFixed(2))
}

func TestValidateTextFailedVerdictIsOK(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := postJSON(t, router, "/api/v1/notices/validate-text", textBody(t, noticeparser.SampleNotice(false)))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Verdict.Passed)
	assert.Equal(t, dto.StatusFail, resp.Verdict.Status)
}

func TestValidateTextErrors(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := postJSON(t, router, "/api/v1/notices/validate-text", `{"text": "  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/v1/notices/validate-text", `{"text": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/v1/notices/validate-text", textBody(t, "Dear customer, thank you."))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errResp := decodeError(t, w)
	assert.Equal(t, "EXTRACTION_FAILED", errResp.Error)
	require.NotNil(t, errResp.Failure)
	assert.Equal(t, dto.StageExtraction, errResp.Failure.Stage)
	assert.Len(t, errResp.Failure.Fields, 5)
}

func TestValidateFields(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := postJSON(t, router, "/api/v1/notices/validate-fields", `{
		"principal": 1000000,
		"annual_rate": "5.25%",
		"period_start": "2024-01-01",
		"period_end": "2024-01-31",
		"notice_amount": "4,500.00"
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.False(t, resp.Verdict.Passed)
	assert.Equal(t, "125.00", resp.Verdict.AbsoluteDifference.StringFixed(2))

	w = postJSON(t, router, "/api/v1/notices/validate-fields", `{"principal": "1000", "borrower": "Acme"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/api/v1/notices/validate-fields", `{
		"principal": "-1000000",
		"annual_rate": "5.25",
		"period_start": "2024-01-01",
		"period_end": "2024-01-31",
		"notice_amount": "4375"
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errResp := decodeError(t, w)
	assert.Equal(t, "INPUT_VALIDATION_FAILED", errResp.Error)
	assert.Equal(t, dto.StageInputValidation, errResp.Failure.Stage)
}

func TestValidateNoticeUpload(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := postFile(t, router, "/api/v1/notices/validate", "notice.txt", []byte(noticeparser.SampleNotice(true)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.True(t, resp.Verdict.Passed)
	assert.Equal(t, "notice.txt", resp.Document.FileName)
	assert.Equal(t, service.MimeText, resp.Document.MimeType)
}

func TestValidateNoticeUploadRejected(t *testing.T) {
	router := newTestRouter(64)

	w := postFile(t, router, "/api/v1/notices/validate", "notice.docx", []byte("PK\x03\x04"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_DOCUMENT", decodeError(t, w).Error)

	w = postFile(t, router, "/api/v1/notices/validate", "notice.txt", []byte(noticeparser.SampleNotice(true)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_UPLOAD", decodeError(t, w).Error)

	w = postJSON(t, router, "/api/v1/notices/validate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReport(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := postFile(t, router, "/api/v1/notices/report", "notice.txt", []byte(noticeparser.SampleNotice(false)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notice-verdict.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}
