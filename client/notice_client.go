package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

const apiPrefix = "/api/v1/notices"

// APIError is a non-2xx answer from the validator service.
type APIError struct {
	StatusCode int
	Response   dto.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Failure != nil {
		return fmt.Sprintf("notice service returned %d (%s): %s", e.StatusCode, e.Response.Failure.Stage, e.Response.Message)
	}
	return fmt.Sprintf("notice service returned %d: %s", e.StatusCode, e.Response.Message)
}

// NoticeClient calls a remote validator service.
type NoticeClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNoticeClient(baseURL string, timeout time.Duration) *NoticeClient {
	return &NoticeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ValidateDocument uploads a notice document for validation.
func (nc *NoticeClient) ValidateDocument(ctx context.Context, fileName string, data []byte, password string) (*dto.NoticeValidationResponse, error) {
	body, err := nc.postFile(ctx, "/validate", fileName, data, password)
	if err != nil {
		return nil, err
	}
	return decodeValidation(body)
}

// Report uploads a notice document and returns the verdict workbook bytes.
func (nc *NoticeClient) Report(ctx context.Context, fileName string, data []byte, password string) ([]byte, error) {
	return nc.postFile(ctx, "/report", fileName, data, password)
}

// ValidateText sends already extracted notice text.
func (nc *NoticeClient) ValidateText(ctx context.Context, text, source string) (*dto.NoticeValidationResponse, error) {
	payload, err := json.Marshal(dto.NoticeTextRequest{Text: text, Source: source})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	body, err := nc.post(ctx, "/validate-text", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return decodeValidation(body)
}

// ValidateFields sends a field map keyed by field name or alias.
func (nc *NoticeClient) ValidateFields(ctx context.Context, fields map[string]string) (*dto.NoticeValidationResponse, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	body, err := nc.post(ctx, "/validate-fields", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return decodeValidation(body)
}

func (nc *NoticeClient) postFile(ctx context.Context, path, fileName string, data []byte, password string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if password != "" {
		if err := mw.WriteField("password", password); err != nil {
			return nil, fmt.Errorf("failed to build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	return nc.post(ctx, path, mw.FormDataContentType(), &buf)
}

func (nc *NoticeClient) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, nc.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := nc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call notice service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read notice service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, &apiErr.Response) != nil || apiErr.Response.Message == "" {
			apiErr.Response.Message = strings.TrimSpace(string(respBody))
		}
		return nil, apiErr
	}
	return respBody, nil
}

func decodeValidation(body []byte) (*dto.NoticeValidationResponse, error) {
	var out dto.NoticeValidationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notice service response: %w", err)
	}
	return &out, nil
}
