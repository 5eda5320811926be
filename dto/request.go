package dto

import (
	"errors"
	"mime/multipart"
	"strings"
)

// NoticeUploadRequest represents an uploaded notice document
type NoticeUploadRequest struct {
	File     *multipart.FileHeader `form:"file" binding:"required"`
	Password string                `form:"password"`
}

// NoticeTextRequest carries text that was already pulled out of a document.
type NoticeTextRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// Validate performs basic validation on the request
func (r *NoticeTextRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}
