package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/service"
)

var (
	errFileTooLarge = errors.New("file exceeds the maximum upload size")
	errEmptyUpload  = errors.New("uploaded file is empty")
)

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

// readUpload checks the extension, size and sniffed content type of an
// uploaded notice and returns its bytes.
func readUpload(header *multipart.FileHeader, maxSize int64) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: only .pdf and .txt files are accepted", dto.ErrUnsupportedDocument)
	}
	if header.Size > maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", errFileTooLarge, maxSize)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", errFileTooLarge, maxSize)
	}
	if len(data) == 0 {
		return nil, errEmptyUpload
	}

	if _, err := service.DetectDocument(header.Filename, data); err != nil {
		return nil, err
	}
	return data, nil
}
