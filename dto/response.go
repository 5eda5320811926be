package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Code    int              `json:"code"`
	Failure *FailureResponse `json:"failure,omitempty"`
}

// DocumentInfo describes the document the text came from.
type DocumentInfo struct {
	FileName   string `json:"file_name,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	TextLength int    `json:"text_length"`
}

// NoticeValidationResponse is the final response structure
type NoticeValidationResponse struct {
	Document    DocumentInfo      `json:"document"`
	Record      ExtractedRecord   `json:"record"`
	Warnings    []RecordWarning   `json:"warnings"`
	Calculation CalculationResult `json:"calculation"`
	Verdict     ValidationVerdict `json:"verdict"`
	Summary     string            `json:"summary"`
	ProcessedAt string            `json:"processed_at"`
}
