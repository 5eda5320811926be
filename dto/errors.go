package dto

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies which pipeline step rejected a notice.
type Stage string

const (
	StageExtraction      Stage = "extraction"
	StageInputValidation Stage = "input-validation"
	StageCalculation     Stage = "calculation"
)

var (
	ErrContractViolation   = errors.New("calculation contract violation")
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrEmptyDocument       = errors.New("no text could be extracted from the document")
)

// FieldError explains why one field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

func (e FieldError) String() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ReasonNoText is reported for every field when the document has no text at all.
const ReasonNoText = "document contains no text"

// ExtractionError means one or more required fields could not be located.
type ExtractionError struct {
	Fields []FieldError
}

func (e *ExtractionError) Error() string {
	return "cannot validate this document: " + joinFieldErrors(e.Fields)
}

// Is reports ErrEmptyDocument when every field failed for lack of text.
func (e *ExtractionError) Is(target error) bool {
	if target != ErrEmptyDocument || len(e.Fields) == 0 {
		return false
	}
	for _, f := range e.Fields {
		if f.Reason != ReasonNoText {
			return false
		}
	}
	return true
}

func (e *ExtractionError) FieldNames() []string {
	return fieldNames(e.Fields)
}

// InputValidationError means located fields failed range or sanity checks.
type InputValidationError struct {
	Fields []FieldError
}

func (e *InputValidationError) Error() string {
	return "invalid notice data: " + joinFieldErrors(e.Fields)
}

func (e *InputValidationError) FieldNames() []string {
	return fieldNames(e.Fields)
}

// CalculationContractError is returned when the calculator receives values
// that should have been rejected upstream.
type CalculationContractError struct {
	Field  string
	Reason string
}

func (e *CalculationContractError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrContractViolation, e.Field, e.Reason)
}

func (e *CalculationContractError) Unwrap() error {
	return ErrContractViolation
}

// FailureResponse is the structured failure relayed to callers.
type FailureResponse struct {
	Stage   Stage        `json:"stage"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}

// NewFailureResponse maps a pipeline error onto its stage. ok is false for
// errors that do not belong to the pipeline taxonomy.
func NewFailureResponse(err error) (FailureResponse, bool) {
	var extractErr *ExtractionError
	var inputErr *InputValidationError
	var calcErr *CalculationContractError

	switch {
	case errors.As(err, &extractErr):
		return FailureResponse{Stage: StageExtraction, Message: err.Error(), Fields: extractErr.Fields}, true
	case errors.As(err, &inputErr):
		return FailureResponse{Stage: StageInputValidation, Message: err.Error(), Fields: inputErr.Fields}, true
	case errors.As(err, &calcErr):
		return FailureResponse{
			Stage:   StageCalculation,
			Message: err.Error(),
			Fields:  []FieldError{{Field: calcErr.Field, Reason: calcErr.Reason}},
		}, true
	}
	return FailureResponse{}, false
}

func joinFieldErrors(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}

func fieldNames(fields []FieldError) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return names
}
