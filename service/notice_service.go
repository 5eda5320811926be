package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/logging"
	"github.com/Aashish23092/interest-notice-validator/utils/noticeparser"
)

const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"

	fieldMapSource = "field-map"
)

type NoticeService struct {
	pdfProcessor PDFProcessor
	logger       *zap.Logger
	now          func() time.Time
}

func NewNoticeService(pdfProcessor PDFProcessor, logger *zap.Logger) *NoticeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{
		pdfProcessor: pdfProcessor,
		logger:       logger,
		now:          time.Now,
	}
}

// DetectDocument sniffs the content type and checks it agrees with the file
// extension. Only PDF and plain text notices are accepted.
func DetectDocument(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	detected := mimetype.Detect(data)

	isText := false
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(MimeText) {
			isText = true
			break
		}
	}

	switch {
	case detected.Is(MimePDF) && (ext == ".pdf" || ext == ""):
		return MimePDF, nil
	case isText && (ext == ".txt" || ext == ""):
		return MimeText, nil
	}
	return "", fmt.Errorf("%w: %s (%s)", dto.ErrUnsupportedDocument, fileName, detected.String())
}

// ValidateDocument runs the full pipeline on an uploaded PDF or text notice.
func (s *NoticeService) ValidateDocument(ctx context.Context, fileName string, data []byte, password string) (*dto.NoticeValidationResponse, error) {
	log := logging.FromContext(ctx, s.logger).With(zap.String("file_name", fileName))

	mime, err := DetectDocument(fileName, data)
	if err != nil {
		logging.Failure(log, logging.OpExtraction, err)
		return nil, err
	}
	doc := dto.DocumentInfo{FileName: fileName, MimeType: mime}

	text := string(data)
	if mime == MimePDF {
		info, err := s.pdfProcessor.Inspect(data, password)
		if err != nil {
			logging.Failure(log, logging.OpExtraction, err)
			return nil, fmt.Errorf("failed to process %s: %w", fileName, err)
		}
		doc.Pages = info.Pages

		text, err = s.pdfProcessor.ExtractText(data, password)
		if err != nil {
			logging.Failure(log, logging.OpExtraction, err)
			return nil, fmt.Errorf("failed to process %s: %w", fileName, err)
		}
	}
	doc.TextLength = len(text)

	return s.run(ctx, log, doc, func() (dto.ExtractedRecord, error) {
		return noticeparser.Parse(text)
	})
}

// ValidateText runs the pipeline on text already pulled out of a notice.
func (s *NoticeService) ValidateText(ctx context.Context, text, source string) (*dto.NoticeValidationResponse, error) {
	log := logging.FromContext(ctx, s.logger)
	doc := dto.DocumentInfo{FileName: source, MimeType: MimeText, TextLength: len(text)}

	return s.run(ctx, log, doc, func() (dto.ExtractedRecord, error) {
		return noticeparser.Parse(text)
	})
}

// ValidateFields runs the pipeline on a pre-built field map.
func (s *NoticeService) ValidateFields(ctx context.Context, fields map[string]string) (*dto.NoticeValidationResponse, error) {
	log := logging.FromContext(ctx, s.logger)
	doc := dto.DocumentInfo{FileName: fieldMapSource}

	return s.run(ctx, log, doc, func() (dto.ExtractedRecord, error) {
		return noticeparser.ParseFields(fields)
	})
}

func (s *NoticeService) run(
	ctx context.Context,
	log *zap.Logger,
	doc dto.DocumentInfo,
	extract func() (dto.ExtractedRecord, error),
) (*dto.NoticeValidationResponse, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := extract()
	if err != nil {
		logging.Failure(log, logging.OpExtraction, err)
		return nil, err
	}
	logging.Extraction(log, doc.FileName, rec, time.Since(started))

	rec, warnings, err := ValidateRecord(rec)
	if err != nil {
		logging.Failure(log, logging.OpValidation, err)
		return nil, err
	}
	for _, w := range warnings {
		log.Warn("record warning", zap.String("field", w.Field), zap.String("message", w.Message))
	}

	calc, err := CalculateInterest(rec.Principal, rec.AnnualRatePercent, rec.PeriodStart, rec.PeriodEnd)
	if err != nil {
		logging.Failure(log, logging.OpCalculation, err)
		return nil, err
	}
	logging.Calculation(log, calc)

	verdict := EvaluateVerdict(calc, rec.NoticeAmount)
	logging.Verdict(log, verdict, time.Since(started))

	if warnings == nil {
		warnings = []dto.RecordWarning{}
	}
	return &dto.NoticeValidationResponse{
		Document:    doc,
		Record:      rec,
		Warnings:    warnings,
		Calculation: calc,
		Verdict:     verdict,
		Summary:     Summary(verdict),
		ProcessedAt: s.now().UTC().Format(time.RFC3339),
	}, nil
}
