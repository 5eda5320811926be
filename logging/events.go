package logging

import (
	"time"

	"go.uber.org/zap"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

const (
	OpExtraction  = "extraction"
	OpCalculation = "calculation"
	OpValidation  = "validation"
)

func Extraction(l *zap.Logger, fileName string, rec dto.ExtractedRecord, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("operation", OpExtraction),
		zap.String("file_name", fileName),
		zap.Int("fields_extracted", len(dto.RecordFields)),
		zap.Float64("avg_confidence", rec.Confidence.AverageScore()),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	for name, src := range rec.Confidence.Sources() {
		if src.Level == dto.MatchFallback {
			fields = append(fields, zap.String("fallback_"+name, src.Strategy))
		}
	}
	l.Info("fields extracted", fields...)
}

func Calculation(l *zap.Logger, calc dto.CalculationResult) {
	l.Info("interest calculated",
		zap.String("operation", OpCalculation),
		zap.String("principal", calc.Principal.String()),
		zap.String("annual_rate_percent", calc.AnnualRatePercent.String()),
		zap.Int("days", calc.Days),
		zap.String("calculated_amount", calc.Amount.StringFixed(2)),
	)
}

func Verdict(l *zap.Logger, v dto.ValidationVerdict, elapsed time.Duration) {
	l.Info("notice validated",
		zap.String("operation", OpValidation),
		zap.String("validation_status", v.Status),
		zap.String("direction", v.Direction),
		zap.String("difference", v.AbsoluteDifference.StringFixed(2)),
		zap.String("tolerance", v.ToleranceUsed.String()),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
}

// Failure logs a rejected notice at warn level and anything else at error level.
func Failure(l *zap.Logger, operation string, err error) {
	if fr, ok := dto.NewFailureResponse(err); ok && fr.Stage != dto.StageCalculation {
		names := make([]string, 0, len(fr.Fields))
		for _, f := range fr.Fields {
			names = append(names, f.Field)
		}
		l.Warn("notice rejected",
			zap.String("operation", operation),
			zap.String("stage", string(fr.Stage)),
			zap.Strings("fields", names),
			zap.Error(err),
		)
		return
	}
	l.Error("notice validation failed", zap.String("operation", operation), zap.Error(err))
}
