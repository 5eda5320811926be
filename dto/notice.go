package dto

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Field names used in every extraction and input diagnostic.
const (
	FieldPrincipal    = "principal"
	FieldAnnualRate   = "annual_rate"
	FieldPeriodStart  = "period_start"
	FieldPeriodEnd    = "period_end"
	FieldNoticeAmount = "notice_amount"
)

// RecordFields lists the notice fields in reporting order.
var RecordFields = []string{
	FieldPrincipal,
	FieldAnnualRate,
	FieldPeriodStart,
	FieldPeriodEnd,
	FieldNoticeAmount,
}

// MaxPrincipal is the largest principal accepted anywhere in the pipeline.
var MaxPrincipal = decimal.NewFromInt(100_000_000_000)

// MatchLevel says whether a field came from an exact label or a fallback heuristic.
type MatchLevel string

const (
	MatchExact    MatchLevel = "exact"
	MatchFallback MatchLevel = "fallback"
)

// RateFormat records how the rate was written so it is converted exactly once.
type RateFormat string

const (
	RatePercentSign     RateFormat = "percent_sign"     // 5.25%
	RatePercentWord     RateFormat = "percent_word"     // 5.25 percent
	RateDecimalFraction RateFormat = "decimal_fraction" // 0.0525
	RateBarePercent     RateFormat = "bare_percent"     // Rate: 5.25
)

// FieldSource is the diagnostic for one extracted field.
type FieldSource struct {
	Strategy string     `json:"strategy"`
	Level    MatchLevel `json:"level"`
	Score    float64    `json:"score"`
	Raw      string     `json:"raw"`
}

type ExtractionConfidence struct {
	Principal    FieldSource `json:"principal"`
	AnnualRate   FieldSource `json:"annual_rate"`
	PeriodStart  FieldSource `json:"period_start"`
	PeriodEnd    FieldSource `json:"period_end"`
	NoticeAmount FieldSource `json:"notice_amount"`
}

// Sources returns the per-field diagnostics keyed by field name.
func (c ExtractionConfidence) Sources() map[string]FieldSource {
	return map[string]FieldSource{
		FieldPrincipal:    c.Principal,
		FieldAnnualRate:   c.AnnualRate,
		FieldPeriodStart:  c.PeriodStart,
		FieldPeriodEnd:    c.PeriodEnd,
		FieldNoticeAmount: c.NoticeAmount,
	}
}

// AverageScore is the mean strategy score across the five fields.
func (c ExtractionConfidence) AverageScore() float64 {
	total := c.Principal.Score + c.AnnualRate.Score + c.PeriodStart.Score +
		c.PeriodEnd.Score + c.NoticeAmount.Score
	return total / float64(len(RecordFields))
}

// ExtractedRecord holds the financial facts parsed from one interest payment notice.
// It is built once per document and treated as read-only afterwards.
type ExtractedRecord struct {
	Principal         decimal.Decimal      `json:"principal"`
	AnnualRatePercent decimal.Decimal      `json:"annual_rate_percent"`
	RateFormat        RateFormat           `json:"rate_format"`
	PeriodStart       civil.Date           `json:"period_start"`
	PeriodEnd         civil.Date           `json:"period_end"`
	NoticeAmount      decimal.Decimal      `json:"notice_amount"`
	Confidence        ExtractionConfidence `json:"extraction_confidence"`
}

// CalculationResult is the Actual/360 computation with its breakdown.
type CalculationResult struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	PeriodStart       civil.Date      `json:"period_start"`
	PeriodEnd         civil.Date      `json:"period_end"`
	Days              int             `json:"days"`
	DayCountBasis     int             `json:"day_count_basis"`
	Amount            decimal.Decimal `json:"amount"`
	Formula           string          `json:"formula"`
	Steps             []string        `json:"steps"`
}

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// Direction of the notice amount relative to the calculated amount.
const (
	DirectionMatch = "match"
	DirectionOver  = "over"
	DirectionUnder = "under"
)

// ValidationVerdict compares the calculated interest with the amount stated on the notice.
type ValidationVerdict struct {
	CalculatedAmount     decimal.Decimal `json:"calculated_amount"`
	NoticeAmount         decimal.Decimal `json:"notice_amount"`
	AbsoluteDifference   decimal.Decimal `json:"absolute_difference"`
	ToleranceUsed        decimal.Decimal `json:"tolerance_used"`
	Passed               bool            `json:"passed"`
	Status               string          `json:"status"`
	Message              string          `json:"message"`
	Direction            string          `json:"direction"`
	PercentageDifference decimal.Decimal `json:"percentage_difference"`
	Explanation          string          `json:"explanation"`
	Recommendations      []string        `json:"recommendations"`
}

// RecordWarning is a non-blocking observation about an accepted record.
type RecordWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}
