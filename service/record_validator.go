package service

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/utils"
)

// MaxPeriodDays is the longest accrual period accepted. Together with
// dto.MaxPrincipal it bounds a record before any calculation.
const MaxPeriodDays = 3650

// Soft limits. A record outside them is accepted with a warning.
var (
	smallPrincipal     = decimal.NewFromInt(1000)
	highRatePercent    = decimal.NewFromInt(25)
	lowRatePercent     = decimal.RequireFromString("0.01")
	longPeriodDays     = 730
	smallNoticeAmount  = decimal.NewFromInt(1)
	noticeShareWarning = decimal.RequireFromString("0.5")
)

const reasonNegativeAmount = "negative amount is malformed"

// ValidateRecord checks an extracted record for range and consistency
// problems. Every check runs, so the returned *dto.InputValidationError
// lists all failing fields at once. Values are never adjusted.
func ValidateRecord(rec dto.ExtractedRecord) (dto.ExtractedRecord, []dto.RecordWarning, error) {
	var (
		failures []dto.FieldError
		warnings []dto.RecordWarning
	)
	reject := func(field, reason string, value fmt.Stringer) {
		failures = append(failures, dto.FieldError{Field: field, Reason: reason, Value: value.String()})
	}
	warn := func(field, message, suggestion string) {
		warnings = append(warnings, dto.RecordWarning{Field: field, Message: message, Suggestion: suggestion})
	}

	switch {
	case rec.Principal.IsNegative():
		reject(dto.FieldPrincipal, reasonNegativeAmount, rec.Principal)
	case rec.Principal.IsZero():
		reject(dto.FieldPrincipal, "must be positive", rec.Principal)
	case rec.Principal.GreaterThan(dto.MaxPrincipal):
		reject(dto.FieldPrincipal, "exceeds maximum of "+utils.FormatCurrency(dto.MaxPrincipal), rec.Principal)
	case rec.Principal.LessThan(smallPrincipal):
		warn(dto.FieldPrincipal, "Principal amount is unusually small", "Verify the principal was read correctly")
	}

	switch {
	case !rec.AnnualRatePercent.IsPositive():
		reject(dto.FieldAnnualRate, "must be positive", rec.AnnualRatePercent)
	case rec.AnnualRatePercent.GreaterThan(hundred):
		reject(dto.FieldAnnualRate, "must not exceed 100%", rec.AnnualRatePercent)
	case rec.AnnualRatePercent.GreaterThan(highRatePercent):
		warn(dto.FieldAnnualRate, "Interest rate above 25% is unusually high", "Confirm the rate is annual and not a total")
	case rec.AnnualRatePercent.LessThan(lowRatePercent):
		warn(dto.FieldAnnualRate, "Interest rate below 0.01% is unusually low", "Confirm the rate was not written as a fraction twice")
	}

	for _, p := range []struct {
		field string
		date  civil.Date
	}{{dto.FieldPeriodStart, rec.PeriodStart}, {dto.FieldPeriodEnd, rec.PeriodEnd}} {
		if wd := p.date.In(time.UTC).Weekday(); wd == time.Saturday || wd == time.Sunday {
			warn(p.field, fmt.Sprintf("%s falls on a %s", utils.FormatDate(p.date), wd), "Check the business day convention of the facility")
		}
	}

	days := DayCount(rec.PeriodStart, rec.PeriodEnd)
	switch {
	case days <= 0:
		reject(dto.FieldPeriodEnd, "must be after period_start", rec.PeriodEnd)
	case days > MaxPeriodDays:
		reject(dto.FieldPeriodEnd, fmt.Sprintf("period of %d days exceeds %d days", days, MaxPeriodDays), rec.PeriodEnd)
	case days > longPeriodDays:
		warn(dto.FieldPeriodEnd, fmt.Sprintf("Interest period of %s is longer than two years", utils.FormatDays(days)),
			"Check that the period dates belong to a single accrual period")
	}

	switch {
	case rec.NoticeAmount.IsNegative():
		reject(dto.FieldNoticeAmount, reasonNegativeAmount, rec.NoticeAmount)
	case rec.Principal.IsPositive() && rec.NoticeAmount.GreaterThan(rec.Principal):
		reject(dto.FieldNoticeAmount, "exceeds the principal", rec.NoticeAmount)
	case rec.Principal.IsPositive() && rec.NoticeAmount.GreaterThan(rec.Principal.Mul(noticeShareWarning)):
		warn(dto.FieldNoticeAmount, "Interest amount exceeds 50% of the principal", "Verify the principal and interest amount")
	case rec.NoticeAmount.IsPositive() && rec.NoticeAmount.LessThan(smallNoticeAmount):
		warn(dto.FieldNoticeAmount, "Interest amount is below $1.00", "Verify the interest amount was read correctly")
	}

	if len(failures) > 0 {
		return dto.ExtractedRecord{}, nil, &dto.InputValidationError{Fields: failures}
	}
	return rec, warnings, nil
}
