package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/utils"
)

// Tolerance policy: the larger of one currency unit or one basis point of the principal.
var (
	FixedToleranceMinimum = decimal.NewFromInt(1)
	RelativeToleranceRate = decimal.RequireFromString("0.0001")
)

var (
	significantDiffPercent = decimal.NewFromInt(5)
	moderateDiffPercent    = decimal.NewFromInt(1)
)

// Tolerance returns the largest acceptable difference for a given principal.
func Tolerance(principal decimal.Decimal) decimal.Decimal {
	return decimal.Max(FixedToleranceMinimum, principal.Mul(RelativeToleranceRate))
}

// EvaluateVerdict compares an already calculated amount with the amount
// stated on the notice. The calculation is never redone here.
func EvaluateVerdict(calc dto.CalculationResult, notice decimal.Decimal) dto.ValidationVerdict {
	diff := calc.Amount.Sub(notice).Abs()
	tolerance := Tolerance(calc.Principal)

	v := dto.ValidationVerdict{
		CalculatedAmount:     calc.Amount,
		NoticeAmount:         notice,
		AbsoluteDifference:   diff,
		ToleranceUsed:        tolerance,
		Passed:               diff.LessThanOrEqual(tolerance),
		PercentageDifference: decimal.Zero,
	}

	switch notice.Cmp(calc.Amount) {
	case 1:
		v.Direction = dto.DirectionOver
	case -1:
		v.Direction = dto.DirectionUnder
	default:
		v.Direction = dto.DirectionMatch
	}

	if calc.Amount.IsPositive() {
		v.PercentageDifference = diff.Mul(hundred).DivRound(calc.Amount, 2)
	}

	if v.Passed {
		v.Status = dto.StatusPass
		v.Message = "Notice is correct"
	} else {
		v.Status = dto.StatusFail
		v.Message = "Issue detected"
	}

	v.Explanation = explain(calc, v)
	v.Recommendations = recommendations(v)
	return v
}

func explain(calc dto.CalculationResult, v dto.ValidationVerdict) string {
	var diffNote string
	switch v.Direction {
	case dto.DirectionOver:
		diffNote = " (notice is higher)"
	case dto.DirectionUnder:
		diffNote = " (notice is lower)"
	}

	recommendation := "safe to send"
	if !v.Passed {
		recommendation = "review before sending"
	}

	lines := []string{
		fmt.Sprintf("Inputs: principal %s, annual rate %s, period %s to %s (%s, Actual/%d)",
			utils.FormatCurrency(calc.Principal), utils.FormatPercent(calc.AnnualRatePercent),
			utils.FormatDate(calc.PeriodStart), utils.FormatDate(calc.PeriodEnd),
			utils.FormatDays(calc.Days), calc.DayCountBasis),
		"Formula: " + calc.Formula,
		"Calculated interest: " + utils.FormatCurrency(v.CalculatedAmount),
		"Notice interest: " + utils.FormatCurrency(v.NoticeAmount),
		fmt.Sprintf("Difference: %s%s, tolerance %s",
			utils.FormatCurrency(v.AbsoluteDifference), diffNote, utils.FormatCurrencyExact(v.ToleranceUsed)),
		"Recommendation: " + recommendation,
	}
	return strings.Join(lines, "\n")
}

func recommendations(v dto.ValidationVerdict) []string {
	if v.Passed {
		return []string{
			"The notice is ready to be sent to lenders",
			"No further action required for this interest calculation",
			"Consider archiving this validation result for audit purposes",
		}
	}

	recs := []string{
		"Review the interest calculation in the notice before sending",
		"Verify that the principal amount, interest rate, and dates are correct",
		"Check for any special terms or adjustments that might affect the calculation",
	}
	switch {
	case v.PercentageDifference.GreaterThan(significantDiffPercent):
		recs = append(recs, "The difference is significant (>5%); double-check all input values")
	case v.PercentageDifference.GreaterThan(moderateDiffPercent):
		recs = append(recs, "The difference is moderate (>1%); review the calculation methodology")
	}
	if v.Direction == dto.DirectionOver {
		recs = append(recs, "The notice amount is higher than expected; check for additional fees or adjustments")
	} else {
		recs = append(recs, "The notice amount is lower than expected; check for missing interest components")
	}
	return recs
}

// Summary renders a verdict as a multi-line report.
func Summary(v dto.ValidationVerdict) string {
	var b strings.Builder
	if v.Passed {
		b.WriteString("VALIDATION PASSED\nThe interest notice calculation is correct.\n")
	} else {
		b.WriteString("VALIDATION FAILED\nThe interest notice calculation contains an error.\n")
	}

	b.WriteString("\nAMOUNT COMPARISON:\n")
	fmt.Fprintf(&b, "Expected (calculated): %s\n", utils.FormatCurrency(v.CalculatedAmount))
	fmt.Fprintf(&b, "Notice:                %s\n", utils.FormatCurrency(v.NoticeAmount))
	fmt.Fprintf(&b, "Difference:            %s\n", utils.FormatCurrency(v.AbsoluteDifference))
	fmt.Fprintf(&b, "Percentage diff:       %s%%\n", v.PercentageDifference.StringFixed(2))
	fmt.Fprintf(&b, "Tolerance used:        %s\n", utils.FormatCurrencyExact(v.ToleranceUsed))

	b.WriteString("\nEXPLANATION:\n")
	b.WriteString(v.Explanation)
	return b.String()
}
