package service

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/utils"
)

// DayCountBasis is the year length of the Actual/360 convention.
const DayCountBasis = 360

var (
	hundred = decimal.NewFromInt(100)

	// percent and year length folded into one divisor so the result is rounded once
	interestDivisor = decimal.NewFromInt(100 * DayCountBasis)
)

// DayCount returns the actual number of calendar days in the period,
// counting the start date and excluding the end date.
func DayCount(start, end civil.Date) int {
	return end.DaysSince(start)
}

// CalculateInterest computes Actual/360 simple interest:
//
//	principal × ratePercent × days / 36000
//
// using exact decimal arithmetic and a single half-up rounding to cents.
// Inputs outside the calculator's domain return *dto.CalculationContractError;
// the record validator is expected to have rejected them already.
func CalculateInterest(principal, ratePercent decimal.Decimal, start, end civil.Date) (dto.CalculationResult, error) {
	if !principal.IsPositive() {
		return dto.CalculationResult{}, &dto.CalculationContractError{Field: dto.FieldPrincipal, Reason: "must be positive"}
	}
	if !ratePercent.IsPositive() || ratePercent.GreaterThan(hundred) {
		return dto.CalculationResult{}, &dto.CalculationContractError{Field: dto.FieldAnnualRate, Reason: "must be within (0, 100]"}
	}

	days := DayCount(start, end)
	if days <= 0 {
		return dto.CalculationResult{}, &dto.CalculationContractError{Field: dto.FieldPeriodEnd, Reason: "must be after period_start"}
	}

	numerator := principal.Mul(ratePercent).Mul(decimal.NewFromInt(int64(days)))
	amount := numerator.DivRound(interestDivisor, 2)

	return dto.CalculationResult{
		Principal:         principal,
		AnnualRatePercent: ratePercent,
		PeriodStart:       start,
		PeriodEnd:         end,
		Days:              days,
		DayCountBasis:     DayCountBasis,
		Amount:            amount,
		Formula:           "Principal × (Annual Rate ÷ 100) × (Days ÷ 360)",
		Steps: []string{
			fmt.Sprintf("Period: %s to %s = %s (Actual)", utils.FormatDate(start), utils.FormatDate(end), utils.FormatDays(days)),
			fmt.Sprintf("Principal × Rate × Days = %s × %s × %d = %s",
				principal.String(), ratePercent.String(), days, numerator.String()),
			fmt.Sprintf("Interest = %s ÷ %s = %s", numerator.String(), interestDivisor.String(), utils.FormatCurrency(amount)),
		},
	}, nil
}
