package noticeparser

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func extractionFields(t *testing.T, err error) []string {
	t.Helper()
	var extractErr *dto.ExtractionError
	require.True(t, errors.As(err, &extractErr), "expected *dto.ExtractionError, got %v", err)
	return extractErr.FieldNames()
}

func TestParseSampleNotice(t *testing.T) {
	rec, err := Parse(SampleNotice(true))
	require.NoError(t, err)

	assert.True(t, rec.Principal.Equal(dec("1000000")))
	assert.True(t, rec.AnnualRatePercent.Equal(dec("5.25")))
	assert.Equal(t, dto.RatePercentSign, rec.RateFormat)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 1}, rec.PeriodStart)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 31}, rec.PeriodEnd)
	assert.True(t, rec.NoticeAmount.Equal(dec("13125")))

	assert.Equal(t, "principal_amount", rec.Confidence.Principal.Strategy)
	assert.Equal(t, dto.MatchExact, rec.Confidence.Principal.Level)
	assert.Equal(t, "start_label", rec.Confidence.PeriodStart.Strategy)
	assert.Equal(t, "interest_amount", rec.Confidence.NoticeAmount.Strategy)
	assert.InDelta(t, 0.9, rec.Confidence.AverageScore(), 0.0001)
}

func TestParseIncorrectSample(t *testing.T) {
	rec, err := Parse(SampleNotice(false))
	require.NoError(t, err)
	assert.True(t, rec.NoticeAmount.Equal(dec("15000")))
}

func TestParseIsIdempotent(t *testing.T) {
	first, err := Parse(SampleNotice(true))
	require.NoError(t, err)
	second, err := Parse(SampleNotice(true))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseBlankText(t *testing.T) {
	_, err := Parse("   \n\t ")
	assert.Equal(t, dto.RecordFields, extractionFields(t, err))
	assert.True(t, errors.Is(err, dto.ErrEmptyDocument))

	_, err = Parse("Principal Amount: $1,000,000.00")
	assert.False(t, errors.Is(err, dto.ErrEmptyDocument))
}

func TestParseReportsEveryMissingField(t *testing.T) {
	_, err := Parse("Principal Amount: $1,000,000.00")
	assert.Equal(t, []string{
		dto.FieldAnnualRate,
		dto.FieldPeriodStart,
		dto.FieldPeriodEnd,
		dto.FieldNoticeAmount,
	}, extractionFields(t, err))
}

func TestParseNamesMissingPrincipalAndRate(t *testing.T) {
	text := `
Interest Period: 01/01/2024 to 01/31/2024
Interest Amount: $437.50
`
	_, err := Parse(text)
	assert.Equal(t, []string{dto.FieldPrincipal, dto.FieldAnnualRate}, extractionFields(t, err))
}

func TestParseRejectsImpossibleLabelledDate(t *testing.T) {
	text := `
		Principal Amount: $1,000,000.00
		Interest Rate: 5.25%
		Start Date: 01/32/2024
		End Date: 03/31/2024
		Interest Amount: $13,125.00
	`
	_, err := Parse(text)
	assert.Equal(t, []string{dto.FieldPeriodStart}, extractionFields(t, err))

	var extractErr *dto.ExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.Contains(t, extractErr.Fields[0].Reason, "not a valid calendar date")
	assert.Equal(t, "01/32/2024", extractErr.Fields[0].Value)
}

func TestParseRejectsMalformedGrouping(t *testing.T) {
	text := `
		Principal Amount: $1,00,000.00
		Interest Rate: 5.25%
		Start Date: 01/01/2024
		End Date: 03/31/2024
		Interest Amount: $13,125.00
	`
	_, err := Parse(text)
	assert.Equal(t, []string{dto.FieldPrincipal}, extractionFields(t, err))
}

func TestParseNegativePrincipal(t *testing.T) {
	text := `
		Principal Amount: ($1,000,000.00)
		Interest Rate: 5.25%
		Start Date: 01/01/2024
		End Date: 03/31/2024
		Interest Amount: $13,125.00
	`
	rec, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, rec.Principal.Equal(dec("-1000000")))
}

func TestParseDecimalFractionRate(t *testing.T) {
	text := `
		Principal Amount: $500,000.00
		Interest Rate: 0.0525
		Period Start: 02/01/2024
		Period End: 02/29/2024
		Interest Amount: $2,114.58
	`
	rec, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, rec.AnnualRatePercent.Equal(dec("5.25")))
	assert.Equal(t, dto.RateDecimalFraction, rec.RateFormat)
	assert.Equal(t, "rate_decimal_fraction", rec.Confidence.AnnualRate.Strategy)
}

func TestParsePercentWordRate(t *testing.T) {
	text := `
		Principal Amount: $500,000.00
		Annual Rate: 5.25 percent
		Start Date: 02/01/2024
		End Date: 02/29/2024
		Interest Amount: $2,114.58
	`
	rec, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, rec.AnnualRatePercent.Equal(dec("5.25")))
	assert.Equal(t, dto.RatePercentWord, rec.RateFormat)
}

func TestParseFallbackPrincipal(t *testing.T) {
	text := `
		Loan balance $2,500,000.00 remains outstanding.
		Interest Rate: 6%
		Start Date: 01/01/2024
		End Date: 01/31/2024
		Interest Amount: $12,500.00
	`
	rec, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, rec.Principal.Equal(dec("2500000")))
	assert.Equal(t, "amount_near_keyword", rec.Confidence.Principal.Strategy)
	assert.Equal(t, dto.MatchFallback, rec.Confidence.Principal.Level)
}

func TestLargestAmountIgnoresAmountsAboveMaxPrincipal(t *testing.T) {
	raw, ok := largestAmount("Wire ref $250,000,000,000.00 for the $3,000,000.00 facility")
	require.True(t, ok)
	assert.Equal(t, "$3,000,000.00", raw)

	raw, ok = largestAmount("Facility $100,000,000,000.00 outstanding")
	require.True(t, ok)
	assert.True(t, dto.MaxPrincipal.Equal(dec("100000000000")))
	assert.Equal(t, "$100,000,000,000.00", raw)
}

func TestParsePeriodRange(t *testing.T) {
	text := `
		Principal Amount: $1,000,000.00
		Interest Rate: 5.25%
		Interest Period: January 1, 2024 to January 31, 2024
		Interest Amount: $4,375.00
	`
	rec, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 1}, rec.PeriodStart)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 31}, rec.PeriodEnd)
	assert.Equal(t, "period_range", rec.Confidence.PeriodStart.Strategy)
	assert.Equal(t, "period_range", rec.Confidence.PeriodEnd.Strategy)
}

func TestParseChronologicalDates(t *testing.T) {
	text := `
		Principal Amount: $1,000,000.00
		Interest Rate: 5.25%
		Notice Date: 03/01/2024
		Accrual covers 02/14/2024 and 01/15/2024
		Interest Amount: $4,375.00
	`
	rec, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 15}, rec.PeriodStart)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 14}, rec.PeriodEnd)
	assert.Equal(t, dto.MatchFallback, rec.Confidence.PeriodEnd.Level)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"$1,000,000.00", "1000000"},
		{"1000", "1000"},
		{"USD 500", "500"},
		{"(500.00)", "-500"},
		{"-$250", "-250"},
		{"$(1,250.50)", "-1250.5"},
		{"1,000,000,", "1000000"},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.True(t, got.Equal(dec(tc.want)), "%s: got %s", tc.raw, got)
	}

	for _, bad := range []string{"", "1,00,000", "(500", "12,34", "--5", "abc"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		raw    string
		want   string
		format dto.RateFormat
	}{
		{"5.25%", "5.25", dto.RatePercentSign},
		{"5.25 percent", "5.25", dto.RatePercentWord},
		{"0.0525", "5.25", dto.RateDecimalFraction},
		{"7", "7", dto.RateBarePercent},
	}
	for _, tc := range cases {
		got, format, err := ParseRate(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.True(t, got.Equal(dec(tc.want)), "%s: got %s", tc.raw, got)
		assert.Equal(t, tc.format, format)
	}

	_, _, err := ParseRate("five")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	cases := map[string]civil.Date{
		"03/31/2024":      {Year: 2024, Month: 3, Day: 31},
		"3/1/2024":        {Year: 2024, Month: 3, Day: 1},
		"03-31-2024":      {Year: 2024, Month: 3, Day: 31},
		"2024-03-31":      {Year: 2024, Month: 3, Day: 31},
		"March 31, 2024":  {Year: 2024, Month: 3, Day: 31},
		"Mar. 31, 2024":   {Year: 2024, Month: 3, Day: 31},
		"31 March 2024":   {Year: 2024, Month: 3, Day: 31},
		"Sept. 5, 2024":   {Year: 2024, Month: 9, Day: 5},
		"March 31st 2024": {Year: 2024, Month: 3, Day: 31},
	}
	for raw, want := range cases {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, bad := range []string{"02/30/2024", "13/01/2024", "01/32/2024", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFields(t *testing.T) {
	rec, err := ParseFields(map[string]string{
		"principal":       "1,000,000",
		"rate":            "5.25%",
		"start_date":      "2024-01-01",
		"end_date":        "2024-01-31",
		"interest_amount": "4,375.00",
	})
	require.NoError(t, err)
	assert.True(t, rec.Principal.Equal(dec("1000000")))
	assert.True(t, rec.AnnualRatePercent.Equal(dec("5.25")))
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 31}, rec.PeriodEnd)
	assert.True(t, rec.NoticeAmount.Equal(dec("4375")))
	assert.Equal(t, "field_map", rec.Confidence.Principal.Strategy)
}

func TestParseFieldsMissingAndInvalid(t *testing.T) {
	_, err := ParseFields(map[string]string{
		"principal":    "1000",
		"period_start": "02/30/2024",
		"unknown":      "ignored",
	})
	assert.Equal(t, []string{
		dto.FieldAnnualRate,
		dto.FieldPeriodStart,
		dto.FieldPeriodEnd,
		dto.FieldNoticeAmount,
	}, extractionFields(t, err))
}

func TestParseFieldsConflictingAliases(t *testing.T) {
	fields := map[string]string{
		"principal":        "1,000,000",
		"principal_amount": "2,000,000",
		"annual_rate":      "5.25",
		"period_start":     "2024-01-01",
		"period_end":       "2024-01-31",
		"notice_amount":    "4375",
	}

	for i := 0; i < 50; i++ {
		_, err := ParseFields(fields)
		var extractErr *dto.ExtractionError
		require.ErrorAs(t, err, &extractErr)
		require.Len(t, extractErr.Fields, 1)
		assert.Equal(t, dto.FieldPrincipal, extractErr.Fields[0].Field)
		assert.Equal(t, "ambiguous: conflicting values for principal, principal_amount", extractErr.Fields[0].Reason)
	}
}

func TestParseFieldsAgreeingAliases(t *testing.T) {
	rec, err := ParseFields(map[string]string{
		"principal":        "1,000,000",
		"principal_amount": " 1,000,000 ",
		"annual_rate":      "5.25",
		"interest_rate":    "5.25",
		"period_start":     "2024-01-01",
		"period_end":       "2024-01-31",
		"notice_amount":    "4375",
	})
	require.NoError(t, err)
	assert.True(t, rec.Principal.Equal(dec("1000000")))
	assert.Equal(t, "1,000,000", rec.Confidence.Principal.Raw)
}
