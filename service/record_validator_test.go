package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

func validRecord() dto.ExtractedRecord {
	return dto.ExtractedRecord{
		Principal:         dec("1000000"),
		AnnualRatePercent: dec("5.25"),
		RateFormat:        dto.RatePercentSign,
		PeriodStart:       date(2024, 1, 1),
		PeriodEnd:         date(2024, 1, 31),
		NoticeAmount:      dec("4375"),
	}
}

func inputFailures(t *testing.T, err error) *dto.InputValidationError {
	t.Helper()
	var inputErr *dto.InputValidationError
	require.True(t, errors.As(err, &inputErr), "expected *dto.InputValidationError, got %v", err)
	return inputErr
}

func TestValidateRecordAccepts(t *testing.T) {
	rec := validRecord()

	out, warnings, err := ValidateRecord(rec)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, rec, out)
}

func TestValidateRecordNegativePrincipal(t *testing.T) {
	rec := validRecord()
	rec.Principal = dec("-1000000")

	_, _, err := ValidateRecord(rec)

	inputErr := inputFailures(t, err)
	require.Len(t, inputErr.Fields, 1)
	assert.Equal(t, dto.FieldPrincipal, inputErr.Fields[0].Field)
	assert.Equal(t, "negative amount is malformed", inputErr.Fields[0].Reason)
}

func TestValidateRecordReportsEveryFailure(t *testing.T) {
	rec := validRecord()
	rec.Principal = dec("-1")
	rec.AnnualRatePercent = dec("150")
	rec.PeriodEnd = date(2023, 12, 1)
	rec.NoticeAmount = dec("-5")

	_, _, err := ValidateRecord(rec)

	assert.Equal(t, []string{
		dto.FieldPrincipal,
		dto.FieldAnnualRate,
		dto.FieldPeriodEnd,
		dto.FieldNoticeAmount,
	}, inputFailures(t, err).FieldNames())
}

func TestValidateRecordLimits(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.ExtractedRecord)
		field  string
	}{
		{"zero principal", func(r *dto.ExtractedRecord) { r.Principal = dec("0") }, dto.FieldPrincipal},
		{"principal above maximum", func(r *dto.ExtractedRecord) { r.Principal = dto.MaxPrincipal.Add(dec("0.01")) }, dto.FieldPrincipal},
		{"zero rate", func(r *dto.ExtractedRecord) { r.AnnualRatePercent = dec("0") }, dto.FieldAnnualRate},
		{"rate above 100", func(r *dto.ExtractedRecord) { r.AnnualRatePercent = dec("100.5") }, dto.FieldAnnualRate},
		{"same day period", func(r *dto.ExtractedRecord) { r.PeriodEnd = r.PeriodStart }, dto.FieldPeriodEnd},
		{"period above ten years", func(r *dto.ExtractedRecord) { r.PeriodStart = date(2010, 1, 4) }, dto.FieldPeriodEnd},
		{"notice above principal", func(r *dto.ExtractedRecord) { r.NoticeAmount = dec("1000000.01") }, dto.FieldNoticeAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			_, _, err := ValidateRecord(rec)

			assert.Equal(t, []string{tc.field}, inputFailures(t, err).FieldNames())
		})
	}
}

func TestValidateRecordWarnings(t *testing.T) {
	rec := dto.ExtractedRecord{
		Principal:         dec("500"),
		AnnualRatePercent: dec("30"),
		PeriodStart:       date(2024, 1, 1),
		PeriodEnd:         date(2024, 1, 11),
		NoticeAmount:      dec("0.69"),
	}

	out, warnings, err := ValidateRecord(rec)

	require.NoError(t, err)
	assert.Equal(t, rec, out)

	fields := make([]string, 0, len(warnings))
	for _, w := range warnings {
		fields = append(fields, w.Field)
	}
	assert.Equal(t, []string{dto.FieldPrincipal, dto.FieldAnnualRate, dto.FieldNoticeAmount}, fields)
}

func TestValidateRecordLongPeriodAndWeekend(t *testing.T) {
	rec := validRecord()
	rec.PeriodEnd = date(2026, 1, 1)
	rec.NoticeAmount = dec("106575")

	_, warnings, err := ValidateRecord(rec)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, dto.FieldPeriodEnd, warnings[0].Field)
	assert.Contains(t, warnings[0].Message, "731 days")

	rec = validRecord()
	rec.PeriodEnd = date(2024, 3, 31)
	rec.NoticeAmount = dec("13125")

	_, warnings, err = ValidateRecord(rec)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "03/31/2024 falls on a Sunday", warnings[0].Message)
}

func TestValidateRecordAcceptsMaxPrincipal(t *testing.T) {
	rec := validRecord()
	rec.Principal = dto.MaxPrincipal

	_, _, err := ValidateRecord(rec)

	assert.NoError(t, err)
}
