package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/utils"
)

const (
	reportVerdictSheet    = "Validation"
	reportExtractionSheet = "Extraction"
	reportWarningsSheet   = "Warnings"
)

// BuildVerdictWorkbook renders a validation response as an XLSX workbook.
func BuildVerdictWorkbook(resp *dto.NoticeValidationResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportVerdictSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	v, calc := resp.Verdict, resp.Calculation
	rows := [][2]string{
		{"Status", v.Status},
		{"Message", v.Message},
		{"Document", resp.Document.FileName},
		{"Calculated interest", utils.FormatCurrency(v.CalculatedAmount)},
		{"Notice interest", utils.FormatCurrency(v.NoticeAmount)},
		{"Difference", utils.FormatCurrency(v.AbsoluteDifference)},
		{"Tolerance", utils.FormatCurrencyExact(v.ToleranceUsed)},
		{"Percentage difference", v.PercentageDifference.StringFixed(2) + "%"},
		{"Direction", v.Direction},
		{"Principal", utils.FormatCurrency(calc.Principal)},
		{"Annual rate", utils.FormatPercent(calc.AnnualRatePercent)},
		{"Period", utils.FormatDate(calc.PeriodStart) + " - " + utils.FormatDate(calc.PeriodEnd)},
		{"Days", strconv.Itoa(calc.Days)},
		{"Formula", calc.Formula},
		{"Explanation", v.Explanation},
		{"Recommendations", strings.Join(v.Recommendations, "\n")},
		{"Processed at", resp.ProcessedAt},
	}
	for i, r := range rows {
		if err := writeRow(f, reportVerdictSheet, i+1, r[0], r[1]); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(reportVerdictSheet, "A1", fmt.Sprintf("A%d", len(rows)), bold)
	_ = f.SetColWidth(reportVerdictSheet, "A", "A", 24)
	_ = f.SetColWidth(reportVerdictSheet, "B", "B", 80)

	if _, err := f.NewSheet(reportExtractionSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeRow(f, reportExtractionSheet, 1, "Field", "Value", "Strategy", "Level", "Score", "Raw"); err != nil {
		return nil, err
	}
	rec := resp.Record
	values := map[string]string{
		dto.FieldPrincipal:    utils.FormatCurrency(rec.Principal),
		dto.FieldAnnualRate:   utils.FormatPercent(rec.AnnualRatePercent),
		dto.FieldPeriodStart:  utils.FormatDate(rec.PeriodStart),
		dto.FieldPeriodEnd:    utils.FormatDate(rec.PeriodEnd),
		dto.FieldNoticeAmount: utils.FormatCurrency(rec.NoticeAmount),
	}
	sources := rec.Confidence.Sources()
	for i, field := range dto.RecordFields {
		src := sources[field]
		if err := writeRow(f, reportExtractionSheet, i+2, field, values[field], src.Strategy,
			string(src.Level), strconv.FormatFloat(src.Score, 'f', 2, 64), src.Raw); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(reportExtractionSheet, "A1", "F1", bold)
	_ = f.SetColWidth(reportExtractionSheet, "A", "C", 22)
	_ = f.SetColWidth(reportExtractionSheet, "F", "F", 40)

	if len(resp.Warnings) > 0 {
		if _, err := f.NewSheet(reportWarningsSheet); err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
		if err := writeRow(f, reportWarningsSheet, 1, "Field", "Message", "Suggestion"); err != nil {
			return nil, err
		}
		for i, w := range resp.Warnings {
			if err := writeRow(f, reportWarningsSheet, i+2, w.Field, w.Message, w.Suggestion); err != nil {
				return nil, err
			}
		}
		_ = f.SetCellStyle(reportWarningsSheet, "A1", "C1", bold)
		_ = f.SetColWidth(reportWarningsSheet, "B", "C", 48)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
