// Package noticeparser extracts the financial fields of an interest payment
// notice from its plain text.
//
// Every field is located by an ordered list of strategies, most specific
// (an exact label next to its value) first and loose heuristics last. The
// first strategy that produces a usable value wins; nothing is averaged or
// merged. When an exact label is found next to a value that cannot be valid
// (a 32nd day, a broken thousands grouping) the field fails instead of
// falling through to a looser strategy that might pick a different number.
package noticeparser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

const (
	scoreExact    = 0.9
	scoreFallback = 0.6
	scoreFieldMap = 1.0

	reasonNotFound = "not found in document"
)

// strategy is one way of locating a field value in the notice text.
type strategy[T any] struct {
	name  string
	level dto.MatchLevel
	find  func(text string) (raw string, ok bool)
	parse func(raw string) (T, error)
}

func (s strategy[T]) score() float64 {
	if s.level == dto.MatchExact {
		return scoreExact
	}
	return scoreFallback
}

// locate runs the strategies in order and stops at the first usable value.
func locate[T any](field, text string, strategies []strategy[T]) (T, dto.FieldSource, *dto.FieldError) {
	var zero T
	for _, s := range strategies {
		raw, ok := s.find(text)
		if !ok {
			continue
		}
		value, err := s.parse(raw)
		if err != nil {
			if s.level == dto.MatchExact {
				return zero, dto.FieldSource{}, &dto.FieldError{
					Field:  field,
					Reason: fmt.Sprintf("%v (label %s)", err, s.name),
					Value:  strings.TrimSpace(raw),
				}
			}
			continue
		}
		return value, dto.FieldSource{
			Strategy: s.name,
			Level:    s.level,
			Score:    s.score(),
			Raw:      strings.TrimSpace(raw),
		}, nil
	}
	return zero, dto.FieldSource{}, &dto.FieldError{Field: field, Reason: reasonNotFound}
}

// Parse extracts an ExtractedRecord from raw notice text. When any field
// cannot be located the returned *dto.ExtractionError lists every failing
// field, in dto.RecordFields order.
func Parse(text string) (dto.ExtractedRecord, error) {
	if strings.TrimSpace(text) == "" {
		failures := make([]dto.FieldError, 0, len(dto.RecordFields))
		for _, f := range dto.RecordFields {
			failures = append(failures, dto.FieldError{Field: f, Reason: dto.ReasonNoText})
		}
		return dto.ExtractedRecord{}, &dto.ExtractionError{Fields: failures}
	}

	var (
		rec      dto.ExtractedRecord
		failures []dto.FieldError
		fail     = func(e *dto.FieldError) {
			if e != nil {
				failures = append(failures, *e)
			}
		}
	)

	principal, src, ferr := locate(dto.FieldPrincipal, text, principalStrategies)
	rec.Principal, rec.Confidence.Principal = principal, src
	fail(ferr)

	rate, src, ferr := locate(dto.FieldAnnualRate, text, rateStrategies)
	rec.AnnualRatePercent, rec.RateFormat, rec.Confidence.AnnualRate = rate.percent, rate.format, src
	fail(ferr)

	start, src, ferr := locate(dto.FieldPeriodStart, text, periodStartStrategies)
	rec.PeriodStart, rec.Confidence.PeriodStart = start, src
	fail(ferr)

	end, src, ferr := locate(dto.FieldPeriodEnd, text, periodEndStrategies)
	rec.PeriodEnd, rec.Confidence.PeriodEnd = end, src
	fail(ferr)

	notice, src, ferr := locate(dto.FieldNoticeAmount, text, noticeAmountStrategies)
	rec.NoticeAmount, rec.Confidence.NoticeAmount = notice, src
	fail(ferr)

	if len(failures) > 0 {
		return dto.ExtractedRecord{}, &dto.ExtractionError{Fields: failures}
	}
	return rec, nil
}

// fieldAliases maps accepted map keys onto record fields.
var fieldAliases = map[string]string{
	"principal":           dto.FieldPrincipal,
	"principal_amount":    dto.FieldPrincipal,
	"annual_rate":         dto.FieldAnnualRate,
	"rate":                dto.FieldAnnualRate,
	"interest_rate":       dto.FieldAnnualRate,
	"period_start":        dto.FieldPeriodStart,
	"start_date":          dto.FieldPeriodStart,
	"period_end":          dto.FieldPeriodEnd,
	"end_date":            dto.FieldPeriodEnd,
	"notice_amount":       dto.FieldNoticeAmount,
	"interest_amount":     dto.FieldNoticeAmount,
	"notice_interest":     dto.FieldNoticeAmount,
	"notice_interest_amt": dto.FieldNoticeAmount,
}

// FieldKeys lists every accepted field-map key, sorted.
func FieldKeys() []string {
	keys := make([]string, 0, len(fieldAliases))
	for k := range fieldAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CanonicalField resolves a field-map key (or one of its aliases).
func CanonicalField(key string) (string, bool) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(key))]
	return f, ok
}

// ParseFields builds a record from a pre-built field map, for callers that
// already hold the values. The same value parsers as Parse are used. Aliases
// of one field must agree; conflicting values make the field ambiguous.
func ParseFields(fields map[string]string) (dto.ExtractedRecord, error) {
	keysByField := make(map[string][]string)
	for _, k := range sortedKeys(fields) {
		if f, ok := CanonicalField(k); ok && strings.TrimSpace(fields[k]) != "" {
			keysByField[f] = append(keysByField[f], k)
		}
	}

	var (
		rec      dto.ExtractedRecord
		failures []dto.FieldError
	)
	source := func(raw string) dto.FieldSource {
		return dto.FieldSource{Strategy: "field_map", Level: dto.MatchExact, Score: scoreFieldMap, Raw: raw}
	}

	for _, field := range dto.RecordFields {
		keys := keysByField[field]
		if len(keys) == 0 {
			failures = append(failures, dto.FieldError{Field: field, Reason: "not provided"})
			continue
		}
		raw, ok := agreedValue(fields, keys)
		if !ok {
			failures = append(failures, dto.FieldError{
				Field:  field,
				Reason: "ambiguous: conflicting values for " + strings.Join(keys, ", "),
			})
			continue
		}

		var err error
		switch field {
		case dto.FieldPrincipal:
			rec.Principal, err = ParseAmount(raw)
			rec.Confidence.Principal = source(raw)
		case dto.FieldAnnualRate:
			var r rateValue
			r, err = parseAnyRate(raw)
			rec.AnnualRatePercent, rec.RateFormat = r.percent, r.format
			rec.Confidence.AnnualRate = source(raw)
		case dto.FieldPeriodStart:
			rec.PeriodStart, err = ParseDate(raw)
			rec.Confidence.PeriodStart = source(raw)
		case dto.FieldPeriodEnd:
			rec.PeriodEnd, err = ParseDate(raw)
			rec.Confidence.PeriodEnd = source(raw)
		case dto.FieldNoticeAmount:
			rec.NoticeAmount, err = ParseAmount(raw)
			rec.Confidence.NoticeAmount = source(raw)
		}
		if err != nil {
			failures = append(failures, dto.FieldError{Field: field, Reason: err.Error(), Value: raw})
		}
	}

	if len(failures) > 0 {
		return dto.ExtractedRecord{}, &dto.ExtractionError{Fields: failures}
	}
	return rec, nil
}

// agreedValue returns the value shared by every key, compared after trimming.
func agreedValue(fields map[string]string, keys []string) (string, bool) {
	raw := strings.TrimSpace(fields[keys[0]])
	for _, k := range keys[1:] {
		if strings.TrimSpace(fields[k]) != raw {
			return "", false
		}
	}
	return raw, true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
