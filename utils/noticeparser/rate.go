package noticeparser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

// rateValue is an annual rate already converted to percent, plus the way it
// was written in the document.
type rateValue struct {
	percent decimal.Decimal
	format  dto.RateFormat
}

const (
	rateLabel = `(?:\b(?:annual|annualized|all[-\s]in|nominal|contract|coupon|interest|applicable)\s+)*\brate\b` +
		`(?:\s+of\s+interest)?(?:\s+per\s+annum)?` + labelGap

	rateNumber  = `(\d+(?:\.\d+)?|\.\d+)`
	percentWord = `(?:percent|per\s*cent|pct)`
)

var (
	hundred = decimal.NewFromInt(100)

	ratePercentSign = regexp.MustCompile(`(?i)` + rateLabel + rateNumber + `\s*%`)
	ratePercentWord = regexp.MustCompile(`(?i)` + rateLabel + rateNumber + `\s*` + percentWord + `\b`)
	rateFraction    = regexp.MustCompile(`(?i)` + rateLabel + `(0?\.\d+)(\s*(?:%|` + percentWord + `))?` + valueEnd)
	rateBare        = regexp.MustCompile(`(?i)` + rateLabel + `(\d+(?:\.\d+)?)(\s*(?:%|` + percentWord + `))?` + valueEnd)
	anyPercent      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	rateStandalone  = regexp.MustCompile(`(?i)^` + rateNumber + `\s*(%|` + percentWord + `)?$`)
)

var (
	errRateNotPositive = errors.New("rate must be positive")
	errRateAmbiguous   = errors.New("bare rate below 1 is ambiguous")
	errRateOutOfRange  = errors.New("bare rate above 100")
)

var rateStrategies = []strategy[rateValue]{
	{
		name:  "rate_percent_sign",
		level: dto.MatchExact,
		find:  firstGroup(ratePercentSign, 1),
		parse: percentRate(dto.RatePercentSign),
	},
	{
		name:  "rate_percent_word",
		level: dto.MatchExact,
		find:  firstGroup(ratePercentWord, 1),
		parse: percentRate(dto.RatePercentWord),
	},
	{
		name:  "rate_decimal_fraction",
		level: dto.MatchExact,
		find:  unsuffixed(rateFraction),
		parse: fractionRate,
	},
	{
		name:  "rate_bare_number",
		level: dto.MatchFallback,
		find:  unsuffixed(rateBare),
		parse: bareRate,
	},
	{
		name:  "any_percentage",
		level: dto.MatchFallback,
		find:  firstPlausiblePercent,
		parse: percentRate(dto.RatePercentSign),
	},
}

// unsuffixed finds a labelled number that carries no percent marker.
func unsuffixed(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if m[2] == "" {
				return m[1], true
			}
		}
		return "", false
	}
}

func firstPlausiblePercent(text string) (string, bool) {
	for _, m := range anyPercent.FindAllStringSubmatch(text, -1) {
		d, err := decimal.NewFromString(m[1])
		if err == nil && d.IsPositive() && d.LessThanOrEqual(hundred) {
			return m[1], true
		}
	}
	return "", false
}

func percentRate(format dto.RateFormat) func(string) (rateValue, error) {
	return func(raw string) (rateValue, error) {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return rateValue{}, fmt.Errorf("malformed rate %q", raw)
		}
		return rateValue{percent: d, format: format}, nil
	}
}

func fractionRate(raw string) (rateValue, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return rateValue{}, fmt.Errorf("malformed rate %q", raw)
	}
	if !d.IsPositive() {
		return rateValue{}, errRateNotPositive
	}
	return rateValue{percent: d.Mul(hundred), format: dto.RateDecimalFraction}, nil
}

func bareRate(raw string) (rateValue, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return rateValue{}, fmt.Errorf("malformed rate %q", raw)
	}
	switch {
	case d.LessThan(decimal.NewFromInt(1)):
		return rateValue{}, errRateAmbiguous
	case d.GreaterThan(hundred):
		return rateValue{}, errRateOutOfRange
	}
	return rateValue{percent: d, format: dto.RateBarePercent}, nil
}

// parseAnyRate reads a standalone rate value. A number below 1 without a
// percent marker is a decimal fraction, otherwise it is already a percent.
func parseAnyRate(raw string) (rateValue, error) {
	m := rateStandalone.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return rateValue{}, fmt.Errorf("malformed rate %q", raw)
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return rateValue{}, fmt.Errorf("malformed rate %q", raw)
	}

	switch {
	case m[2] == "%":
		return rateValue{percent: d, format: dto.RatePercentSign}, nil
	case m[2] != "":
		return rateValue{percent: d, format: dto.RatePercentWord}, nil
	case d.LessThan(decimal.NewFromInt(1)):
		return rateValue{percent: d.Mul(hundred), format: dto.RateDecimalFraction}, nil
	default:
		return rateValue{percent: d, format: dto.RateBarePercent}, nil
	}
}

// ParseRate converts a written rate ("5.25%", "5.25 percent", "0.0525", "5.25")
// into an annual percentage.
func ParseRate(raw string) (decimal.Decimal, dto.RateFormat, error) {
	r, err := parseAnyRate(raw)
	if err != nil {
		return decimal.Zero, "", err
	}
	return r.percent, r.format, nil
}
