package noticeparser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

const (
	currencyPattern = `(?:US\$|USD|\$)`
	numberPattern   = `\d[\d,]*(?:\.\d+)?`

	// optional parenthetical qualifier and separator between a label and its value
	labelGap = `\s*(?:\([^)\n]*\))?\s*[:=]?\s*`

	// an amount must not run into a date, a percentage or a longer number
	valueEnd = `(?:[^\w/\-%.]|\.(?:\D|$)|$)`

	moneyPattern = `(\(\s*` + currencyPattern + `?\s*` + numberPattern + `\s*\)` +
		`|` + currencyPattern + `\s*\(\s*` + numberPattern + `\s*\)` +
		`|-?\s*` + currencyPattern + `?\s*-?` + numberPattern + `)`

	currencyAmountPattern = `(` + currencyPattern + `\s*` + numberPattern + `)`
)

var (
	groupedNumber  = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?$`)
	currencyAmount = regexp.MustCompile(`(?i)` + currencyAmountPattern + valueEnd)
	nearPrincipal  = regexp.MustCompile(`(?i)\b(?:principal|loan|facility|balance)\b[^\n$]{0,40}?` + currencyAmountPattern + valueEnd)
)

var (
	errEmptyAmount       = errors.New("amount is empty")
	errUnbalancedParens  = errors.New("unbalanced parentheses in amount")
	errDoubleNegative    = errors.New("amount is negated twice")
	errMalformedGrouping = errors.New("malformed amount or thousands grouping")
)

// ParseAmount reads a currency amount such as "$1,234,567.89", "USD 500",
// "(1,000.00)" or "-$250". Parentheses and a leading minus both mean a
// negative amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	negative := false
	if strings.ContainsAny(s, "()") {
		open := strings.Index(s, "(")
		if strings.Count(s, "(") != 1 || strings.Count(s, ")") != 1 || open < 0 || !strings.HasSuffix(s, ")") {
			return decimal.Zero, errUnbalancedParens
		}
		if prefix := s[:open]; prefix != "" && trimCurrency(prefix) != "" {
			return decimal.Zero, errUnbalancedParens
		}
		s = s[:open] + s[open+1:len(s)-1]
		negative = true
	}

	for i := 0; i < 2; i++ {
		if strings.HasPrefix(s, "-") {
			if negative {
				return decimal.Zero, errDoubleNegative
			}
			negative = true
			s = s[1:]
		}
		s = trimCurrency(s)
	}

	s = strings.TrimRight(s, ",")
	if !groupedNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", errMalformedGrouping, raw)
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", errMalformedGrouping, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func trimCurrency(s string) string {
	upper := strings.ToUpper(s)
	for _, sym := range []string{"US$", "USD", "$"} {
		if strings.HasPrefix(upper, sym) {
			return s[len(sym):]
		}
	}
	return s
}

// firstGroup returns a finder yielding capture group n of the first match.
func firstGroup(re *regexp.Regexp, n int) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[n], true
	}
}

func labelledAmount(name, label string) strategy[decimal.Decimal] {
	re := regexp.MustCompile(`(?i)` + label + labelGap + moneyPattern + valueEnd)
	return strategy[decimal.Decimal]{
		name:  name,
		level: dto.MatchExact,
		find:  firstGroup(re, 1),
		parse: ParseAmount,
	}
}

var principalStrategies = []strategy[decimal.Decimal]{
	labelledAmount("principal_amount", `\bprincipal(?:\s+(?:amount|balance|outstanding|sum))?`),
	labelledAmount("loan_amount", `\b(?:loan|facility|commitment|notional)\s+amount`),
	labelledAmount("outstanding_balance", `\boutstanding(?:\s+loan)?\s+(?:balance|amount)`),
	{
		name:  "amount_near_keyword",
		level: dto.MatchFallback,
		find:  firstGroup(nearPrincipal, 1),
		parse: ParseAmount,
	},
	{
		name:  "largest_amount",
		level: dto.MatchFallback,
		find:  largestAmount,
		parse: ParseAmount,
	},
}

// largestAmount picks the biggest currency amount in a plausible principal range.
func largestAmount(text string) (string, bool) {
	var (
		best    decimal.Decimal
		bestRaw string
		floor   = decimal.NewFromInt(1000)
	)
	for _, m := range currencyAmount.FindAllStringSubmatch(text, -1) {
		d, err := ParseAmount(m[1])
		if err != nil || d.LessThan(floor) || d.GreaterThan(dto.MaxPrincipal) {
			continue
		}
		if bestRaw == "" || d.GreaterThan(best) {
			best, bestRaw = d, m[1]
		}
	}
	return bestRaw, bestRaw != ""
}

// qualifier such as "for the period 01/01/2024 - 03/31/2024" between an
// interest label and its separator
const interestQualifier = `(?:[ \t]+(?:for|on|this)[^\n:$]{0,40})?`

var noticeAmountStrategies = []strategy[decimal.Decimal]{
	labelledAmount("interest_amount", `\binterest\s+amount(?:\s+due)?`+interestQualifier),
	labelledAmount("interest_due", `\binterest\s+(?:due|payment|payable)(?:\s+amount)?`+interestQualifier),
	labelledAmount("total_interest", `\btotal\s+interest(?:\s+(?:due|amount|payable|charge))?`+interestQualifier),
	labelledAmount("accrued_interest", `\baccrued\s+interest(?:\s+amount)?`+interestQualifier),
	labelledAmount("interest_calculated", `\binterest\s+(?:calculated|charged)`+interestQualifier),
	{
		name:  "interest_line",
		level: dto.MatchFallback,
		find:  interestLineAmount,
		parse: ParseAmount,
	},
}

// interestLineAmount takes the first currency amount on a line that talks
// about interest but is neither the rate nor a principal line.
func interestLineAmount(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "interest") || strings.Contains(lower, "rate") || strings.Contains(lower, "principal") {
			continue
		}
		if m := currencyAmount.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}
