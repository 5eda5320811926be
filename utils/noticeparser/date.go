package noticeparser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Aashish23092/interest-notice-validator/dto"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	ordinal      = `(?:st|nd|rd|th)?`

	dateCore = `(?:\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})` +
		`|\d{1,2}-\d{1,2}-\d{4}` +
		`|\d{4}-\d{1,2}-\d{1,2}` +
		`|` + monthPattern + `\.?\s+\d{1,2}` + ordinal + `,?\s+\d{4}` +
		`|\d{1,2}` + ordinal + `\s+` + monthPattern + `\.?,?\s+\d{4})`

	datePattern = `\b(` + dateCore + `)\b`

	rangeSeparator = `\s*(?:-|–|—|to|through|thru|until)\s*`
)

var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"2006-1-2",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var (
	dateToken     = regexp.MustCompile(`(?i)` + datePattern)
	ordinalSuffix = regexp.MustCompile(`(?i)(\d)(?:st|nd|rd|th)\b`)
	septAbbrev    = regexp.MustCompile(`(?i)\bsept\b`)

	periodRange = regexp.MustCompile(`(?i)\b(?:interest\s+|accrual\s+|calculation\s+|billing\s+)?period\b[^\n:]{0,20}[:=]?\s*` +
		datePattern + rangeSeparator + datePattern)
	startLabel = regexp.MustCompile(`(?i)\b(?:(?:interest\s+)?period\s+start|accrual\s+start|start|from|beginning|commencement)` +
		`(?:\s+date)?` + labelGap + datePattern)
	endLabel = regexp.MustCompile(`(?i)\b(?:(?:interest\s+)?period\s+end|accrual\s+end|end|ending|through|thru|to)` +
		`(?:\s+date)?` + labelGap + datePattern)
)

// lines mentioning these describe the notice itself, not the accrual period
var nonPeriodContext = []string{"notice", "reference", "issue", "print"}

// ParseDate reads a calendar date written as MM/DD/YYYY, MM-DD-YYYY,
// YYYY-MM-DD or with an English month name. Impossible dates such as
// 02/30/2024 are rejected rather than rolled over.
func ParseDate(raw string) (civil.Date, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if strings.IndexFunc(s, isLetter) >= 0 {
		s = ordinalSuffix.ReplaceAllString(s, "$1")
		s = strings.NewReplacer(".", "", ",", " ").Replace(s)
		s = septAbbrev.ReplaceAllString(s, "Sep")
		s = strings.Join(strings.Fields(s), " ")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("%q is not a valid calendar date", strings.TrimSpace(raw))
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func labelledDate(name string, re *regexp.Regexp, group int) strategy[civil.Date] {
	return strategy[civil.Date]{
		name:  name,
		level: dto.MatchExact,
		find:  firstGroup(re, group),
		parse: ParseDate,
	}
}

var periodStartStrategies = []strategy[civil.Date]{
	labelledDate("period_range", periodRange, 1),
	labelledDate("start_label", startLabel, 1),
	{
		name:  "chronological_dates",
		level: dto.MatchFallback,
		find:  func(text string) (string, bool) { return nthPeriodDate(text, 0) },
		parse: ParseDate,
	},
}

var periodEndStrategies = []strategy[civil.Date]{
	labelledDate("period_range", periodRange, 2),
	labelledDate("end_label", endLabel, 1),
	{
		name:  "chronological_dates",
		level: dto.MatchFallback,
		find:  func(text string) (string, bool) { return nthPeriodDate(text, 1) },
		parse: ParseDate,
	},
}

// nthPeriodDate orders the distinct valid dates outside notice/reference
// lines and returns the n-th one. At least two dates are required.
func nthPeriodDate(text string, n int) (string, bool) {
	type candidate struct {
		raw  string
		date civil.Date
	}

	var (
		found []candidate
		seen  = map[civil.Date]bool{}
	)
	for _, line := range strings.Split(text, "\n") {
		if mentionsAny(strings.ToLower(line), nonPeriodContext) {
			continue
		}
		for _, m := range dateToken.FindAllStringSubmatch(line, -1) {
			d, err := ParseDate(m[1])
			if err != nil || seen[d] {
				continue
			}
			seen[d] = true
			found = append(found, candidate{raw: m[1], date: d})
		}
	}
	if len(found) < 2 {
		return "", false
	}

	sort.Slice(found, func(i, j int) bool { return found[i].date.Before(found[j].date) })
	return found[n].raw, true
}

func mentionsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
