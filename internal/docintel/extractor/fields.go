package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Low-level field extractors. Each tries an ordered pattern list against the
// raw text and returns the first successful match (first-match-wins, not
// best-match). A false second return value means no pattern matched.

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\s?([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)usd\s+([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)amount[\s:]+\$?([\d,]+\.?\d*)`),
}

// Amount extracts a monetary amount as an exact decimal value.
// Thousands separators are stripped before parsing. Amounts are never
// parsed as binary floating point to avoid currency rounding error.
func Amount(text string) (decimal.Decimal, bool) {
	for _, p := range amountPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return val, true
	}
	return decimal.Decimal{}, false
}

var (
	numericDatePattern   = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})\b`)
	monthNameDatePattern = regexp.MustCompile(`\b([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})\b`)
	yearFirstDatePattern = regexp.MustCompile(`\b(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})\b`)
)

// Date extracts a calendar date, trying three shapes in order: numeric
// slash/dash-delimited, month-name form, and year-first. The numeric shape
// is interpreted as month/day/year with two-digit years normalized to the
// 2000s. No calendar-validity check is performed; out-of-range components
// normalize instead of rejecting.
func Date(text string) (time.Time, bool) {
	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	if m := monthNameDatePattern.FindStringSubmatch(text); m != nil {
		if t, ok := parseMonthNameDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}

	if m := yearFirstDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

func parseMonthNameDate(month, day, year string) (time.Time, bool) {
	// time.Parse month names are case-sensitive
	month = strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
	raw := month + " " + day + " " + year

	for _, layout := range []string{"January 2 2006", "Jan 2 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

var fundIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)fund\s+(?:id|identifier|number)[\s:]+([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)fund[\s:]+([A-Z]{2,6}\s?[0-9]+)`),
	regexp.MustCompile(`\b([A-Z]{3,6}[\s\-]?[IVX]+)\b`),
}

// FundID extracts a fund identifier from label-anchored token patterns,
// falling back to a bare roman-numeral fund name (e.g. "ABC-III").
func FundID(text string) (string, bool) {
	return firstMatch(text, fundIDPatterns)
}

var lpIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lp[\s:]+([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)limited\s+partner[\s:]+([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)investor[\s:]+([A-Z0-9\-]+)`),
}

// LPID extracts a limited partner identifier
func LPID(text string) (string, bool) {
	return firstMatch(text, lpIDPatterns)
}

var callNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)call\s+(?:no\.?|number)[\s:]+(\d+)`),
	regexp.MustCompile(`(?i)drawdown\s+(?:no\.?|number)[\s:]+(\d+)`),
	regexp.MustCompile(`(?i)(?:call|drawdown)\s+(\d+)`),
}

// CallNumber extracts a label-anchored call or drawdown sequence number
func CallNumber(text string) (int, bool) {
	for _, p := range callNumberPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func firstMatch(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
