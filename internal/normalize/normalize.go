// Package normalize holds the cell level cleaning functions applied to
// spreadsheet values before they reach the canonical tables. Every function is
// total: bad input yields a comma-ok false (or an empty string), never a panic.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const countryCode = "212"

// excelEpoch is the zero point of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	nonDigitPattern   = regexp.MustCompile(`[^0-9]`)
	numericPattern    = regexp.MustCompile(`[^0-9.\-]`)
)

// legalFormRewrites maps dotted legal form prefixes onto their canonical
// spelling. Longest variants first so "S.A.R.L" is not shadowed by "S.A".
var legalFormRewrites = []struct {
	dotted    string
	canonical string
}{
	{"S.A.R.L. A.U", "SARL AU"},
	{"S.A.R.L AU", "SARL AU"},
	{"S.A.R.L.", "SARL"},
	{"S.A.R.L", "SARL"},
	{"S.A.S.", "SAS"},
	{"S.A.S", "SAS"},
	{"S.N.C.", "SNC"},
	{"S.N.C", "SNC"},
	{"S.C.A.", "SCA"},
	{"S.C.A", "SCA"},
	{"S.A.", "SA"},
	{"S.A", "SA"},
}

// OrgName trims, collapses internal whitespace, upper-cases, and rewrites a
// dotted legal form prefix at the start of the name to its canonical form.
func OrgName(raw string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	name = whitespacePattern.ReplaceAllString(name, " ")
	for _, rule := range legalFormRewrites {
		if !strings.HasPrefix(name, rule.dotted) {
			continue
		}
		rest := name[len(rule.dotted):]
		// Variants without a trailing dot must end at a word boundary so
		// "S.A VOYAGE" rewrites but "S.AVIATION" stays untouched.
		if !strings.HasSuffix(rule.dotted, ".") && rest != "" && !strings.HasPrefix(rest, " ") {
			continue
		}
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			return rule.canonical
		}
		return rule.canonical + " " + rest
	}
	return name
}

// TaxID strips non-digit characters and left-pads the result with zeros to
// exactly 15 digits. Inputs with no digits, or more than 15, are rejected.
func TaxID(raw string) (string, bool) {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	if len(digits) == 0 || len(digits) > 15 {
		return "", false
	}
	return strings.Repeat("0", 15-len(digits)) + digits, true
}

// Email lower-cases and repairs common paste errors (embedded whitespace,
// commas typed instead of periods) before validating the address shape.
func Email(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	email = whitespacePattern.ReplaceAllString(email, "")
	email = strings.ReplaceAll(email, ",", ".")
	if !emailPattern.MatchString(email) {
		return "", false
	}
	return email, true
}

// Phone cleans a Moroccan phone number. The country code is stripped whether
// written bare ("212...") or in international form ("00212..."); the remaining
// national number must be 9 or 10 digits. A 9 digit number starting with a
// mobile or landline range digit gains its trunk zero. With addCountryPrefix
// the trunk zero is replaced by "+212".
func Phone(raw string, addCountryPrefix bool) (string, bool) {
	digits := nonDigitPattern.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(digits, "00"+countryCode):
		digits = digits[len(countryCode)+2:]
	case strings.HasPrefix(digits, countryCode):
		digits = digits[len(countryCode):]
	}

	if len(digits) == 9 {
		switch digits[0] {
		case '5', '6', '7':
			digits = "0" + digits
		}
	}
	if len(digits) != 10 || digits[0] != '0' {
		return "", false
	}

	if addCountryPrefix {
		return "+" + countryCode + digits[1:], true
	}
	return digits, true
}

var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2/1/2006",
	"2-1-2006",
}

// FlexibleDate parses the date formats seen in the field: ISO first, then
// day/month/year with slash or dash separators, then US month/day/year (only
// accepted when the year lands in [2000, 2050]), then a spreadsheet serial
// number counted from the 1899-12-30 epoch.
func FlexibleDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	// US ordering is only trusted for plausible business years.
	if ts, err := time.Parse("1/2/2006", value); err == nil {
		if ts.Year() >= 2000 && ts.Year() <= 2050 {
			return ts, true
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial > 0 && serial < 200000 {
			return excelEpoch.AddDate(0, 0, int(serial)), true
		}
	}

	return time.Time{}, false
}

// Numeric strips currency symbols, spaces, and thousand separators other than
// periods, then parses the remainder as a float.
func Numeric(raw string) (float64, bool) {
	cleaned := numericPattern.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
