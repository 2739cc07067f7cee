package normalize

import (
	"testing"
	"time"
)

func TestOrgName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  atlas   trading ", "ATLAS TRADING"},
		{"S.A.R.L. Maroc Plastique", "SARL MAROC PLASTIQUE"},
		{"s.a.r.l atlas", "SARL ATLAS"},
		{"S.A. Ciments du Sud", "SA CIMENTS DU SUD"},
		{"S.AVIATION SERVICES", "S.AVIATION SERVICES"},
		{"TEXTILE S.A.R.L DU NORD", "TEXTILE S.A.R.L DU NORD"},
		{"S.A.R.L.", "SARL"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := OrgName(tc.in); got != tc.want {
			t.Errorf("OrgName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTaxID(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"123", "000000000000123", true},
		{"001234567891234", "001234567891234", true},
		{"1234567890123456", "", false},
		{"", "", false},
		{"abc", "", false},
		{"12-34 56", "000000000123456", true},
	}
	for _, tc := range cases {
		got, ok := TaxID(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("TaxID(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Contact@Example.COM", "contact@example.com", true},
		{" contact @ example.com ", "contact@example.com", true},
		{"contact@example,com", "contact@example.com", true},
		{"not-an-email", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := Email(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Email(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in     string
		prefix bool
		want   string
		ok     bool
	}{
		{"0612345678", true, "+212612345678", true},
		{"212612345678", true, "+212612345678", true},
		{"00212612345678", true, "+212612345678", true},
		{"06 12 34 56 78", true, "+212612345678", true},
		{"0612345678", false, "0612345678", true},
		{"612345678", true, "+212612345678", true},
		{"12345", true, "", false},
		{"", true, "", false},
	}
	for _, tc := range cases {
		got, ok := Phone(tc.in, tc.prefix)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Phone(%q, %v) = (%q, %v), want (%q, %v)", tc.in, tc.prefix, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFlexibleDateISOTakesPrecedence(t *testing.T) {
	got, ok := FlexibleDate("2024-03-15")
	if !ok {
		t.Fatalf("expected ISO date to parse")
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("FlexibleDate ISO = %v, want %v", got, want)
	}
}

func TestFlexibleDateDayMonthYear(t *testing.T) {
	for _, in := range []string{"15/03/2024", "15-03-2024"} {
		got, ok := FlexibleDate(in)
		if !ok {
			t.Fatalf("expected %q to parse", in)
		}
		if got.Day() != 15 || got.Month() != time.March || got.Year() != 2024 {
			t.Fatalf("FlexibleDate(%q) = %v, want 15 March 2024", in, got)
		}
	}
}

func TestFlexibleDateUSFallback(t *testing.T) {
	// Month 12, day 25: impossible as day/month, so the US branch applies.
	got, ok := FlexibleDate("12/25/2024")
	if !ok {
		t.Fatalf("expected US style date to parse")
	}
	if got.Month() != time.December || got.Day() != 25 {
		t.Fatalf("FlexibleDate US = %v, want 25 December 2024", got)
	}

	// Outside the trusted year window the US branch is rejected.
	if _, ok := FlexibleDate("12/25/1980"); ok {
		t.Fatalf("expected US style date outside [2000,2050] to be rejected")
	}
}

func TestFlexibleDateExcelSerial(t *testing.T) {
	// Serial 45000 is 2023-03-15 counted from the 1899-12-30 epoch.
	got, ok := FlexibleDate("45000")
	if !ok {
		t.Fatalf("expected serial date to parse")
	}
	want := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("FlexibleDate serial = %v, want %v", got, want)
	}
}

func TestFlexibleDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not a date", "99/99/9999", "-5"} {
		if _, ok := FlexibleDate(in); ok {
			t.Errorf("expected FlexibleDate(%q) to fail", in)
		}
	}
}

func TestNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.50", 1234.50, true},
		{"1 250 000 MAD", 1250000, true},
		{"-42", -42, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range cases {
		got, ok := Numeric(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Numeric(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

// Totality: no input shape may panic; failure is always the comma-ok false.
func TestNormalizersNeverPanic(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "0", "-", ".", "\x00", "éàç", "....", "112233445566778899"}
	for _, in := range inputs {
		OrgName(in)
		TaxID(in)
		Email(in)
		Phone(in, true)
		Phone(in, false)
		FlexibleDate(in)
		Numeric(in)
	}
}
