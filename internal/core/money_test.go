package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestSalesTaxFor(t *testing.T) {
	rate, err := ParseTaxRate("0.0635")
	if err != nil {
		t.Fatalf("parse rate: %v", err)
	}
	if got := SalesTaxFor(10000, rate); got != 635 {
		t.Fatalf("SalesTaxFor(10000, 0.0635) = %d, want 635", got)
	}
	if got := RatePercent(rate); got != "6.35" {
		t.Fatalf("RatePercent = %q, want \"6.35\"", got)
	}

	meal, _ := ParseTaxRate("0.0735")
	if got := SalesTaxFor(9999, meal); got != 735 {
		// 9999 * 0.0735 = 734.9265 -> 735
		t.Fatalf("SalesTaxFor(9999, 0.0735) = %d, want 735", got)
	}
}

func TestParseTaxRateRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"", "x", "-0.05", "0", "1", "1.5"} {
		if _, err := ParseTaxRate(in); err == nil {
			t.Errorf("ParseTaxRate(%q) expected error", in)
		}
	}
}
