package styles

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyFormatting(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"10020", "$10,020.00"},
		{"1004.59", "$1,004.59"},
		{"500000", "$500,000.00"},
		{"1234567.89", "$1,234,567.89"},
		{"-20.5", "-$20.50"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatalf("parse %q: %v", c.in, err)
		}
		if got := Money(d); got != c.want {
			t.Errorf("Money(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSignedMoney(t *testing.T) {
	if got := SignedMoney(decimal.NewFromInt(20)); got != "+$20.00" {
		t.Errorf("got %q", got)
	}
	if got := SignedMoney(decimal.NewFromInt(-20)); got != "-$20.00" {
		t.Errorf("got %q", got)
	}
}

func TestPriceCondensesValuations(t *testing.T) {
	if got := Price(22000, true); got != "$22.0K" {
		t.Errorf("got %q", got)
	}
	if got := Price(1_300_000, true); got != "$1.3M" {
		t.Errorf("got %q", got)
	}
	if got := Price(1200, false); got != "$1,200.00" {
		t.Errorf("got %q", got)
	}
}

func TestClock(t *testing.T) {
	if got := Clock(420); got != "7:00" {
		t.Errorf("got %q", got)
	}
	if got := Clock(61); got != "1:01" {
		t.Errorf("got %q", got)
	}
	if got := Clock(-3); got != "0:00" {
		t.Errorf("got %q", got)
	}
}
