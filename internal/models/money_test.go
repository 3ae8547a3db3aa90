package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLocalizedAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"623.000", 623000},
		{"1,250,000", 1250000},
		{" 50.000 ", 50000},
		{"199000", 199000},
		{"1 250 000", 1250000},
	}
	for _, tc := range cases {
		got, err := ParseLocalizedAmount(tc.raw)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.raw, err)
		}
		if !got.Decimal.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("parse %q want %d got %s", tc.raw, tc.want, got.String())
		}
	}
}

func TestParseLocalizedAmountInvalid(t *testing.T) {
	if _, err := ParseLocalizedAmount("abc"); err == nil {
		t.Fatalf("parse invalid amount should fail")
	}
	if _, err := ParseLocalizedAmount(""); err == nil {
		t.Fatalf("parse empty amount should fail")
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	m := NewMoneyFromInt(436100)
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal money failed: %v", err)
	}
	if string(data) != `"436100"` {
		t.Fatalf("marshal money want %q got %s", `"436100"`, string(data))
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"623.000"`), &m); err != nil {
		t.Fatalf("unmarshal string money failed: %v", err)
	}
	if !m.Decimal.Equal(decimal.NewFromInt(623000)) {
		t.Fatalf("unmarshal string money want 623000 got %s", m.String())
	}

	var n Money
	if err := json.Unmarshal([]byte(`199000`), &n); err != nil {
		t.Fatalf("unmarshal numeric money failed: %v", err)
	}
	if !n.Decimal.Equal(decimal.NewFromInt(199000)) {
		t.Fatalf("unmarshal numeric money want 199000 got %s", n.String())
	}
}

func TestNewMoneyFromDecimalRounds(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(436100.5))
	if !m.Decimal.Equal(decimal.NewFromInt(436101)) {
		t.Fatalf("round half up want 436101 got %s", m.String())
	}
	m = NewMoneyFromDecimal(decimal.NewFromFloat(436100.4))
	if !m.Decimal.Equal(decimal.NewFromInt(436100)) {
		t.Fatalf("round down want 436100 got %s", m.String())
	}
}
