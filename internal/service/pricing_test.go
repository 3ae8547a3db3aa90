package service

import (
	"testing"

	"github.com/modeva-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestDiscountedUnitPrice(t *testing.T) {
	cases := []struct {
		base    int64
		percent int
		want    int64
	}{
		{623000, 30, 436100},
		{199000, 0, 199000},
		{199000, -5, 199000},
		{199000, 100, 0},
		{199000, 120, 0},
		{99999, 10, 89999}, // 89999.1 -> 89999
		{99995, 50, 49998}, // 49997.5 -> 49998
	}
	for _, tc := range cases {
		got := DiscountedUnitPrice(models.NewMoneyFromInt(tc.base), tc.percent)
		if !got.Decimal.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("discount %d%% of %d want %d got %s", tc.percent, tc.base, tc.want, got.String())
		}
	}
}

func TestLineTotalAndSum(t *testing.T) {
	items := []PricedItem{
		{SKUCode: "1_1_M", Quantity: 2, UnitPrice: models.NewMoneyFromInt(436100)},
		{SKUCode: "2_3_L", Quantity: 1, UnitPrice: models.NewMoneyFromInt(199000)},
	}
	if got := items[0].LineTotal(); !got.Decimal.Equal(decimal.NewFromInt(872200)) {
		t.Fatalf("line total want 872200 got %s", got.String())
	}
	total := SumLineTotals(items)
	if !total.Decimal.Equal(decimal.NewFromInt(1071200)) {
		t.Fatalf("sum want 1071200 got %s", total.String())
	}
}
