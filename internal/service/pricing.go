package service

import (
	"github.com/modeva-next/internal/models"

	"github.com/shopspring/decimal"
)

// PricedItem 定价后的订单行（活动折后单价）
type PricedItem struct {
	SKUID       uint
	SKUCode     string
	ProductID   uint
	CategoryID  uint
	ProductName string
	ColorName   string
	Size        string
	Image       string
	Quantity    int
	UnitPrice   models.Money
	Promotion   *models.Promotion
}

// LineTotal 行小计 = 单价 * 数量
func (p PricedItem) LineTotal() models.Money {
	return models.NewMoneyFromDecimal(p.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(p.Quantity))))
}

// DiscountedUnitPrice 按百分比折扣计算单价，四舍五入到整数。
// percent 超出 [0,100] 时按边界截断。
func DiscountedUnitPrice(base models.Money, percent int) models.Money {
	if percent <= 0 {
		return models.NewMoneyFromDecimal(base.Decimal)
	}
	if percent >= 100 {
		return models.NewMoneyFromInt(0)
	}
	remain := decimal.NewFromInt(int64(100 - percent))
	discounted := base.Decimal.Mul(remain).Div(decimal.NewFromInt(100))
	return models.NewMoneyFromDecimal(discounted)
}

// SumLineTotals 合计全部行小计
func SumLineTotals(items []PricedItem) models.Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal().Decimal)
	}
	return models.NewMoneyFromDecimal(total)
}
