package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	CategorySlug string
	Search       string
	OnlyActive   bool
	WithCategory bool
	WithSKUs     bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	Status         string
	ShippingStatus string
	OrderNo        string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page       int
	PageSize   int
	Code       string
	OnlyActive bool
}

// PromotionListFilter 查询折扣活动列表的过滤条件
type PromotionListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}
