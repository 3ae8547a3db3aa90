package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 物流状态常量
const (
	ShippingStatusPreparing = "preparing"
	ShippingStatusShipping  = "shipping"
	ShippingStatusDelivered = "delivered"
	ShippingStatusReturned  = "returned"
	ShippingStatusCancelled = "cancelled"
)

// 支付方式常量
const (
	PaymentMethodCOD     = "cod"
	PaymentMethodBanking = "banking"
)

// 优惠券类型常量
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// 用户优惠券状态常量
const (
	UserCouponStatusActive    = "active"
	UserCouponStatusUsed      = "used"
	UserCouponStatusCancelled = "cancelled"
)

// 异步任务类型常量
const (
	TaskOrderNotification = "order:notification"
	TaskPromotionExpire   = "promotion:expire"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 默认站点货币（越南盾，无小数位）
const (
	SiteCurrencyDefault = "VND"
)
