package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/modeva-next/internal/constants"
	"github.com/modeva-next/internal/logger"
	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/queue"
	"github.com/modeva-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	productSKURepo   repository.ProductSKURepository
	cartRepo         repository.CartRepository
	couponService    *CouponService
	promotionService *PromotionService
	queueClient      *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productSKURepo repository.ProductSKURepository, cartRepo repository.CartRepository, couponService *CouponService, promotionService *PromotionService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		productSKURepo:   productSKURepo,
		cartRepo:         cartRepo,
		couponService:    couponService,
		promotionService: promotionService,
		queueClient:      queueClient,
	}
}

// CreateOrderItem 下单项
type CreateOrderItem struct {
	SKUCode  string
	Quantity int
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID        uint
	Fullname      string
	Phone         string
	Email         string
	Address       string
	Note          string
	PaymentMethod string
	Items         []CreateOrderItem
	UserCouponID  *uint
}

// OrderPreview 订单试算结果
type OrderPreview struct {
	Items          []PricedItem
	TotalPrice     models.Money
	DiscountAmount models.Money
	PaymentPrice   models.Money
	Coupon         *models.Coupon
}

// 订单状态流转表；终态（completed/cancelled/refunded）无出边。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed:  true,
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCompleted:  true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCompleted: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func isTerminalStatus(status string) bool {
	switch status {
	case constants.OrderStatusCompleted, constants.OrderStatusCancelled, constants.OrderStatusRefunded:
		return true
	}
	return false
}

// CreateOrder 创建订单：校验库存、活动定价、优惠券试算，
// 随后在单个事务内落单、条件扣库存、扣券、清购物车。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrOrderItemsEmpty
	}
	items, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if method != constants.PaymentMethodCOD && method != constants.PaymentMethodBanking {
		return nil, ErrPaymentMethodInvalid
	}

	now := time.Now()
	priced, err := s.buildPricedItems(items, now)
	if err != nil {
		return nil, err
	}
	totalPrice := SumLineTotals(priced)

	paymentPrice := totalPrice
	var application *CouponApplication
	if input.UserCouponID != nil {
		application, err = s.couponService.ApplyCoupon(input.UserID, *input.UserCouponID, priced, now)
		if err != nil {
			return nil, err
		}
		paymentPrice = application.FinalPrice
	}
	if paymentPrice.Decimal.LessThan(decimal.Zero) {
		return nil, ErrPaymentPriceNegative
	}

	status := constants.OrderStatusPending
	isPaid := false
	if method == constants.PaymentMethodBanking {
		// 银行转账视为先付后发
		status = constants.OrderStatusProcessing
		isPaid = true
	}

	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         input.UserID,
		Fullname:       strings.TrimSpace(input.Fullname),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          strings.TrimSpace(input.Email),
		Address:        strings.TrimSpace(input.Address),
		Note:           strings.TrimSpace(input.Note),
		TotalPrice:     totalPrice,
		PaymentPrice:   paymentPrice,
		UserCouponID:   input.UserCouponID,
		Status:         status,
		ShippingStatus: constants.ShippingStatusPreparing,
		IsPaid:         isPaid,
		PaymentMethod:  method,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	details := make([]models.OrderDetail, 0, len(priced))
	skuIDs := make([]uint, 0, len(priced))
	for _, item := range priced {
		details = append(details, models.OrderDetail{
			ProductID:   item.ProductID,
			SKUID:       item.SKUID,
			SKUCode:     item.SKUCode,
			ProductName: item.ProductName,
			ColorName:   item.ColorName,
			Size:        item.Size,
			Image:       item.Image,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
		skuIDs = append(skuIDs, item.SKUID)
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		skuRepo := s.productSKURepo.WithTx(tx)

		if err := orderRepo.Create(order, details); err != nil {
			return err
		}

		// 条件扣减：并发下先到先得，扣不动即库存不足
		for _, item := range priced {
			affected, err := skuRepo.DecrementStock(item.SKUID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				current, lookupErr := skuRepo.GetByID(item.SKUID)
				available := 0
				if lookupErr == nil && current != nil {
					available = current.Stock
				}
				return &InsufficientStockError{
					ProductName: item.ProductName,
					SKUCode:     item.SKUCode,
					Available:   available,
				}
			}
		}

		if application != nil {
			if err := s.couponService.Consume(tx, application.UserCoupon.ID, application.Coupon.ID); err != nil {
				return err
			}
		}

		if err := s.cartRepo.WithTx(tx).DeleteByUserAndSKUs(input.UserID, skuIDs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = details
	s.notifyStatus(order.ID, order.Status)
	logger.Infow("order_created",
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"payment_method", order.PaymentMethod,
		"payment_price", order.PaymentPrice.String(),
	)
	return order, nil
}

// PreviewOrder 试算订单金额（不落库、不扣券）
func (s *OrderService) PreviewOrder(input CreateOrderInput) (*OrderPreview, error) {
	items, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	priced, err := s.buildPricedItems(items, now)
	if err != nil {
		return nil, err
	}
	totalPrice := SumLineTotals(priced)

	preview := &OrderPreview{
		Items:        priced,
		TotalPrice:   totalPrice,
		PaymentPrice: totalPrice,
	}
	if input.UserCouponID != nil {
		application, err := s.couponService.ApplyCoupon(input.UserID, *input.UserCouponID, priced, now)
		if err != nil {
			return nil, err
		}
		preview.DiscountAmount = application.DiscountAmount
		preview.PaymentPrice = application.FinalPrice
		preview.Coupon = application.Coupon
	}
	return preview, nil
}

// buildPricedItems 校验 SKU 与库存并计算活动折后单价
func (s *OrderService) buildPricedItems(items []CreateOrderItem, now time.Time) ([]PricedItem, error) {
	priced := make([]PricedItem, 0, len(items))
	for _, item := range items {
		sku, err := s.productSKURepo.GetByCode(item.SKUCode)
		if err != nil {
			return nil, err
		}
		if sku == nil || !sku.IsActive {
			return nil, ErrSKUNotFound
		}
		product := sku.Product
		if product == nil || !product.IsActive {
			return nil, ErrProductNotFound
		}
		if product.CategoryID == 0 {
			return nil, ErrCategoryNotFound
		}
		if sku.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				SKUCode:     sku.SKUCode,
				Available:   sku.Stock,
			}
		}

		promotion, unitPrice, err := s.promotionService.PriceFor(product.PriceAmount, product.ID, product.CategoryID, sku.SKUCode, now)
		if err != nil {
			return nil, err
		}

		colorName := ""
		if sku.Color != nil {
			colorName = sku.Color.Name
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		priced = append(priced, PricedItem{
			SKUID:       sku.ID,
			SKUCode:     sku.SKUCode,
			ProductID:   product.ID,
			CategoryID:  product.CategoryID,
			ProductName: product.Name,
			ColorName:   colorName,
			Size:        sku.Size,
			Image:       image,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Promotion:   promotion,
		})
	}
	return priced, nil
}

// CancelOrder 用户取消订单：回补库存与优惠券次数，置为取消态。
// 全部补偿在同一事务内完成。
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusConfirmed {
		return nil, ErrOrderNotCancellable
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.cancelOrderTx(tx, order, now)
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusCancelled
	order.ShippingStatus = constants.ShippingStatusCancelled
	order.CanceledAt = &now
	s.notifyStatus(order.ID, order.Status)
	logger.Infow("order_cancelled", "order_no", order.OrderNo, "user_id", order.UserID)
	return order, nil
}

// cancelOrderTx 取消补偿事务体：库存回补、券次数回补、状态落库。
func (s *OrderService) cancelOrderTx(tx *gorm.DB, order *models.Order, now time.Time) error {
	skuRepo := s.productSKURepo.WithTx(tx)
	for _, detail := range order.Items {
		if _, err := skuRepo.IncrementStock(detail.SKUID, detail.Quantity); err != nil {
			return err
		}
	}
	if order.UserCouponID != nil {
		couponID := uint(0)
		if order.UserCoupon != nil {
			couponID = order.UserCoupon.CouponID
		}
		if err := s.couponService.Restore(tx, *order.UserCouponID, couponID); err != nil {
			return err
		}
	}
	updates := map[string]interface{}{
		"status":          constants.OrderStatusCancelled,
		"shipping_status": constants.ShippingStatusCancelled,
		"canceled_at":     now,
		"updated_at":      now,
	}
	return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, updates)
}

// UpdateOrderStatus 管理端推进订单状态；终态不可再变更。
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(targetStatus))
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		return order, nil
	}
	if isTerminalStatus(order.Status) {
		return nil, ErrOrderStatusImmutable
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	if target == constants.OrderStatusCancelled {
		// 取消走补偿流程，保持与用户取消一致
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			return s.cancelOrderTx(tx, order, now)
		})
		if err != nil {
			return nil, err
		}
		order.Status = constants.OrderStatusCancelled
		order.ShippingStatus = constants.ShippingStatusCancelled
		order.CanceledAt = &now
	} else {
		updates := map[string]interface{}{
			"status":     target,
			"updated_at": now,
		}
		if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
			return nil, err
		}
		order.Status = target
	}

	s.notifyStatus(order.ID, order.Status)
	return order, nil
}

// UpdateShippingStatus 管理端推进物流状态并应用联动规则：
// delivered 且已支付 ⇒ 订单自动 completed；returned ⇒ 订单 refunded。
func (s *OrderService) UpdateShippingStatus(orderID uint, targetShipping string) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(targetShipping))
	switch target {
	case constants.ShippingStatusPreparing, constants.ShippingStatusShipping,
		constants.ShippingStatusDelivered, constants.ShippingStatusReturned:
	default:
		return nil, ErrOrderStatusInvalid
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if isTerminalStatus(order.Status) && order.Status != constants.OrderStatusCompleted {
		return nil, ErrOrderStatusImmutable
	}

	now := time.Now()
	updates := map[string]interface{}{
		"shipping_status": target,
		"updated_at":      now,
	}
	statusChanged := false
	if target == constants.ShippingStatusDelivered && order.IsPaid && !isTerminalStatus(order.Status) {
		updates["status"] = constants.OrderStatusCompleted
		order.Status = constants.OrderStatusCompleted
		statusChanged = true
	}
	if target == constants.ShippingStatusReturned {
		if order.Status == constants.OrderStatusRefunded {
			return order, nil
		}
		updates["status"] = constants.OrderStatusRefunded
		order.Status = constants.OrderStatusRefunded
		statusChanged = true
	}

	if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, err
	}
	order.ShippingStatus = target
	if statusChanged {
		s.notifyStatus(order.ID, order.Status)
	}
	return order, nil
}

// MarkPaid 管理端确认收款；已送达订单同步完成。
func (s *OrderService) MarkPaid(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if isTerminalStatus(order.Status) {
		return nil, ErrOrderStatusImmutable
	}
	if order.IsPaid {
		return order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_paid":    true,
		"updated_at": now,
	}
	if order.ShippingStatus == constants.ShippingStatusDelivered {
		updates["status"] = constants.OrderStatusCompleted
		order.Status = constants.OrderStatusCompleted
	}
	if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, err
	}
	order.IsPaid = true
	return order, nil
}

// GetOrderByUser 获取用户订单
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 管理端获取订单
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// notifyStatus 推送状态变更通知任务，失败只记日志不阻断主流程。
func (s *OrderService) notifyStatus(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		logger.Warnw("order_notification_enqueue_failed", "order_id", orderID, "error", err)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("MV%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

// mergeCreateOrderItems 合并重复 SKU 的下单项
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemsEmpty
	}
	merged := make([]CreateOrderItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		code := strings.TrimSpace(item.SKUCode)
		if code == "" {
			return nil, ErrSKUNotFound
		}
		if item.Quantity <= 0 {
			return nil, ErrQuantityInvalid
		}
		if pos, ok := index[code]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[code] = len(merged)
		merged = append(merged, CreateOrderItem{SKUCode: code, Quantity: item.Quantity})
	}
	return merged, nil
}
