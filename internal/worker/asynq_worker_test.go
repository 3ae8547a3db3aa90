package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/modeva-next/internal/models"
	"github.com/modeva-next/internal/provider"
	"github.com/modeva-next/internal/queue"
	"github.com/modeva-next/internal/repository"
	"github.com/modeva-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Promotion{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	container := &provider.Container{
		PromotionService: service.NewPromotionService(repository.NewPromotionRepository(db)),
	}
	return NewConsumer(container), db
}

func TestHandleOrderNotificationBadPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	task := asynq.NewTask(queue.TaskOrderNotification, []byte("not-json"))
	if err := consumer.handleOrderNotification(context.Background(), task); err == nil {
		t.Fatalf("bad payload should return error")
	}
}

func TestHandleOrderNotificationSkipsInvalidOrZeroOrder(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	task := asynq.NewTask(queue.TaskOrderNotification, []byte(`{"order_id":0,"status":"pending"}`))
	if err := consumer.handleOrderNotification(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}

	// 通知服务未装配时跳过而非失败
	task = asynq.NewTask(queue.TaskOrderNotification, []byte(`{"order_id":7,"status":"confirmed"}`))
	if err := consumer.handleOrderNotification(context.Background(), task); err != nil {
		t.Fatalf("nil notification service should be skipped, got %v", err)
	}
}

func TestHandlePromotionExpireDeactivates(t *testing.T) {
	consumer, db := setupWorkerTest(t)

	past := time.Now().Add(-time.Hour)
	promo := &models.Promotion{
		Name:            "expired-sale",
		DiscountPercent: 20,
		ProductIDs:      models.UintArray{1},
		IsActive:        true,
		EndsAt:          &past,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	task := asynq.NewTask(queue.TaskPromotionExpire, nil)
	if err := consumer.handlePromotionExpire(context.Background(), task); err != nil {
		t.Fatalf("promotion expire failed: %v", err)
	}

	var got models.Promotion
	if err := db.First(&got, promo.ID).Error; err != nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expired promotion should be deactivated")
	}
}
