package main

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khushalsehrawat/ecomm/internal/config"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/order"
	"github.com/khushalsehrawat/ecomm/internal/infra/mq"
	"github.com/khushalsehrawat/ecomm/internal/repository/mysql"
	"github.com/khushalsehrawat/ecomm/internal/service"
	"github.com/khushalsehrawat/ecomm/pkg/log"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		panic(err)
	}

	if err := log.Init(log.Options{
		Level:      cfg.Log.Level,
		Mode:       cfg.Log.Mode,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		panic(err)
	}
	defer log.Sync()

	db := mysql.Init(&cfg.MySQL)
	mqConn := mq.Init(&cfg.RabbitMQ)

	orderRepo := mysql.NewOrderRepository(db)

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.OrderEventsQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(mq.OrderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order worker started, waiting for events")

	for d := range msgs {
		var ev service.OrderPlacedEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			zap.L().Warn("invalid event body", zap.Error(err))
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}
		handleEvent(context.Background(), orderRepo, &ev, d)
	}
}

// handleEvent 核对事件对应的订单并记录。订单查不到时重新入队，
// 等待可能尚未提交完成的写入；数据库故障同样重新入队。
func handleEvent(ctx context.Context, orderRepo order.Repository, ev *service.OrderPlacedEvent, d amqp.Delivery) {
	o, err := orderRepo.GetByID(ctx, ev.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("event references unknown order, requeue",
				zap.String("event_id", ev.EventID),
				zap.Int64("order_id", ev.OrderID))
		} else {
			zap.L().Error("load order failed, requeue", zap.Error(err))
		}
		_ = d.Nack(false, true)
		return
	}

	zap.L().Info("order placed",
		zap.String("event_id", ev.EventID),
		zap.Int64("order_id", o.ID),
		zap.Int64("user_id", o.UserID),
		zap.Int64("total_amount", o.TotalAmount),
		zap.Int("items", len(o.Items)),
		zap.String("status", o.Status))

	service.GetMonitor().RecordEventHandled()
	_ = d.Ack(false)
}
