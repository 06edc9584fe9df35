package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khushalsehrawat/ecomm/internal/datamodels/order"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/product"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/user"
	"github.com/khushalsehrawat/ecomm/internal/infra/mq"
)

// OrderPlacedEvent 下单成功后投递到 MQ 的事件体
type OrderPlacedEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	TotalAmount int64     `json:"total_amount"`
	PlacedAt    time.Time `json:"placed_at"`
}

// OrderService 订单服务：下单、订单查询与 DTO 投影
type OrderService struct {
	userRepo    user.Repository
	productRepo product.Repository
	orderRepo   order.Repository
	publisher   mq.Publisher
}

// NewOrderService 创建订单服务，publisher 可为 nil（不投递事件）
func NewOrderService(
	userRepo user.Repository,
	productRepo product.Repository,
	orderRepo order.Repository,
	publisher mq.Publisher,
) *OrderService {
	return &OrderService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// PlaceOrder 下单。quantities 为 商品ID->数量，totalAmount 由调用方传入，
// 服务端保留原值不重算，与计算值不一致时只告警。
// 任何一个商品不存在则整单失败，不会留下半个订单：所有商品先解析完，
// 唯一一次写库是级联的 orderRepo.Create。
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, quantities map[int64]int64, totalAmount int64) (*OrderDTO, error) {
	buyer, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		GetMonitor().RecordOrderError()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}

	if len(quantities) == 0 {
		GetMonitor().RecordOrderError()
		return nil, order.ErrEmptyOrder
	}

	// map 遍历顺序随机，按商品 ID 升序处理，保证订单行顺序稳定
	productIDs := make([]int64, 0, len(quantities))
	for id := range quantities {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	o := &order.Order{
		UserID:      userID,
		OrderDate:   time.Now(),
		Status:      order.StatusPending,
		TotalAmount: totalAmount,
		Items:       make([]order.OrderItem, 0, len(productIDs)),
	}

	var computedTotal int64
	for _, pid := range productIDs {
		qty := quantities[pid]
		if qty <= 0 {
			GetMonitor().RecordOrderError()
			return nil, fmt.Errorf("product %d: %w", pid, order.ErrInvalidQuantity)
		}

		p, err := s.productRepo.GetByID(ctx, pid)
		if err != nil {
			GetMonitor().RecordOrderError()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product %d: %w", pid, product.ErrNotFound)
			}
			return nil, fmt.Errorf("resolve product %d: %w", pid, err)
		}

		o.Items = append(o.Items, order.OrderItem{
			ProductID: p.ID,
			Product:   p,
			Quantity:  qty,
		})
		computedTotal += p.Price * qty
	}

	if computedTotal != totalAmount {
		zap.L().Warn("order total differs from computed item total",
			zap.Int64("user_id", userID),
			zap.Int64("supplied_total", totalAmount),
			zap.Int64("computed_total", computedTotal))
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		GetMonitor().RecordOrderError()
		return nil, fmt.Errorf("save order: %w", err)
	}
	GetMonitor().RecordOrderPlaced()

	s.publishPlaced(ctx, o)

	return convertToDTO(o, buyer), nil
}

// publishPlaced 投递下单事件，失败只记日志不影响订单结果
func (s *OrderService) publishPlaced(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		return
	}
	body, _ := json.Marshal(OrderPlacedEvent{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		PlacedAt:    o.OrderDate,
	})
	if err := s.publisher.Publish(ctx, body); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("publish order event failed", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

// ListAll 查询所有订单（带下单用户），投影为 DTO
func (s *OrderService) ListAll(ctx context.Context) ([]*OrderDTO, error) {
	orders, err := s.orderRepo.ListAllWithUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, convertToDTO(o, nil))
	}
	return out, nil
}

// ListByUser 查询指定用户的订单，用户不存在返回 user.ErrNotFound
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*OrderDTO, error) {
	buyer, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("resolve user %d: %w", userID, err)
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, convertToDTO(o, buyer))
	}
	return out, nil
}
