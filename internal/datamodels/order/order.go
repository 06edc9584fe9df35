package order

import (
	"context"
	"errors"
	"time"

	"github.com/khushalsehrawat/ecomm/internal/datamodels/product"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/user"
)

const (
	// StatusPending 下单后的初始状态，当前业务不存在后续状态流转
	StatusPending = "Pending"
)

var (
	// ErrEmptyOrder 下单时未携带任何商品
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidQuantity 商品数量必须为正整数
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Order 订单模型。Items 随订单一次性级联保存。
type Order struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	UserID      int64       `gorm:"index;not null" json:"user_id"`
	User        *user.User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderDate   time.Time   `gorm:"index;not null" json:"order_date"`
	Status      string      `gorm:"size:32;not null" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"` // 分，下单方传入，服务端不重算
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem 订单行，只属于一个订单，只能随订单级联删除
type OrderItem struct {
	ID        int64            `gorm:"primaryKey" json:"id"`
	OrderID   int64            `gorm:"index;not null" json:"order_id"`
	ProductID int64            `gorm:"index;not null" json:"product_id"`
	Product   *product.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int64            `gorm:"not null" json:"quantity"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Repository 订单仓储接口
type Repository interface {
	// Create 保存订单及其订单行（级联写入，gorm 默认包在一个事务里）
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// ListAllWithUsers 查询所有订单，同时带出下单用户和订单行商品（eager join）
	ListAllWithUsers(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
}
