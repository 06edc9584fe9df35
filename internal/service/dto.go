package service

import (
	"time"

	"github.com/khushalsehrawat/ecomm/internal/datamodels/order"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/user"
)

// unknownBuyer 订单查不到所属用户时的兜底展示值
const unknownBuyer = "Unknown"

// OrderItemDTO 订单行投影。价格和名称取投影当时的商品数据，
// 不保证与下单时一致。
type OrderItemDTO struct {
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"` // 分
	Quantity     int64  `json:"quantity"`
}

// OrderDTO 订单只读投影，面向接口返回
type OrderDTO struct {
	ID          int64          `json:"id"`
	TotalAmount int64          `json:"total_amount"` // 分
	Status      string         `json:"status"`
	OrderDate   time.Time      `json:"order_date"`
	UserName    string         `json:"user_name"`
	UserEmail   string         `json:"user_email"`
	Items       []OrderItemDTO `json:"items"`
}

// convertToDTO 把订单投影为 DTO。buyer 优先级：订单上预加载的 User、
// 调用方传入的 buyer，都没有时展示 Unknown。
func convertToDTO(o *order.Order, buyer *user.User) *OrderDTO {
	if o.User != nil {
		buyer = o.User
	}

	dto := &OrderDTO{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		OrderDate:   o.OrderDate,
		UserName:    unknownBuyer,
		UserEmail:   unknownBuyer,
		Items:       make([]OrderItemDTO, 0, len(o.Items)),
	}
	if buyer != nil {
		dto.UserName = buyer.Name
		dto.UserEmail = buyer.Email
	}

	for _, item := range o.Items {
		itemDTO := OrderItemDTO{Quantity: item.Quantity}
		if item.Product != nil {
			itemDTO.ProductName = item.Product.Name
			itemDTO.ProductPrice = item.Product.Price
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	return dto
}
