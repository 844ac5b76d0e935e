package repositories

import "github.com/vsinha/coilplan/pkg/domain/entities"

// OrderRepository provides access to customer orders
type OrderRepository interface {
	GetOrder(id entities.OrderID) (*entities.Order, error)
	GetAllOrders() ([]*entities.Order, error)
	LoadOrders(orders []*entities.Order) error
	SaveOrder(order *entities.Order) error
	DeleteOrder(id entities.OrderID) error
	UpdateOrderStatus(id entities.OrderID, status entities.OrderStatus) error
	// ReplaceOrders swaps the whole order set in one step
	ReplaceOrders(orders []*entities.Order) error
}
