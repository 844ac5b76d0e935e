package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/repositories"
)

// OrderRepository provides in-memory order storage. Orders keep insertion
// order; callers always receive copies.
type OrderRepository struct {
	mu        sync.RWMutex
	orders    []entities.Order
	ordersMap map[entities.OrderID]int
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository(expectedOrders int) *OrderRepository {
	return &OrderRepository{
		orders:    make([]entities.Order, 0, expectedOrders),
		ordersMap: make(map[entities.OrderID]int, expectedOrders),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadOrders adds orders to the repository, replacing any with the same id
func (r *OrderRepository) LoadOrders(orders []*entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range orders {
		r.upsert(*order)
	}
	return nil
}

// ReplaceOrders discards every stored order and loads the given ones
func (r *OrderRepository) ReplaceOrders(orders []*entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = make([]entities.Order, 0, len(orders))
	r.ordersMap = make(map[entities.OrderID]int, len(orders))
	for _, order := range orders {
		r.upsert(*order)
	}
	return nil
}

// GetOrder returns an order by id
func (r *OrderRepository) GetOrder(id entities.OrderID) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.ordersMap[id]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}
	order := r.orders[index]
	return &order, nil
}

// GetAllOrders returns all orders in insertion order
func (r *OrderRepository) GetAllOrders() ([]*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*entities.Order, len(r.orders))
	for i := range r.orders {
		order := r.orders[i]
		orders[i] = &order
	}
	return orders, nil
}

// SaveOrder inserts or replaces an order
func (r *OrderRepository) SaveOrder(order *entities.Order) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsert(*order)
	return nil
}

// DeleteOrder removes an order
func (r *OrderRepository) DeleteOrder(id entities.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.ordersMap[id]
	if !exists {
		return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}

	r.orders = append(r.orders[:index], r.orders[index+1:]...)
	delete(r.ordersMap, id)
	for i := index; i < len(r.orders); i++ {
		r.ordersMap[r.orders[i].ID] = i
	}
	return nil
}

// UpdateOrderStatus moves an order to a new status if the transition is allowed
func (r *OrderRepository) UpdateOrderStatus(id entities.OrderID, status entities.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.ordersMap[id]
	if !exists {
		return fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
	}

	current := r.orders[index].Status
	if !current.CanTransitionTo(status) {
		return fmt.Errorf("%w: order %s from %s to %s", entities.ErrInvalidTransition, id, current, status)
	}
	r.orders[index].Status = status
	return nil
}

func (r *OrderRepository) upsert(order entities.Order) {
	if index, exists := r.ordersMap[order.ID]; exists {
		r.orders[index] = order
		return
	}
	r.ordersMap[order.ID] = len(r.orders)
	r.orders = append(r.orders, order)
}
