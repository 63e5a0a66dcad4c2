package state

import (
	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
	"comanda-client/internal/result"
)

type OrdersSnapshot struct {
	Orders  []domain.Order
	Loading bool
	Error   string
}

// OrdersState drives the customer's own order history screen.
type OrdersState struct {
	*holder[OrdersSnapshot]
	orders *repository.OrderRepository
}

func NewOrdersState(orders *repository.OrderRepository) *OrdersState {
	return &OrdersState{holder: newHolder(OrdersSnapshot{}), orders: orders}
}

func (s *OrdersState) Load() {
	s.begin()
	go func() { s.applyList(s.orders.List(s.ctx)) }()
}

// Place submits the cart as a new order, then reloads the list.
func (s *OrdersState) Place() {
	s.begin()
	go func() {
		res := s.orders.Place(s.ctx)
		if res.IsError() {
			s.fail(res.Message())
			return
		}
		s.applyList(s.orders.List(s.ctx))
	}()
}

func (s *OrdersState) Cancel(orderID int) {
	s.begin()
	go func() {
		res := s.orders.Cancel(s.ctx, orderID)
		if res.IsError() {
			s.fail(res.Message())
			return
		}
		s.applyList(s.orders.List(s.ctx))
	}()
}

func (s *OrdersState) begin() {
	s.update(func(snap OrdersSnapshot) OrdersSnapshot {
		snap.Loading = true
		snap.Error = ""
		return snap
	})
}

func (s *OrdersState) fail(message string) {
	s.update(func(snap OrdersSnapshot) OrdersSnapshot {
		snap.Loading = false
		snap.Error = message
		return snap
	})
}

func (s *OrdersState) applyList(res result.Result[[]domain.Order]) {
	if res.IsError() {
		s.fail(res.Message())
		return
	}
	orders, _ := res.Data()
	s.replace(OrdersSnapshot{Orders: orders})
}
