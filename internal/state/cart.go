package state

import (
	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
	"comanda-client/internal/result"
)

type CartSnapshot struct {
	Cart    domain.Cart
	Loading bool
	Error   string
}

// CartState drives the cart screen. Rapid mutations of the same line are
// deliberately not serialized: two quick quantity taps race and the last
// server response wins, matching the backend-owned cart model.
type CartState struct {
	*holder[CartSnapshot]
	cart *repository.CartRepository
}

func NewCartState(cart *repository.CartRepository) *CartState {
	return &CartState{holder: newHolder(CartSnapshot{}), cart: cart}
}

func (s *CartState) Load() {
	s.run(func() { s.apply(s.cart.Get(s.ctx)) })
}

func (s *CartState) AddItem(menuItemID, quantity int) {
	s.run(func() { s.apply(s.cart.AddItem(s.ctx, menuItemID, quantity)) })
}

func (s *CartState) UpdateItem(itemID, quantity int) {
	s.run(func() { s.apply(s.cart.UpdateItem(s.ctx, itemID, quantity)) })
}

func (s *CartState) RemoveItem(itemID int) {
	s.run(func() {
		res := s.cart.RemoveItem(s.ctx, itemID)
		if res.IsError() {
			s.fail(res.Message())
			return
		}
		s.apply(s.cart.Get(s.ctx))
	})
}

func (s *CartState) Clear() {
	s.run(func() {
		res := s.cart.Clear(s.ctx)
		if res.IsError() {
			s.fail(res.Message())
			return
		}
		s.update(func(snap CartSnapshot) CartSnapshot {
			return CartSnapshot{Cart: domain.Cart{}}
		})
	})
}

func (s *CartState) run(fn func()) {
	s.update(func(snap CartSnapshot) CartSnapshot {
		snap.Loading = true
		snap.Error = ""
		return snap
	})
	go fn()
}

func (s *CartState) apply(res result.Result[domain.Cart]) {
	if res.IsError() {
		s.fail(res.Message())
		return
	}
	cart, _ := res.Data()
	s.replace(CartSnapshot{Cart: cart})
}

func (s *CartState) fail(message string) {
	s.update(func(snap CartSnapshot) CartSnapshot {
		snap.Loading = false
		snap.Error = message
		return snap
	})
}
