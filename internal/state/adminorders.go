package state

import (
	"strings"

	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
	"comanda-client/internal/result"
)

type AdminOrdersSnapshot struct {
	Orders         []domain.Order
	StatusFilter   domain.OrderStatus
	Date           string
	CustomerSearch string
	Loading        bool
	Error          string
}

// Visible applies the local customer-name search to the last fetched list.
// Status and date filtering happen server-side; only this search is local.
func (s AdminOrdersSnapshot) Visible() []domain.Order {
	if s.CustomerSearch == "" {
		return s.Orders
	}
	needle := strings.ToLower(s.CustomerSearch)
	var visible []domain.Order
	for _, o := range s.Orders {
		if strings.Contains(strings.ToLower(o.CustomerName), needle) {
			visible = append(visible, o)
		}
	}
	return visible
}

// NextActions lists the contextually relevant transitions for an order as a
// UX affordance only; the backend remains the authority on legality.
func NextActions(status domain.OrderStatus) []domain.OrderStatus {
	switch status {
	case domain.StatusPending:
		return []domain.OrderStatus{domain.StatusInPreparation, domain.StatusCancelled}
	case domain.StatusInPreparation:
		return []domain.OrderStatus{domain.StatusReady}
	case domain.StatusReady:
		return []domain.OrderStatus{domain.StatusDelivered}
	default:
		return nil
	}
}

// AdminOrdersState drives the staff order management screen.
type AdminOrdersState struct {
	*holder[AdminOrdersSnapshot]
	admin *repository.AdminOrderRepository
}

func NewAdminOrdersState(admin *repository.AdminOrderRepository) *AdminOrdersState {
	return &AdminOrdersState{holder: newHolder(AdminOrdersSnapshot{}), admin: admin}
}

func (s *AdminOrdersState) Load() {
	s.begin()
	go func() {
		snap := s.Snapshot()
		s.applyList(s.admin.ListAll(s.ctx, repository.AdminOrderFilter{
			Status: snap.StatusFilter,
			Date:   snap.Date,
		}))
	}()
}

func (s *AdminOrdersState) SetStatusFilter(status domain.OrderStatus) {
	s.update(func(snap AdminOrdersSnapshot) AdminOrdersSnapshot {
		snap.StatusFilter = status
		return snap
	})
	s.Load()
}

func (s *AdminOrdersState) SetDate(date string) {
	s.update(func(snap AdminOrdersSnapshot) AdminOrdersSnapshot {
		snap.Date = date
		return snap
	})
	s.Load()
}

// SetCustomerSearch is purely local: it narrows the already-fetched list
// without a round trip.
func (s *AdminOrdersState) SetCustomerSearch(term string) {
	s.update(func(snap AdminOrdersSnapshot) AdminOrdersSnapshot {
		snap.CustomerSearch = term
		return snap
	})
}

func (s *AdminOrdersState) UpdateStatus(orderID int, status domain.OrderStatus) {
	s.begin()
	go func() {
		res := s.admin.UpdateStatus(s.ctx, orderID, status)
		if res.IsError() {
			s.fail(res.Message())
			return
		}
		snap := s.Snapshot()
		s.applyList(s.admin.ListAll(s.ctx, repository.AdminOrderFilter{
			Status: snap.StatusFilter,
			Date:   snap.Date,
		}))
	}()
}

func (s *AdminOrdersState) begin() {
	s.update(func(snap AdminOrdersSnapshot) AdminOrdersSnapshot {
		snap.Loading = true
		snap.Error = ""
		return snap
	})
}

func (s *AdminOrdersState) fail(message string) {
	s.update(func(snap AdminOrdersSnapshot) AdminOrdersSnapshot {
		snap.Loading = false
		snap.Error = message
		return snap
	})
}

func (s *AdminOrdersState) applyList(res result.Result[[]domain.Order]) {
	if res.IsError() {
		s.fail(res.Message())
		return
	}
	orders, _ := res.Data()
	s.update(func(snap AdminOrdersSnapshot) AdminOrdersSnapshot {
		snap.Orders = orders
		snap.Loading = false
		snap.Error = ""
		return snap
	})
}
