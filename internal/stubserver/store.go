// Package stubserver is an in-memory implementation of the ordering
// backend's REST API. It exists so the client can be developed and tested
// without the real platform; semantics (status codes, role gating, order
// transitions) match what the client's repositories expect.
package stubserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"comanda-client/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("item unavailable")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
)

type userRecord struct {
	User         domain.User
	PasswordHash []byte
}

type refreshRecord struct {
	UserID    int
	ExpiresAt time.Time
}

// Store holds all backend state behind one mutex. Volume is tiny (dev and
// test fixtures), so a single lock is plenty.
type Store struct {
	mu sync.Mutex

	users        map[int]*userRecord
	usersByEmail map[string]int

	categories map[int]domain.Category
	menuItems  map[int]domain.MenuItem

	carts          map[int][]domain.CartItem
	orders         map[int]domain.Order
	refreshTokens  map[string]refreshRecord // keyed by sha256 hash of the raw token
	nextUserID     int
	nextCategoryID int
	nextMenuItemID int
	nextCartItemID int
	nextOrderID    int

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:          map[int]*userRecord{},
		usersByEmail:   map[string]int{},
		categories:     map[int]domain.Category{},
		menuItems:      map[int]domain.MenuItem{},
		carts:          map[int][]domain.CartItem{},
		orders:         map[int]domain.Order{},
		refreshTokens:  map[string]refreshRecord{},
		nextUserID:     1,
		nextCategoryID: 1,
		nextMenuItemID: 1,
		nextCartItemID: 1,
		nextOrderID:    1,
		now:            time.Now,
	}
}

// ---- users ----

func (s *Store) CreateUser(username, email string, hash []byte, role domain.Role) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.usersByEmail[key]; exists {
		return domain.User{}, ErrConflict
	}
	user := domain.User{ID: s.nextUserID, Username: username, Email: email, Role: role}
	s.nextUserID++
	s.users[user.ID] = &userRecord{User: user, PasswordHash: hash}
	s.usersByEmail[key] = user.ID
	return user, nil
}

func (s *Store) UserByEmail(email string) (domain.User, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, nil, ErrNotFound
	}
	rec := s.users[id]
	return rec.User, rec.PasswordHash, nil
}

func (s *Store) UserByID(id int) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return rec.User, nil
}

// ---- refresh tokens ----

func (s *Store) SaveRefresh(hash string, userID int, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[hash] = refreshRecord{UserID: userID, ExpiresAt: expiresAt}
}

// ConsumeRefresh validates and removes a refresh token hash, returning the
// owning user. Single use: a replayed token fails.
func (s *Store) ConsumeRefresh(hash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.refreshTokens[hash]
	if !ok {
		return 0, ErrNotFound
	}
	delete(s.refreshTokens, hash)
	if s.now().After(rec.ExpiresAt) {
		return 0, ErrNotFound
	}
	return rec.UserID, nil
}

func (s *Store) RevokeAllRefresh(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, rec := range s.refreshTokens {
		if rec.UserID == userID {
			delete(s.refreshTokens, hash)
		}
	}
}

// ---- categories ----

func (s *Store) ListCategories(activeOnly bool) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Category
	for _, c := range s.categories {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetCategory(id int) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return domain.Category{}, ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCategory(cat domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryNameTaken(cat.Name, 0) {
		return domain.Category{}, ErrConflict
	}
	cat.ID = s.nextCategoryID
	s.nextCategoryID++
	s.categories[cat.ID] = cat
	return cat, nil
}

func (s *Store) UpdateCategory(cat domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[cat.ID]; !ok {
		return domain.Category{}, ErrNotFound
	}
	if s.categoryNameTaken(cat.Name, cat.ID) {
		return domain.Category{}, ErrConflict
	}
	s.categories[cat.ID] = cat
	return cat, nil
}

func (s *Store) DeleteCategory(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	for _, item := range s.menuItems {
		if item.CategoryID == id {
			return ErrConflict
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) categoryNameTaken(name string, exceptID int) bool {
	for _, c := range s.categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// ---- menu items ----

func (s *Store) ListMenuItems(categoryID int, availableOnly bool, search string) []domain.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	var out []domain.MenuItem
	for _, item := range s.menuItems {
		if categoryID > 0 && item.CategoryID != categoryID {
			continue
		}
		if availableOnly && !item.Available {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetMenuItem(id int) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.menuItems[id]
	if !ok {
		return domain.MenuItem{}, ErrNotFound
	}
	return item, nil
}

func (s *Store) CreateMenuItem(item domain.MenuItem) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Price <= 0 {
		return domain.MenuItem{}, ErrValidation
	}
	if _, ok := s.categories[item.CategoryID]; !ok {
		return domain.MenuItem{}, ErrNotFound
	}
	if s.menuItemNameTaken(item.Name, item.CategoryID, 0) {
		return domain.MenuItem{}, ErrConflict
	}
	item.ID = s.nextMenuItemID
	s.nextMenuItemID++
	s.menuItems[item.ID] = item
	return item, nil
}

func (s *Store) UpdateMenuItem(item domain.MenuItem) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Price <= 0 {
		return domain.MenuItem{}, ErrValidation
	}
	if _, ok := s.menuItems[item.ID]; !ok {
		return domain.MenuItem{}, ErrNotFound
	}
	if s.menuItemNameTaken(item.Name, item.CategoryID, item.ID) {
		return domain.MenuItem{}, ErrConflict
	}
	s.menuItems[item.ID] = item
	return item, nil
}

func (s *Store) DeleteMenuItem(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menuItems[id]; !ok {
		return ErrNotFound
	}
	delete(s.menuItems, id)
	return nil
}

func (s *Store) SetMenuItemAvailability(id int, available bool) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.menuItems[id]
	if !ok {
		return domain.MenuItem{}, ErrNotFound
	}
	item.Available = available
	s.menuItems[id] = item
	return item, nil
}

func (s *Store) menuItemNameTaken(name string, categoryID, exceptID int) bool {
	for _, item := range s.menuItems {
		if item.ID != exceptID && item.CategoryID == categoryID && strings.EqualFold(item.Name, name) {
			return true
		}
	}
	return false
}

// ---- cart ----

func (s *Store) GetCart(userID int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(userID)
}

func (s *Store) AddCartItem(userID, menuItemID, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return domain.Cart{}, ErrValidation
	}
	item, ok := s.menuItems[menuItemID]
	if !ok {
		return domain.Cart{}, ErrNotFound
	}
	if !item.Available {
		return domain.Cart{}, ErrUnavailable
	}

	lines := s.carts[userID]
	for i, line := range lines {
		if line.MenuItemID == menuItemID {
			lines[i].Quantity += quantity
			s.carts[userID] = lines
			return s.cartLocked(userID), nil
		}
	}
	lines = append(lines, domain.CartItem{
		ID:         s.nextCartItemID,
		MenuItemID: menuItemID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   quantity,
	})
	s.nextCartItemID++
	s.carts[userID] = lines
	return s.cartLocked(userID), nil
}

func (s *Store) UpdateCartItem(userID, itemID, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return domain.Cart{}, ErrValidation
	}
	lines := s.carts[userID]
	for i, line := range lines {
		if line.ID == itemID {
			lines[i].Quantity = quantity
			s.carts[userID] = lines
			return s.cartLocked(userID), nil
		}
	}
	return domain.Cart{}, ErrNotFound
}

func (s *Store) RemoveCartItem(userID, itemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i, line := range lines {
		if line.ID == itemID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) ClearCart(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func (s *Store) cartLocked(userID int) domain.Cart {
	lines := s.carts[userID]
	cart := domain.Cart{Items: append([]domain.CartItem(nil), lines...)}
	for _, line := range lines {
		cart.Total += line.Price * float64(line.Quantity)
	}
	return cart
}

// ---- orders ----

// PlaceOrder copies the user's cart into an immutable PENDING order and
// clears the cart in the same critical section.
func (s *Store) PlaceOrder(userID int, customerName string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:           s.nextOrderID,
		UserID:       userID,
		CustomerName: customerName,
		Status:       domain.StatusPending,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	s.nextOrderID++
	for _, line := range lines {
		item, ok := s.menuItems[line.MenuItemID]
		if ok && !item.Available {
			return domain.Order{}, ErrUnavailable
		}
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
		})
		order.Total += line.Price * float64(line.Quantity)
	}
	s.orders[order.ID] = order
	delete(s.carts, userID)
	return order, nil
}

func (s *Store) ListOrders(userID int) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Order
	for _, o := range s.orders {
		if userID == 0 || o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// ListAllOrders applies the admin listing's optional status and date
// (YYYY-MM-DD, UTC) filters.
func (s *Store) ListAllOrders(status domain.OrderStatus, date string) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Order
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		if date != "" && !strings.HasPrefix(o.CreatedAt, date) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) GetOrder(id int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	return o, nil
}

var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.StatusPending:       {domain.StatusInPreparation, domain.StatusCancelled},
	domain.StatusInPreparation: {domain.StatusReady},
	domain.StatusReady:         {domain.StatusDelivered},
}

func (s *Store) UpdateOrderStatus(id int, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(id, status)
}

// BatchUpdateOrderStatus is all-or-nothing: the first illegal transition or
// unknown id fails the whole batch without applying anything.
func (s *Store) BatchUpdateOrderStatus(ids []int, status domain.OrderStatus) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		o, ok := s.orders[id]
		if !ok {
			return nil, ErrNotFound
		}
		if !transitionAllowed(o.Status, status) {
			return nil, ErrInvalidTransition
		}
	}
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, _ := s.transitionLocked(id, status)
		out = append(out, o)
	}
	return out, nil
}

// CancelOrder is the customer-facing cancellation; only their own PENDING
// orders qualify.
func (s *Store) CancelOrder(userID, id int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || o.UserID != userID {
		return domain.Order{}, ErrNotFound
	}
	if o.Status != domain.StatusPending {
		return domain.Order{}, ErrInvalidTransition
	}
	return s.transitionLocked(id, domain.StatusCancelled)
}

func (s *Store) transitionLocked(id int, status domain.OrderStatus) (domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrNotFound
	}
	if !transitionAllowed(o.Status, status) {
		return domain.Order{}, ErrInvalidTransition
	}
	o.Status = status
	s.orders[id] = o
	return o, nil
}

func transitionAllowed(from, to domain.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
