package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"comanda-client/internal/domain"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// ---- auth ----

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusUnprocessableEntity, "password too short")
		return
	}

	hash, err := hashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}
	user, err := s.store.CreateUser(req.Username, req.Email, hash, domain.RoleClient)
	if errors.Is(err, ErrConflict) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	s.issuePair(w, user, http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, hash, err := s.store.UserByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.issuePair(w, user, http.StatusOK)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}
	userID, err := s.store.ConsumeRefresh(hashRefreshToken(req.RefreshToken))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	user, err := s.store.UserByID(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	s.issuePair(w, user, http.StatusOK)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	user, err := s.store.UserByID(claims.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	s.store.RevokeAllRefresh(claims.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) issuePair(w http.ResponseWriter, user domain.User, status int) {
	access, err := issueAccessToken(s.cfg.JWTSecret, user, s.cfg.AccessTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	refresh, err := newRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	s.store.SaveRefresh(hashRefreshToken(refresh), user.ID, time.Now().UTC().Add(s.cfg.RefreshTTL))
	writeJSON(w, status, domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &user,
	})
}

// ---- categories ----

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	writeJSON(w, http.StatusOK, s.store.ListCategories(activeOnly))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.store.GetCategory(pathID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(cat.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := s.store.CreateCategory(cat)
	if errors.Is(err, ErrConflict) {
		writeError(w, http.StatusConflict, "category name already exists")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat.ID = pathID(r)
	if strings.TrimSpace(cat.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	updated, err := s.store.UpdateCategory(cat)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "category name already exists")
	default:
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteCategory(pathID(r))
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "category still has menu items")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- menu items ----

func (s *Server) listMenuItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, _ := strconv.Atoi(q.Get("category_id"))
	writeJSON(w, http.StatusOK, s.store.ListMenuItems(categoryID, q.Get("available") == "true", q.Get("search")))
}

func (s *Server) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetMenuItem(pathID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.store.CreateMenuItem(item)
	s.writeMenuItemResult(w, created, err, http.StatusCreated)
}

func (s *Server) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = pathID(r)
	updated, err := s.store.UpdateMenuItem(item)
	s.writeMenuItemResult(w, updated, err, http.StatusOK)
}

func (s *Server) writeMenuItemResult(w http.ResponseWriter, item domain.MenuItem, err error, okStatus int) {
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "price must be greater than zero")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "menu item name already exists in category")
	default:
		writeJSON(w, okStatus, item)
	}
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMenuItem(pathID(r)); err != nil {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := s.store.SetMenuItemAvailability(pathID(r), req.Available)
	if err != nil {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ---- cart ----

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	writeJSON(w, http.StatusOK, s.store.GetCart(claims.UserID))
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	var req struct {
		MenuItemID int `json:"menu_item_id"`
		Quantity   int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart, err := s.store.AddCartItem(claims.UserID, req.MenuItemID, req.Quantity)
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "quantity must be positive")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "menu item not found")
	case errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusConflict, "menu item is unavailable")
	default:
		writeJSON(w, http.StatusOK, cart)
	}
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart, err := s.store.UpdateCartItem(claims.UserID, pathID(r), req.Quantity)
	switch {
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "quantity must be positive")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "cart item not found")
	default:
		writeJSON(w, http.StatusOK, cart)
	}
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	if err := s.store.RemoveCartItem(claims.UserID, pathID(r)); err != nil {
		writeError(w, http.StatusNotFound, "cart item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	s.store.ClearCart(claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// ---- orders ----

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	user, err := s.store.UserByID(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	order, err := s.store.PlaceOrder(claims.UserID, user.Username)
	switch {
	case errors.Is(err, ErrEmptyCart):
		writeError(w, http.StatusUnprocessableEntity, "cart is empty")
	case errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusConflict, "some items are no longer available")
	default:
		writeJSON(w, http.StatusCreated, order)
	}
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	writeJSON(w, http.StatusOK, s.store.ListOrders(claims.UserID))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	order, err := s.store.GetOrder(pathID(r))
	if err != nil || order.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r)
	order, err := s.store.CancelOrder(claims.UserID, pathID(r))
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, ErrInvalidTransition):
		writeError(w, http.StatusConflict, "order can no longer be cancelled")
	default:
		writeJSON(w, http.StatusOK, order)
	}
}

// ---- admin orders ----

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.store.ListAllOrders(domain.OrderStatus(q.Get("status")), q.Get("date")))
}

func (s *Server) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.GetOrder(pathID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := s.store.UpdateOrderStatus(pathID(r), req.Status)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "status transition not allowed")
	default:
		writeJSON(w, http.StatusOK, order)
	}
}

func (s *Server) adminBatchUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.OrderIDs) == 0 {
		writeError(w, http.StatusBadRequest, "order_ids is required")
		return
	}
	orders, err := s.store.BatchUpdateOrderStatus(req.OrderIDs, req.Status)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "one or more orders not found")
	case errors.Is(err, ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, "status transition not allowed")
	default:
		writeJSON(w, http.StatusOK, orders)
	}
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}
