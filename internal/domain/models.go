package domain

import "time"

type Role string

const (
	RoleClient     Role = "client"
	RoleAdminStaff Role = "admin_staff"
)

type OrderStatus string

const (
	StatusPending       OrderStatus = "PENDING"
	StatusInPreparation OrderStatus = "IN_PREPARATION"
	StatusReady         OrderStatus = "READY"
	StatusDelivered     OrderStatus = "DELIVERED"
	StatusCancelled     OrderStatus = "CANCELLED"
)

// IsActive reports whether an order in this status still needs kitchen
// or counter attention.
func (s OrderStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusInPreparation, StatusReady:
		return true
	}
	return false
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type MenuItem struct {
	ID          int     `json:"id"`
	CategoryID  int     `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// CartItem carries a denormalized name/price snapshot so the cart stays
// readable even if the menu item changes after it was added.
type CartItem struct {
	ID         int     `json:"id"`
	MenuItemID int     `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type OrderItem struct {
	MenuItemID int     `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Order struct {
	ID           int         `json:"id"`
	UserID       int         `json:"user_id"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `json:"status"`
	Total        float64     `json:"total"`
	CreatedAt    string      `json:"created_at"`
	Items        []OrderItem `json:"items"`
}

// CreatedTime parses the backend's RFC3339 creation timestamp. The bool is
// false when the timestamp is missing or malformed.
func (o Order) CreatedTime() (time.Time, bool) {
	if o.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}

type BatchStatusUpdateRequest struct {
	OrderIDs []int       `json:"order_ids"`
	Status   OrderStatus `json:"status"`
}
