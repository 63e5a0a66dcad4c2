package stubserver

import (
	"encoding/json"
	"net/http"

	"comanda-client/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type Server struct {
	cfg   config.StubConfig
	store *Store
	log   zerolog.Logger
}

func New(cfg config.StubConfig, store *Store, log zerolog.Logger) *Server {
	return &Server{cfg: cfg, store: store, log: log}
}

// Handler assembles the full middleware and route stack. Tests mount this
// directly in an httptest server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", s.register).Methods("POST")
	api.HandleFunc("/auth/login", s.login).Methods("POST")
	api.HandleFunc("/auth/refresh", s.refresh).Methods("POST")
	api.HandleFunc("/auth/me", s.requireAuth(s.me)).Methods("GET")
	api.HandleFunc("/auth/logout", s.requireAuth(s.logout)).Methods("POST")

	api.HandleFunc("/categories", s.requireAuth(s.listCategories)).Methods("GET")
	api.HandleFunc("/categories/{id}", s.requireAuth(s.getCategory)).Methods("GET")
	api.HandleFunc("/categories", s.requireAdmin(s.createCategory)).Methods("POST")
	api.HandleFunc("/categories/{id}", s.requireAdmin(s.updateCategory)).Methods("PUT")
	api.HandleFunc("/categories/{id}", s.requireAdmin(s.deleteCategory)).Methods("DELETE")

	api.HandleFunc("/menu-items", s.requireAuth(s.listMenuItems)).Methods("GET")
	api.HandleFunc("/menu-items/{id}", s.requireAuth(s.getMenuItem)).Methods("GET")
	api.HandleFunc("/menu-items", s.requireAdmin(s.createMenuItem)).Methods("POST")
	api.HandleFunc("/menu-items/{id}", s.requireAdmin(s.updateMenuItem)).Methods("PUT")
	api.HandleFunc("/menu-items/{id}", s.requireAdmin(s.deleteMenuItem)).Methods("DELETE")
	api.HandleFunc("/menu-items/{id}/availability", s.requireAdmin(s.setAvailability)).Methods("PATCH")

	api.HandleFunc("/cart", s.requireAuth(s.getCart)).Methods("GET")
	api.HandleFunc("/cart", s.requireAuth(s.clearCart)).Methods("DELETE")
	api.HandleFunc("/cart/items", s.requireAuth(s.addCartItem)).Methods("POST")
	api.HandleFunc("/cart/items/{id}", s.requireAuth(s.updateCartItem)).Methods("PUT")
	api.HandleFunc("/cart/items/{id}", s.requireAuth(s.removeCartItem)).Methods("DELETE")

	api.HandleFunc("/orders", s.requireAuth(s.placeOrder)).Methods("POST")
	api.HandleFunc("/orders", s.requireAuth(s.listOrders)).Methods("GET")
	api.HandleFunc("/orders/{id}", s.requireAuth(s.getOrder)).Methods("GET")
	api.HandleFunc("/orders/{id}/cancel", s.requireAuth(s.cancelOrder)).Methods("POST")

	api.HandleFunc("/admin/orders", s.requireAdmin(s.adminListOrders)).Methods("GET")
	api.HandleFunc("/admin/orders/status", s.requireAdmin(s.adminBatchUpdateStatus)).Methods("PUT")
	api.HandleFunc("/admin/orders/{id}", s.requireAdmin(s.adminGetOrder)).Methods("GET")
	api.HandleFunc("/admin/orders/{id}/status", s.requireAdmin(s.adminUpdateStatus)).Methods("PUT")

	r.HandleFunc("/health", s.health).Methods("GET")

	limiter := rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), s.cfg.RateBurst)
	var handler http.Handler = r
	handler = rateLimit(limiter)(handler)
	handler = requestLogging(s.log)(handler)
	return cors.Default().Handler(handler)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "stubserver"})
}

// hashPassword is split out so tests can seed users at a low bcrypt cost.
func hashPassword(password string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
