package stubserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comanda-client/internal/config"
	"comanda-client/internal/domain"
	"comanda-client/internal/stubserver"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.StubConfig{
		JWTSecret:     "test-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		BcryptCost:    4, // min cost keeps the suite fast
		RatePerSecond: 1000,
		RateBurst:     1000,
	}
	store := stubserver.NewStore()
	require.NoError(t, stubserver.Seed(store, cfg.BcryptCost))

	server := httptest.NewServer(stubserver.New(cfg, store, zerolog.Nop()).Handler())
	t.Cleanup(server.Close)
	return server
}

func call(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+"/api/v1"+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func login(t *testing.T, server *httptest.Server, email string) domain.TokenPair {
	t.Helper()

	resp, body := call(t, server, "POST", "/auth/login", "", domain.LoginRequest{
		Email:    email,
		Password: "password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var pair domain.TokenPair
	require.NoError(t, json.Unmarshal(body, &pair))
	return pair
}

func TestLoginAndMe(t *testing.T) {
	server := newTestServer(t)
	pair := login(t, server, "client@example.com")

	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, pair.User)
	assert.Equal(t, domain.RoleClient, pair.User.Role)

	resp, body := call(t, server, "GET", "/auth/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user domain.User
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, "client@example.com", user.Email)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server := newTestServer(t)
	resp, _ := call(t, server, "POST", "/auth/login", "", domain.LoginRequest{
		Email:    "client@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	server := newTestServer(t)
	req := domain.RegisterRequest{Username: "dana", Email: "dana@example.com", Password: "secret1"}

	resp, _ := call(t, server, "POST", "/auth/register", "", req)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = call(t, server, "POST", "/auth/register", "", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRefreshIsSingleUse(t *testing.T) {
	server := newTestServer(t)
	pair := login(t, server, "client@example.com")

	body := map[string]string{"refresh_token": pair.RefreshToken}
	resp, _ := call(t, server, "POST", "/auth/refresh", "", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, server, "POST", "/auth/refresh", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	server := newTestServer(t)

	resp, _ := call(t, server, "GET", "/menu-items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, server, "GET", "/menu-items", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminNamespaceRequiresStaffRole(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "client@example.com")
	staff := login(t, server, "staff@example.com")

	resp, _ := call(t, server, "GET", "/admin/orders", client.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, server, "GET", "/admin/orders", staff.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCategoryCreateConflictAndMenuItemValidation(t *testing.T) {
	server := newTestServer(t)
	staff := login(t, server, "staff@example.com")

	resp, _ := call(t, server, "POST", "/categories", staff.AccessToken, domain.Category{Name: "Mains"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "seeded name must conflict")

	resp, _ = call(t, server, "POST", "/menu-items", staff.AccessToken, domain.MenuItem{
		CategoryID: 1, Name: "Free Soup", Price: 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCartToOrderFlow(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "client@example.com")

	// Seeded item 1 is available.
	resp, body := call(t, server, "POST", "/cart/items", client.AccessToken, map[string]int{
		"menu_item_id": 1, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(body, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 19.0, cart.Total, 0.001)

	resp, body = call(t, server, "POST", "/orders", client.AccessToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var order domain.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Margherita Pizza", order.Items[0].Name)

	// Placing the order cleared the cart.
	resp, body = call(t, server, "GET", "/cart", client.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Empty(t, cart.Items)

	// Placing again with an empty cart fails.
	resp, _ = call(t, server, "POST", "/orders", client.AccessToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnavailableItemCannotBeAdded(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "client@example.com")

	// Seeded item 3 (Caesar Salad) is unavailable.
	resp, _ := call(t, server, "POST", "/cart/items", client.AccessToken, map[string]int{
		"menu_item_id": 3, "quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderStatusTransitions(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "client@example.com")
	staff := login(t, server, "staff@example.com")

	resp, _ := call(t, server, "POST", "/cart/items", client.AccessToken, map[string]int{"menu_item_id": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := call(t, server, "POST", "/orders", client.AccessToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order domain.Order
	require.NoError(t, json.Unmarshal(body, &order))

	statusPath := fmt.Sprintf("/admin/orders/%d/status", order.ID)

	// PENDING -> READY skips a step and must be rejected.
	resp, _ = call(t, server, "PUT", statusPath, staff.AccessToken, domain.StatusUpdateRequest{Status: domain.StatusReady})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	for _, next := range []domain.OrderStatus{domain.StatusInPreparation, domain.StatusReady, domain.StatusDelivered} {
		resp, body = call(t, server, "PUT", statusPath, staff.AccessToken, domain.StatusUpdateRequest{Status: next})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	// DELIVERED is terminal.
	resp, _ = call(t, server, "PUT", statusPath, staff.AccessToken, domain.StatusUpdateRequest{Status: domain.StatusCancelled})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCustomerCancelOnlyWhilePending(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "client@example.com")
	staff := login(t, server, "staff@example.com")

	resp, _ := call(t, server, "POST", "/cart/items", client.AccessToken, map[string]int{"menu_item_id": 4, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := call(t, server, "POST", "/orders", client.AccessToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order domain.Order
	require.NoError(t, json.Unmarshal(body, &order))

	cancelPath := fmt.Sprintf("/orders/%d/cancel", order.ID)

	resp, _ = call(t, server, "PUT", fmt.Sprintf("/admin/orders/%d/status", order.ID), staff.AccessToken,
		domain.StatusUpdateRequest{Status: domain.StatusInPreparation})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, server, "POST", cancelPath, client.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "cannot cancel once preparation started")
}

func TestBatchUpdateIsAllOrNothing(t *testing.T) {
	server := newTestServer(t)
	client := login(t, server, "client@example.com")
	staff := login(t, server, "staff@example.com")

	var ids []int
	for i := 0; i < 2; i++ {
		resp, _ := call(t, server, "POST", "/cart/items", client.AccessToken, map[string]int{"menu_item_id": 1, "quantity": 1})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp, body := call(t, server, "POST", "/orders", client.AccessToken, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var order domain.Order
		require.NoError(t, json.Unmarshal(body, &order))
		ids = append(ids, order.ID)
	}

	// One unknown id fails the whole batch.
	resp, _ := call(t, server, "PUT", "/admin/orders/status", staff.AccessToken, domain.BatchStatusUpdateRequest{
		OrderIDs: append(ids, 999), Status: domain.StatusInPreparation,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Both orders must still be PENDING.
	resp, body := call(t, server, "GET", "/admin/orders?status=PENDING", staff.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []domain.Order
	require.NoError(t, json.Unmarshal(body, &pending))
	assert.Len(t, pending, 2)

	resp, _ = call(t, server, "PUT", "/admin/orders/status", staff.AccessToken, domain.BatchStatusUpdateRequest{
		OrderIDs: ids, Status: domain.StatusInPreparation,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
