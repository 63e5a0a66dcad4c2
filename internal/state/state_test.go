package state_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"comanda-client/internal/api"
	"comanda-client/internal/domain"
	"comanda-client/internal/repository"
	"comanda-client/internal/state"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStateClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(api.Config{BaseURL: server.URL, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return client
}

// waitFor pumps snapshots until the predicate holds or the deadline hits.
func waitFor[S any](t *testing.T, snapshots <-chan S, pred func(S) bool) S {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case snap, open := <-snapshots:
			if !open {
				t.Fatal("snapshot channel closed before condition held")
			}
			if pred(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestOrdersStateReplacesSnapshotWholesale(t *testing.T) {
	client := newStateClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"customer_name":"alice","status":"PENDING","total":9.5}]`))
	})
	holder := state.NewOrdersState(repository.NewOrderRepository(client))
	defer holder.Close()

	snapshots := holder.Subscribe()
	holder.Load()

	snap := waitFor(t, snapshots, func(s state.OrdersSnapshot) bool {
		return !s.Loading && len(s.Orders) > 0
	})
	assert.Equal(t, "alice", snap.Orders[0].CustomerName)
	assert.Empty(t, snap.Error)

	current := holder.Snapshot()
	assert.Equal(t, snap.Orders, current.Orders)
}

func TestOrdersStateSurfacesErrorWithRetryAffordance(t *testing.T) {
	var calls atomic.Int32
	client := newStateClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"down"}`))
			return
		}
		w.Write([]byte(`[]`))
	})
	holder := state.NewOrdersState(repository.NewOrderRepository(client))
	defer holder.Close()

	snapshots := holder.Subscribe()
	holder.Load()

	snap := waitFor(t, snapshots, func(s state.OrdersSnapshot) bool {
		return !s.Loading && s.Error != ""
	})
	assert.Equal(t, api.MsgServerError, snap.Error)

	// The holder does not retry on its own; an explicit re-invoke clears it.
	holder.Load()
	snap = waitFor(t, snapshots, func(s state.OrdersSnapshot) bool {
		return !s.Loading && s.Error == ""
	})
	assert.Empty(t, snap.Orders)
}

func TestAdminSnapshotLocalCustomerSearch(t *testing.T) {
	snap := state.AdminOrdersSnapshot{
		Orders: []domain.Order{
			{ID: 1, CustomerName: "Alice Johnson"},
			{ID: 2, CustomerName: "Bob Smith"},
			{ID: 3, CustomerName: "alice cooper"},
		},
	}

	tests := []struct {
		name    string
		search  string
		wantIDs []int
	}{
		{name: "empty search returns all", search: "", wantIDs: []int{1, 2, 3}},
		{name: "case-insensitive substring", search: "ALICE", wantIDs: []int{1, 3}},
		{name: "no match", search: "zed", wantIDs: nil},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			snap.CustomerSearch = testCase.search
			visible := snap.Visible()
			var ids []int
			for _, o := range visible {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, testCase.wantIDs, ids)
		})
	}
}

func TestNextActionsAreAffordancesOnly(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		want   []domain.OrderStatus
	}{
		{status: domain.StatusPending, want: []domain.OrderStatus{domain.StatusInPreparation, domain.StatusCancelled}},
		{status: domain.StatusInPreparation, want: []domain.OrderStatus{domain.StatusReady}},
		{status: domain.StatusReady, want: []domain.OrderStatus{domain.StatusDelivered}},
		{status: domain.StatusDelivered, want: nil},
		{status: domain.StatusCancelled, want: nil},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, state.NextActions(testCase.status), string(testCase.status))
	}
}

// Two rapid updates against the same cart line are deliberately not
// coalesced: both requests go out and the last response wins. This pins the
// current behavior rather than endorsing it.
func TestCartStateDoesNotCoalesceRapidUpdates(t *testing.T) {
	var calls atomic.Int32
	client := newStateClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			calls.Add(1)
		}
		w.Write([]byte(`{"items":[{"id":1,"quantity":2}],"total":10}`))
	})
	holder := state.NewCartState(repository.NewCartRepository(client))
	defer holder.Close()

	snapshots := holder.Subscribe()
	holder.UpdateItem(1, 2)
	holder.UpdateItem(1, 3)

	waitFor(t, snapshots, func(s state.CartSnapshot) bool { return !s.Loading })
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond,
		"both updates must reach the server, unserialized")
}

func TestCloseCancelsInFlightWork(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := newStateClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte(`[]`))
	})
	holder := state.NewOrdersState(repository.NewOrderRepository(client))

	holder.Load()
	<-started
	holder.Close()
	close(release)

	// The cancelled call must surface as an error snapshot, not a panic.
	assert.Eventually(t, func() bool {
		snap := holder.Snapshot()
		return !snap.Loading
	}, 3*time.Second, 10*time.Millisecond)
}
