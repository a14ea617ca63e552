package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/testutils"
	wayhttp "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/deeplink"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/aretw0/wayfinder/pkg/requirement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app     *wayfinder.App
	store   *memory.Store
	metrics *observability.Metrics
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), metrics: observability.NewMetrics()}

	app, err := wayfinder.New([]wayfinder.Tab{
		{ID: "home", Title: "Home", Root: testutils.NewScreen("home")},
		{ID: "orders", Title: "Orders", Root: testutils.NewScreen("orders")},
	},
		wayfinder.WithAutoAcknowledge(),
		wayfinder.WithDeeplinkConfig(domain.DeeplinkConfig{AppScheme: "shop"}),
		wayfinder.WithLifecycleHooks(f.metrics.Hooks()),
		wayfinder.WithRequirements(requirement.NewFlag("login", f.store)),
		wayfinder.WithDeeplinkProviders(deeplink.NewProvider().
			AppScheme("order/"+deeplink.Param("id"), func(p deeplink.Parameters) domain.Destination {
				return testutils.NewScreen("order:" + p.Get("id"))
			}).
			AppScheme("account", func(deeplink.Parameters) domain.Destination {
				return testutils.NewScreen("account").Requiring("login")
			})),
	)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	f.app = app
	f.handler = wayhttp.NewHandler(app,
		wayhttp.WithStateStore(f.store),
		wayhttp.WithMetrics(f.metrics.Handler()),
	)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeTree(t *testing.T, w *httptest.ResponseRecorder) wayfinder.Snapshot {
	t.Helper()
	var snap wayfinder.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	return snap
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"wayfinder-http"`)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetTree(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/tree", "")

	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeTree(t, w)
	assert.Equal(t, domain.TabID("home"), snap.Selected)
	require.Len(t, snap.Tabs, 2)
	assert.Equal(t, "orders", snap.Tabs[1].Coordinator.Root.Destination)
}

func TestOpenDeeplinkAndBack(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/deeplink", `{"url":"shop://order/7"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decodeTree(t, w)
	require.NotNil(t, snap.Tabs[0].Coordinator.Presentation)
	assert.Equal(t, domain.PresentationSheet, snap.Tabs[0].Coordinator.Presentation.Presentation)
	assert.Equal(t, []string{"order:7"}, snap.Tabs[0].Coordinator.Top().Visible())

	w = f.do(t, http.MethodPost, "/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap = decodeTree(t, w)
	assert.Nil(t, snap.Tabs[0].Coordinator.Presentation)
}

func TestOpenDeeplink_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{`, http.StatusBadRequest},
		{"relative url", `{"url":"order/7"}`, http.StatusBadRequest},
		{"no route", `{"url":"shop://nowhere"}`, http.StatusNotFound},
		{"requirement failed", `{"url":"shop://account"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/deeplink", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := f.do(t, http.MethodPost, "/deeplink", `{"url":"shop://account"}`)
	var resp wayhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, domain.RequirementIdentifier("login"), resp.Requirement)
}

func TestSelectTab(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/tabs/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.TabID("orders"), decodeTree(t, w).Selected)

	w = f.do(t, http.MethodPost, "/tabs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectTab_RefusedByFinishCondition(t *testing.T) {
	f := newFixture(t)
	child, err := f.app.Navigate(context.Background(), testutils.NewScreen("editor"), domain.ByAction(domain.Presenting()))
	require.NoError(t, err)
	child.SetFinishCondition(func(context.Context) bool { return false })

	w := f.do(t, http.MethodPost, "/tabs/orders", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "dismissal refused")

	w = f.do(t, http.MethodGet, "/tree", "")
	assert.Equal(t, domain.TabID("home"), decodeTree(t, w).Selected)
}

func TestRequirements(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/requirements/login", `{"satisfied":true}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/requirements/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"login":true}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/deeplink", `{"url":"shop://account"}`)
	assert.Equal(t, http.StatusOK, w.Code, "satisfied requirements let the navigation through")

	w = f.do(t, http.MethodDelete, "/requirements/login", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	ok, err := f.store.IsSatisfied(context.Background(), "login")
	assert.False(t, ok)
	assert.Error(t, err)

	w = f.do(t, http.MethodPut, "/requirements/login", `nope`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequirements_NoStore(t *testing.T) {
	f := newFixture(t)
	handler := wayhttp.NewHandler(f.app)

	req := httptest.NewRequest(http.MethodGet, "/requirements/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/deeplink", `{"url":"shop://order/1"}`)

	w := f.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wayfinder_navigation_events_total{destination="order:1",type="presented"} 1`)
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?tab=home", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	post, err := http.Post(srv.URL+"/deeplink", "application/json", strings.NewReader(`{"url":"shop://order/9"}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	var event wayhttp.TreeEvent
	for lines.Scan() {
		data, ok := strings.CutPrefix(lines.Text(), "data: {")
		if !ok {
			continue
		}
		require.NoError(t, json.Unmarshal([]byte("{"+data), &event))
		break
	}
	assert.Equal(t, domain.TabID("home"), event.Tab)
	require.NotNil(t, event.Diff)
	require.NotNil(t, event.Diff.Presented)
	assert.Equal(t, "order:9", event.Diff.Presented.Root.Destination)
}

func TestPublish_SelectedTab(t *testing.T) {
	f := newFixture(t)
	s := wayhttp.NewServer(f.app)
	ch, unsubscribe := s.Streams.Subscribe("*")
	defer unsubscribe()

	_, err := f.app.SelectTab(context.Background(), "orders", false)
	require.NoError(t, err)
	s.Notify()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	select {
	case msg := <-ch:
		assert.JSONEq(t, `{"selected":"orders"}`, msg)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestSubscribeEvents_UnknownTab(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/events?tab=missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTreeHub_TabSubscribers(t *testing.T) {
	hub := wayhttp.NewTreeHub(logging.NewNop())
	all, unsubscribeAll := hub.Subscribe("")
	defer unsubscribeAll()
	orders, unsubscribeOrders := hub.Subscribe("orders")
	assert.Equal(t, 1, hub.Subscribers("orders"))

	hub.Publish(wayhttp.TreeEvent{Selected: "orders"})
	hub.Publish(wayhttp.TreeEvent{Tab: "home", Diff: &domain.SnapshotDiff{}})
	hub.Publish(wayhttp.TreeEvent{Tab: "orders", Diff: &domain.SnapshotDiff{}})

	assert.JSONEq(t, `{"selected":"orders"}`, <-all)
	assert.Contains(t, <-all, `"tab":"home"`)
	assert.Contains(t, <-all, `"tab":"orders"`)
	assert.Contains(t, <-orders, `"tab":"orders"`)
	assert.Empty(t, orders)

	unsubscribeOrders()
	unsubscribeOrders()
	assert.Zero(t, hub.Subscribers("orders"))
	_, open := <-orders
	assert.False(t, open)
}
