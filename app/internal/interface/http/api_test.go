package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"example.com/shop-console/app/internal/infra/persistence/memory"
	"example.com/shop-console/app/internal/infra/shopapi"
	cartuc "example.com/shop-console/app/internal/usecase/cart"
	checkoutuc "example.com/shop-console/app/internal/usecase/checkout"
)

// testEnv wires the router against a fake shop backend and in-memory carts.
type testEnv struct {
	router   http.Handler
	backend  *http.ServeMux
	storage  *memory.CartStorage
	sessions *cartuc.Sessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := http.NewServeMux()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := shopapi.New(srv.URL + "/api")
	require.NoError(t, err)

	log, _ := logtest.NewNullLogger()
	storage := memory.NewCartStorage()
	sessions, err := cartuc.NewSessions(storage, log, 100)
	require.NoError(t, err)

	api := NewAPI(Dependencies{
		ShopClient:      client,
		Sessions:        sessions,
		CheckoutService: checkoutuc.NewService(client.Coupons, client.Orders, log),
		Storage:         storage,
		Logger:          log,
	})
	return &testEnv{
		router:   api.Router(),
		backend:  backend,
		storage:  storage,
		sessions: sessions,
	}
}

// serve registers a canned JSON answer on the fake backend.
func (e *testEnv) serve(pattern string, status int, body string) {
	e.backend.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == defaultSessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", defaultSessionCookie)
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["storage"])

	log, _ := logtest.NewNullLogger()
	api := NewAPI(Dependencies{Storage: failingPinger{}, Logger: log, ShopClient: mustClient(t)})
	rec = httptest.NewRecorder()
	api.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decodeBody(t, rec)["status"])
}

func mustClient(t *testing.T) *shopapi.Client {
	t.Helper()
	c, err := shopapi.New("http://127.0.0.1:1/api")
	require.NoError(t, err)
	return c
}

func TestListRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/routes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []Route `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, len(routes))
	require.Equal(t, Route{Name: "home", Path: "/", Area: AreaPublic}, resp.Data[0])

	names := map[string]bool{}
	for _, r := range resp.Data {
		require.False(t, names[r.Name], "duplicate route name %s", r.Name)
		names[r.Name] = true
	}
	require.True(t, names["admin-goods-receipts-form"])
}

func TestSessionMiddleware(t *testing.T) {
	env := newTestEnv(t)

	t.Run("issues cookie on first visit", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/cart", nil)
		c := sessionCookie(t, rec)
		require.True(t, c.HttpOnly)
		require.Equal(t, "/", c.Path)
		require.Len(t, c.Value, 36)
	})

	t.Run("keeps a valid cookie", func(t *testing.T) {
		first := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))
		rec := env.do(t, http.MethodGet, "/api/cart", nil, first)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("replaces a forged cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/cart", nil, &http.Cookie{Name: "sid", Value: "../../etc"})
		require.NotEqual(t, "../../etc", sessionCookie(t, rec).Value)
	})
}

func TestHandleDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &shopapi.APIError{StatusCode: 404}, http.StatusNotFound},
		{"bad request", &shopapi.APIError{StatusCode: 400}, http.StatusUnprocessableEntity},
		{"empty cart", checkoutuc.ErrEmptyCart, http.StatusUnprocessableEntity},
		{"expired coupon", checkoutuc.ErrCouponExpired, http.StatusUnprocessableEntity},
		{"upstream failure", &shopapi.APIError{StatusCode: 500}, http.StatusBadGateway},
		{"transport", errors.New("dial tcp: connection refused"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleDomainError(rec, tt.err)
			require.Equal(t, tt.want, rec.Code)
			require.Contains(t, decodeBody(t, rec), "error")
		})
	}
}
