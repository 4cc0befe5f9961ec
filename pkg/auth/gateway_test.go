package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func gatewayHandler(cfg SecConfig) http.Handler {
	return AuthenticateRequestMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Role", r.Header.Get("X-Role-Name"))
		w.WriteHeader(http.StatusOK)
	}))
}

func testSecConfig() SecConfig {
	return SecConfig{
		RPS:          100,
		Burst:        100,
		BackendKeys:  map[string]struct{}{"bk": {}},
		FrontendKeys: map[string]struct{}{"fk": {}},
		AdminKeys:    map[string]struct{}{"ak": {}},
	}
}

func TestGatewayRolesFromAPIKey(t *testing.T) {
	h := gatewayHandler(testSecConfig())

	cases := []struct {
		key  string
		role string
	}{
		{"bk", "backend"},
		{"ak", "admin"},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
		r.Header.Set("X-API-Key", c.key)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("key %s: expected 200, got %d", c.key, w.Code)
		}
		if got := w.Header().Get("X-Seen-Role"); got != c.role {
			t.Fatalf("key %s: expected role %s, got %s", c.key, c.role, got)
		}
	}
}

func TestGatewayBearerToken(t *testing.T) {
	h := gatewayHandler(testSecConfig())
	r := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	r.Header.Set("Authorization", "Bearer bk")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK || w.Header().Get("X-Seen-Role") != "backend" {
		t.Fatalf("bearer auth failed: %d %s", w.Code, w.Header().Get("X-Seen-Role"))
	}
}

func TestGatewayRejectsMissingAndUnknownKeys(t *testing.T) {
	h := gatewayHandler(testSecConfig())

	r := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no key: expected 401, got %d", w.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	r2.Header.Set("X-API-Key", "bogus")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("unknown key: expected 401, got %d", w2.Code)
	}
}

func TestGatewayHealthBypass(t *testing.T) {
	h := gatewayHandler(testSecConfig())
	for _, path := range []string{"/healthz", "/readyz"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 without key, got %d", path, w.Code)
		}
	}
}

func TestGatewayIPWhitelist(t *testing.T) {
	cfg := testSecConfig()
	cfg.IPWhitelist = []string{"10.1.1.1"}
	h := gatewayHandler(cfg)

	r := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	r.RemoteAddr = "192.0.2.7:1234"
	r.Header.Set("X-API-Key", "bk")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-whitelisted ip, got %d", w.Code)
	}
}

func TestGatewayRateLimit(t *testing.T) {
	cfg := testSecConfig()
	cfg.RPS = 1
	cfg.Burst = 1
	h := gatewayHandler(cfg)

	ok := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	ok.Header.Set("X-API-Key", "bk")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, ok)
	if w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}

	again := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	again.Header.Set("X-API-Key", "bk")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, again)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", w2.Code)
	}
}

func TestFrontendScope(t *testing.T) {
	h := gatewayHandler(testSecConfig())

	allowed := httptest.NewRequest(http.MethodGet, "/v1/threads", nil)
	allowed.Header.Set("X-API-Key", "fk")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, allowed)
	if w.Code != http.StatusOK {
		t.Fatalf("frontend read should pass, got %d", w.Code)
	}

	// frontend keys cannot hit operator surfaces
	denied := httptest.NewRequest(http.MethodPut, "/v1/fees", nil)
	denied.Header.Set("X-API-Key", "fk")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, denied)
	if w2.Code != http.StatusForbidden {
		t.Fatalf("frontend fee write should 403, got %d", w2.Code)
	}

	// deletes are backend/admin territory, reactions excepted
	del := httptest.NewRequest(http.MethodDelete, "/v1/threads/general", nil)
	del.Header.Set("X-API-Key", "fk")
	w3 := httptest.NewRecorder()
	h.ServeHTTP(w3, del)
	if w3.Code != http.StatusForbidden {
		t.Fatalf("frontend thread delete should 403, got %d", w3.Code)
	}

	unreact := httptest.NewRequest(http.MethodDelete, "/v1/threads/general/posts/p1/reactions", nil)
	unreact.Header.Set("X-API-Key", "fk")
	w4 := httptest.NewRecorder()
	h.ServeHTTP(w4, unreact)
	if w4.Code != http.StatusOK {
		t.Fatalf("frontend unreact should pass the gateway, got %d", w4.Code)
	}
}
