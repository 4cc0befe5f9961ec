package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"agoradb/pkg/config"
)

const signingKey = "backend-secret"

func sign(key, account string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(account))
	return hex.EncodeToString(mac.Sum(nil))
}

func withSigningKeys(t *testing.T) {
	t.Helper()
	config.SetRuntime(&config.RuntimeConfig{
		BackendKeys: map[string]struct{}{signingKey: {}},
		SigningKeys: map[string]struct{}{signingKey: {}},
	})
	t.Cleanup(func() { config.SetRuntime(nil) })
}

func echoAccount() (http.Handler, *string) {
	var got string
	h := RequireSignedAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = AccountFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &got
}

func TestSignedAccountAccepted(t *testing.T) {
	withSigningKeys(t)
	h, got := echoAccount()

	r := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r.Header.Set("X-Role-Name", "frontend")
	r.Header.Set("X-User-ID", "alice")
	r.Header.Set("X-User-Signature", sign(signingKey, "alice"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if *got != "alice" {
		t.Fatalf("expected alice in context, got %q", *got)
	}
}

func TestBadSignatureRejected(t *testing.T) {
	withSigningKeys(t)
	h, _ := echoAccount()

	r := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r.Header.Set("X-Role-Name", "frontend")
	r.Header.Set("X-User-ID", "alice")
	r.Header.Set("X-User-Signature", sign("wrong-key", "alice"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestFrontendMissingSignatureRejected(t *testing.T) {
	withSigningKeys(t)
	h, _ := echoAccount()

	r := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r.Header.Set("X-Role-Name", "frontend")
	r.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestBackendWithoutSignaturePassesThrough(t *testing.T) {
	withSigningKeys(t)
	h, got := echoAccount()

	r := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r.Header.Set("X-Role-Name", "backend")
	r.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// no signature means no verified account in context; handlers resolve
	// the caller from the header via ResolveCaller
	if *got != "" {
		t.Fatalf("expected empty context account, got %q", *got)
	}
}

func TestResolveCaller(t *testing.T) {
	withSigningKeys(t)

	// backend header fallback
	r := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r.Header.Set("X-Role-Name", "backend")
	r.Header.Set("X-User-ID", "bob")
	caller, status, _ := ResolveCaller(r)
	if status != 0 || caller != "bob" {
		t.Fatalf("backend resolve: caller=%q status=%d", caller, status)
	}

	// frontend without signature context gets 401
	r2 := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r2.Header.Set("X-Role-Name", "frontend")
	if _, status, _ := ResolveCaller(r2); status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}

	// backend with no account at all gets 400
	r3 := httptest.NewRequest(http.MethodPost, "/v1/threads", nil)
	r3.Header.Set("X-Role-Name", "backend")
	if _, status, _ := ResolveCaller(r3); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}
