package security

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCSRFTokenPerSession(t *testing.T) {
	g := NewCSRFGenerator([]byte("k"))

	token, err := g.GenerateToken("session-a")
	if err != nil {
		t.Fatal(err)
	}
	if !g.ValidateToken("session-a", token) {
		t.Error("token should validate for its own session")
	}
	if g.ValidateToken("session-b", token) {
		t.Error("token should not validate for another session")
	}
	if g.ValidateToken("session-a", "") {
		t.Error("empty token should not validate")
	}
	if _, err := g.GenerateToken(""); err == nil {
		t.Error("expected error for empty session ID")
	}

	other := NewCSRFGenerator([]byte("other"))
	if other.ValidateToken("session-a", token) {
		t.Error("token should not validate under another key")
	}
}

func TestDeriveKeys(t *testing.T) {
	keys, err := DeriveKeys("master")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys.CSRF) != 32 || len(keys.Sealing) != 32 {
		t.Fatalf("unexpected key sizes %d, %d", len(keys.CSRF), len(keys.Sealing))
	}
	if string(keys.CSRF) == string(keys.Sealing) {
		t.Error("purpose keys must differ")
	}

	again, _ := DeriveKeys("master")
	if string(again.Sealing) != string(keys.Sealing) {
		t.Error("derivation must be deterministic")
	}

	if _, err := DeriveKeys(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestTokenSealerRoundTrip(t *testing.T) {
	keys, _ := DeriveKeys("master")
	sealer, err := NewTokenSealer(keys.Sealing)
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := sealer.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	if err != nil {
		t.Fatal(err)
	}
	if sealed == "eyJhbGciOiJIUzI1NiJ9.payload.sig" {
		t.Fatal("sealed value must not be the plaintext")
	}

	opened, err := sealer.Open(sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened != "eyJhbGciOiJIUzI1NiJ9.payload.sig" {
		t.Errorf("Open() = %q", opened)
	}

	otherKeys, _ := DeriveKeys("other")
	other, _ := NewTokenSealer(otherKeys.Sealing)
	if _, err := other.Open(sealed); !errors.Is(err, ErrUnsealFailed) {
		t.Errorf("expected ErrUnsealFailed under another key, got %v", err)
	}
	if _, err := sealer.Open("!!not base64"); !errors.Is(err, ErrUnsealFailed) {
		t.Errorf("expected ErrUnsealFailed for garbage, got %v", err)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, false)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be blocked")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own budget")
	}

	unlimited := NewRateLimiter(0, time.Minute, false)
	for i := 0; i < 100; i++ {
		if !unlimited.Allow("1.2.3.4") {
			t.Fatal("a zero rate should never block")
		}
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.Header.Set("X-Real-IP", "198.51.100.7")

	tests := []struct {
		name       string
		trustProxy bool
		want       string
	}{
		{"headers ignored without a trusted proxy", false, "10.0.0.1"},
		{"first forwarded hop behind a trusted proxy", true, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)

	for i, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		r.Header.Set("X-Forwarded-For", forwarded)

		allowed := rl.Allow(rl.ClientIP(r))
		if i == 0 && !allowed {
			t.Fatal("first request should be allowed")
		}
		if i == 1 && allowed {
			t.Error("changing X-Forwarded-For must not reset the budget")
		}
	}
}

func TestCreateSessionCookieSecureFlag(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	cookie := CreateSessionCookie(r, "session_id", "abc", time.Now().Add(time.Hour))
	if cookie.Secure {
		t.Error("plain HTTP request should not get a Secure cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r.Header.Set("X-Forwarded-Proto", "https")
	if !CreateSessionCookie(r, "session_id", "abc", time.Now()).Secure {
		t.Error("HTTPS request should get a Secure cookie")
	}
}
