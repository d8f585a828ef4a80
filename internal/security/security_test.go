package security

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	b, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if len(a) != 64 {
		t.Errorf("token length = %d, want 64", len(a))
	}
	if a == b {
		t.Error("two tokens should differ")
	}
}

func TestHashSessionID(t *testing.T) {
	raw := "0123456789abcdef"

	h1, err := HashSessionID(raw)
	if err != nil {
		t.Fatalf("HashSessionID() error = %v", err)
	}
	h2, err := HashSessionID(raw)
	if err != nil {
		t.Fatalf("HashSessionID() error = %v", err)
	}

	if h1 == raw {
		t.Error("hash should not equal the raw token")
	}
	if h1 == h2 {
		t.Error("hashing twice should produce different salts")
	}
	if !SessionMatches(h1, h1) {
		t.Error("stored hash should match itself")
	}
	if SessionMatches(h2, h1) {
		t.Error("a fresh re-hash must not match the stored hash")
	}
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	week := time.Now().Add(7 * 24 * time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := issuer.Issue("user-1", week)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		userID, err := issuer.Parse(token)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if userID != "user-1" {
			t.Errorf("Parse() = %q, want user-1", userID)
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, err := issuer.Issue("user-1", time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("Parse() error = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("clock past expiry", func(t *testing.T) {
		token, err := issuer.Issue("user-1", week)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		later := NewTokenIssuer("test-secret")
		later.now = func() time.Time { return week.Add(time.Minute) }
		if _, err := later.Parse(token); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("Parse() error = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other-secret").Issue("user-1", week)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}

		if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Parse() error = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := issuer.Parse("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Parse() error = %v, want ErrTokenInvalid", err)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}
	if removed := rl.Cleanup(); removed != 0 {
		t.Errorf("Cleanup() removed %d active visitors", removed)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{"forwarded chain behind proxy", map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}, "127.0.0.1:1234", true, "10.0.0.1"},
		{"real ip behind proxy", map[string]string{"X-Real-IP": "10.0.0.2"}, "127.0.0.1:1234", true, "10.0.0.2"},
		{"remote addr behind proxy", nil, "192.168.1.5:5555", true, "192.168.1.5"},
		{"forwarded header ignored without proxy", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "203.0.113.7:4000", false, "203.0.113.7"},
		{"real ip ignored without proxy", map[string]string{"X-Real-IP": "10.0.0.2"}, "203.0.113.7:4000", false, "203.0.113.7"},
		{"remote addr without port", nil, "203.0.113.7", false, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
