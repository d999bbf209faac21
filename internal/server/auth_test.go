package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexboard/internal/config"
	"github.com/gravitas-games/hexboard/internal/network"
)

const testIssuer = "login.test"

func newKey(t *testing.T) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func sign(t *testing.T, key *ecdsa.PrivateKey, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims(userID int64) Claims {
	return Claims{
		UserID:    userID,
		Username:  "alice",
		Email:     "alice@example.com",
		Activated: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func jwtConfig(t *testing.T, pemData []byte) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "public.pem")
	if err := os.WriteFile(path, pemData, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	cfg := config.Default()
	cfg.JWT.Enabled = true
	cfg.JWT.Issuer = testIssuer
	cfg.JWT.PublicKeyPath = path
	return cfg
}

func TestValidateToken(t *testing.T) {
	key, pemData := newKey(t)
	otherKey, _ := newKey(t)
	cfg := jwtConfig(t, pemData)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	if err := mr.Set(cfg.Redis.BlacklistPrefix+"13", "1"); err != nil {
		t.Fatalf("seed blacklist: %v", err)
	}

	ctx := context.Background()
	v, err := NewJWTValidator(ctx, cfg, rdb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	viewer, err := v.ValidateToken(ctx, sign(t, key, validClaims(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if viewer.ID != "7" || viewer.Username != "alice" || viewer.Anonymous {
		t.Fatalf("unexpected viewer %+v", viewer)
	}

	expired := validClaims(7)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims(7)
	wrongIssuer.Issuer = "someone.else"
	inactive := validClaims(7)
	inactive.Activated = 0
	banned := validClaims(7)
	banned.Activated = -1
	noExpiry := validClaims(7)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"expired", sign(t, key, expired)},
		{"wrong issuer", sign(t, key, wrongIssuer)},
		{"inactive", sign(t, key, inactive)},
		{"banned", sign(t, key, banned)},
		{"no expiry", sign(t, key, noExpiry)},
		{"blacklisted", sign(t, key, validClaims(13))},
		{"wrong key", sign(t, otherKey, validClaims(7))},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.ValidateToken(ctx, tt.token); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestPublicKeyFromURL(t *testing.T) {
	key, pemData := newKey(t)
	keySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pemData)
	}))
	defer keySrv.Close()

	cfg := config.Default()
	cfg.JWT.Enabled = true
	cfg.JWT.Issuer = testIssuer
	cfg.JWT.PublicKeyURL = keySrv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err := NewJWTValidator(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := v.ValidateToken(ctx, sign(t, key, validClaims(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPublicKeyErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer failing.Close()

	cfg := config.Default()
	cfg.JWT.Enabled = true
	cfg.JWT.PublicKeyURL = failing.URL
	if _, err := NewJWTValidator(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for failing key endpoint, got nil")
	}

	cfg = jwtConfig(t, []byte("not pem"))
	if _, err := NewJWTValidator(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for invalid PEM, got nil")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"protocol header", func(r *http.Request) { r.Header.Set("Sec-WebSocket-Protocol", "access_token, abc") }, "abc"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer def") }, "def"},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=ghi" }, "ghi"},
		{"none", func(r *http.Request) {}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			tt.setup(r)
			if got := extractToken(r); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	key, pemData := newKey(t)
	_, ts := newTestServer(t, jwtConfig(t, pemData))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err == nil {
		t.Fatalf("expected handshake failure without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+sign(t, key, validClaims(42)))
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	defer ws.Close()

	var welcome network.WelcomePayload
	readMessage(t, ws, network.MsgTypeWelcome, &welcome)
	if welcome.ViewerID != "42" || welcome.Username != "alice" {
		t.Fatalf("unexpected welcome %+v", welcome)
	}
}
