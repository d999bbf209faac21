package cache

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestKeyIsStable(t *testing.T) {
	a := Key("board", 5, 600.0, 600.0, 9)
	b := Key("board", 5, 600.0, 600.0, 9)
	c := Key("board", 4, 600.0, 600.0, 9)
	if a != b {
		t.Fatalf("expected identical keys, got %s and %s", a, b)
	}
	if a == c {
		t.Fatalf("expected different keys for different parts")
	}
	if Key("board", 5) == Key("board", 5.0) {
		t.Fatalf("expected int and float parts to differ")
	}
	if Key("board", math.NaN()) == Key("board") || Key("board", math.NaN()) == Key("board", math.Inf(1)) {
		t.Fatalf("expected non-finite parts to get their own keys")
	}
	if !strings.HasPrefix(a, "board:") || len(a) != len("board:")+64 {
		t.Fatalf("unexpected key format %s", a)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := DialRedis(ctx, mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", []byte("hello"), time.Minute); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "hello" {
		t.Fatalf("expected hello, got %q ok=%v err=%v", data, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected entry to expire")
	}

	if err := c.Set(ctx, "k2", []byte("x"), 0); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	if err := c.Delete(ctx, "k2"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k2"); ok {
		t.Fatalf("expected k2 deleted")
	}
}

func TestDialRedisFailure(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DialRedis(ctx, addr, "", 0); err == nil {
		t.Fatalf("expected dial error, got nil")
	}
}
