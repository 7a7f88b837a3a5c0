package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"

	hash1 := hashIP(ip)
	hash2 := hashIP(ip)

	if hash1 != hash2 {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv4 localhost", "127.0.0.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			// hashIP uses first 8 bytes of SHA256, encoded as 16 hex chars
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip1  string
		ip2  string
	}{
		{"different IPv4", "192.168.1.1", "192.168.1.2"},
		{"different last octet", "10.0.0.1", "10.0.0.2"},
		{"IPv4 vs IPv6", "127.0.0.1", "::1"},
		{"public vs private", "8.8.8.8", "192.168.1.1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash1 := hashIP(tt.ip1)
			hash2 := hashIP(tt.ip2)

			if hash1 == hash2 {
				t.Errorf("Different IPs should produce different hashes: %q and %q both produced %s", tt.ip1, tt.ip2, hash1)
			}
		})
	}
}

func TestCashCardKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   int64
		want string
	}{
		{1, "cashcard:1"},
		{99, "cashcard:99"},
		{9223372036854775807, "cashcard:9223372036854775807"},
	}

	for _, tt := range tests {
		if got := cashCardKey(tt.id); got != tt.want {
			t.Errorf("cashCardKey(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNewWithClient_Options(t *testing.T) {
	t.Parallel()

	c := NewWithClient(nil)
	if c.cardTTL != DefaultCashCardTTL || c.negativeTTL != NegativeCacheTTL {
		t.Errorf("expected default TTLs, got %v / %v", c.cardTTL, c.negativeTTL)
	}

	c = NewWithClient(nil, WithCashCardTTL(time.Hour), WithNegativeTTL(5*time.Second))
	if c.cardTTL != time.Hour {
		t.Errorf("cardTTL = %v, want 1h", c.cardTTL)
	}
	if c.negativeTTL != 5*time.Second {
		t.Errorf("negativeTTL = %v, want 5s", c.negativeTTL)
	}

	c = NewWithClient(nil, WithCashCardTTL(0), WithNegativeTTL(-time.Second))
	if c.cardTTL != DefaultCashCardTTL || c.negativeTTL != NegativeCacheTTL {
		t.Errorf("non-positive TTLs should be ignored, got %v / %v", c.cardTTL, c.negativeTTL)
	}
}

func TestNoop_AlwaysMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var c Noop

	if _, err := c.GetCashCard(ctx, 1); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
	if neg, err := c.IsNegativelyCached(ctx, 1); err != nil || neg {
		t.Errorf("expected (false, nil), got (%v, %v)", neg, err)
	}
}
