package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/golang-jwt/jwt/v5"
)

var testIdentity = policy.Identity{ID: 42, Email: "alice@example.com", Role: models.RoleUser}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 24*time.Hour)

	token, expiresAt, err := svc.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if time.Until(expiresAt) <= 23*time.Hour {
		t.Errorf("Expected expiry about 24h ahead, got %v", expiresAt)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != testIdentity {
		t.Errorf("Expected %+v, got %+v", testIdentity, got)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("test-secret", 24*time.Hour)
	svc.now = fixedClock(issuedAt)

	token, _, err := svc.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"just issued", issuedAt, false},
		{"one minute before expiry", issuedAt.Add(24*time.Hour - time.Minute), false},
		{"at expiry", issuedAt.Add(24 * time.Hour), true},
		{"after expiry", issuedAt.Add(25 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.now = fixedClock(tt.at)
			_, err := svc.Verify(token)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, common.ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
			if err != nil && common.Message(err) != "invalid or expired token" {
				t.Errorf("Expected generic message, got %q", common.Message(err))
			}
			if err != nil && common.Cause(err) == nil {
				t.Error("Expected jwt cause to be kept for logging")
			}
		})
	}
}

func TestTokenService_RejectsTampering(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	token, _, _ := svc.Issue(testIdentity)

	other := NewTokenService("another-secret", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := svc.Verify(tampered); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for tampered token, got %v", err)
	}

	if _, err := svc.Verify("garbage"); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		ID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1})
	signed, _ := token.SignedString([]byte("test-secret"))

	if _, err := svc.Verify(signed); !errors.Is(err, common.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for token without exp, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "supersecret" {
		t.Error("Expected hash to differ from plaintext")
	}
	if !CheckPassword(hash, "supersecret") {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("Expected mismatched password to fail")
	}

	again, _ := HashPassword("supersecret")
	if again == hash {
		t.Error("Expected salted hashes to differ")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"ascii over 72 bytes", strings.Repeat("x", 73)},
		{"72 characters of two bytes each", strings.Repeat("é", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HashPassword(tt.password)
			if !errors.Is(err, common.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := HashPassword(strings.Repeat("é", 36)); err != nil {
		t.Errorf("Expected 72-byte password to hash, got %v", err)
	}
}
