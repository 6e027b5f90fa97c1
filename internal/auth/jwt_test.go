package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/pantrypal/internal/model"
)

var member = &model.User{ID: 4, Username: "nina", Role: model.RoleMember}

func TestIssueAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, issued, err := IssueToken(secret, member, time.Now())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 4 || claims.Username != "nina" || claims.Role != model.RoleMember {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID != issued.ID || claims.ID == "" {
		t.Errorf("expected JTI %q, got %q", issued.ID, claims.ID)
	}
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	now := time.Now()
	_, a, _ := IssueToken("s", member, now)
	_, b, _ := IssueToken("s", member, now)
	if a.ID == b.ID {
		t.Error("expected distinct token IDs")
	}
}

func TestValidateTokenRejects(t *testing.T) {
	good, _, _ := IssueToken("secret1", member, time.Now())
	expired, _, _ := IssueToken("secret1", member, time.Now().Add(-TokenExpiry-time.Minute))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignStr, _ := foreign.SignedString([]byte("secret1"))

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "secret2", good},
		{"garbage", "secret1", "not-a-token"},
		{"expired", "secret1", expired},
		{"wrong issuer", "secret1", foreignStr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.secret, tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestIssueTokenExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, claims, err := IssueToken("s", member, now)
	if err != nil {
		t.Fatal(err)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(TokenExpiry)) {
		t.Errorf("expected expiry %v, got %v", now.Add(TokenExpiry), claims.ExpiresAt.Time)
	}

	if _, _, err := IssueToken("", member, now); err == nil {
		t.Error("expected error for empty secret")
	}
}
